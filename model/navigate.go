package model

// NaiveNavigate picks the first direction from UnsafeMoves whose target cell
// is free and reserves that cell for ship. It never searches around obstacles:
// if every candidate is blocked the ship stays Still and nothing is reserved.
func (m *GameMap) NaiveNavigate(ship *Ship, destination Position) Direction {
	for _, d := range m.UnsafeMoves(ship.Position, destination) {
		target := m.At(ship.Position.DirectionalOffset(d))
		if !target.IsOccupied() {
			target.MarkUnsafe(ship.ID)
			return d
		}
	}
	return Still
}
