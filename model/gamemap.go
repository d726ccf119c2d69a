package model

// Structure marks a cell permanently blocked by a base.
type Structure byte

const (
	NoStructure       Structure = 0
	ShipyardStructure Structure = 1 // a player's home base
	DropoffStructure  Structure = 2 // a secondary base
)

// Cell is a single map square. Cells are owned by the GameMap and identified
// by their position; they are mutated in place, never reallocated.
type Cell struct {
	Position  Position
	Halite    int
	Ship      ShipID // NoShip when nobody has claimed the cell this turn
	Structure Structure
}

// IsOccupied reports whether a ship has claimed the cell or a base sits on it.
func (c *Cell) IsOccupied() bool {
	return c.Ship != NoShip || c.Structure != NoStructure
}

// HasShip reports whether a ship has claimed the cell, ignoring structures.
func (c *Cell) HasShip() bool { return c.Ship != NoShip }

// MarkUnsafe reserves the cell for id until the next map update.
func (c *Cell) MarkUnsafe(id ShipID) { c.Ship = id }

// CellUpdate is one sparse halite overwrite from the per-turn frame.
type CellUpdate struct {
	X      int
	Y      int
	Halite int
}

// GameMap is the toroidal halite grid. Width and Height never change after
// construction; any integer position maps to exactly one cell.
type GameMap struct {
	Width  int
	Height int
	Forage ForageParams
	cells  []Cell // row-major: cells[y*Width + x]
}

// NewGameMap builds the grid from the initial snapshot, halite[y][x].
// The caller guarantees positive dimensions and complete rows.
func NewGameMap(width, height int, halite [][]int) *GameMap {
	m := &GameMap{
		Width:  width,
		Height: height,
		Forage: DefaultForageParams(),
		cells:  make([]Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := &m.cells[y*width+x]
			c.Position = Position{X: x, Y: y}
			c.Ship = NoShip
			if y < len(halite) && x < len(halite[y]) {
				c.Halite = halite[y][x]
			}
		}
	}
	return m
}

// At returns the cell at p after wrapping it onto the map.
func (m *GameMap) At(p Position) *Cell {
	n := m.Normalize(p)
	return &m.cells[n.Y*m.Width+n.X]
}

// AtEntity returns the cell under e.
func (m *GameMap) AtEntity(e Entity) *Cell {
	return m.At(e.Pos())
}

// Normalize wraps p into [0, Width) x [0, Height) using floored modulo.
func (m *GameMap) Normalize(p Position) Position {
	return Position{
		X: ((p.X % m.Width) + m.Width) % m.Width,
		Y: ((p.Y % m.Height) + m.Height) % m.Height,
	}
}

// Distance is the Manhattan distance on the torus.
func (m *GameMap) Distance(a, b Position) int {
	na := m.Normalize(a)
	nb := m.Normalize(b)
	dx := abs(na.X - nb.X)
	dy := abs(na.Y - nb.Y)
	return min(dx, m.Width-dx) + min(dy, m.Height-dy)
}

// UnsafeMoves returns the directions that bring src closer to dst along the
// shorter wrap of each axis, horizontal first. Occupancy is not checked.
// On an exact half-map tie the move is East (or South).
func (m *GameMap) UnsafeMoves(src, dst Position) []Direction {
	ns := m.Normalize(src)
	nd := m.Normalize(dst)

	dx := abs(ns.X - nd.X)
	dy := abs(ns.Y - nd.Y)
	wrappedDx := m.Width - dx
	wrappedDy := m.Height - dy

	moves := make([]Direction, 0, 2)

	switch {
	case ns.X < nd.X:
		if dx > wrappedDx {
			moves = append(moves, West)
		} else {
			moves = append(moves, East)
		}
	case ns.X > nd.X:
		if dx < wrappedDx {
			moves = append(moves, West)
		} else {
			moves = append(moves, East)
		}
	}

	switch {
	case ns.Y < nd.Y:
		if dy > wrappedDy {
			moves = append(moves, North)
		} else {
			moves = append(moves, South)
		}
	case ns.Y > nd.Y:
		if dy < wrappedDy {
			moves = append(moves, North)
		} else {
			moves = append(moves, South)
		}
	}

	return moves
}

// ClearOccupancy empties every occupant slot. Structures are kept.
func (m *GameMap) ClearOccupancy() {
	for i := range m.cells {
		m.cells[i].Ship = NoShip
	}
}

// Update starts a new turn: occupancy is cleared and only the listed cells
// have their halite overwritten.
func (m *GameMap) Update(updates []CellUpdate) {
	m.ClearOccupancy()
	for _, u := range updates {
		m.At(Position{X: u.X, Y: u.Y}).Halite = u.Halite
	}
}

// TotalHalite sums halite over the whole map.
func (m *GameMap) TotalHalite() int {
	total := 0
	for i := range m.cells {
		total += m.cells[i].Halite
	}
	return total
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
