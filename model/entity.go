package model

// PlayerID, ShipID and DropoffID are engine-assigned ids. Ship and dropoff
// ids are unique across all players.
type PlayerID int

type ShipID int

type DropoffID int

// NoShip marks an empty occupant slot.
const NoShip ShipID = -1

// Entity is anything that sits on a map cell.
type Entity interface {
	Pos() Position
}

// Ship is one player's ship as of the current frame. Halite is its cargo.
type Ship struct {
	Owner    PlayerID `json:"owner"`
	ID       ShipID   `json:"id"`
	Position Position `json:"position"`
	Halite   int      `json:"halite"`
}

func (s *Ship) Pos() Position { return s.Position }

// IsFull reports whether the ship carries at least maxHalite.
func (s *Ship) IsFull(maxHalite int) bool { return s.Halite >= maxHalite }

// Dropoff is a secondary base built by converting a ship.
type Dropoff struct {
	Owner    PlayerID  `json:"owner"`
	ID       DropoffID `json:"id"`
	Position Position  `json:"position"`
}

func (d *Dropoff) Pos() Position { return d.Position }

// Shipyard is the player's home base. Every player has exactly one.
type Shipyard struct {
	Owner    PlayerID `json:"owner"`
	Position Position `json:"position"`
}

func (s *Shipyard) Pos() Position { return s.Position }

// Player is one participant: bank, base, and the ids of what it owns.
type Player struct {
	ID         PlayerID
	Shipyard   Shipyard
	Halite     int
	ShipIDs    []ShipID
	DropoffIDs []DropoffID
}
