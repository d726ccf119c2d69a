package agent

import "fmt"

// ShipStatus is what a ship is currently trying to do. The set is closed:
// Exploring, Returning, RushReturn and BuildingDropoff are the only values.
type ShipStatus interface {
	isShipStatus()
	String() string
}

// Exploring ships collect halite and wander toward richer cells.
type Exploring struct{}

// Returning ships carry a full load to the nearest drop point.
type Returning struct{}

// RushReturn ships head home for the end of the game and stay there.
type RushReturn struct{}

// BuildingDropoff ships travel to candidate site Site and convert into a dropoff.
type BuildingDropoff struct {
	Site int
}

func (Exploring) isShipStatus()       {}
func (Returning) isShipStatus()       {}
func (RushReturn) isShipStatus()      {}
func (BuildingDropoff) isShipStatus() {}

func (Exploring) String() string         { return "exploring" }
func (Returning) String() string         { return "returning" }
func (RushReturn) String() string        { return "rush-return" }
func (b BuildingDropoff) String() string { return fmt.Sprintf("dropoff-%d", b.Site) }

// shipFacts are the inputs to a status transition.
type shipFacts struct {
	cargo        int
	maxHalite    int
	returnMargin int
	turnsLeft    int
	mapHeight    int
	onDropPoint  bool
}

// nextStatus applies the transition table. Dropoff assignment and
// abandonment are driven by the planner, not by these facts.
func nextStatus(cur ShipStatus, f shipFacts) ShipStatus {
	if _, ok := cur.(RushReturn); ok {
		return cur
	}
	if f.turnsLeft <= f.mapHeight {
		return RushReturn{}
	}
	switch cur.(type) {
	case Returning:
		if f.onDropPoint {
			return Exploring{}
		}
	case Exploring:
		if f.cargo >= f.maxHalite-f.returnMargin {
			return Returning{}
		}
	}
	return cur
}
