package rules

import "github.com/nstehr/tidepool/model"

// RuleEnv wraps the game snapshot and exposes helper methods callable from
// expr conditions.
type RuleEnv struct {
	Game      *model.Game
	Spent     int  // halite already committed this turn
	Sites     int  // candidate sites chosen at game start
	SitesLeft int  // candidate sites not yet built on
	Building  bool // a ship is already heading to build a dropoff
}

func (e RuleEnv) Turn() int      { return e.Game.Turn }
func (e RuleEnv) TurnsLeft() int { return e.Game.TurnsLeft() }

// Halite is the bank minus anything already spent this turn.
func (e RuleEnv) Halite() int { return e.Game.Me().Halite - e.Spent }

func (e RuleEnv) ShipCost() int    { return e.Game.Constants.ShipCost }
func (e RuleEnv) DropoffCost() int { return e.Game.Constants.DropoffCost }
func (e RuleEnv) MaxHalite() int   { return e.Game.Constants.MaxHalite }

func (e RuleEnv) ShipCount() int    { return len(e.Game.Me().ShipIDs) }
func (e RuleEnv) DropoffCount() int { return len(e.Game.Me().DropoffIDs) }

// ShipyardHasShip reports whether a ship sits on, or has claimed, the
// shipyard cell this turn. Spawning onto it would collide.
func (e RuleEnv) ShipyardHasShip() bool {
	return e.Game.Map.AtEntity(&e.Game.Me().Shipyard).HasShip()
}

func (e RuleEnv) MapWidth() int  { return e.Game.Map.Width }
func (e RuleEnv) MapHeight() int { return e.Game.Map.Height }

func (e RuleEnv) PlannedSites() int       { return e.Sites }
func (e RuleEnv) SitesRemaining() int     { return e.SitesLeft }
func (e RuleEnv) DropoffInProgress() bool { return e.Building }
