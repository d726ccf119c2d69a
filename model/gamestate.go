package model

import "sort"

// Constants is the engine configuration sent as JSON on the first input line.
type Constants struct {
	MaxHalite               int     `json:"MAX_HALITE"`
	ShipCost                int     `json:"NEW_ENTITY_ENERGY_COST"`
	DropoffCost             int     `json:"DROPOFF_COST"`
	MaxTurns                int     `json:"MAX_TURNS"`
	ExtractRatio            int     `json:"EXTRACT_RATIO"`
	MoveCostRatio           int     `json:"MOVE_COST_RATIO"`
	InspirationEnabled      bool    `json:"INSPIRATION_ENABLED"`
	InspirationRadius       int     `json:"INSPIRATION_RADIUS"`
	InspirationShipCount    int     `json:"INSPIRATION_SHIP_COUNT"`
	InspiredExtractRatio    int     `json:"INSPIRED_EXTRACT_RATIO"`
	InspiredBonusMultiplier float64 `json:"INSPIRED_BONUS_MULTIPLIER"`
	InspiredMoveCostRatio   int     `json:"INSPIRED_MOVE_COST_RATIO"`
	GameSeed                int64   `json:"game_seed"`
}

// Game is the full snapshot for the current turn. The Map is owned here and
// mutated in place by navigation during the turn.
type Game struct {
	Constants Constants
	MyID      PlayerID
	Turn      int
	Players   map[PlayerID]*Player
	Ships     map[ShipID]*Ship
	Dropoffs  map[DropoffID]*Dropoff
	Map       *GameMap
}

func NewGame(c Constants, myID PlayerID, players []*Player, m *GameMap) *Game {
	g := &Game{
		Constants: c,
		MyID:      myID,
		Players:   make(map[PlayerID]*Player, len(players)),
		Ships:     make(map[ShipID]*Ship),
		Dropoffs:  make(map[DropoffID]*Dropoff),
		Map:       m,
	}
	for _, p := range players {
		g.Players[p.ID] = p
	}
	g.MarkEntities()
	return g
}

func (g *Game) Me() *Player { return g.Players[g.MyID] }

func (g *Game) TurnsLeft() int { return g.Constants.MaxTurns - g.Turn }

// MyShips returns the player's ships ordered by id, the order in which
// they claim cells each turn.
func (g *Game) MyShips() []*Ship {
	me := g.Me()
	if me == nil {
		return nil
	}
	out := make([]*Ship, 0, len(me.ShipIDs))
	for _, id := range me.ShipIDs {
		if s, ok := g.Ships[id]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DropPoints returns the positions where the player can deposit halite:
// the shipyard first, then dropoffs by id.
func (g *Game) DropPoints() []Position {
	me := g.Me()
	if me == nil {
		return nil
	}
	ids := append([]DropoffID(nil), me.DropoffIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []Position{me.Shipyard.Position}
	for _, id := range ids {
		if d, ok := g.Dropoffs[id]; ok {
			out = append(out, d.Position)
		}
	}
	return out
}

// ClosestDropPoint returns the nearest drop point to p. Ties keep the
// earlier entry of DropPoints.
func (g *Game) ClosestDropPoint(p Position) Position {
	points := g.DropPoints()
	best := points[0]
	bestDist := g.Map.Distance(p, best)
	for _, dp := range points[1:] {
		if d := g.Map.Distance(p, dp); d < bestDist {
			best, bestDist = dp, d
		}
	}
	return best
}

// IsDropPoint reports whether p is one of the player's drop points.
func (g *Game) IsDropPoint(p Position) bool {
	n := g.Map.Normalize(p)
	for _, dp := range g.DropPoints() {
		if g.Map.Normalize(dp) == n {
			return true
		}
	}
	return false
}

// MarkEntities stamps every base onto its cell and reserves every ship's
// current cell. Called after each map update.
func (g *Game) MarkEntities() {
	for _, p := range g.Players {
		g.Map.At(p.Shipyard.Position).Structure = ShipyardStructure
	}
	for _, d := range g.Dropoffs {
		g.Map.At(d.Position).Structure = DropoffStructure
	}
	for _, s := range g.Ships {
		g.Map.AtEntity(s).MarkUnsafe(s.ID)
	}
}
