package agent

import (
	"fmt"
	"sort"

	"github.com/nstehr/tidepool/model"
)

// EventKind identifies a notable change between two consecutive turns.
type EventKind string

const (
	EventShipSpawned      EventKind = "ship_spawned"
	EventShipLost         EventKind = "ship_lost"
	EventDropoffBuilt     EventKind = "dropoff_built"
	EventPhaseTransition  EventKind = "phase_transition"
	EventEnemyDropoffSeen EventKind = "enemy_dropoff_seen"
)

// Event is detected by diffing consecutive turn snapshots. Events are
// logged and written to the replay so a game can be reviewed afterwards.
type Event struct {
	Kind   EventKind `json:"kind"`
	Turn   int       `json:"turn"`
	Detail string    `json:"detail"`
}

// stateSnapshot captures the diffable fields of a turn.
type stateSnapshot struct {
	shipIDs      map[model.ShipID]bool
	dropoffIDs   map[model.DropoffID]bool
	enemyDropoff map[model.DropoffID]bool
	phase        string
}

// gamePhase splits the game into thirds by turn.
func gamePhase(g *model.Game) string {
	if g.Constants.MaxTurns <= 0 {
		return "Early Game"
	}
	switch frac := float64(g.Turn) / float64(g.Constants.MaxTurns); {
	case frac >= 2.0/3.0:
		return "Late Game"
	case frac >= 1.0/3.0:
		return "Mid Game"
	}
	return "Early Game"
}

func takeSnapshot(g *model.Game) stateSnapshot {
	s := stateSnapshot{
		shipIDs:      make(map[model.ShipID]bool),
		dropoffIDs:   make(map[model.DropoffID]bool),
		enemyDropoff: make(map[model.DropoffID]bool),
		phase:        gamePhase(g),
	}
	me := g.Me()
	for _, id := range me.ShipIDs {
		s.shipIDs[id] = true
	}
	for _, id := range me.DropoffIDs {
		s.dropoffIDs[id] = true
	}
	for id, d := range g.Dropoffs {
		if d.Owner != g.MyID {
			s.enemyDropoff[id] = true
		}
	}
	return s
}

// detectEvents compares the current game against the previous snapshot.
// Returns nil on the first turn.
func detectEvents(g *model.Game, prev *stateSnapshot) []Event {
	if prev == nil {
		return nil
	}
	cur := takeSnapshot(g)
	var events []Event

	for _, id := range sortedKeys(prev.shipIDs) {
		if !cur.shipIDs[id] {
			events = append(events, Event{Kind: EventShipLost, Turn: g.Turn, Detail: fmt.Sprintf("ship %d lost", id)})
		}
	}
	for _, id := range sortedKeys(cur.shipIDs) {
		if !prev.shipIDs[id] {
			events = append(events, Event{Kind: EventShipSpawned, Turn: g.Turn, Detail: fmt.Sprintf("ship %d spawned", id)})
		}
	}
	for _, id := range sortedKeys(cur.dropoffIDs) {
		if !prev.dropoffIDs[id] {
			d := g.Dropoffs[id]
			events = append(events, Event{Kind: EventDropoffBuilt, Turn: g.Turn, Detail: fmt.Sprintf("dropoff %d built at %s", id, d.Position)})
		}
	}
	for _, id := range sortedKeys(cur.enemyDropoff) {
		if !prev.enemyDropoff[id] {
			d := g.Dropoffs[id]
			events = append(events, Event{Kind: EventEnemyDropoffSeen, Turn: g.Turn, Detail: fmt.Sprintf("player %d dropoff at %s", d.Owner, d.Position)})
		}
	}
	if cur.phase != prev.phase {
		events = append(events, Event{Kind: EventPhaseTransition, Turn: g.Turn, Detail: prev.phase + " -> " + cur.phase})
	}
	return events
}

func sortedKeys[K ~int](m map[K]bool) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
