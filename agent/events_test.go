package agent

import (
	"testing"

	"github.com/nstehr/tidepool/model"
)

// baseGame returns a two-player game at the given turn with ships 1 and 2
// and no dropoffs.
func baseGame(turn int) *model.Game {
	rows := make([][]int, 8)
	for y := range rows {
		rows[y] = make([]int, 8)
	}
	players := []*model.Player{
		{ID: 0, Shipyard: model.Shipyard{Owner: 0, Position: model.Position{X: 2, Y: 2}}, ShipIDs: []model.ShipID{1, 2}},
		{ID: 1, Shipyard: model.Shipyard{Owner: 1, Position: model.Position{X: 6, Y: 6}}},
	}
	g := model.NewGame(model.Constants{MaxTurns: 300}, 0, players, model.NewGameMap(8, 8, rows))
	g.Ships[1] = &model.Ship{Owner: 0, ID: 1, Position: model.Position{X: 3, Y: 2}}
	g.Ships[2] = &model.Ship{Owner: 0, ID: 2, Position: model.Position{X: 2, Y: 3}}
	g.Turn = turn
	return g
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestDetectEvents_NoEvents(t *testing.T) {
	g := baseGame(10)
	prev := takeSnapshot(g)

	g.Turn = 11
	if events := detectEvents(g, &prev); len(events) != 0 {
		t.Errorf("expected 0 events, got %d: %+v", len(events), events)
	}
}

func TestDetectEvents_NilPrev(t *testing.T) {
	if events := detectEvents(baseGame(10), nil); events != nil {
		t.Errorf("expected nil events for nil prev, got %+v", events)
	}
}

func TestDetectEvents_ShipsSpawnedAndLost(t *testing.T) {
	g := baseGame(10)
	prev := takeSnapshot(g)

	g.Turn = 11
	delete(g.Ships, 1)
	g.Ships[4] = &model.Ship{Owner: 0, ID: 4, Position: model.Position{X: 2, Y: 2}}
	g.Ships[3] = &model.Ship{Owner: 0, ID: 3, Position: model.Position{X: 1, Y: 2}}
	g.Me().ShipIDs = []model.ShipID{2, 4, 3}

	events := detectEvents(g, &prev)
	want := []Event{
		{Kind: EventShipLost, Turn: 11, Detail: "ship 1 lost"},
		{Kind: EventShipSpawned, Turn: 11, Detail: "ship 3 spawned"},
		{Kind: EventShipSpawned, Turn: 11, Detail: "ship 4 spawned"},
	}
	if len(events) != len(want) {
		t.Fatalf("events = %+v, want %+v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestDetectEvents_DropoffBuilt(t *testing.T) {
	g := baseGame(10)
	prev := takeSnapshot(g)

	g.Turn = 11
	g.Dropoffs[7] = &model.Dropoff{Owner: 0, ID: 7, Position: model.Position{X: 5, Y: 1}}
	g.Me().DropoffIDs = []model.DropoffID{7}

	events := detectEvents(g, &prev)
	if len(events) != 1 || events[0].Kind != EventDropoffBuilt {
		t.Fatalf("expected one dropoff_built event, got %+v", events)
	}
	if want := "dropoff 7 built at (5, 1)"; events[0].Detail != want {
		t.Errorf("detail = %q, want %q", events[0].Detail, want)
	}
}

func TestDetectEvents_EnemyDropoffSeen(t *testing.T) {
	g := baseGame(10)
	prev := takeSnapshot(g)

	g.Turn = 11
	g.Dropoffs[9] = &model.Dropoff{Owner: 1, ID: 9, Position: model.Position{X: 6, Y: 1}}
	g.Players[1].DropoffIDs = []model.DropoffID{9}

	events := detectEvents(g, &prev)
	if len(events) != 1 || events[0].Kind != EventEnemyDropoffSeen {
		t.Fatalf("expected one enemy_dropoff_seen event, got %+v", events)
	}
	if want := "player 1 dropoff at (6, 1)"; events[0].Detail != want {
		t.Errorf("detail = %q, want %q", events[0].Detail, want)
	}

	// Already known: not reported again.
	prev = takeSnapshot(g)
	g.Turn = 12
	if events := detectEvents(g, &prev); len(events) != 0 {
		t.Errorf("expected no repeat events, got %+v", events)
	}
}

func TestDetectEvents_PhaseTransition(t *testing.T) {
	g := baseGame(99)
	prev := takeSnapshot(g)

	g.Turn = 100
	events := detectEvents(g, &prev)
	if got := kinds(events); len(got) != 1 || got[0] != EventPhaseTransition {
		t.Fatalf("kinds = %v, want [phase_transition]", got)
	}
	if want := "Early Game -> Mid Game"; events[0].Detail != want {
		t.Errorf("detail = %q, want %q", events[0].Detail, want)
	}
}

func TestGamePhase(t *testing.T) {
	tests := []struct {
		turn, maxTurns int
		want           string
	}{
		{1, 300, "Early Game"},
		{99, 300, "Early Game"},
		{100, 300, "Mid Game"},
		{199, 300, "Mid Game"},
		{200, 300, "Late Game"},
		{300, 300, "Late Game"},
		{50, 0, "Early Game"},
	}
	for _, tc := range tests {
		g := baseGame(tc.turn)
		g.Constants.MaxTurns = tc.maxTurns
		if got := gamePhase(g); got != tc.want {
			t.Errorf("gamePhase(turn %d of %d) = %q, want %q", tc.turn, tc.maxTurns, got, tc.want)
		}
	}
}
