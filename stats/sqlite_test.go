package stats

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/nstehr/tidepool/agent"
	"github.com/nstehr/tidepool/ipc"
)

func TestIndex_RecordTurns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats", "games.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	game := Game{ID: "g-1", Bot: "tidepool", PlayerID: 1, Players: 2, Width: 32, Height: 32, Seed: 42, MaxTurns: 400}
	if err := idx.StartGame(game); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	idx.RecordTurn("g-1", agent.TurnSummary{
		Turn:     1,
		Halite:   5000,
		Ships:    0,
		Statuses: map[string]int{},
		Fired:    []string{"spawn-ship"},
		Commands: []ipc.Command{"g"},
	})
	idx.RecordTurn("g-1", agent.TurnSummary{
		Turn:     2,
		Halite:   4000,
		Ships:    1,
		Statuses: map[string]int{"exploring": 1},
		Events: []agent.Event{
			{Kind: agent.EventShipSpawned, Turn: 2, Detail: "ship 0 spawned"},
		},
		Commands: []ipc.Command{"m 0 n"},
	})
	if err := idx.FinishGame("g-1"); err != nil {
		t.Fatalf("FinishGame: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		finalTurn, finalHalite int
		finished               sql.NullString
	)
	row := db.QueryRow(`SELECT final_turn,final_halite,finished_at FROM games WHERE game_id='g-1'`)
	if err := row.Scan(&finalTurn, &finalHalite, &finished); err != nil {
		t.Fatalf("Scan game: %v", err)
	}
	if finalTurn != 2 || finalHalite != 4000 || !finished.Valid {
		t.Fatalf("game row mismatch: turn=%d halite=%d finished=%v", finalTurn, finalHalite, finished)
	}

	var turns int
	if err := db.QueryRow(`SELECT COUNT(*) FROM turns WHERE game_id='g-1'`).Scan(&turns); err != nil {
		t.Fatalf("Scan turns: %v", err)
	}
	if turns != 2 {
		t.Errorf("turns = %d, want 2", turns)
	}

	var fired string
	if err := db.QueryRow(`SELECT fired_json FROM turns WHERE game_id='g-1' AND turn=1`).Scan(&fired); err != nil {
		t.Fatalf("Scan fired: %v", err)
	}
	if fired != `["spawn-ship"]` {
		t.Errorf("fired_json = %s, want [\"spawn-ship\"]", fired)
	}

	var kind, detail string
	if err := db.QueryRow(`SELECT kind,detail FROM events WHERE game_id='g-1' AND turn=2 AND seq=0`).Scan(&kind, &detail); err != nil {
		t.Fatalf("Scan event: %v", err)
	}
	if kind != "ship_spawned" || detail != "ship 0 spawned" {
		t.Errorf("event = %s %q", kind, detail)
	}
}

func TestIndex_RecordAfterFinishIsDropped(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer idx.Close()
	if err := idx.StartGame(Game{ID: "g-2", Bot: "tidepool"}); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if err := idx.FinishGame("g-2"); err != nil {
		t.Fatalf("FinishGame: %v", err)
	}
	// Must not panic on the closed queue.
	idx.RecordTurn("g-2", agent.TurnSummary{Turn: 1})
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Error("OpenSQLite(\"\"): want error")
	}
}

func TestOpenSQLitePragmas(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer idx.Close()

	var mode string
	if err := idx.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	var timeout int64
	if err := idx.db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != busyTimeout.Milliseconds() {
		t.Errorf("busy_timeout = %d, want %d", timeout, busyTimeout.Milliseconds())
	}
}
