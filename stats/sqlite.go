// Package stats indexes finished and running games in SQLite so runs with
// different configs can be compared with plain SQL.
package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nstehr/tidepool/agent"
)

// Game is the row written once when a game starts.
type Game struct {
	ID       string
	Bot      string
	PlayerID int
	Players  int
	Width    int
	Height   int
	Seed     int64
	MaxTurns int
}

// Index writes per-turn rows on a background goroutine. Turn writes never
// block the bot: they are dropped if the writer falls behind, the replay
// log being the complete record.
type Index struct {
	db *sql.DB

	ch        chan turnRow
	wg        sync.WaitGroup
	drainOnce sync.Once
	closeOnce sync.Once

	closed  atomic.Bool
	dropped atomic.Int64
}

type turnRow struct {
	gameID  string
	summary agent.TurnSummary
}

// OpenSQLite opens or creates the stats database at path and starts the
// turn writer. Callers must Close it.
func OpenSQLite(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("stats: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("stats dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One writer goroutine plus the synchronous game-row calls; a single
	// connection keeps them serialized.
	db.SetMaxOpenConns(1)

	for _, setup := range []func(*sql.DB) error{initPragmas, initSchema} {
		if err := setup(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init %s: %w", path, err)
		}
	}

	s := &Index{db: db, ch: make(chan turnRow, 1024)}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

// busyTimeout covers a second bot process sharing the same stats file.
const busyTimeout = 5 * time.Second

// initPragmas puts the database in WAL mode, failing if SQLite refuses, then
// applies the per-connection settings.
func initPragmas(db *sql.DB) error {
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode=WAL;").Scan(&mode); err != nil {
		return fmt.Errorf("set journal mode: %w", err)
	}
	if mode != "wal" {
		return fmt.Errorf("journal mode is %q, want wal", mode)
	}

	settings := []struct {
		name, value string
	}{
		{"synchronous", "NORMAL"},
		{"foreign_keys", "ON"},
		{"busy_timeout", fmt.Sprint(busyTimeout.Milliseconds())},
		{"temp_store", "MEMORY"},
	}
	for _, p := range settings {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s=%s;", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			bot TEXT NOT NULL,
			player_id INTEGER NOT NULL,
			players INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			max_turns INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			final_turn INTEGER,
			final_halite INTEGER,
			finished_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			game_id TEXT NOT NULL REFERENCES games(game_id),
			turn INTEGER NOT NULL,
			halite INTEGER NOT NULL,
			ships INTEGER NOT NULL,
			dropoffs INTEGER NOT NULL,
			commands INTEGER NOT NULL,
			statuses_json TEXT NOT NULL,
			fired_json TEXT NOT NULL,
			PRIMARY KEY (game_id, turn)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			game_id TEXT NOT NULL REFERENCES games(game_id),
			turn INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL,
			PRIMARY KEY (game_id, turn, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind, game_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// StartGame inserts the game row. Turn rows reference it, so this must run
// before the first RecordTurn.
func (s *Index) StartGame(g Game) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO games(game_id,bot,player_id,players,width,height,seed,max_turns,started_at) VALUES(?,?,?,?,?,?,?,?,?)`,
		g.ID, g.Bot, g.PlayerID, g.Players, g.Width, g.Height, g.Seed, g.MaxTurns,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", g.ID, err)
	}
	return nil
}

// RecordTurn queues one turn summary.
func (s *Index) RecordTurn(gameID string, summary agent.TurnSummary) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- turnRow{gameID: gameID, summary: summary}:
	default:
		s.dropped.Add(1)
	}
}

// FinishGame drains queued turns and stamps the game as finished. No
// further turns are accepted afterwards.
func (s *Index) FinishGame(gameID string) error {
	s.drain()
	_, err := s.db.Exec(`UPDATE games SET finished_at=? WHERE game_id=?`,
		time.Now().UTC().Format(time.RFC3339Nano), gameID)
	if err != nil {
		return fmt.Errorf("finish game %s: %w", gameID, err)
	}
	return nil
}

// Close drains the queue and closes the database. Safe to call more than once.
func (s *Index) Close() error {
	s.drain()
	var err error
	s.closeOnce.Do(func() { err = s.db.Close() })
	return err
}

func (s *Index) drain() {
	s.drainOnce.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		if n := s.dropped.Load(); n > 0 {
			slog.Warn("stats index dropped turns", "count", n)
		}
	})
}

func (s *Index) loop() {
	ctx := context.Background()
	for r := range s.ch {
		if err := s.writeTurn(ctx, r); err != nil {
			slog.Warn("stats turn write failed", "game", r.gameID, "turn", r.summary.Turn, "error", err)
		}
	}
}

func (s *Index) writeTurn(ctx context.Context, r turnRow) error {
	statuses, err := json.Marshal(r.summary.Statuses)
	if err != nil {
		return err
	}
	fired, err := json.Marshal(r.summary.Fired)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO turns(game_id,turn,halite,ships,dropoffs,commands,statuses_json,fired_json) VALUES(?,?,?,?,?,?,?,?)`,
		r.gameID, r.summary.Turn, r.summary.Halite, r.summary.Ships, r.summary.Dropoffs,
		len(r.summary.Commands), string(statuses), string(fired),
	); err != nil {
		return err
	}
	for i, e := range r.summary.Events {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO events(game_id,turn,seq,kind,detail) VALUES(?,?,?,?,?)`,
			r.gameID, e.Turn, i, string(e.Kind), e.Detail,
		); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET final_turn=?, final_halite=? WHERE game_id=?`,
		r.summary.Turn, r.summary.Halite, r.gameID,
	); err != nil {
		return err
	}
	return tx.Commit()
}
