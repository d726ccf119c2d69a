// Package replay records a game as zstd-compressed JSON lines: one header
// record, then one record per turn.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/nstehr/tidepool/agent"
	"github.com/nstehr/tidepool/model"
)

const (
	KindHeader = "header"
	KindTurn   = "turn"
)

// Header opens every replay.
type Header struct {
	Kind      string           `json:"kind"`
	GameID    string           `json:"game_id"`
	Bot       string           `json:"bot"`
	PlayerID  model.PlayerID   `json:"player_id"`
	Players   int              `json:"players"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Halite    int              `json:"halite"`
	Sites     []model.Position `json:"sites"`
	Constants model.Constants  `json:"constants"`
}

// Turn is one turn's summary.
type Turn struct {
	Kind string `json:"kind"`
	agent.TurnSummary
}

// Writer appends records to a single <dir>/<gameID>.jsonl.zst file.
type Writer struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens a new replay file for the game.
func Create(dir, gameID string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.jsonl.zst", gameID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

func (w *Writer) Path() string { return w.path }

func (w *Writer) WriteHeader(h Header) error {
	h.Kind = KindHeader
	return w.write(h)
}

func (w *Writer) WriteTurn(s agent.TurnSummary) error {
	return w.write(Turn{Kind: KindTurn, TurnSummary: s})
}

// write buffers one record. Data reaches the file on Close; a game that
// crashes mid-way loses its tail.
func (w *Writer) write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return fmt.Errorf("replay %s: closed", w.path)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes the encoder and closes the file. Safe to call twice.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.w != nil {
		err = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if cerr := w.enc.Close(); err == nil {
			err = cerr
		}
		w.enc = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	return err
}

// Read decodes a replay back into its header and turns.
func Read(r io.Reader) (Header, []Turn, error) {
	var h Header
	dec, err := zstd.NewReader(r)
	if err != nil {
		return h, nil, err
	}
	defer dec.Close()

	var turns []Turn
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		var probe struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(sc.Bytes(), &probe); err != nil {
			return h, nil, fmt.Errorf("line %d: %w", line, err)
		}
		switch probe.Kind {
		case KindHeader:
			if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
				return h, nil, fmt.Errorf("line %d: %w", line, err)
			}
		case KindTurn:
			var t Turn
			if err := json.Unmarshal(sc.Bytes(), &t); err != nil {
				return h, nil, fmt.Errorf("line %d: %w", line, err)
			}
			turns = append(turns, t)
		default:
			return h, nil, fmt.Errorf("line %d: unknown record kind %q", line, probe.Kind)
		}
	}
	return h, turns, sc.Err()
}

// ReadFile is Read on a replay path.
func ReadFile(path string) (Header, []Turn, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()
	return Read(f)
}
