package replay

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/nstehr/tidepool/agent"
	"github.com/nstehr/tidepool/ipc"
	"github.com/nstehr/tidepool/model"
)

func TestWriterRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "replays")
	w, err := Create(dir, "game-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want := filepath.Join(dir, "game-1.jsonl.zst"); w.Path() != want {
		t.Errorf("Path() = %q, want %q", w.Path(), want)
	}

	hdr := Header{
		GameID:    "game-1",
		Bot:       "tidepool",
		PlayerID:  1,
		Players:   2,
		Width:     32,
		Height:    32,
		Halite:    123456,
		Sites:     []model.Position{{X: 3, Y: 4}, {X: 20, Y: 9}},
		Constants: model.Constants{MaxTurns: 400, ShipCost: 1000},
	}
	if err := w.WriteHeader(hdr); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	for turn := 1; turn <= 3; turn++ {
		s := agent.TurnSummary{
			Turn:     turn,
			Halite:   5000 - turn*1000,
			Ships:    turn,
			Statuses: map[string]int{"exploring": turn},
			Commands: []ipc.Command{ipc.SpawnCommand()},
		}
		if err := w.WriteTurn(s); err != nil {
			t.Fatalf("WriteTurn(%d): %v", turn, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	got, turns, err := ReadFile(w.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Kind != KindHeader || got.GameID != "game-1" || got.Width != 32 || got.Constants.MaxTurns != 400 {
		t.Errorf("header = %+v", got)
	}
	if !slices.Equal(got.Sites, hdr.Sites) {
		t.Errorf("header sites = %v, want %v", got.Sites, hdr.Sites)
	}
	if len(turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(turns))
	}
	for i, tr := range turns {
		if tr.Turn != i+1 || tr.Ships != i+1 || tr.Statuses["exploring"] != i+1 {
			t.Errorf("turn %d = %+v", i, tr)
		}
		if !slices.Equal(tr.Commands, []ipc.Command{"g"}) {
			t.Errorf("turn %d commands = %v", i, tr.Commands)
		}
	}
}

func TestWriteAfterClose(t *testing.T) {
	w, err := Create(t.TempDir(), "closed")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.WriteTurn(agent.TurnSummary{Turn: 1}); err == nil {
		t.Error("WriteTurn after Close: want error")
	}
}

func TestReadUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl.zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := enc.Write([]byte(`{"kind":"frame"}` + "\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("enc.Close: %v", err)
	}
	f.Close()

	_, _, err = ReadFile(path)
	if err == nil || !strings.Contains(err.Error(), `unknown record kind "frame"`) {
		t.Errorf("ReadFile error = %v, want unknown record kind", err)
	}
}
