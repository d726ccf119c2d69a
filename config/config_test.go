package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tidepool.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeConfig(t, `
name: tidepool-dev
seed: 1234
replay_dir: replays
foraging:
  rich_threshold: 40
return_margin: 100
rules:
  spawn-ship: "Turn() <= 150 && Halite() >= ShipCost()"
`)
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Name != "tidepool-dev" || c.Seed != 1234 || c.ReplayDir != "replays" {
		t.Errorf("top-level fields = %q %d %q", c.Name, c.Seed, c.ReplayDir)
	}
	if c.Foraging.RichThreshold != 40 {
		t.Errorf("RichThreshold = %d, want 40", c.Foraging.RichThreshold)
	}
	if c.Foraging.NearbyThreshold != 10 || c.Foraging.MaxSteps != 10 {
		t.Errorf("unset foraging fields lost their defaults: %+v", c.Foraging)
	}
	if c.ReturnMargin != 100 {
		t.Errorf("ReturnMargin = %d, want 100", c.ReturnMargin)
	}
	if c.CollectThreshold != 50 {
		t.Errorf("CollectThreshold = %d, want default 50", c.CollectThreshold)
	}
	if got := c.Rules["spawn-ship"]; got != "Turn() <= 150 && Halite() >= ShipCost()" {
		t.Errorf("Rules[spawn-ship] = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestLoadBadYAML(t *testing.T) {
	p := writeConfig(t, "foraging: [1, 2\n")
	if _, err := Load(p); err == nil {
		t.Error("Load of malformed YAML should fail")
	}
}

func TestValidateClamps(t *testing.T) {
	c := Config{
		Foraging:        Foraging{NearbyThreshold: -5, RichThreshold: 0, MaxSteps: 500},
		ReturnMargin:    -1,
		ShipsPerDropoff: 0,
		DropoffPatience: -3,
	}
	c.Validate()

	if c.Name != "tidepool" {
		t.Errorf("Name = %q, want tidepool", c.Name)
	}
	if c.Foraging.NearbyThreshold != 0 || c.Foraging.RichThreshold != 1 || c.Foraging.MaxSteps != 64 {
		t.Errorf("Foraging = %+v", c.Foraging)
	}
	if c.ReturnMargin != 0 || c.ShipsPerDropoff != 1 || c.DropoffPatience != 1 {
		t.Errorf("clamped = %d %d %d", c.ReturnMargin, c.ShipsPerDropoff, c.DropoffPatience)
	}
}

func TestForagingParams(t *testing.T) {
	p := Default().Foraging.Params()
	if p.NearbyThreshold != 10 || p.RichThreshold != 25 || p.MaxSteps != 10 {
		t.Errorf("Params() = %+v", p)
	}
}
