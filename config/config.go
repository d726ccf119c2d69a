package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/tidepool/model"
)

// Config holds the bot's tunables. Zero values are filled from Default by
// Load so a config file only needs the fields it changes.
type Config struct {
	Name string `yaml:"name"`
	Seed int64  `yaml:"seed"` // 0 means derive from the clock

	LogDir    string `yaml:"log_dir"`
	LogLevel  string `yaml:"log_level"`
	ReplayDir string `yaml:"replay_dir"` // empty disables the replay log
	StatsPath string `yaml:"stats_path"` // empty disables the stats index

	Foraging Foraging `yaml:"foraging"`

	CollectThreshold int `yaml:"collect_threshold"` // explore away from cells poorer than this
	ReturnMargin     int `yaml:"return_margin"`     // head home once cargo >= MAX_HALITE - margin
	SpawnTurnLimit   int `yaml:"spawn_turn_limit"`
	ShipsPerDropoff  int `yaml:"ships_per_dropoff"`
	DropoffMinTurns  int `yaml:"dropoff_min_turns_left"`
	DropoffPatience  int `yaml:"dropoff_patience"`

	// Rules overrides rule conditions by rule name.
	Rules map[string]string `yaml:"rules"`
}

type Foraging struct {
	NearbyThreshold int `yaml:"nearby_threshold"`
	RichThreshold   int `yaml:"rich_threshold"`
	MaxSteps        int `yaml:"max_steps"`
}

// Params converts to the map's heuristic parameters.
func (f Foraging) Params() model.ForageParams {
	return model.ForageParams{
		NearbyThreshold: f.NearbyThreshold,
		RichThreshold:   f.RichThreshold,
		MaxSteps:        f.MaxSteps,
	}
}

func Default() Config {
	fp := model.DefaultForageParams()
	return Config{
		Name:     "tidepool",
		LogDir:   ".",
		LogLevel: "info",
		Foraging: Foraging{
			NearbyThreshold: fp.NearbyThreshold,
			RichThreshold:   fp.RichThreshold,
			MaxSteps:        fp.MaxSteps,
		},
		CollectThreshold: 50,
		ReturnMargin:     250,
		SpawnTurnLimit:   200,
		ShipsPerDropoff:  8,
		DropoffMinTurns:  100,
		DropoffPatience:  20,
	}
}

// Load reads a YAML config from path on top of Default.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	c.Validate()
	return c, nil
}

// Validate clamps values to usable ranges.
func (c *Config) Validate() {
	if c.Name == "" {
		c.Name = "tidepool"
	}
	c.Foraging.NearbyThreshold = max(c.Foraging.NearbyThreshold, 0)
	c.Foraging.RichThreshold = max(c.Foraging.RichThreshold, 1)
	c.Foraging.MaxSteps = clampInt(c.Foraging.MaxSteps, 1, 64)
	c.CollectThreshold = max(c.CollectThreshold, 0)
	c.ReturnMargin = max(c.ReturnMargin, 0)
	c.SpawnTurnLimit = max(c.SpawnTurnLimit, 0)
	c.ShipsPerDropoff = max(c.ShipsPerDropoff, 1)
	c.DropoffMinTurns = max(c.DropoffMinTurns, 0)
	c.DropoffPatience = max(c.DropoffPatience, 1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
