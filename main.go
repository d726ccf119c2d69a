package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nstehr/tidepool/agent"
	"github.com/nstehr/tidepool/config"
	"github.com/nstehr/tidepool/ipc"
	"github.com/nstehr/tidepool/model"
	"github.com/nstehr/tidepool/replay"
	"github.com/nstehr/tidepool/rules"
	"github.com/nstehr/tidepool/stats"
)

const banner = `
 _   _     _                       _
| |_(_) __| | ___ _ __   ___   ___ | |
| __| |/ _' |/ _ \ '_ \ / _ \ / _ \| |
| |_| | (_| |  __/ |_) | (_) | (_) | |
 \__|_|\__,_|\___| .__/ \___/ \___/|_|
                 |_|
Halite III bot`

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	seed := flag.Int64("seed", 0, "RNG seed; 0 derives one from the clock")
	name := flag.String("name", "", "bot name sent to the engine")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			// stdout belongs to the engine.
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *name != "" {
		cfg.Name = *name
	}
	// The engine passes the seed as the first argument.
	if arg := flag.Arg(0); arg != "" {
		s, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid seed %q: %v\n", arg, err)
			os.Exit(1)
		}
		cfg.Seed = s
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := run(cfg); err != nil {
		slog.Error("bot failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	conn := ipc.NewConnection(os.Stdin, os.Stdout)
	g, err := conn.ReadPreamble()
	if err != nil {
		return fmt.Errorf("read preamble: %w", err)
	}

	logFile, err := openLog(cfg, g.MyID)
	if err != nil {
		return err
	}
	defer logFile.Close()
	fmt.Fprintln(logFile, banner)

	slog.Info("starting bot", "name", cfg.Name, "player", g.MyID, "players", len(g.Players),
		"width", g.Map.Width, "height", g.Map.Height, "seed", cfg.Seed)

	ruleSet := rules.DefaultRules(rules.Params{
		SpawnTurnLimit:  cfg.SpawnTurnLimit,
		ShipsPerDropoff: cfg.ShipsPerDropoff,
		DropoffMinTurns: cfg.DropoffMinTurns,
	})
	if err := rules.ApplyOverrides(ruleSet, cfg.Rules); err != nil {
		return err
	}
	engine, err := rules.NewEngine(ruleSet)
	if err != nil {
		return err
	}
	slog.Info("rules loaded", "rules", engine.Names())

	a := agent.New(engine, agent.Options{
		CollectThreshold: cfg.CollectThreshold,
		ReturnMargin:     cfg.ReturnMargin,
		DropoffPatience:  cfg.DropoffPatience,
		Forage:           cfg.Foraging.Params(),
	}, uint64(cfg.Seed))
	a.Start(g)

	gameID := uuid.NewString()
	rec, err := openReplay(cfg, gameID, g, a.Sites())
	if err != nil {
		return err
	}
	if rec != nil {
		defer func() {
			if err := rec.Close(); err != nil {
				slog.Warn("replay close failed", "error", err)
			}
		}()
	}
	idx, err := openStats(cfg, gameID, g)
	if err != nil {
		return err
	}
	if idx != nil {
		defer func() {
			if err := idx.FinishGame(gameID); err != nil {
				slog.Warn("stats finish failed", "error", err)
			}
			_ = idx.Close()
		}()
	}

	// The per-turn clock starts once this is sent.
	if err := conn.Ready(cfg.Name); err != nil {
		return err
	}
	slog.Info("bot ready", "game", gameID, "player", g.MyID, "sites", len(a.Sites()))

	return conn.Run(g, func(g *model.Game) ([]ipc.Command, error) {
		cmds, err := a.PlayTurn(g)
		if err != nil {
			return nil, err
		}
		summary := a.LastTurn()
		if rec != nil {
			if err := rec.WriteTurn(summary); err != nil {
				slog.Warn("replay write failed", "turn", g.Turn, "error", err)
			}
		}
		idx.RecordTurn(gameID, summary)
		return cmds, nil
	})
}

// openLog points the default logger at a per-player file.
func openLog(cfg config.Config, id model.PlayerID) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.Create(filepath.Join(cfg.LogDir, fmt.Sprintf("bot-%d.log", id)))
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return f, nil
}

func openReplay(cfg config.Config, gameID string, g *model.Game, sites []model.Position) (*replay.Writer, error) {
	if cfg.ReplayDir == "" {
		return nil, nil
	}
	w, err := replay.Create(cfg.ReplayDir, gameID)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	err = w.WriteHeader(replay.Header{
		GameID:    gameID,
		Bot:       cfg.Name,
		PlayerID:  g.MyID,
		Players:   len(g.Players),
		Width:     g.Map.Width,
		Height:    g.Map.Height,
		Halite:    g.Map.TotalHalite(),
		Sites:     sites,
		Constants: g.Constants,
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("write replay header: %w", err)
	}
	slog.Info("replay enabled", "path", w.Path())
	return w, nil
}

func openStats(cfg config.Config, gameID string, g *model.Game) (*stats.Index, error) {
	if cfg.StatsPath == "" {
		return nil, nil
	}
	idx, err := stats.OpenSQLite(cfg.StatsPath)
	if err != nil {
		return nil, fmt.Errorf("open stats: %w", err)
	}
	err = idx.StartGame(stats.Game{
		ID:       gameID,
		Bot:      cfg.Name,
		PlayerID: int(g.MyID),
		Players:  len(g.Players),
		Width:    g.Map.Width,
		Height:   g.Map.Height,
		Seed:     cfg.Seed,
		MaxTurns: g.Constants.MaxTurns,
	})
	if err != nil {
		_ = idx.Close()
		return nil, err
	}
	return idx, nil
}
