package rules

import (
	"log/slog"

	"github.com/nstehr/tidepool/ipc"
)

// ActionSpawnShip queues a new ship at the shipyard.
func ActionSpawnShip(env RuleEnv, plan *TurnPlan) error {
	plan.Commands = append(plan.Commands, ipc.SpawnCommand())
	plan.Spent += env.ShipCost()
	slog.Debug("spawning ship", "turn", env.Turn(), "halite", env.Halite())
	return nil
}

// ActionRequestDropoff asks the agent to send a ship to the next site.
func ActionRequestDropoff(env RuleEnv, plan *TurnPlan) error {
	plan.DropoffRequested = true
	slog.Info("dropoff requested",
		"turn", env.Turn(),
		"ships", env.ShipCount(),
		"dropoffs", env.DropoffCount(),
		"sitesLeft", env.SitesRemaining(),
	)
	return nil
}
