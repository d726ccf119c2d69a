package rules

import (
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/tidepool/ipc"
)

// ActionFunc records a decision on the turn plan when a rule's condition is true.
type ActionFunc func(env RuleEnv, plan *TurnPlan) error

// Rule is a condition → action pair evaluated once per turn.
// Exclusive rules block lower-priority rules in the same Category.
type Rule struct {
	Name         string      // human-readable identifier, also the config override key
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}

// TurnPlan collects the player-level decisions of a turn.
type TurnPlan struct {
	Commands         []ipc.Command
	Spent            int  // halite committed by commands already on the plan
	DropoffRequested bool // a ship should be assigned to the next candidate site
}
