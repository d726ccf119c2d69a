package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine runs compiled rules against the turn's environment.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category so two decisions never spend the same halite.
type Engine struct {
	mu    sync.RWMutex
	rules []*Rule

	lastIdleLog int // turn of the last idle diagnostics line
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Evaluate runs all rules once and returns the names of those that fired.
func (e *Engine) Evaluate(env RuleEnv, plan *TurnPlan) []string {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	fired := make(map[string]bool) // category → exclusive rule already fired
	var names []string

	for _, r := range rules {
		if fired[r.Category] {
			continue
		}

		// Earlier actions may have spent halite.
		env.Spent = plan.Spent

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category, "turn", env.Game.Turn)
		names = append(names, r.Name)

		if err := r.Action(env, plan); err != nil {
			slog.Error("rule action error", "rule", r.Name, "error", err)
		}

		if r.Exclusive {
			fired[r.Category] = true
		}
	}

	if len(names) == 0 {
		e.logIdle(env)
	}
	return names
}

// logIdle dumps why nothing was spawned or planned, at most every 50 turns.
func (e *Engine) logIdle(env RuleEnv) {
	turn := env.Turn()
	if e.lastIdleLog != 0 && turn-e.lastIdleLog < 50 {
		return
	}
	e.lastIdleLog = turn

	slog.Debug("no rules fired",
		"turn", turn,
		"halite", env.Halite(),
		"ships", env.ShipCount(),
		"dropoffs", env.DropoffCount(),
		"shipyardHasShip", env.ShipyardHasShip(),
		"sitesLeft", env.SitesRemaining(),
		"building", env.DropoffInProgress(),
	)
}

// Swap replaces the rule set. Compiles first; if compilation fails the old
// rules remain active.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("rule set swapped", "count", len(compiled))
	return nil
}

// Names lists the active rules in evaluation order.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
