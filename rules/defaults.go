package rules

import "fmt"

// Params are the numeric knobs interpolated into the default conditions.
type Params struct {
	SpawnTurnLimit  int
	ShipsPerDropoff int
	DropoffMinTurns int
}

// DefaultRules builds the player-level rule set. Conditions are generated
// with fmt.Sprintf from integer params, so they always compile.
func DefaultRules(p Params) []*Rule {
	var rules []*Rule

	rules = append(rules, &Rule{
		Name:      "plan-dropoff",
		Priority:  900,
		Category:  "expansion",
		Exclusive: true,
		ConditionSrc: fmt.Sprintf(
			`SitesRemaining() > 0 && !DropoffInProgress() && ShipCount() >= %d * (DropoffCount() + 1) && TurnsLeft() > %d`,
			p.ShipsPerDropoff, p.DropoffMinTurns),
		Action: ActionRequestDropoff,
	})

	// While a dropoff is being built, only spawn from the surplus over its cost.
	rules = append(rules, &Rule{
		Name:      "spawn-ship",
		Priority:  800,
		Category:  "production",
		Exclusive: true,
		ConditionSrc: fmt.Sprintf(
			`Turn() <= %d && Halite() >= ShipCost() && !ShipyardHasShip() && (!DropoffInProgress() || Halite() >= DropoffCost() + ShipCost())`,
			p.SpawnTurnLimit),
		Action: ActionSpawnShip,
	})

	return rules
}

// ApplyOverrides replaces rule conditions by rule name. Unknown names are
// an error so a typo in the config file is caught at startup.
func ApplyOverrides(rules []*Rule, overrides map[string]string) error {
	byName := make(map[string]*Rule, len(rules))
	for _, r := range rules {
		byName[r.Name] = r
	}
	for name, src := range overrides {
		r, ok := byName[name]
		if !ok {
			return fmt.Errorf("override for unknown rule %q", name)
		}
		r.ConditionSrc = src
	}
	return nil
}
