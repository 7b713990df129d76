package boss

import (
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
)

func single(r catalog.TargetRule) bool {
	switch r {
	case catalog.TargetTank, catalog.TargetLowestLife, catalog.TargetHighestDPS, catalog.TargetRandom:
		return true
	}
	return false
}

// Targets resolves rule against the living team. Ties go to roster order.
// random draws once from the state's source.
func (s *System) Targets(st *combat.State, b *combat.Combatant, rule catalog.TargetRule) []*combat.Combatant {
	team := st.OpponentsOf(b)
	if rule == catalog.TargetSelf {
		return []*combat.Combatant{b}
	}
	if len(team) == 0 {
		return nil
	}
	switch rule {
	case catalog.TargetAll:
		return team
	case catalog.TargetTank:
		if t := st.Tank(); t != nil {
			return []*combat.Combatant{t}
		}
		return nil
	case catalog.TargetLowestLife:
		best := team[0]
		for _, c := range team[1:] {
			if c.HealthPercent() < best.HealthPercent() {
				best = c
			}
		}
		return []*combat.Combatant{best}
	case catalog.TargetHighestDPS:
		best := team[0]
		for _, c := range team[1:] {
			if c.DamageDone.Total() > best.DamageDone.Total() {
				best = c
			}
		}
		return []*combat.Combatant{best}
	case catalog.TargetRandom:
		return []*combat.Combatant{team[st.RNG.Intn(len(team))]}
	}
	return nil
}
