package boss

import (
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/effect"
)

// Units counts the quantity def's scaling rule multiplies by.
func Units(st *combat.State, b, target *combat.Combatant, def *catalog.BossAbilityDef) float64 {
	switch def.Scaling {
	case catalog.ScalePartyBuffs:
		n := 0
		for _, c := range st.OpponentsOf(b) {
			n += c.Effects.CountKind(effect.KindBuff)
		}
		return float64(n)
	case catalog.ScaleDeadAllies:
		return float64(st.DeadMembers())
	case catalog.ScaleDoomStacks:
		if target == nil {
			return 0
		}
		return float64(target.Effects.StacksOf(effect.Doom))
	case catalog.ScaleBossArmor:
		return b.Stats.Armor / 100
	case catalog.ScaleFightDuration:
		return st.Seconds()
	case catalog.ScaleSelfRamp:
		return float64(b.Enemy.Boss.CastCounts[def.ID])
	}
	return 0
}

// Multiplier is 1 + ScalingValue/100 × units.
func Multiplier(st *combat.State, b, target *combat.Combatant, def *catalog.BossAbilityDef) float64 {
	return 1 + def.ScalingValue/100*Units(st, b, target, def)
}

// Amount is def's pre-mitigation damage against target: base damage,
// scaling, the boss's damage window and empower effects, and power.
func Amount(st *combat.State, b, target *combat.Combatant, def *catalog.BossAbilityDef, power float64) float64 {
	bonus := b.Enemy.Boss.DamageBonus(st.Tick) + b.Effects.Sum(effect.Empower)
	return def.BaseDamage * Multiplier(st, b, target, def) * (1 + bonus/100) * power
}
