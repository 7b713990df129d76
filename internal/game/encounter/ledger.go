package encounter

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/numeric"
)

// sweep runs the once-per-second effect ledger over group: periodic damage
// and healing, doom, expiry, flag refresh and mana regeneration.
//
// Periodic damage ignores mitigation; it was mitigated when the effect's
// value was authored.
func (e *Engine) sweep(t *turn, group []*combat.Combatant) {
	st := t.st
	for _, c := range group {
		if !c.Alive() {
			continue
		}
		res := c.Effects.Sweep()
		if res.Sanitized > 0 {
			t.stats.Sanitized += res.Sanitized
			e.warnNumeric(st, c, "effect value")
		}
		for _, p := range res.Damage {
			if !c.Alive() {
				break
			}
			hit := damage.Hit{Amount: numeric.Floor(p.Amount), Type: damage.Chaos}
			st.DealDamage(st.Find(p.SourceID), c, hit, p.Effect)
		}
		for _, p := range res.Healing {
			h := damage.ResolveHeal(damage.HealRequest{Amount: p.Amount, Absorb: c.HealAbsorb}, st.RNG)
			st.ApplyHeal(st.Find(p.SourceID), c, h, p.Effect)
		}
		if res.Killed && c.Alive() && !(c.IsBoss() && c.Enemy.Boss.Undying(st.Tick)) {
			st.Emit(combat.EntryEffect, res.KillSource, c.ID, 0, "%s consumes %s", res.KilledBy, c.Name)
			st.Kill(c, res.KilledBy)
		}
		c.RefreshFlags()
		for _, name := range res.Expired {
			st.Emit(combat.EntryExpire, "", c.ID, 0, "%s fades from %s", name, c.Name)
		}
		if c.Alive() && c.Kind == combat.KindMember && c.ManaRegen > 0 {
			c.RestoreMana(c.ManaRegen)
		}
	}
}

func (e *Engine) warnNumeric(st *combat.State, c *combat.Combatant, what string) {
	if !st.WarnOnce("numeric:" + c.ID + ":" + what) {
		return
	}
	e.logger.Warn("non-finite value sanitized",
		zap.String("actor", c.ID),
		zap.String("value", what),
		zap.Int("tick", st.Tick),
	)
}
