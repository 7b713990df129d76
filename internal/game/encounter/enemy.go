package encounter

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/effect"
	"github.com/cory-johannsen/delve/internal/game/numeric"
)

const (
	// EvasionAccuracyFactor weighs attacker accuracy against defender evasion.
	EvasionAccuracyFactor = 4.0
	// MaxEvadeChance caps the chance to evade a basic attack.
	MaxEvadeChance = 0.75
)

// EvadeChance is evasion / (evasion + 4*accuracy), capped at MaxEvadeChance.
func EvadeChance(evasion, accuracy float64) float64 {
	if evasion <= 0 {
		return 0
	}
	return numeric.ClampFloat(evasion/(evasion+EvasionAccuracyFactor*max(accuracy, 0)), 0, MaxEvadeChance)
}

// startEnemy begins b's next action. Bosses cast a ready ability when one
// exists and they are not silenced; otherwise every enemy swings at the tank.
func (e *Engine) startEnemy(t *turn, b *combat.Combatant) {
	st := t.st
	if b.IsBoss() && !b.Flags.Silenced {
		if def, ok := e.bosses.Select(st, b); ok {
			if err := e.bosses.Begin(st, b, def); err != nil {
				e.logger.Error("boss action machine rejected cast", zap.String("boss", b.ID), zap.Error(err))
				return
			}
			if !b.Action.Is(combat.Idle) {
				t.stats.Started++
				return
			}
		}
	}
	target := st.Tank()
	if target == nil || b.Enemy == nil {
		return
	}
	if err := b.Action.Begin(); err != nil {
		return
	}
	ticks := max(int(float64(b.Enemy.AttackTicks)*b.Effects.SpeedMultiplier()+0.5), 1)
	b.Cast = combat.Cast{
		TargetID:   target.ID,
		SkillIndex: -1,
		StartTick:  st.Tick,
		EndTick:    st.Tick + ticks,
	}
	t.stats.Started++
}

// finishEnemy resolves b's completed cast: a boss ability through the boss
// system, or a basic attack.
func (e *Engine) finishEnemy(t *turn, b *combat.Combatant) {
	st := t.st
	if b.Cast.Ability != "" {
		e.bosses.Finish(st, b)
		if b.Action.Is(combat.Idle) {
			t.stats.Resolved++
		}
		return
	}
	target := st.Find(b.Cast.TargetID)
	if target == nil || !target.Alive() {
		st.Interrupt(b, "target lost")
		return
	}
	_ = b.Action.Resolve()
	b.Cast = combat.Cast{SkillIndex: -1}
	t.stats.Resolved++
	e.enemyAttack(t, b, target)
}

// enemyAttack rolls b's attack dice against target after the confusion and
// evasion checks.
func (e *Engine) enemyAttack(t *turn, b, target *combat.Combatant) {
	st := t.st
	if confused(st, b, target, "attack") {
		return
	}
	if dice.Chance(st.RNG, EvadeChance(target.EffectiveEvasion(), b.Stats.Accuracy)) {
		st.Emit(combat.EntryMiss, b.ID, target.ID, 0, "%s evades %s's attack", target.Name, b.Name)
		st.Float(target, 0, combat.FloatMiss)
		return
	}
	roll := dice.NewLoggedRoller(st.RNG, e.logger).Roll(b.Enemy.Attack)
	bonus := b.Effects.Sum(effect.Empower)
	if b.IsBoss() {
		bonus += b.Enemy.Boss.DamageBonus(st.Tick)
	}
	amount := float64(roll.Total()) * (1 + bonus/100)
	def := target.Defense()
	if target.Kind == combat.KindMember {
		def.Reduction = st.Rules.PlayerDamageReduction
	}
	hit := damage.Resolve(damage.Request{
		Amount:         amount,
		Type:           b.Enemy.AttackType,
		CritChance:     b.Stats.CritChance,
		CritMultiplier: b.Stats.CritMultiplier,
		Defense:        def,
		BlockReduction: st.Rules.BlockReduction,
	}, st.RNG)
	if hit.Sanitized {
		t.stats.Sanitized++
		e.warnNumeric(st, b, "attack")
	}
	st.DealDamage(b, target, hit, "Attack")
}
