package boss

import (
	"math"
	"slices"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/effect"
	"github.com/cory-johannsen/delve/internal/game/numeric"
)

// Execute resolves def for boss b. locked is the target chosen when the cast
// began, nil for area and self abilities.
func (s *System) Execute(st *combat.State, b *combat.Combatant, def *catalog.BossAbilityDef, locked *combat.Combatant) {
	st.Emit(combat.EntryAbility, b.ID, idOf(locked), 0, "%s uses %s", b.Name, def.Name)
	s.resolve(st, b, def, locked, 1)
	if def.Replays() {
		b.Enemy.Boss.CastCounts[def.ID]++
		return
	}
	b.Enemy.Boss.Record(def.ID)
}

func (s *System) resolve(st *combat.State, b *combat.Combatant, def *catalog.BossAbilityDef, locked *combat.Combatant, power float64) {
	targets := s.targetsFor(st, b, def, locked)
	switch def.Behavior {
	case catalog.TripleStrike:
		hits := def.Hits
		if hits <= 0 {
			hits = DefaultHits
		}
		for _, t := range targets {
			for range hits {
				s.strike(st, b, t, def, power)
			}
		}
	case catalog.SwapHealth:
		for _, t := range targets {
			s.swapHealth(st, b, t)
		}
	case catalog.RandomDebuff:
		for _, t := range targets {
			s.strike(st, b, t, def, power)
			st.ApplyEffect(b, t, def.Pool[st.RNG.Intn(len(def.Pool))], 1)
		}
	case catalog.CorpseEcho:
		s.corpseEcho(st, b, power)
		return
	case catalog.InfiniteRefrain:
		s.refrain(st, b, power)
		return
	case catalog.Scripted:
		power *= s.scriptMultiplier(st, b, def)
		for _, t := range targets {
			s.strike(st, b, t, def, power)
		}
	default:
		for _, t := range targets {
			s.strike(st, b, t, def, power)
		}
	}
	s.applyEffects(st, b, def, targets)
}

// targetsFor re-resolves area rules at resolution time so the ability hits
// everyone still standing.
func (s *System) targetsFor(st *combat.State, b *combat.Combatant, def *catalog.BossAbilityDef, locked *combat.Combatant) []*combat.Combatant {
	if locked != nil {
		if !locked.Alive() {
			return nil
		}
		return []*combat.Combatant{locked}
	}
	return s.Targets(st, b, def.Target)
}

func (s *System) strike(st *combat.State, b, t *combat.Combatant, def *catalog.BossAbilityDef, power float64) {
	if def.BaseDamage <= 0 || !t.Alive() || t == b {
		return
	}
	typ := def.DamageType
	if typ == "" {
		typ = damage.Physical
	}
	def2 := t.Defense()
	if t.Kind == combat.KindMember {
		def2.Reduction = st.Rules.PlayerDamageReduction
	}
	hit := damage.Resolve(damage.Request{
		Amount:         Amount(st, b, t, def, power),
		Type:           typ,
		CritChance:     damage.CritChance(b.Stats.CritChance, b.Stats.IncreasedCritChance),
		CritMultiplier: b.Stats.CritMultiplier,
		Defense:        def2,
		BlockReduction: st.Rules.BlockReduction,
	}, st.RNG)
	if hit.Sanitized && st.WarnOnce("nan:"+b.ID) {
		s.logger.Warn("non-finite boss damage sanitized", zap.String("boss", b.ID), zap.String("ability", def.ID))
	}
	st.DealDamage(b, t, hit, def.Name)
}

// swapHealth exchanges health percentages between the boss and t. Neither
// side can be taken below 1 HP by the swap.
func (s *System) swapHealth(st *combat.State, b, t *combat.Combatant) {
	bp, tp := b.HealthPercent(), t.HealthPercent()
	b.HP = max(int(math.Round(tp*float64(b.MaxHP)/100)), 1)
	t.HP = max(int(math.Round(bp*float64(t.MaxHP)/100)), 1)
	b.Clamp()
	t.Clamp()
	st.Emit(combat.EntryAbility, b.ID, t.ID, 0, "%s swaps life with %s (%.0f%% <-> %.0f%%)", b.Name, t.Name, bp, tp)
}

func (s *System) corpseEcho(st *combat.State, b *combat.Combatant, power float64) {
	ids := s.replayable(b.Enemy.Boss.History, 1)
	if len(ids) == 0 {
		st.Emit(combat.EntryAbility, b.ID, "", 0, "%s's echo finds nothing to repeat", b.Name)
		return
	}
	def, _ := s.registry.Ability(ids[0])
	st.Emit(combat.EntryAbility, b.ID, "", 0, "%s echoes %s", b.Name, def.Name)
	s.resolve(st, b, def, nil, power*ReplayMultiplier)
}

func (s *System) refrain(st *combat.State, b *combat.Combatant, power float64) {
	ids := s.replayable(b.Enemy.Boss.History, RefrainDepth)
	if len(ids) == 0 {
		st.Emit(combat.EntryAbility, b.ID, "", 0, "%s's refrain finds nothing to repeat", b.Name)
		return
	}
	for _, id := range ids {
		def, _ := s.registry.Ability(id)
		st.Emit(combat.EntryAbility, b.ID, "", 0, "%s's refrain repeats %s", b.Name, def.Name)
		s.resolve(st, b, def, nil, power*ReplayMultiplier)
	}
}

// replayable returns up to n distinct ids from the end of history, in the
// order they were cast. Once-per-fight and unknown abilities never replay.
func (s *System) replayable(history []string, n int) []string {
	var out []string
	for i := len(history) - 1; i >= 0 && len(out) < n; i-- {
		id := history[i]
		if slices.Contains(out, id) {
			continue
		}
		def, err := s.registry.Ability(id)
		if err != nil || def.OncePerFight || def.Replays() {
			continue
		}
		out = append(out, id)
	}
	slices.Reverse(out)
	return out
}

// scriptMultiplier calls def's hook with (seconds, boss health %, casts,
// dead members). Anything but a finite non-negative number means 1.
func (s *System) scriptMultiplier(st *combat.State, b *combat.Combatant, def *catalog.BossAbilityDef) float64 {
	if s.scripts == nil {
		return 1
	}
	ret, err := s.scripts.CallHook(ScriptScope, def.Script,
		lua.LNumber(st.Seconds()),
		lua.LNumber(b.HealthPercent()),
		lua.LNumber(b.Enemy.Boss.CastCounts[def.ID]),
		lua.LNumber(st.DeadMembers()),
	)
	if err != nil {
		return 1
	}
	n, ok := ret.(lua.LNumber)
	if !ok || float64(n) < 0 || !numeric.Finite(float64(n)) {
		if st.WarnOnce("script:" + def.Script) {
			s.logger.Warn("boss script returned no multiplier", zap.String("hook", def.Script), zap.String("type", ret.Type().String()))
		}
		return 1
	}
	return float64(n)
}

func (s *System) applyEffects(st *combat.State, b *combat.Combatant, def *catalog.BossAbilityDef, targets []*combat.Combatant) {
	as := b.Enemy.Boss
	for _, e := range def.Effects {
		stacks := max(e.Stacks, 1)
		switch e.Kind {
		case catalog.EffectDebuff:
			for _, t := range targets {
				st.ApplyEffect(b, t, *e.Effect, stacks)
			}
		case catalog.EffectBuff:
			st.ApplyEffect(b, b, *e.Effect, stacks)
		case catalog.EffectStun:
			for _, t := range targets {
				st.ApplyEffect(b, t, effect.Spec{Name: "Stunned", Kind: effect.KindDebuff, Behavior: effect.Stun, Duration: e.Duration}, 1)
			}
		case catalog.EffectSilence:
			for _, t := range targets {
				st.ApplyEffect(b, t, effect.Spec{Name: "Silenced", Kind: effect.KindDebuff, Behavior: effect.Silence, Duration: e.Duration}, 1)
			}
		case catalog.EffectRemoveBuffs:
			for _, t := range targets {
				removed := append(t.Effects.RemoveKind(effect.KindBuff), t.Effects.RemoveKind(effect.KindHoT)...)
				t.RefreshFlags()
				if len(removed) > 0 {
					st.Emit(combat.EntryExpire, b.ID, t.ID, len(removed), "%s strips %d effects from %s", b.Name, len(removed), t.Name)
				}
			}
		case catalog.EffectDamageWindow:
			as.DamageWindowUntil = st.Tick + st.Rules.Seconds(float64(e.Duration))
			as.DamageWindowBonus = e.Value
			st.Emit(combat.EntryPhase, b.ID, "", int(e.Value), "%s deals %.0f%% more damage for %ds", b.Name, e.Value, e.Duration)
		case catalog.EffectUndying:
			as.UndyingUntil = st.Tick + st.Rules.Seconds(float64(e.Duration))
			st.Emit(combat.EntryPhase, b.ID, "", 0, "%s cannot fall for %ds", b.Name, e.Duration)
		case catalog.EffectHealSelf:
			st.ApplyHeal(b, b, damage.Heal{Amount: int(float64(b.MaxHP) * e.Value / 100)}, def.Name)
		}
	}
}

func idOf(c *combat.Combatant) string {
	if c == nil {
		return ""
	}
	return c.ID
}
