// Package boss runs boss ability tables: readiness and cooldowns, selection,
// targeting, damage scaling, effect application and the bespoke behaviors a
// few abilities carry.
package boss

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/dice"
)

// ScriptScope is the Lua scope scripted abilities are loaded into.
const ScriptScope = "boss"

const (
	// SignatureHealthPercent forces a ready signature ability below this health.
	SignatureHealthPercent = 30
	// SignatureChance is the chance a ready signature ability is preferred
	// above SignatureHealthPercent.
	SignatureChance = 0.3
	// ReplayMultiplier scales abilities repeated by corpse echo and
	// infinite refrain.
	ReplayMultiplier = 0.5
	// RefrainDepth is how many distinct recent abilities infinite refrain replays.
	RefrainDepth = 3
	// DefaultHits is the strike count of triple_strike when Hits is unset.
	DefaultHits = 3
)

// ScriptCaller calls Lua hooks.
type ScriptCaller interface {
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Status is the lifecycle position of one ability in one encounter.
type Status string

const (
	StatusUnused   Status = "unused"
	StatusReady    Status = "ready"
	StatusCooldown Status = "cooldown"
	StatusSpent    Status = "spent"
)

// System resolves boss abilities against a combat.State.
type System struct {
	registry *catalog.Registry
	scripts  ScriptCaller
	logger   *zap.Logger
}

// NewSystem returns a System. scripts may be nil; scripted abilities then
// resolve with a multiplier of 1.
//
// Precondition: registry and logger are non-nil.
func NewSystem(registry *catalog.Registry, scripts ScriptCaller, logger *zap.Logger) *System {
	return &System{registry: registry, scripts: scripts, logger: logger}
}

// Status reports where ability id stands for boss b at the state's tick.
func (s *System) Status(st *combat.State, b *combat.Combatant, id string) Status {
	as := b.Enemy.Boss
	at, ok := as.ReadyAt[id]
	switch {
	case at == combat.NeverReady:
		return StatusSpent
	case as.CastCounts[id] == 0 && (!ok || at <= st.Tick):
		return StatusUnused
	case !ok || at <= st.Tick:
		return StatusReady
	}
	return StatusCooldown
}

// Ready returns b's ready abilities in table order. Unknown ids are skipped
// and warned about once per boss.
func (s *System) Ready(st *combat.State, b *combat.Combatant) []*catalog.BossAbilityDef {
	var out []*catalog.BossAbilityDef
	for _, id := range b.Enemy.Abilities {
		if !b.Enemy.Boss.Ready(id, st.Tick) {
			continue
		}
		def, err := s.registry.Ability(id)
		if err != nil {
			if st.WarnOnce("ability:" + b.ID + ":" + id) {
				s.logger.Warn("boss ability not in catalog", zap.String("boss", b.ID), zap.String("ability", id))
				st.Emit(combat.EntryWarning, b.ID, "", 0, "%s has no ability %q", b.Name, id)
			}
			continue
		}
		out = append(out, def)
	}
	return out
}

// Select picks the next ability. A ready signature ability wins when the
// boss is under SignatureHealthPercent or a SignatureChance roll succeeds;
// otherwise the choice is uniform over every ready ability.
func (s *System) Select(st *combat.State, b *combat.Combatant) (*catalog.BossAbilityDef, bool) {
	ready := s.Ready(st, b)
	if len(ready) == 0 {
		return nil, false
	}
	for _, def := range ready {
		if !def.Signature {
			continue
		}
		if b.HealthPercent() < SignatureHealthPercent || dice.Chance(st.RNG, SignatureChance) {
			return def, true
		}
		break
	}
	return ready[st.RNG.Intn(len(ready))], true
}

// Begin starts casting def and commits its cooldown. Single-target rules
// lock their target now; the cast is cancelled if that target dies first.
//
// Precondition: b is idle.
func (s *System) Begin(st *combat.State, b *combat.Combatant, def *catalog.BossAbilityDef) error {
	target := ""
	if single(def.Target) {
		ts := s.Targets(st, b, def.Target)
		if len(ts) == 0 {
			return nil
		}
		target = ts[0].ID
	}
	if err := b.Action.Begin(); err != nil {
		return err
	}
	ticks := max(st.Rules.Seconds(def.CastTime*b.Effects.SpeedMultiplier()), 1)
	b.Cast = combat.Cast{
		Ability:    def.ID,
		TargetID:   target,
		SkillIndex: -1,
		StartTick:  st.Tick,
		EndTick:    st.Tick + ticks,
	}
	s.commitCooldown(st, b, def)
	st.Emit(combat.EntryCast, b.ID, target, ticks, "%s begins casting %s", b.Name, def.Name)
	return nil
}

func (s *System) commitCooldown(st *combat.State, b *combat.Combatant, def *catalog.BossAbilityDef) {
	if def.OncePerFight {
		b.Enemy.Boss.SetReadyAt(def.ID, combat.NeverReady)
		return
	}
	b.Enemy.Boss.SetReadyAt(def.ID, st.Tick+st.Rules.Seconds(def.Cooldown*st.Rules.CooldownScale))
}

// Finish resolves b's completed cast and returns it to idle. A missing
// ability or a dead locked target cancels the cast without effect.
func (s *System) Finish(st *combat.State, b *combat.Combatant) {
	def, err := s.registry.Ability(b.Cast.Ability)
	if err != nil {
		s.logger.Warn("boss cast references unknown ability", zap.String("boss", b.ID), zap.Error(err))
		st.Interrupt(b, "missing ability")
		return
	}
	var locked *combat.Combatant
	if b.Cast.TargetID != "" {
		locked = st.Find(b.Cast.TargetID)
		if locked == nil || !locked.Alive() {
			st.Interrupt(b, "target lost")
			return
		}
	}
	_ = b.Action.Resolve()
	b.Cast = combat.Cast{SkillIndex: -1}
	s.Execute(st, b, def, locked)
}

// Advance runs the per-second bookkeeping: expired damage windows and
// undying floors are cleared and announced.
func (s *System) Advance(st *combat.State, b *combat.Combatant) {
	as := b.Enemy.Boss
	if as.DamageWindowBonus != 0 && st.Tick >= as.DamageWindowUntil {
		as.DamageWindowBonus = 0
		st.Emit(combat.EntryPhase, b.ID, "", 0, "%s's frenzy fades", b.Name)
	}
	if as.UndyingUntil != 0 && st.Tick >= as.UndyingUntil {
		as.UndyingUntil = 0
		st.Emit(combat.EntryPhase, b.ID, "", 0, "%s is mortal again", b.Name)
	}
}
