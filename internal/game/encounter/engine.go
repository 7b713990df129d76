// Package encounter is the tick scheduler. It owns a combat.State for the
// length of a fight and advances it one tick at a time: finished actions
// resolve, idle actors choose new ones, the effect ledger runs once per
// simulated second, and the outcome is settled.
package encounter

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/ai"
	"github.com/cory-johannsen/delve/internal/game/boss"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/observability"
)

// Engine advances combat states. It holds no per-fight state, so one Engine
// may drive any number of fights, one goroutine per fight.
type Engine struct {
	usage  *ai.Engine
	bosses *boss.System
	logger *zap.Logger
	probe  observability.Probe
}

// Deps are the collaborators of an Engine.
type Deps struct {
	Usage  *ai.Engine
	Bosses *boss.System
	Logger *zap.Logger
	// Probe may be nil.
	Probe observability.Probe
}

// NewEngine returns an Engine.
//
// Precondition: Usage, Bosses and Logger are non-nil.
func NewEngine(d Deps) *Engine {
	probe := d.Probe
	if probe == nil {
		probe = observability.NopProbe{}
	}
	return &Engine{
		usage:  d.Usage,
		bosses: d.Bosses,
		logger: d.Logger,
		probe:  probe,
	}
}

// Setup is everything a fight starts from.
type Setup struct {
	Team  []*combat.Combatant
	Packs [][]*combat.Combatant
	Rules combat.Rules
	// Seed seeds the fight's random source; 0 draws a fresh seed.
	Seed             uint64
	LogCapacity      int
	FloatingCapacity int
}

// Start validates s and returns a state in the combat phase with the first
// pack spawned.
func (e *Engine) Start(s Setup) (*combat.State, error) {
	if len(s.Team) == 0 {
		return nil, errors.New("encounter: team is empty")
	}
	if len(s.Packs) == 0 {
		return nil, errors.New("encounter: no enemy packs")
	}
	for _, m := range s.Team {
		if m.Kind != combat.KindMember || m.Loadout == nil {
			return nil, fmt.Errorf("encounter: %q is not a team member with a loadout", m.ID)
		}
	}
	for i, p := range s.Packs {
		if len(p) == 0 {
			return nil, fmt.Errorf("encounter: pack %d is empty", i+1)
		}
	}
	seed := s.Seed
	if seed == 0 {
		seed = dice.NewSeed()
	}
	st := combat.NewState(s.Rules, dice.NewSeededSource(seed), s.LogCapacity, s.FloatingCapacity)
	st.Team = s.Team
	st.Packs = s.Packs
	st.Enemies = s.Packs[0]
	st.Phase = combat.PhaseCombat
	st.Emit(combat.EntryPhase, "", "", 0, "Combat begins against %s", names(st.Enemies))
	e.logger.Debug("encounter started",
		zap.Uint64("seed", seed),
		zap.Int("team", len(s.Team)),
		zap.Int("packs", len(s.Packs)),
	)
	return st, nil
}

// Output is what one tick produced.
type Output struct {
	Entries  []combat.Entry
	Floating []combat.Floating
	Stats    observability.TickStats
}

// Step is the pure form of Advance: st is left untouched and the advanced
// copy is returned along with the tick's events.
func (e *Engine) Step(st *combat.State) (*combat.State, Output) {
	next := st.Clone()
	out := e.Advance(next)
	return next, out
}

// turn carries the per-tick counters through the phases.
type turn struct {
	st    *combat.State
	stats observability.TickStats
}

// Advance runs one tick on st in place. Idle and finished states do not
// advance.
func (e *Engine) Advance(st *combat.State) Output {
	if st.Phase == combat.PhaseIdle || st.Phase.Finished() {
		return Output{}
	}
	st.Tick++
	t := &turn{st: st}
	switch st.Phase {
	case combat.PhaseTraveling:
		e.travel(t)
	case combat.PhaseCombat:
		e.fight(t)
	}

	entries, floating := st.Drain()
	t.stats.Tick = st.Tick
	t.stats.Phase = string(st.Phase)
	t.stats.Entries = len(entries)
	t.stats.Floating = len(floating)
	for _, en := range entries {
		if en.Type == combat.EntryCancel {
			t.stats.Cancelled++
		}
	}
	e.probe.ObserveTick(t.stats)
	return Output{Entries: entries, Floating: floating, Stats: t.stats}
}

func (e *Engine) fight(t *turn) {
	e.resolveActions(t)
	if e.settle(t) {
		return
	}
	e.startActions(t)
	if e.secondBoundary(t.st) {
		e.sweep(t, t.st.Team)
		e.sweep(t, t.st.Enemies)
		for _, b := range t.st.Enemies {
			if b.IsBoss() && b.Alive() {
				e.bosses.Advance(t.st, b)
			}
		}
	}
	e.settle(t)
}

func (e *Engine) secondBoundary(st *combat.State) bool {
	return st.Tick%st.Rules.TicksPerSecond == 0
}

// resolveActions finishes every cast whose end tick has come and runs due
// channel pulses, team first.
func (e *Engine) resolveActions(t *turn) {
	for _, group := range [][]*combat.Combatant{t.st.Team, t.st.Enemies} {
		for _, c := range group {
			if !c.Alive() {
				continue
			}
			switch {
			case c.Action.Is(combat.Casting) && t.st.Tick >= c.Cast.EndTick:
				if c.Kind == combat.KindMember {
					e.finishMember(t, c)
				} else {
					e.finishEnemy(t, c)
				}
			case c.Action.Is(combat.Channeling) && t.st.Tick >= c.Cast.NextTick:
				e.pulse(t, c)
			}
		}
	}
}

// startActions lets each idle, living actor begin its next action.
func (e *Engine) startActions(t *turn) {
	for _, group := range [][]*combat.Combatant{t.st.Team, t.st.Enemies} {
		for _, c := range group {
			if !c.Alive() || !c.Action.Is(combat.Idle) || c.Flags.Stunned {
				continue
			}
			if len(t.st.OpponentsOf(c)) == 0 {
				continue
			}
			if c.Kind == combat.KindMember {
				e.startMember(t, c)
			} else {
				e.startEnemy(t, c)
			}
		}
	}
}

// settle moves the state out of combat when a side is wiped. It reports
// whether combat ended this tick.
func (e *Engine) settle(t *turn) bool {
	st := t.st
	if st.Phase != combat.PhaseCombat {
		return true
	}
	if len(st.LivingTeam()) == 0 {
		st.Phase = combat.PhaseDefeat
		st.Emit(combat.EntryPhase, "", "", 0, "The party has fallen")
		e.stopAll(st, "defeat")
		return true
	}
	if len(st.LivingEnemies()) > 0 {
		return false
	}
	if st.PackIndex+1 < len(st.Packs) {
		st.Phase = combat.PhaseTraveling
		st.TravelUntil = st.Tick + st.Rules.TravelTicks
		st.Emit(combat.EntryPhase, "", "", 0, "Pack %d cleared; the party moves on", st.PackIndex+1)
		e.stopAll(st, "the pack is cleared")
		return true
	}
	st.Phase = combat.PhaseVictory
	st.Emit(combat.EntryPhase, "", "", 0, "Victory")
	e.stopAll(st, "victory")
	return true
}

func (e *Engine) stopAll(st *combat.State, reason string) {
	for _, c := range st.Team {
		if c.Alive() {
			st.Interrupt(c, reason)
		}
	}
	for _, c := range st.Enemies {
		if c.Alive() {
			st.Interrupt(c, reason)
		}
	}
}

// travel runs the ledger for the team while it walks to the next pack and
// spawns that pack on arrival.
func (e *Engine) travel(t *turn) {
	st := t.st
	if e.secondBoundary(st) {
		e.sweep(t, st.Team)
	}
	if len(st.LivingTeam()) == 0 {
		st.Phase = combat.PhaseDefeat
		st.Emit(combat.EntryPhase, "", "", 0, "The party has fallen")
		return
	}
	if st.Tick < st.TravelUntil {
		return
	}
	st.PackIndex++
	st.Enemies = st.Packs[st.PackIndex]
	st.Phase = combat.PhaseCombat
	st.Emit(combat.EntryPhase, "", "", 0, "Pack %d engages: %s", st.PackIndex+1, names(st.Enemies))
}

func names(cs []*combat.Combatant) string {
	out := ""
	for i, c := range cs {
		if i > 0 {
			out += ", "
		}
		out += c.Name
	}
	return out
}
