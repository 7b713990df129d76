package encounter

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/combat"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	// OutcomeTimeout means the tick limit was reached with both sides standing.
	OutcomeTimeout Outcome = "timeout"
	// OutcomeAborted means the caller's context ended the run between ticks.
	OutcomeAborted Outcome = "aborted"
)

// ActorSummary is the end-of-fight record of one actor.
type ActorSummary struct {
	ID           string
	Name         string
	Team         bool
	Alive        bool
	HP           int
	MaxHP        int
	DamageDone   int
	HealingDone  int
	DamageTaken  int
	HealingTaken int
	// DamageBySource and HealingBySource are sorted by amount, largest first.
	DamageBySource  []combat.SourceAmount
	HealingBySource []combat.SourceAmount
}

// Summary is the result of a run.
type Summary struct {
	Outcome Outcome
	Seed    uint64
	Ticks   int
	Seconds float64
	// PacksCleared counts packs whose enemies all died.
	PacksCleared int
	Team         []ActorSummary
	Enemies      []ActorSummary
	// LogDropped counts log entries evicted by the log capacity.
	LogDropped int
}

// Summarize builds the summary of st. Enemies of every pack spawned so far
// are included.
func Summarize(st *combat.State, outcome Outcome) Summary {
	s := Summary{
		Outcome:    outcome,
		Ticks:      st.Tick,
		Seconds:    st.Seconds(),
		LogDropped: st.Log.Dropped,
	}
	if st.RNG != nil {
		s.Seed = st.RNG.Seed()
	}
	for _, m := range st.Team {
		s.Team = append(s.Team, summarizeActor(m))
	}
	spawned := st.Packs
	if st.PackIndex < len(st.Packs) {
		spawned = st.Packs[:st.PackIndex+1]
	}
	for _, p := range spawned {
		cleared := true
		for _, c := range p {
			s.Enemies = append(s.Enemies, summarizeActor(c))
			cleared = cleared && !c.Alive()
		}
		if cleared {
			s.PacksCleared++
		}
	}
	return s
}

func summarizeActor(c *combat.Combatant) ActorSummary {
	return ActorSummary{
		ID:              c.ID,
		Name:            c.Name,
		Team:            c.Kind == combat.KindMember,
		Alive:           c.Alive(),
		HP:              c.HP,
		MaxHP:           c.MaxHP,
		DamageDone:      c.DamageDone.Total(),
		HealingDone:     c.HealingDone.Total(),
		DamageTaken:     c.DamageTaken,
		HealingTaken:    c.HealingTaken,
		DamageBySource:  c.DamageDone.Rows(),
		HealingBySource: c.HealingDone.Rows(),
	}
}

// Sink receives each tick's output. It must not retain st-owned slices
// beyond the call unless it copies them.
type Sink func(Output)

// Run advances st until the fight ends, maxTicks is reached or ctx is done.
// ctx is checked between ticks; a begun tick always completes. The returned
// error is ctx.Err() for aborted runs and nil otherwise.
//
// Precondition: st came from Start.
func (e *Engine) Run(ctx context.Context, st *combat.State, maxTicks int, sink Sink) (Summary, error) {
	if st.Phase == combat.PhaseIdle {
		return Summary{}, errors.New("encounter: state was not started")
	}
	for !st.Phase.Finished() {
		if err := ctx.Err(); err != nil {
			e.logger.Info("encounter aborted", zap.Int("tick", st.Tick), zap.Error(err))
			return Summarize(st, OutcomeAborted), err
		}
		if maxTicks > 0 && st.Tick >= maxTicks {
			e.logger.Warn("encounter reached the tick limit", zap.Int("max_ticks", maxTicks))
			return Summarize(st, OutcomeTimeout), nil
		}
		out := e.Advance(st)
		if sink != nil {
			sink(out)
		}
	}
	outcome := OutcomeDefeat
	if st.Phase == combat.PhaseVictory {
		outcome = OutcomeVictory
	}
	e.logger.Info("encounter finished",
		zap.String("outcome", string(outcome)),
		zap.Int("ticks", st.Tick),
		zap.Float64("seconds", st.Seconds()),
	)
	return Summarize(st, outcome), nil
}
