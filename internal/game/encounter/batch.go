package encounter

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/delve/internal/game/combat"
)

// Factory builds a fresh, unstarted setup for one run of a batch. Each call
// must return actors no other run shares.
type Factory func(run int) (Setup, error)

// BatchOptions controls RunBatch.
type BatchOptions struct {
	Runs int
	// Parallelism caps concurrent fights; values below 1 mean one.
	Parallelism int
	// BaseSeed seeds run i with BaseSeed+i. 0 draws a fresh seed per run.
	BaseSeed uint64
	MaxTicks int
}

// BatchResult aggregates the summaries of a batch, ordered by run index.
type BatchResult struct {
	Summaries []Summary
	Outcomes  map[Outcome]int
}

// WinRate is the fraction of runs that ended in victory.
func (r BatchResult) WinRate() float64 {
	if len(r.Summaries) == 0 {
		return 0
	}
	return float64(r.Outcomes[OutcomeVictory]) / float64(len(r.Summaries))
}

// RunBatch runs opts.Runs independent fights, each on its own goroutine and
// state. The first setup or start error cancels the batch.
func (e *Engine) RunBatch(ctx context.Context, opts BatchOptions, build Factory) (BatchResult, error) {
	if opts.Runs < 1 {
		return BatchResult{}, fmt.Errorf("encounter: runs must be >= 1, got %d", opts.Runs)
	}
	summaries := make([]Summary, opts.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Parallelism, 1))
	for i := range opts.Runs {
		g.Go(func() error {
			setup, err := build(i)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			if opts.BaseSeed != 0 {
				setup.Seed = opts.BaseSeed + uint64(i)
			}
			st, err := e.Start(setup)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			sum, err := e.Run(ctx, st, opts.MaxTicks, nil)
			summaries[i] = sum
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Summaries: summaries, Outcomes: map[Outcome]int{}}
	for _, s := range summaries {
		res.Outcomes[s.Outcome]++
	}
	e.logger.Info("batch finished",
		zap.Int("runs", opts.Runs),
		zap.Float64("win_rate", res.WinRate()),
	)
	return res, nil
}

// Spawned reports every enemy of st that has entered combat so far.
func Spawned(st *combat.State) []*combat.Combatant {
	var out []*combat.Combatant
	for i, p := range st.Packs {
		if i > st.PackIndex {
			break
		}
		out = append(out, p...)
	}
	return out
}
