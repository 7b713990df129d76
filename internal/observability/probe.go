package observability

import (
	"sync"

	"go.uber.org/zap"
)

// TickStats are the counters of one resolved tick.
type TickStats struct {
	Tick  int
	Phase string
	// Started and Resolved count actions begun and finished this tick.
	Started  int
	Resolved int
	// Cancelled counts interrupted or aborted actions.
	Cancelled int
	Entries   int
	Floating  int
	// Sanitized counts non-finite values replaced this tick.
	Sanitized int
}

// Probe receives per-tick telemetry from the scheduler. Implementations
// must not retain or mutate simulation state.
type Probe interface {
	ObserveTick(TickStats)
}

// NopProbe discards everything.
type NopProbe struct{}

// ObserveTick implements Probe.
func (NopProbe) ObserveTick(TickStats) {}

// TickRecorder keeps running totals and the most recent ticks in memory.
//
// TickRecorder is safe for concurrent use.
type TickRecorder struct {
	mu     sync.Mutex
	keep   int
	recent []TickStats
	totals TickStats
	ticks  int
}

// NewTickRecorder returns a recorder retaining the last keep ticks.
func NewTickRecorder(keep int) *TickRecorder {
	return &TickRecorder{keep: max(keep, 0)}
}

// ObserveTick implements Probe.
func (r *TickRecorder) ObserveTick(s TickStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	r.totals.Tick = s.Tick
	r.totals.Phase = s.Phase
	r.totals.Started += s.Started
	r.totals.Resolved += s.Resolved
	r.totals.Cancelled += s.Cancelled
	r.totals.Entries += s.Entries
	r.totals.Floating += s.Floating
	r.totals.Sanitized += s.Sanitized
	if r.keep == 0 {
		return
	}
	r.recent = append(r.recent, s)
	if len(r.recent) > r.keep {
		r.recent = r.recent[len(r.recent)-r.keep:]
	}
}

// Ticks returns how many ticks were observed.
func (r *TickRecorder) Ticks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// Totals returns the summed counters; Tick and Phase are from the last tick.
func (r *TickRecorder) Totals() TickStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totals
}

// Recent returns the retained ticks, oldest first.
func (r *TickRecorder) Recent() []TickStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TickStats(nil), r.recent...)
}

// LogProbe writes ticks that did something to a logger at Debug.
type LogProbe struct {
	Logger *zap.Logger
}

// ObserveTick implements Probe.
func (p LogProbe) ObserveTick(s TickStats) {
	if s.Started+s.Resolved+s.Cancelled+s.Sanitized == 0 {
		return
	}
	p.Logger.Debug("tick",
		zap.Int("tick", s.Tick),
		zap.String("phase", s.Phase),
		zap.Int("started", s.Started),
		zap.Int("resolved", s.Resolved),
		zap.Int("cancelled", s.Cancelled),
		zap.Int("entries", s.Entries),
		zap.Int("sanitized", s.Sanitized),
	)
}
