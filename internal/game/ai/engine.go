package ai

import (
	"slices"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ScriptCaller evaluates Lua predicates.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// ScriptScope is the Lua scope usage predicates are loaded into.
const ScriptScope = "usage"

// Engine evaluates usage configs, adding optional script predicates on top
// of the pure rule check.
type Engine struct {
	scripts ScriptCaller
	logger  *zap.Logger
}

// NewEngine returns an engine. scripts may be nil, in which case configs
// naming a script are evaluated on their rules alone.
//
// Precondition: logger is non-nil.
func NewEngine(scripts ScriptCaller, logger *zap.Logger) *Engine {
	return &Engine{scripts: scripts, logger: logger}
}

// Eligible runs Evaluate and then the script predicate, if any. A script
// error counts as false.
func (e *Engine) Eligible(cfg UsageConfig, ctx Context) bool {
	if !Evaluate(cfg, ctx) {
		return false
	}
	if cfg.Script == "" || e.scripts == nil {
		return true
	}
	val, err := e.scripts.CallHook(ScriptScope, cfg.Script,
		lua.LString(ctx.Actor),
		lua.LNumber(ctx.SelfHealth),
		lua.LNumber(ctx.SelfMana),
		lua.LNumber(len(ctx.Enemies)),
	)
	if err != nil {
		e.logger.Warn("usage script failed", zap.String("script", cfg.Script), zap.Error(err))
		return false
	}
	return val == lua.LTrue
}

// Candidate is one eligible skill awaiting ranking.
type Candidate struct {
	// Index is the skill's declaration position in the loadout.
	Index    int
	Priority int
}

// Rank orders candidates by descending priority, keeping declaration order
// on ties.
func Rank(cands []Candidate) []Candidate {
	out := slices.Clone(cands)
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		return a.Index - b.Index
	})
	return out
}

// Choose returns the first ranked candidate the caller can afford.
func Choose(ranked []Candidate, affordable func(index int) bool) (int, bool) {
	for _, c := range ranked {
		if affordable(c.Index) {
			return c.Index, true
		}
	}
	return -1, false
}

// HealFallback forces the first affordable healing skill when an ally has
// dropped under criticalPct and no config selected a heal. heals lists
// healing skill indices in declaration order.
func HealFallback(ctx Context, criticalPct float64, heals []int, affordable func(index int) bool) (int, bool) {
	if ctx.LowestAllyHealth() >= criticalPct {
		return -1, false
	}
	for _, i := range heals {
		if affordable(i) {
			return i, true
		}
	}
	return -1, false
}
