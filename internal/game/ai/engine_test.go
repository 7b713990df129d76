package ai_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/delve/internal/game/ai"
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/effect"
)

func nopLogger() *zap.Logger { return zap.NewNop() }

type mockScriptCaller struct {
	val   lua.LValue
	err   error
	calls []string
}

func (m *mockScriptCaller) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.calls = append(m.calls, scope+"/"+hook)
	if m.val == nil {
		return lua.LNil, m.err
	}
	return m.val, m.err
}

func TestEngine_ScriptPredicate(t *testing.T) {
	cfg := ai.UsageConfig{Enabled: true, Script: "only_when_ready"}
	caller := &mockScriptCaller{val: lua.LTrue}
	e := ai.NewEngine(caller, nopLogger())
	assert.True(t, e.Eligible(cfg, ai.Context{Actor: "m1"}))
	assert.Equal(t, []string{"usage/only_when_ready"}, caller.calls)

	caller.val = lua.LFalse
	assert.False(t, e.Eligible(cfg, ai.Context{}))
}

func TestEngine_ScriptErrorIsFalseAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := ai.NewEngine(&mockScriptCaller{err: errors.New("boom")}, zap.New(core))
	assert.False(t, e.Eligible(ai.UsageConfig{Enabled: true, Script: "x"}, ai.Context{}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "usage script failed", logs.All()[0].Message)
}

func TestEngine_SkipsScriptWhenRulesFail(t *testing.T) {
	caller := &mockScriptCaller{val: lua.LTrue}
	e := ai.NewEngine(caller, nopLogger())
	assert.False(t, e.Eligible(ai.UsageConfig{Enabled: false, Script: "x"}, ai.Context{}))
	assert.Empty(t, caller.calls)
}

func TestRank_PriorityThenDeclarationOrder(t *testing.T) {
	ranked := ai.Rank([]ai.Candidate{
		{Index: 0, Priority: 10},
		{Index: 1, Priority: 50},
		{Index: 2, Priority: 50},
		{Index: 3, Priority: 70},
	})
	got := []int{ranked[0].Index, ranked[1].Index, ranked[2].Index, ranked[3].Index}
	assert.Equal(t, []int{3, 1, 2, 0}, got)
}

func TestChoose_SkipsUnaffordable(t *testing.T) {
	ranked := []ai.Candidate{{Index: 2}, {Index: 0}}
	idx, ok := ai.Choose(ranked, func(i int) bool { return i == 0 })
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestHealFallback(t *testing.T) {
	always := func(int) bool { return true }
	_, ok := ai.HealFallback(ai.Context{AllyHealth: []float64{50}}, 35, []int{1}, always)
	assert.False(t, ok)

	idx, ok := ai.HealFallback(ai.Context{AllyHealth: []float64{90, 20}}, 35, []int{3, 1}, func(i int) bool { return i == 1 })
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = ai.HealFallback(ai.Context{AllyHealth: []float64{20}}, 35, []int{1}, func(int) bool { return false })
	assert.False(t, ok)
}

func TestDefaultUsage_ByArchetype(t *testing.T) {
	heal := ai.DefaultUsage(&catalog.SkillDef{Archetype: catalog.Heal})
	assert.True(t, heal.Enabled)
	assert.Equal(t, 80, heal.Priority)
	require.Len(t, heal.Conditions, 1)
	assert.Equal(t, ai.AllyHealth, heal.Conditions[0].Subject)

	nova := ai.DefaultUsage(&catalog.SkillDef{Archetype: catalog.Spell, Area: true, Cooldown: 3})
	assert.Equal(t, ai.CountAoE, nova.TargetCount)
	assert.Equal(t, ai.OnCooldown, nova.CooldownMode)

	dot := ai.DefaultUsage(&catalog.SkillDef{
		Archetype: catalog.DoTSpell,
		Effect:    &effect.Spec{Name: "Essence Drain"},
	})
	assert.Equal(t, "Essence Drain", dot.Conditions[0].Effect)
	assert.NoError(t, dot.Validate())

	buff := ai.DefaultUsage(&catalog.SkillDef{Archetype: catalog.Buff, Effect: &effect.Spec{Name: "Hymn"}})
	assert.Equal(t, ai.SaveForBurst, buff.CooldownMode)
}
