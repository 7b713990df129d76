package boss_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/boss"
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/effect"
)

type fixture struct {
	st   *combat.State
	sys  *boss.System
	reg  *catalog.Registry
	boss *combat.Combatant
	tank *combat.Combatant
	dps  *combat.Combatant
	logs *observer.ObservedLogs
}

type testingT interface {
	require.TestingT
	Helper()
}

func newFixture(t testingT, seed uint64, defs ...*catalog.BossAbilityDef) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	reg := catalog.NewRegistry()
	var ids []string
	for _, d := range defs {
		reg.AddAbility(d)
		ids = append(ids, d.ID)
	}
	st := combat.NewState(combat.DefaultRules(), dice.NewSeededSource(seed), 0, 16)
	st.Phase = combat.PhaseCombat

	tank := combat.NewCombatant("tank", "Brom", combat.KindMember, 1000, 100)
	tank.Role = combat.RoleTank
	dps := combat.NewCombatant("dps", "Ila", combat.KindMember, 600, 200)
	dps.Role = combat.RoleDamage
	dps.Slot = 1
	st.Team = []*combat.Combatant{tank, dps}

	b := combat.NewCombatant("lich", "The Lich", combat.KindEnemy, 2000, 0)
	b.Rarity = combat.Boss
	b.Enemy = &combat.EnemyProfile{Abilities: ids, Boss: combat.NewAbilityState()}
	st.Enemies = []*combat.Combatant{b}

	return &fixture{
		st:   st,
		sys:  boss.NewSystem(reg, nil, zap.New(core)),
		reg:  reg,
		boss: b,
		tank: tank,
		dps:  dps,
		logs: logs,
	}
}

func (f *fixture) cast(t testingT, def *catalog.BossAbilityDef) {
	t.Helper()
	require.NoError(t, f.sys.Begin(f.st, f.boss, def))
	f.st.Tick = f.boss.Cast.EndTick
	f.sys.Finish(f.st, f.boss)
	require.True(t, f.boss.Action.Is(combat.Idle))
}

func crushingBlow() *catalog.BossAbilityDef {
	return &catalog.BossAbilityDef{ID: "crushing_blow", Name: "Crushing Blow", CastTime: 2, Cooldown: 10, Target: catalog.TargetTank, BaseDamage: 240}
}

func TestBegin_CommitsScaledCooldown(t *testing.T) {
	f := newFixture(t, 1, crushingBlow())
	def := crushingBlow()
	require.NoError(t, f.sys.Begin(f.st, f.boss, def))
	assert.Equal(t, 20, f.boss.Cast.EndTick)
	assert.Equal(t, "tank", f.boss.Cast.TargetID)
	assert.Equal(t, 40, f.boss.Enemy.Boss.ReadyAt["crushing_blow"], "10s at 40% is 4s")
	assert.False(t, f.boss.Enemy.Boss.Ready("crushing_blow", 39))
	assert.True(t, f.boss.Enemy.Boss.Ready("crushing_blow", 40))
	assert.Equal(t, boss.StatusCooldown, f.sys.Status(f.st, f.boss, "crushing_blow"))
}

func TestTargets(t *testing.T) {
	f := newFixture(t, 3)
	f.tank.HP = 300
	f.dps.DamageDone.Add("Fireball", 500)

	assert.Equal(t, []*combat.Combatant{f.tank, f.dps}, f.sys.Targets(f.st, f.boss, catalog.TargetAll))
	assert.Equal(t, []*combat.Combatant{f.tank}, f.sys.Targets(f.st, f.boss, catalog.TargetTank))
	assert.Equal(t, []*combat.Combatant{f.tank}, f.sys.Targets(f.st, f.boss, catalog.TargetLowestLife), "tank at 30%")
	assert.Equal(t, []*combat.Combatant{f.dps}, f.sys.Targets(f.st, f.boss, catalog.TargetHighestDPS))
	assert.Equal(t, []*combat.Combatant{f.boss}, f.sys.Targets(f.st, f.boss, catalog.TargetSelf))
	assert.Len(t, f.sys.Targets(f.st, f.boss, catalog.TargetRandom), 1)

	f.st.Kill(f.tank, "test")
	assert.Equal(t, []*combat.Combatant{f.dps}, f.sys.Targets(f.st, f.boss, catalog.TargetLowestLife))
	f.st.Kill(f.dps, "test")
	assert.Empty(t, f.sys.Targets(f.st, f.boss, catalog.TargetRandom))
	assert.Equal(t, []*combat.Combatant{f.boss}, f.sys.Targets(f.st, f.boss, catalog.TargetSelf))
}

func TestStatus_Lifecycle(t *testing.T) {
	once := &catalog.BossAbilityDef{ID: "vigil", Name: "Vigil", Target: catalog.TargetSelf, OncePerFight: true}
	f := newFixture(t, 1, crushingBlow(), once)
	assert.Equal(t, boss.StatusUnused, f.sys.Status(f.st, f.boss, "crushing_blow"))
	f.cast(t, crushingBlow())
	f.st.Tick = 1000
	assert.Equal(t, boss.StatusReady, f.sys.Status(f.st, f.boss, "crushing_blow"))
	f.cast(t, once)
	assert.Equal(t, boss.StatusSpent, f.sys.Status(f.st, f.boss, "vigil"))
}

func TestFinish_GenericHitsTank(t *testing.T) {
	f := newFixture(t, 1, crushingBlow())
	f.cast(t, crushingBlow())
	assert.Equal(t, 760, f.tank.HP)
	assert.Equal(t, "crushing_blow", f.boss.Enemy.Boss.LastAbility)
	assert.Equal(t, 240, f.boss.DamageDone.Total())
}

func TestFinish_LockedTargetDiedCancels(t *testing.T) {
	f := newFixture(t, 1, crushingBlow())
	require.NoError(t, f.sys.Begin(f.st, f.boss, crushingBlow()))
	f.st.Kill(f.tank, "test")
	f.st.Tick = f.boss.Cast.EndTick
	f.sys.Finish(f.st, f.boss)
	assert.True(t, f.boss.Action.Is(combat.Idle))
	assert.Equal(t, 600, f.dps.HP)
	assert.Empty(t, f.boss.Enemy.Boss.History)
}

func TestSelect_SignatureUnderThreshold(t *testing.T) {
	sig := &catalog.BossAbilityDef{ID: "grave_call", Name: "Grave Call", Target: catalog.TargetAll, Signature: true}
	f := newFixture(t, 7, crushingBlow(), sig)
	f.boss.HP = 500
	for range 20 {
		def, ok := f.sys.Select(f.st, f.boss)
		require.True(t, ok)
		assert.Equal(t, "grave_call", def.ID)
	}
}

func TestSelect_NothingReady(t *testing.T) {
	f := newFixture(t, 1, crushingBlow())
	f.cast(t, crushingBlow())
	_, ok := f.sys.Select(f.st, f.boss)
	assert.False(t, ok)
}

func TestSelect_UnknownAbilityWarnsOnce(t *testing.T) {
	f := newFixture(t, 1, crushingBlow())
	f.boss.Enemy.Abilities = append(f.boss.Enemy.Abilities, "missing")
	for range 3 {
		def, ok := f.sys.Select(f.st, f.boss)
		require.True(t, ok)
		assert.Equal(t, "crushing_blow", def.ID)
	}
	assert.Equal(t, 1, f.logs.FilterMessage("boss ability not in catalog").Len())
}

func TestTripleStrike(t *testing.T) {
	def := &catalog.BossAbilityDef{ID: "triple_rend", Name: "Triple Rend", Target: catalog.TargetTank, BaseDamage: 80, Behavior: catalog.TripleStrike}
	f := newFixture(t, 1, def)
	f.cast(t, def)
	assert.Equal(t, 760, f.tank.HP)
	n := 0
	for _, e := range f.st.Log.Entries() {
		if e.Type == combat.EntryDamage {
			n++
		}
	}
	assert.Equal(t, 3, n)
}

func TestSwapHealth(t *testing.T) {
	def := &catalog.BossAbilityDef{ID: "soul_swap", Name: "Soul Swap", Target: catalog.TargetTank, Behavior: catalog.SwapHealth, OncePerFight: true, Signature: true}
	f := newFixture(t, 1, def)
	f.boss.HP = 400
	f.tank.HP = 900
	f.cast(t, def)
	assert.Equal(t, 1800, f.boss.HP)
	assert.Equal(t, 200, f.tank.HP)
}

func TestRandomDebuff_AppliesOneFromPool(t *testing.T) {
	def := &catalog.BossAbilityDef{
		ID: "hex", Name: "Hex", Target: catalog.TargetAll, Behavior: catalog.RandomDebuff,
		Pool: []effect.Spec{
			{Name: "Blind", Kind: effect.KindDebuff, Behavior: effect.Blind, Duration: 3},
			{Name: "Mute", Kind: effect.KindDebuff, Behavior: effect.Silence, Duration: 3},
		},
	}
	f := newFixture(t, 3, def)
	f.cast(t, def)
	for _, m := range f.st.Team {
		assert.Equal(t, 1, m.Effects.Len(), m.ID)
	}
}

func TestScaling(t *testing.T) {
	f := newFixture(t, 1)
	def := &catalog.BossAbilityDef{ID: "x", BaseDamage: 100, Scaling: catalog.ScaleDeadAllies, ScalingValue: 50}
	assert.InDelta(t, 100, boss.Amount(f.st, f.boss, f.tank, def, 1), 1e-9)
	f.st.Kill(f.dps, "test")
	assert.InDelta(t, 150, boss.Amount(f.st, f.boss, f.tank, def, 1), 1e-9)

	def.Scaling = catalog.ScaleDoomStacks
	doom := effect.Spec{Name: "Doom", Kind: effect.KindDebuff, Behavior: effect.Doom, Duration: 10, MaxStacks: 3}
	f.tank.Effects.Apply(doom, "lich", 2)
	assert.InDelta(t, 200, boss.Amount(f.st, f.boss, f.tank, def, 1), 1e-9)

	def.Scaling = catalog.ScaleBossArmor
	f.boss.Stats.Armor = 300
	assert.InDelta(t, 250, boss.Amount(f.st, f.boss, f.tank, def, 1), 1e-9)

	def.Scaling = catalog.ScaleFightDuration
	def.ScalingValue = 1
	f.st.Tick = 100
	assert.InDelta(t, 110, boss.Amount(f.st, f.boss, f.tank, def, 1), 1e-9)

	def.Scaling = catalog.ScalePartyBuffs
	def.ScalingValue = 10
	f.tank.Effects.Apply(effect.Spec{Name: "Hymn", Kind: effect.KindBuff, Behavior: effect.Empower, Value: 10, Duration: 5}, "tank", 1)
	assert.InDelta(t, 110, boss.Amount(f.st, f.boss, f.tank, def, 1), 1e-9)

	def.Scaling = catalog.ScaleSelfRamp
	def.ScalingValue = 25
	f.boss.Enemy.Boss.CastCounts["x"] = 4
	assert.InDelta(t, 200, boss.Amount(f.st, f.boss, f.tank, def, 0.5)*2, 1e-9)
}

func TestDamageWindowAndUndying(t *testing.T) {
	frenzy := &catalog.BossAbilityDef{ID: "frenzy", Name: "Frenzy", Target: catalog.TargetSelf,
		Effects: []catalog.AbilityEffect{{Kind: catalog.EffectDamageWindow, Value: 50, Duration: 6}}}
	vigil := &catalog.BossAbilityDef{ID: "vigil", Name: "Vigil", Target: catalog.TargetSelf, OncePerFight: true,
		Effects: []catalog.AbilityEffect{{Kind: catalog.EffectUndying, Duration: 5}, {Kind: catalog.EffectHealSelf, Value: 10}}}
	f := newFixture(t, 1, crushingBlow(), frenzy, vigil)
	f.cast(t, frenzy)
	assert.InDelta(t, 360, boss.Amount(f.st, f.boss, f.tank, crushingBlow(), 1), 1e-9)

	f.boss.HP = 100
	f.cast(t, vigil)
	assert.Equal(t, 300, f.boss.HP)
	res := f.st.DealDamage(f.dps, f.boss, hitOf(5000), "Fireball")
	assert.False(t, res.Killed)
	assert.Equal(t, 1, f.boss.HP)

	f.st.Tick += 100
	f.sys.Advance(f.st, f.boss)
	assert.Zero(t, f.boss.Enemy.Boss.DamageWindowBonus)
	assert.Zero(t, f.boss.Enemy.Boss.UndyingUntil)
}

func TestStunAndSilenceAndRemoveBuffs(t *testing.T) {
	stomp := &catalog.BossAbilityDef{ID: "stomp", Name: "Stomp", Target: catalog.TargetAll,
		Effects: []catalog.AbilityEffect{{Kind: catalog.EffectStun, Duration: 2}, {Kind: catalog.EffectSilence, Duration: 3}}}
	unravel := &catalog.BossAbilityDef{ID: "unravel", Name: "Unravel", Target: catalog.TargetAll,
		Effects: []catalog.AbilityEffect{{Kind: catalog.EffectRemoveBuffs}}}
	f := newFixture(t, 1, stomp, unravel)
	f.dps.Effects.Apply(effect.Spec{Name: "Hymn", Kind: effect.KindBuff, Behavior: effect.Empower, Value: 10, Duration: 5}, "dps", 1)
	f.cast(t, stomp)
	assert.True(t, f.tank.Flags.Stunned)
	assert.True(t, f.dps.Flags.Silenced)
	f.cast(t, unravel)
	assert.False(t, f.dps.Effects.Has("Hymn"))
	assert.True(t, f.dps.Effects.Has("Stunned"))
}

func TestCorpseEcho_ReplaysAtHalfPower(t *testing.T) {
	echo := &catalog.BossAbilityDef{ID: "corpse_echo", Name: "Corpse Echo", Target: catalog.TargetAll, Behavior: catalog.CorpseEcho}
	f := newFixture(t, 1, crushingBlow(), echo)
	f.cast(t, echo)
	assert.Equal(t, 1000, f.tank.HP, "nothing to echo yet")
	f.cast(t, crushingBlow())
	f.cast(t, echo)
	assert.Equal(t, 1000-240-120, f.tank.HP)
	assert.Equal(t, "crushing_blow", f.boss.Enemy.Boss.LastAbility)
	assert.Equal(t, 2, f.boss.Enemy.Boss.CastCounts["corpse_echo"])
}

func TestInfiniteRefrain_ReplaysRecentDistinct(t *testing.T) {
	nova := &catalog.BossAbilityDef{ID: "nova", Name: "Nova", Target: catalog.TargetAll, BaseDamage: 100}
	bolt := &catalog.BossAbilityDef{ID: "bolt", Name: "Bolt", Target: catalog.TargetAll, BaseDamage: 50}
	spark := &catalog.BossAbilityDef{ID: "spark", Name: "Spark", Target: catalog.TargetAll, BaseDamage: 20}
	refrain := &catalog.BossAbilityDef{ID: "refrain", Name: "Refrain", Target: catalog.TargetAll, Behavior: catalog.InfiniteRefrain, OncePerFight: true, Signature: true}
	f := newFixture(t, 1, crushingBlow(), nova, bolt, spark, refrain)
	for _, def := range []*catalog.BossAbilityDef{crushingBlow(), nova, spark, bolt, spark} {
		f.cast(t, def)
	}
	tankBefore := f.tank.HP
	f.cast(t, refrain)
	// crushing_blow is the fourth most recent distinct ability and falls out.
	assert.Equal(t, tankBefore-50-25-10, f.tank.HP)
	assert.Equal(t, boss.StatusSpent, f.sys.Status(f.st, f.boss, "refrain"))
	assert.NotContains(t, f.boss.Enemy.Boss.History, "refrain")
}

type fakeScripts struct{ ret lua.LValue }

func (f fakeScripts) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	return f.ret, nil
}

func TestScripted_UsesHookMultiplier(t *testing.T) {
	def := &catalog.BossAbilityDef{ID: "verse", Name: "Verse", Target: catalog.TargetTank, BaseDamage: 100, Behavior: catalog.Scripted, Script: "choir_verse"}
	f := newFixture(t, 1, def)
	f.sys = boss.NewSystem(f.reg, fakeScripts{ret: lua.LNumber(2.5)}, zap.NewNop())
	f.cast(t, def)
	assert.Equal(t, 750, f.tank.HP)

	f.st.Tick = 1000
	f.sys = boss.NewSystem(f.reg, fakeScripts{ret: lua.LString("nope")}, zap.NewNop())
	f.cast(t, def)
	assert.Equal(t, 650, f.tank.HP)
}

func TestProperty_OncePerFightNeverReselected(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		once := &catalog.BossAbilityDef{ID: "vigil", Name: "Vigil", Target: catalog.TargetSelf, OncePerFight: true, Signature: true}
		nova := &catalog.BossAbilityDef{ID: "nova", Name: "Nova", Target: catalog.TargetAll, BaseDamage: 1, Cooldown: 1}
		f := newFixture(rt, seed, once, nova)
		used := false
		for range rapid.IntRange(1, 40).Draw(rt, "casts") {
			def, ok := f.sys.Select(f.st, f.boss)
			if !ok {
				f.st.Tick++
				continue
			}
			if def.ID == "vigil" {
				require.False(rt, used, "vigil selected twice")
				used = true
			}
			f.cast(rt, def)
		}
	})
}

func hitOf(n int) damage.Hit { return damage.Hit{Amount: n, Type: damage.Physical} }
