package damage_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/dice"
)

// fixedSrc returns constant draws.
type fixedSrc struct {
	i int
	f float64
}

func (s fixedSrc) Intn(n int) int {
	if s.i >= n {
		return n - 1
	}
	return s.i
}
func (s fixedSrc) Float64() float64 { return s.f }

// countingSrc fails the test if the pipeline draws when it should not.
type countingSrc struct{ draws int }

func (c *countingSrc) Intn(int) int     { c.draws++; return 0 }
func (c *countingSrc) Float64() float64 { c.draws++; return 0.99 }

func TestResolve_TankTakesPhysicalHit(t *testing.T) {
	src := &countingSrc{}
	hit := damage.Resolve(damage.Request{Amount: 300, Type: damage.Physical}, src)
	assert.Equal(t, 300, hit.Amount)
	assert.False(t, hit.Blocked)
	assert.Equal(t, 0, src.draws)
	assert.Equal(t, 700, 1000-hit.Amount)
}

func TestResolve_GuaranteedBlockHalvesHit(t *testing.T) {
	hit := damage.Resolve(damage.Request{
		Amount:         300,
		Type:           damage.Physical,
		Defense:        damage.Defense{BlockChance: 100},
		BlockReduction: 0.5,
	}, &countingSrc{})
	assert.True(t, hit.Blocked)
	assert.Equal(t, 850, 1000-hit.Amount)
}

func TestSpellPower_HealRegression(t *testing.T) {
	got := damage.SpellPower(damage.SpellInput{Base: 100, Effectiveness: 100, Attribute: 20})
	assert.InDelta(t, 140.0, got, 1e-9)
}

func TestSpellPower_ModifiersCompose(t *testing.T) {
	got := damage.SpellPower(damage.SpellInput{
		Base:          40,
		Effectiveness: 50,
		Mods: damage.Modifiers{
			FlatAdded: 10,
			Increased: 50,
			More:      []float64{20, 10},
			Talent:    1.1,
		},
	})
	want := 50 * 0.5 * 1.5 * 1.2 * 1.1 * 1.1
	assert.InDelta(t, want, got, 1e-9)
}

func TestWeaponBase_DominantChannel(t *testing.T) {
	avg, typ := damage.WeaponBase(map[damage.Type]damage.Range{
		damage.Physical: {Min: 10, Max: 20},
		damage.Fire:     {Min: 2, Max: 4},
	})
	assert.InDelta(t, 18.0, avg, 1e-9)
	assert.Equal(t, damage.Physical, typ)
}

func TestWeaponBase_TieIsMixed(t *testing.T) {
	_, typ := damage.WeaponBase(map[damage.Type]damage.Range{
		damage.Cold:      {Min: 5, Max: 5},
		damage.Lightning: {Min: 4, Max: 6},
	})
	assert.Equal(t, damage.Mixed, typ)
}

func TestMitigate_ChaosNegativeResistAmplifies(t *testing.T) {
	got := damage.Mitigate(100, damage.Chaos, damage.Defense{ChaosResist: -20})
	assert.InDelta(t, 120.0, got, 1e-9)
}

func TestMitigate_ElementalCapped(t *testing.T) {
	got := damage.Mitigate(100, damage.Fire, damage.Defense{FireResist: 90})
	assert.InDelta(t, 25.0, got, 1e-9)
}

func TestResolve_CritMultiplies(t *testing.T) {
	hit := damage.Resolve(damage.Request{
		Amount: 100, Type: damage.Fire, CritChance: 1, CritMultiplier: 1.5,
	}, fixedSrc{})
	assert.True(t, hit.Crit)
	assert.Equal(t, 150, hit.Amount)
}

func TestResolve_NaNSanitizedToZero(t *testing.T) {
	hit := damage.Resolve(damage.Request{Amount: math.NaN(), Type: damage.Physical}, fixedSrc{})
	assert.True(t, hit.Sanitized)
	assert.Equal(t, 0, hit.Amount)
}

func TestResolveHeal_NetOfAbsorb(t *testing.T) {
	h := damage.ResolveHeal(damage.HealRequest{Amount: 140, Absorb: 40}, fixedSrc{f: 0.9})
	assert.Equal(t, 100, h.Amount)
	assert.Equal(t, 40, h.Absorbed)
}

func TestPlan_AreaHitsAllWithinCap(t *testing.T) {
	strikes := damage.Plan(5, 2, damage.Pattern{Area: true, TargetCap: 3}, fixedSrc{})
	require.Len(t, strikes, 3)
	assert.Equal(t, 2, strikes[0].TargetIndex)
}

func TestPlan_NoShotgun(t *testing.T) {
	strikes := damage.Plan(2, 0, damage.Pattern{Projectiles: 4}, fixedSrc{})
	require.Len(t, strikes, 2)
	assert.NotEqual(t, strikes[0].TargetIndex, strikes[1].TargetIndex)
}

func TestPlan_PierceThenChainWithFalloff(t *testing.T) {
	strikes := damage.Plan(4, 0, damage.Pattern{Pierce: 1, Chains: 2, ChainFalloff: 20}, fixedSrc{})
	require.Len(t, strikes, 4)
	assert.Equal(t, damage.StrikeInitial, strikes[0].Kind)
	assert.Equal(t, damage.StrikePierce, strikes[1].Kind)
	assert.Equal(t, 1, strikes[1].TargetIndex)
	assert.Equal(t, 1.0, strikes[1].Multiplier)
	assert.Equal(t, damage.StrikeChain, strikes[2].Kind)
	assert.InDelta(t, 0.8, strikes[2].Multiplier, 1e-9)
	assert.InDelta(t, 0.64, strikes[3].Multiplier, 1e-9)
}

func TestProperty_ArmorMonotonicWithFloor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		amount := rapid.Float64Range(1, 10000).Draw(rt, "amount")
		a := rapid.Float64Range(0, 100000).Draw(rt, "armor")
		b := a + rapid.Float64Range(1, 100000).Draw(rt, "delta")
		lo := damage.Mitigate(amount, damage.Physical, damage.Defense{Armor: b})
		hi := damage.Mitigate(amount, damage.Physical, damage.Defense{Armor: a})
		assert.Less(rt, lo, hi)
		assert.GreaterOrEqual(rt, lo, amount*damage.ArmorFloor)
	})
}

func TestResolve_HeavyArmorKeepsMinimumDamage(t *testing.T) {
	hit := damage.Resolve(damage.Request{Amount: 15, Type: damage.Physical, Defense: damage.Defense{Armor: 1e6}}, dice.NewSeededSource(1))
	assert.Equal(t, 1, hit.Amount)

	hit = damage.Resolve(damage.Request{Amount: 15, Type: damage.Physical, Defense: damage.Defense{Armor: 1e6, Reduction: 1}}, dice.NewSeededSource(1))
	assert.Equal(t, 0, hit.Amount, "a full flat reduction still cancels the hit")
}

func TestProperty_ResolvedArmorMonotonicWithFloor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		amount := float64(rapid.IntRange(1, 10000).Draw(rt, "amount"))
		a := rapid.Float64Range(0, 1e7).Draw(rt, "armor")
		b := a + rapid.Float64Range(1, 1e7).Draw(rt, "delta")
		src := dice.NewSeededSource(1)
		lo := damage.Resolve(damage.Request{Amount: amount, Type: damage.Physical, Defense: damage.Defense{Armor: b}}, src)
		hi := damage.Resolve(damage.Request{Amount: amount, Type: damage.Physical, Defense: damage.Defense{Armor: a}}, src)
		assert.LessOrEqual(rt, lo.Amount, hi.Amount)
		assert.GreaterOrEqual(rt, lo.Amount, 1)
	})
}

func TestProperty_ResolveNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		req := damage.Request{
			Amount:         rapid.Float64Range(-100, 5000).Draw(rt, "amount"),
			Type:           rapid.SampledFrom(damage.Channels).Draw(rt, "type"),
			CritChance:     rapid.Float64Range(0, 1).Draw(rt, "crit"),
			CritMultiplier: rapid.Float64Range(1, 3).Draw(rt, "mult"),
			Defense: damage.Defense{
				Armor:       rapid.Float64Range(0, 5000).Draw(rt, "armor"),
				ChaosResist: rapid.Float64Range(-100, 75).Draw(rt, "chaos"),
				BlockChance: rapid.Float64Range(0, 100).Draw(rt, "block"),
			},
			BlockReduction: 0.5,
		}
		hit := damage.Resolve(req, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		assert.GreaterOrEqual(rt, hit.Amount, 0)
	})
}
