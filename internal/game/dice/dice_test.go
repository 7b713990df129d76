package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/dice"
)

type fixedSrc struct{ v int }

func (f fixedSrc) Intn(n int) int {
	if f.v >= n {
		return n - 1
	}
	return f.v
}
func (f fixedSrc) Float64() float64 { return 0.5 }

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3 [4 5] +3 = 12", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in                      string
		count, sides, mod, keep int
	}{
		{"d20", 1, 20, 0, 0},
		{"2d6", 2, 6, 0, 0},
		{"2d6+3", 2, 6, 3, 0},
		{"4d8-2", 4, 8, -2, 0},
		{"4d6kh3", 4, 6, 0, 3},
		{"4d6kh3+1", 4, 6, 1, 3},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.mod, e.Modifier)
			assert.Equal(t, tc.keep, e.KeepHighest)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "6", "0d6", "2d1", "2dx", "2d6kh2", "2d6+x"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, in)
	}
}

func TestRoll_KeepHighest(t *testing.T) {
	r := dice.Roll(dice.MustParse("4d6kh3"), fixedSrc{v: 2})
	assert.Len(t, r.Dice, 3)
	assert.Equal(t, 9, r.Total())
}

func TestAverage(t *testing.T) {
	assert.InDelta(t, 10.0, dice.Average(dice.MustParse("2d6+3")), 1e-9)
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSeededSource_CloneIsIndependent(t *testing.T) {
	a := dice.NewSeededSource(7)
	a.Intn(10)
	c := a.Clone()
	want := c.Float64()
	assert.Equal(t, want, a.Float64(), "clone must continue from the same position")
	c.Float64()
	c.Float64()
	d := a.Clone()
	assert.Equal(t, a.Float64(), d.Float64())
}

func TestSeededSource_IntnPanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}

func TestChance_NoDrawOnZero(t *testing.T) {
	a := dice.NewSeededSource(9)
	b := dice.NewSeededSource(9)
	assert.False(t, dice.Chance(a, 0))
	assert.True(t, dice.Chance(a, 1))
	assert.Equal(t, b.Float64(), a.Float64())
}

func TestRoller_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(fixedSrc{v: 0}, zap.New(core))
	res, err := r.RollExpr("2d6+1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "dice roll", logs.All()[0].Message)
}

func TestProperty_Roll_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		seed := rapid.Uint64().Draw(rt, "seed")
		e := dice.Expression{Raw: "x", Count: count, Sides: sides}
		r := dice.Roll(e, dice.NewSeededSource(seed))
		assert.GreaterOrEqual(rt, r.Total(), count)
		assert.LessOrEqual(rt, r.Total(), count*sides)
	})
}
