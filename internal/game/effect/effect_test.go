package effect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/effect"
)

func poison() effect.Spec {
	return effect.Spec{Name: "Poison", Kind: effect.KindDebuff, Behavior: effect.DoT, Value: 10, Duration: 5, MaxStacks: 5}
}

func silence() effect.Spec {
	return effect.Spec{Name: "Silence", Kind: effect.KindDebuff, Behavior: effect.Silence, Duration: 2}
}

func TestSweep_DoTDealsValueTimesStacks(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(poison(), "boss", 3)
	res := s.Sweep()
	require.Len(t, res.Damage, 1)
	assert.Equal(t, 30.0, res.TotalDamage())
	a, ok := s.Get("Poison")
	require.True(t, ok)
	assert.Equal(t, 4, a.Remaining)
}

func TestApply_StackingRefreshesDurationAndCaps(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(poison(), "boss", 4)
	s.Sweep()
	s.Sweep()
	a, _ := s.Apply(poison(), "boss", 3)
	assert.Equal(t, 5, a.Stacks)
	assert.Equal(t, 5, a.Remaining)
}

func TestApply_NonStackingRefreshesOnly(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(silence(), "boss", 1)
	s.Sweep()
	a, added := s.Apply(silence(), "boss", 3)
	assert.False(t, added)
	assert.Equal(t, 1, a.Stacks)
	assert.Equal(t, 2, a.Remaining)
}

func TestSweep_ExpiresAndClearsFlags(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(silence(), "boss", 1)
	assert.True(t, s.Flags().Silenced)
	res := s.Sweep()
	assert.True(t, res.Flags.Silenced)
	res = s.Sweep()
	assert.Equal(t, []string{"Silence"}, res.Expired)
	assert.False(t, res.Flags.Silenced)
	assert.False(t, s.Has("Silence"))
}

func TestSweep_DoomKillsAtZero(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(effect.Spec{Name: "Doom", Kind: effect.KindDebuff, Behavior: effect.Doom, Duration: 2}, "lich", 1)
	assert.False(t, s.Sweep().Killed)
	res := s.Sweep()
	assert.True(t, res.Killed)
	assert.Equal(t, "Doom", res.KilledBy)
	assert.Equal(t, "lich", res.KillSource)
}

func TestSweep_LeakGrows(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(effect.Spec{Name: "Leak", Kind: effect.KindDebuff, Behavior: effect.Leak, Value: 5, Duration: 10, MaxStacks: 3}, "b", 1)
	assert.Equal(t, 5.0, s.Sweep().TotalDamage())
	assert.Equal(t, 10.0, s.Sweep().TotalDamage())
	assert.Equal(t, 15.0, s.Sweep().TotalDamage())
	assert.Equal(t, 15.0, s.Sweep().TotalDamage())
}

func TestSweep_HoTHeals(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(effect.Spec{Name: "Renew", Kind: effect.KindHoT, Behavior: effect.HoT, Value: 12, Duration: 3}, "healer", 1)
	assert.Equal(t, 12.0, s.Sweep().TotalHealing())
}

func TestRemoveKind(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(poison(), "b", 1)
	s.Apply(effect.Spec{Name: "Might", Kind: effect.KindBuff, Behavior: effect.Empower, Value: 20, Duration: 3}, "m", 1)
	removed := s.RemoveKind(effect.KindBuff)
	assert.Equal(t, []string{"Might"}, removed)
	assert.Equal(t, 1, s.Len())
}

func TestClone_IsDeep(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(poison(), "b", 1)
	c := s.Clone()
	c.Apply(poison(), "b", 2)
	assert.Equal(t, 1, s.Stacks("Poison"))
	assert.Equal(t, 3, c.Stacks("Poison"))
}

func TestSpeedMultiplier(t *testing.T) {
	s := effect.NewActiveSet()
	s.Apply(effect.Spec{Name: "Chill", Kind: effect.KindDebuff, Behavior: effect.Slow, Value: 50, Duration: 3}, "b", 1)
	assert.InDelta(t, 1.5, s.SpeedMultiplier(), 1e-9)
}

func TestSpec_Validate(t *testing.T) {
	require.NoError(t, poison().Validate())
	err := effect.Spec{Kind: "aura", Behavior: "glow"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must not be empty")
	assert.Contains(t, err.Error(), "behavior")
	assert.Contains(t, err.Error(), "duration")
}

func TestProperty_StacksNeverExceedMax(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		spec := effect.Spec{
			Name: "X", Kind: effect.KindDebuff, Behavior: effect.DoT, Value: 1,
			Duration:  rapid.IntRange(1, 10).Draw(rt, "dur"),
			MaxStacks: 5,
		}
		s := effect.NewActiveSet()
		ops := rapid.SliceOfN(rapid.IntRange(0, 3), 1, 50).Draw(rt, "ops")
		for _, op := range ops {
			if op == 0 {
				s.Sweep()
			} else {
				s.Apply(spec, "src", op)
			}
			assert.LessOrEqual(rt, s.Stacks("X"), 5)
		}
	})
}
