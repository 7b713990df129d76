package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/damage"
)

func TestDefault_LoadsEmbeddedCatalog(t *testing.T) {
	reg, err := catalog.Default()
	require.NoError(t, err)

	fb, err := reg.Skill("fireball")
	require.NoError(t, err)
	assert.Equal(t, catalog.Spell, fb.Archetype)
	assert.Equal(t, damage.Fire, fb.DamageType)

	mend, err := reg.Skill("mend")
	require.NoError(t, err)
	assert.True(t, mend.Archetype.Supportive())
	assert.Equal(t, 100.0, mend.BaseHealing)

	bm, err := reg.Support("blood_magic")
	require.NoError(t, err)
	assert.True(t, bm.CostsLife())

	swap, err := reg.Ability("soul_swap")
	require.NoError(t, err)
	assert.True(t, swap.OncePerFight)
	assert.Equal(t, catalog.SwapHealth, swap.Behavior)

	w, err := reg.Weapon("ember_blade")
	require.NoError(t, err)
	_, typ := w.Average()
	assert.Equal(t, damage.Physical, typ)

	_, err = reg.Gear("tower_shield")
	require.NoError(t, err)
}

func TestDefault_IsMemoized(t *testing.T) {
	a, err := catalog.Default()
	require.NoError(t, err)
	b, err := catalog.Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestRegistry_NotFound(t *testing.T) {
	reg := catalog.NewRegistry()
	_, err := reg.Skill("nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	_, err = reg.Ability("nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	fsys := fstest.MapFS{
		"skills.yaml": {Data: []byte("- id: x\n  name: X\n  archetype: spell\n  colour: red\n")},
	}
	_, err := catalog.Load(fsys)
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidAbility(t *testing.T) {
	fsys := fstest.MapFS{
		"boss_abilities.yaml": {Data: []byte("- id: a\n  name: A\n  target: everyone\n  behavior: random_debuff\n")},
	}
	_, err := catalog.Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
	assert.Contains(t, err.Error(), "pool")
}

func TestLoad_MissingFilesAreSkipped(t *testing.T) {
	reg, err := catalog.Load(fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, reg.SkillIDs())
}

func TestSkillDef_Pattern_AddsSupports(t *testing.T) {
	s := &catalog.SkillDef{Projectiles: 3, Pierce: 1}
	p := s.Pattern(2, 1, 0)
	assert.Equal(t, 5, p.Projectiles)
	assert.Equal(t, 2, p.Pierce)
}

func TestSkillDef_Validate_ChannelNeedsInterval(t *testing.T) {
	s := &catalog.SkillDef{ID: "c", Name: "C", Archetype: catalog.Channel}
	assert.Error(t, s.Validate())
}

func TestSupportDef_CostMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, (&catalog.SupportDef{}).CostMultiplier())
	half := 0.5
	assert.Equal(t, 0.5, (&catalog.SupportDef{ManaMultiplier: &half}).CostMultiplier())
}
