// Package catalog holds the immutable skill, support, boss ability, weapon
// and gear definitions every other component reads. Nothing in the catalog
// changes during a simulation.
package catalog

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/effect"
)

// Archetype is the tagged variant a skill resolves as. The scheduler and the
// usage defaults dispatch on it.
type Archetype string

const (
	// Attack is a weapon strike against one target.
	Attack Archetype = "attack"
	// Projectile is a weapon-based projectile that may pierce or chain.
	Projectile Archetype = "projectile"
	// Spell is a direct damage cast.
	Spell Archetype = "spell"
	// Channel resolves repeated damage sub-ticks while mana lasts.
	Channel Archetype = "channel"
	// DoTSpell applies a damage-over-time effect, optionally with an initial hit.
	DoTSpell Archetype = "dot"
	// Heal restores health to one ally.
	Heal Archetype = "heal"
	// HoTSpell applies a healing-over-time effect.
	HoTSpell Archetype = "hot"
	// ShieldSpell grants an absorb shield.
	ShieldSpell Archetype = "shield"
	// Buff applies a beneficial effect to the party.
	Buff Archetype = "buff"
)

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool {
	switch a {
	case Attack, Projectile, Spell, Channel, DoTSpell, Heal, HoTSpell, ShieldSpell, Buff:
		return true
	}
	return false
}

// Supportive reports whether the skill targets allies. Supportive casts are
// allowed while silenced.
func (a Archetype) Supportive() bool {
	switch a {
	case Heal, HoTSpell, ShieldSpell, Buff:
		return true
	}
	return false
}

// Healing reports whether the skill restores or protects health.
func (a Archetype) Healing() bool {
	return a == Heal || a == HoTSpell || a == ShieldSpell
}

// UsesWeapon reports whether damage derives from the equipped weapon.
func (a Archetype) UsesWeapon() bool {
	return a == Attack || a == Projectile
}

// SkillDef is the static definition of an active skill.
type SkillDef struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Archetype Archetype `yaml:"archetype"`
	Tags      []string  `yaml:"tags"`
	// CastTime is in seconds. Weapon skills with 0 use the weapon's attack speed.
	CastTime float64 `yaml:"cast_time"`
	// Cooldown is in seconds; 0 means none.
	Cooldown float64 `yaml:"cooldown"`
	ManaCost int     `yaml:"mana_cost"`

	MinDamage  float64     `yaml:"min_damage"`
	MaxDamage  float64     `yaml:"max_damage"`
	DamageType damage.Type `yaml:"damage_type"`
	// BaseHealing is the base for heals, HoT ticks and shields.
	BaseHealing float64 `yaml:"base_healing"`
	// Effectiveness is damage effectiveness in percent; 0 means 100.
	Effectiveness float64 `yaml:"effectiveness"`
	// CritChance is the skill's base crit chance as a fraction.
	CritChance float64 `yaml:"crit_chance"`

	Area         bool    `yaml:"area"`
	TargetCap    int     `yaml:"target_cap"`
	Projectiles  int     `yaml:"projectiles"`
	Pierce       int     `yaml:"pierce"`
	Chains       int     `yaml:"chains"`
	ChainFalloff float64 `yaml:"chain_falloff"`

	// ChannelInterval is the seconds between channel sub-ticks.
	ChannelInterval float64 `yaml:"channel_interval"`
	// MaxRamp is the highest ramp stage a channel reaches.
	MaxRamp int `yaml:"max_ramp"`
	// RampPerStage is the percent damage gained per ramp stage.
	RampPerStage float64 `yaml:"ramp_per_stage"`
	// StopAtRampCap ends the channel once MaxRamp is reached.
	StopAtRampCap bool `yaml:"stop_at_ramp_cap"`

	// Effect is applied to each target hit (DoT/HoT/buff/shield archetypes).
	Effect *effect.Spec `yaml:"effect"`
}

// BaseDamage is the average of the skill's own damage range.
func (s *SkillDef) BaseDamage() float64 {
	return (s.MinDamage + s.MaxDamage) / 2
}

// HasTag reports whether the skill carries tag.
func (s *SkillDef) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Pattern returns the multi-target shape of the skill with support additions.
func (s *SkillDef) Pattern(extraTargets, extraPierce, extraChains int) damage.Pattern {
	return damage.Pattern{
		Projectiles:  max(s.Projectiles, 1) + extraTargets,
		Pierce:       s.Pierce + extraPierce,
		Chains:       s.Chains + extraChains,
		ChainFalloff: s.ChainFalloff,
		Area:         s.Area,
		TargetCap:    s.TargetCap,
	}
}

// Validate checks the skill's invariants and reports every violation.
func (s *SkillDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !s.Archetype.Valid() {
		errs = append(errs, fmt.Errorf("archetype %q is unknown", s.Archetype))
	}
	if s.CastTime < 0 || s.Cooldown < 0 || s.ManaCost < 0 {
		errs = append(errs, errors.New("cast_time, cooldown and mana_cost must be >= 0"))
	}
	if s.MaxDamage < s.MinDamage {
		errs = append(errs, errors.New("max_damage must be >= min_damage"))
	}
	if s.DamageType != "" && !s.DamageType.Valid() {
		errs = append(errs, fmt.Errorf("damage_type %q is unknown", s.DamageType))
	}
	if s.Archetype == Channel && s.ChannelInterval <= 0 {
		errs = append(errs, errors.New("channel skills need channel_interval > 0"))
	}
	switch s.Archetype {
	case DoTSpell, HoTSpell, Buff, ShieldSpell:
		if s.Effect == nil {
			errs = append(errs, fmt.Errorf("%s skills need an effect", s.Archetype))
		}
	}
	if s.Effect != nil {
		if err := s.Effect.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}
