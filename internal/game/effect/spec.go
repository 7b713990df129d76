// Package effect is the timed-effect ledger: debuffs, buffs, damage over time
// and healing over time attached to one combatant, swept once per simulated
// second.
package effect

import (
	"fmt"
	"strings"
)

// Kind is the category an effect belongs to. Cleanse-style abilities remove
// effects by kind.
type Kind string

const (
	KindDebuff Kind = "debuff"
	KindBuff   Kind = "buff"
	KindHoT    Kind = "hot"
)

// Behavior is the tagged variant an effect resolves as during the sweep and
// when the pipeline folds modifiers. Every behavior must be handled in Sweep.
type Behavior string

const (
	// Marker carries no mechanical effect of its own; other abilities count it.
	Marker Behavior = "marker"
	// DoT deals Value × stacks each second.
	DoT Behavior = "dot"
	// Doom kills the bearer when its duration runs out.
	Doom Behavior = "doom"
	// Leak deals Value × stacks each second and gains a stack afterwards.
	Leak Behavior = "leak"
	// Silence blocks offensive casts.
	Silence Behavior = "silence"
	// Stun blocks all new actions.
	Stun Behavior = "stun"
	// Blind forces evasion to zero.
	Blind Behavior = "blind"
	// Confusion gives Value percent chance to miss.
	Confusion Behavior = "confusion"
	// Slow lengthens casts by Value percent per stack.
	Slow Behavior = "slow"
	// HealAbsorb adds Value to the bearer's heal absorption pool on application.
	HealAbsorb Behavior = "heal_absorb"
	// Vulnerability raises damage taken by Value percent per stack.
	Vulnerability Behavior = "vulnerability"
	// ArmorBreak removes Value armor per stack.
	ArmorBreak Behavior = "armor_break"
	// HoT heals Value × stacks each second.
	HoT Behavior = "hot"
	// Empower raises damage dealt by Value percent per stack.
	Empower Behavior = "empower"
	// Fortify lowers damage taken by Value percent per stack.
	Fortify Behavior = "fortify"
	// Haste shortens casts by Value percent per stack.
	Haste Behavior = "haste"
	// Shield adds Value to the bearer's absorb shield on application.
	Shield Behavior = "shield"
)

var behaviors = []Behavior{
	Marker, DoT, Doom, Leak, Silence, Stun, Blind, Confusion, Slow, HealAbsorb,
	Vulnerability, ArmorBreak, HoT, Empower, Fortify, Haste, Shield,
}

// Behaviors returns every known behavior.
func Behaviors() []Behavior {
	out := make([]Behavior, len(behaviors))
	copy(out, behaviors)
	return out
}

// Valid reports whether b is a known behavior.
func (b Behavior) Valid() bool {
	for _, k := range behaviors {
		if b == k {
			return true
		}
	}
	return false
}

// Spec is the static definition of one timed effect.
type Spec struct {
	Name     string   `yaml:"name"`
	Kind     Kind     `yaml:"kind"`
	Behavior Behavior `yaml:"behavior"`
	Value    float64  `yaml:"value"`
	// Duration is in simulated seconds (ledger sweeps), not ticks.
	Duration int `yaml:"duration"`
	// MaxStacks <= 1 means the effect does not stack.
	MaxStacks int `yaml:"max_stacks"`
}

// Stacking reports whether reapplication increments stacks.
func (s Spec) Stacking() bool { return s.MaxStacks > 1 }

// Validate reports every problem with s at once.
func (s Spec) Validate() error {
	var errs []string
	if s.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	switch s.Kind {
	case KindDebuff, KindBuff, KindHoT:
	default:
		errs = append(errs, fmt.Sprintf("kind %q is not one of debuff, buff, hot", s.Kind))
	}
	if !s.Behavior.Valid() {
		errs = append(errs, fmt.Sprintf("behavior %q is unknown", s.Behavior))
	}
	if s.Duration <= 0 {
		errs = append(errs, "duration must be > 0")
	}
	if s.MaxStacks < 0 {
		errs = append(errs, "max_stacks must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("effect %q: %s", s.Name, strings.Join(errs, "; "))
	}
	return nil
}
