// Package ai is the skill usage condition engine: it decides whether an
// equipped skill may be cast this tick, ranks eligible skills, and carries
// the separate critical-health heal fallback.
package ai

import (
	"errors"
	"fmt"
)

// TargetCount is a predicate on the number of living enemies.
type TargetCount string

const (
	CountAny       TargetCount = "any"
	CountSingle    TargetCount = "single"
	CountTwoPlus   TargetCount = "two_plus"
	CountThreePlus TargetCount = "three_plus"
	CountFivePlus  TargetCount = "five_plus"
	// CountAoE requires at least two enemies, the minimum for an area skill
	// to hit more than its primary target.
	CountAoE TargetCount = "aoe"
)

// TargetType is a predicate on enemy metadata. The health variants are
// always satisfied when any enemy lives and steer target choice instead.
type TargetType string

const (
	TypeAny           TargetType = "any"
	TypeNormal        TargetType = "normal"
	TypeElitePlus     TargetType = "elite_plus"
	TypeBoss          TargetType = "boss"
	TypeLowestHealth  TargetType = "lowest_health"
	TypeHighestHealth TargetType = "highest_health"
)

// Subject is the quantity a threshold condition compares.
type Subject string

const (
	SelfHealth Subject = "self_health"
	TankHealth Subject = "tank_health"
	// AllyHealth is the lowest living ally's health percent.
	AllyHealth Subject = "ally_health"
	SelfMana   Subject = "self_mana"
	// AlliesBelow holds when at least Count living allies are under Value percent.
	AlliesBelow          Subject = "allies_below"
	EnemiesWithEffect    Subject = "enemies_with_effect"
	EnemiesWithoutEffect Subject = "enemies_without_effect"
	AlliesWithEffect     Subject = "allies_with_effect"
	AlliesWithoutEffect  Subject = "allies_without_effect"
)

// Operator compares a subject to a threshold value.
type Operator string

const (
	LessThan     Operator = "less_than"
	LessEqual    Operator = "less_equal"
	GreaterThan  Operator = "greater_than"
	GreaterEqual Operator = "greater_equal"
	Equal        Operator = "equal"
)

// CooldownMode says how eagerly a skill with a cooldown is used.
type CooldownMode string

const (
	CooldownNormal CooldownMode = "normal"
	// OnCooldown uses the skill every time it is ready.
	OnCooldown CooldownMode = "on_cooldown"
	// SaveForBurst holds the skill until an elite or boss is present or at
	// least three enemies are alive.
	SaveForBurst CooldownMode = "save_for_burst"
)

// Threshold is one conjunctive condition.
type Threshold struct {
	Subject  Subject  `yaml:"subject"`
	Operator Operator `yaml:"operator"`
	Value    float64  `yaml:"value"`
	// Count is the ally count for allies_below.
	Count int `yaml:"count"`
	// Effect names the tracked effect for the *_effect subjects.
	Effect string `yaml:"effect"`
}

// UsageConfig is the player-authored rule set of one equipped skill. The
// simulation only reads it.
type UsageConfig struct {
	Enabled      bool         `yaml:"enabled"`
	Priority     int          `yaml:"priority"`
	TargetCount  TargetCount  `yaml:"target_count"`
	TargetType   TargetType   `yaml:"target_type"`
	Conditions   []Threshold  `yaml:"conditions"`
	CooldownMode CooldownMode `yaml:"cooldown_mode"`
	// Script names an optional Lua predicate that must also return true.
	Script string `yaml:"script"`
}

// Validate reports every malformed field.
func (u UsageConfig) Validate() error {
	var errs []error
	switch u.TargetCount {
	case "", CountAny, CountSingle, CountTwoPlus, CountThreePlus, CountFivePlus, CountAoE:
	default:
		errs = append(errs, fmt.Errorf("target_count %q is unknown", u.TargetCount))
	}
	switch u.TargetType {
	case "", TypeAny, TypeNormal, TypeElitePlus, TypeBoss, TypeLowestHealth, TypeHighestHealth:
	default:
		errs = append(errs, fmt.Errorf("target_type %q is unknown", u.TargetType))
	}
	switch u.CooldownMode {
	case "", CooldownNormal, OnCooldown, SaveForBurst:
	default:
		errs = append(errs, fmt.Errorf("cooldown_mode %q is unknown", u.CooldownMode))
	}
	for i, c := range u.Conditions {
		switch c.Subject {
		case SelfHealth, TankHealth, AllyHealth, SelfMana:
		case AlliesBelow:
			if c.Count < 1 {
				errs = append(errs, fmt.Errorf("conditions[%d]: allies_below needs count >= 1", i))
			}
			continue
		case EnemiesWithEffect, EnemiesWithoutEffect, AlliesWithEffect, AlliesWithoutEffect:
			if c.Effect == "" {
				errs = append(errs, fmt.Errorf("conditions[%d]: %s needs an effect name", i, c.Subject))
			}
		default:
			errs = append(errs, fmt.Errorf("conditions[%d]: subject %q is unknown", i, c.Subject))
			continue
		}
		switch c.Operator {
		case LessThan, LessEqual, GreaterThan, GreaterEqual, Equal:
		default:
			errs = append(errs, fmt.Errorf("conditions[%d]: operator %q is unknown", i, c.Operator))
		}
	}
	return errors.Join(errs...)
}
