package catalog

import (
	"errors"
	"fmt"
)

// SupportDef is a modifier attached to an equipped skill.
type SupportDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	AddedDamage     float64 `yaml:"added_damage"`
	IncreasedDamage float64 `yaml:"increased_damage"`
	// MoreDamage is a separate multiplier in percent; negative values are "less".
	MoreDamage float64 `yaml:"more_damage"`
	// CastSpeed and AttackSpeed are increased percentages.
	CastSpeed   float64 `yaml:"cast_speed"`
	AttackSpeed float64 `yaml:"attack_speed"`
	// ManaMultiplier scales the mana cost. Absent means 1; 0 means the
	// skill costs life instead of mana.
	ManaMultiplier *float64 `yaml:"mana_multiplier"`

	AdditionalTargets   int     `yaml:"additional_targets"`
	Pierce              int     `yaml:"pierce"`
	Chains              int     `yaml:"chains"`
	Echo                bool    `yaml:"echo"`
	Lifesteal           float64 `yaml:"lifesteal"`
	IncreasedCritChance float64 `yaml:"increased_crit_chance"`
}

// CostMultiplier returns the mana multiplier, 1 when unset.
func (s *SupportDef) CostMultiplier() float64 {
	if s.ManaMultiplier == nil {
		return 1
	}
	return *s.ManaMultiplier
}

// CostsLife reports whether the support converts the skill's cost to life.
func (s *SupportDef) CostsLife() bool {
	return s.ManaMultiplier != nil && *s.ManaMultiplier == 0
}

// Validate reports every problem with the support.
func (s *SupportDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.ManaMultiplier != nil && *s.ManaMultiplier < 0 {
		errs = append(errs, errors.New("mana_multiplier must be >= 0"))
	}
	if s.MoreDamage <= -100 {
		errs = append(errs, errors.New("more_damage must be > -100"))
	}
	if s.Lifesteal < 0 || s.Lifesteal > 100 {
		errs = append(errs, errors.New("lifesteal must be in [0, 100]"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("support %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}
