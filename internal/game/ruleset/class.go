// Package ruleset defines character classes: the role, base attributes,
// growth and defensive profile a roster entry starts from.
package ruleset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Roles a class may fill.
const (
	RoleTank   = "tank"
	RoleHealer = "healer"
	RoleDamage = "damage"
)

// Attributes are the three primary attributes.
type Attributes struct {
	Strength     float64 `yaml:"strength"`
	Dexterity    float64 `yaml:"dexterity"`
	Intelligence float64 `yaml:"intelligence"`
}

// Add returns a + b.
func (a Attributes) Add(b Attributes) Attributes {
	return Attributes{
		Strength:     a.Strength + b.Strength,
		Dexterity:    a.Dexterity + b.Dexterity,
		Intelligence: a.Intelligence + b.Intelligence,
	}
}

// Scale returns a × k.
func (a Attributes) Scale(k float64) Attributes {
	return Attributes{Strength: a.Strength * k, Dexterity: a.Dexterity * k, Intelligence: a.Intelligence * k}
}

// Defenses is the defensive baseline of a class.
type Defenses struct {
	Armor           float64 `yaml:"armor"`
	Evasion         float64 `yaml:"evasion"`
	Accuracy        float64 `yaml:"accuracy"`
	BlockChance     float64 `yaml:"block_chance"`
	FireResist      float64 `yaml:"fire_resist"`
	ColdResist      float64 `yaml:"cold_resist"`
	LightningResist float64 `yaml:"lightning_resist"`
	ChaosResist     float64 `yaml:"chaos_resist"`
	CritChance      float64 `yaml:"crit_chance"`
	CritMultiplier  float64 `yaml:"crit_multiplier"`
}

// Class defines a playable class.
//
// Precondition: ID, Name and Role must be non-empty after loading.
type Class struct {
	ID             string     `yaml:"id"`
	Name           string     `yaml:"name"`
	Description    string     `yaml:"description"`
	Role           string     `yaml:"role"`
	HealthPerLevel int        `yaml:"health_per_level"`
	ManaPerLevel   int        `yaml:"mana_per_level"`
	ManaRegen      int        `yaml:"mana_regen"`
	Attributes     Attributes `yaml:"attributes"`
	// Growth is added to Attributes for every level past the first.
	Growth   Attributes `yaml:"growth"`
	Defenses Defenses   `yaml:"defenses"`
}

// AttributesAt returns the class attributes at level.
func (c *Class) AttributesAt(level int) Attributes {
	return c.Attributes.Add(c.Growth.Scale(float64(max(level, 1) - 1)))
}

// Validate reports every problem with the class.
func (c *Class) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch c.Role {
	case RoleTank, RoleHealer, RoleDamage:
	default:
		errs = append(errs, fmt.Errorf("role %q is unknown", c.Role))
	}
	if c.HealthPerLevel < 1 {
		errs = append(errs, fmt.Errorf("health_per_level must be >= 1, got %d", c.HealthPerLevel))
	}
	if c.ManaPerLevel < 0 || c.ManaRegen < 0 {
		errs = append(errs, errors.New("mana_per_level and mana_regen must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("class %q: %w", c.ID, errors.Join(errs...))
	}
	return nil
}

// LoadClasses reads all .yaml files in dir and parses each as a Class.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed and validated classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*Class, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*Class, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var c Class
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing class file %s: %w", path, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}
