// Package character defines roster records and builds them into combatants.
package character

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/delve/internal/game/ai"
	"github.com/cory-johannsen/delve/internal/game/ruleset"
)

// MaxWeapons is the most weapons a character can hold; two means dual wielding.
const MaxWeapons = 2

// SkillSlot is one equipped skill with its supports and usage rules.
type SkillSlot struct {
	Skill    string   `yaml:"skill"`
	Supports []string `yaml:"supports"`
	// Usage is optional; when absent the skill's archetype defaults apply.
	Usage *ai.UsageConfig `yaml:"usage"`
}

// Character is one roster entry as handed over by the surrounding game.
type Character struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
	Level int    `yaml:"level"`
	// Attributes are added on top of the class attributes.
	Attributes ruleset.Attributes `yaml:"attributes"`
	Weapons    []string           `yaml:"weapons"`
	Gear       []string           `yaml:"gear"`
	Skills     []SkillSlot        `yaml:"skills"`
	// Talent is a flat damage and healing multiplier; 0 means 1.
	Talent float64 `yaml:"talent"`
}

// Validate checks the record's shape. Catalog references are checked by Build.
func (c *Character) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.Class == "" {
		errs = append(errs, errors.New("class must not be empty"))
	}
	if c.Level < 1 {
		errs = append(errs, fmt.Errorf("level must be >= 1, got %d", c.Level))
	}
	if len(c.Weapons) > MaxWeapons {
		errs = append(errs, fmt.Errorf("at most %d weapons, got %d", MaxWeapons, len(c.Weapons)))
	}
	if c.Talent < 0 {
		errs = append(errs, errors.New("talent must be >= 0"))
	}
	for i, s := range c.Skills {
		if s.Skill == "" {
			errs = append(errs, fmt.Errorf("skills[%d]: skill must not be empty", i))
		}
		if s.Usage != nil {
			if err := s.Usage.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("skills[%d]: %w", i, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("character %q: %w", c.ID, errors.Join(errs...))
	}
	return nil
}

// Roster is the ordered team.
type Roster struct {
	Team []*Character `yaml:"team"`
}

// Validate checks every member and that ids are unique.
func (r *Roster) Validate() error {
	if len(r.Team) == 0 {
		return errors.New("roster: team must not be empty")
	}
	var errs []error
	seen := map[string]bool{}
	for _, c := range r.Team {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate character id %q", c.ID))
		}
		seen[c.ID] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("roster: %w", errors.Join(errs...))
	}
	return nil
}

// DecodeRoster parses and validates a roster document.
func DecodeRoster(r io.Reader) (*Roster, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var roster Roster
	if err := dec.Decode(&roster); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}
	return &roster, nil
}

// LoadRoster reads a roster file.
func LoadRoster(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster %q: %w", path, err)
	}
	defer f.Close()
	return DecodeRoster(f)
}
