// Package npc provides enemy template definitions, encounter definitions and
// spawning of enemy combatants.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/dice"
)

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Level       int    `yaml:"level"`
	// Rarity is "normal", "elite" or "boss". Empty means normal.
	Rarity string `yaml:"rarity"`
	MaxHP  int    `yaml:"max_hp"`

	Armor           float64 `yaml:"armor"`
	Evasion         float64 `yaml:"evasion"`
	Accuracy        float64 `yaml:"accuracy"`
	BlockChance     float64 `yaml:"block_chance"`
	FireResist      float64 `yaml:"fire_resist"`
	ColdResist      float64 `yaml:"cold_resist"`
	LightningResist float64 `yaml:"lightning_resist"`
	ChaosResist     float64 `yaml:"chaos_resist"`
	CritChance      float64 `yaml:"crit_chance"`

	// Attack is the basic attack damage as a dice expression, e.g. "2d6+4".
	Attack     string      `yaml:"attack"`
	AttackType damage.Type `yaml:"attack_type"`
	// AttackInterval is seconds between basic attacks.
	AttackInterval float64 `yaml:"attack_interval"`
	// Abilities is the boss ability table, by catalog id, in declaration order.
	Abilities []string `yaml:"abilities"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// MaxHP >= 1, Rarity is known, Attack parses and AttackInterval > 0;
// returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("npc template %q: level must be >= 1", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("npc template %q: max_hp must be >= 1", t.ID)
	}
	switch t.Rarity {
	case "", "normal", "elite", "boss":
	default:
		return fmt.Errorf("npc template %q: rarity %q is unknown", t.ID, t.Rarity)
	}
	if _, err := dice.Parse(t.Attack); err != nil {
		return fmt.Errorf("npc template %q: attack: %w", t.ID, err)
	}
	if t.AttackType != "" && !t.AttackType.Valid() {
		return fmt.Errorf("npc template %q: attack_type %q is unknown", t.ID, t.AttackType)
	}
	if t.AttackInterval <= 0 {
		return fmt.Errorf("npc template %q: attack_interval must be > 0", t.ID)
	}
	if t.Rarity != "boss" && len(t.Abilities) > 0 {
		return fmt.Errorf("npc template %q: only bosses carry abilities", t.ID)
	}
	return nil
}

// LoadTemplateFromBytes parses a single enemy template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
