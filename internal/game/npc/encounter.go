package npc

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pack is one group of enemies fought together.
type Pack struct {
	Name    string   `yaml:"name"`
	Enemies []string `yaml:"enemies"`
}

// Modifiers are map or environment effects on the whole run.
type Modifiers struct {
	// PlayerDamageReduction is a fraction removed from all damage to the team.
	PlayerDamageReduction float64 `yaml:"player_damage_reduction"`
}

// Encounter is an ordered list of packs, the last usually holding the boss.
type Encounter struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Packs     []Pack    `yaml:"packs"`
	Modifiers Modifiers `yaml:"modifiers"`
}

// Validate checks shape only; template ids are resolved by Manager.
func (e *Encounter) Validate() error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if len(e.Packs) == 0 {
		errs = append(errs, errors.New("at least one pack is required"))
	}
	for i, p := range e.Packs {
		if len(p.Enemies) == 0 {
			errs = append(errs, fmt.Errorf("packs[%d]: no enemies", i))
		}
	}
	if r := e.Modifiers.PlayerDamageReduction; r < 0 || r >= 1 {
		errs = append(errs, fmt.Errorf("player_damage_reduction must be in [0, 1), got %g", r))
	}
	if len(errs) > 0 {
		return fmt.Errorf("encounter %q: %w", e.ID, errors.Join(errs...))
	}
	return nil
}

// LoadEncounterFromBytes parses and validates an encounter document.
func LoadEncounterFromBytes(data []byte) (*Encounter, error) {
	var enc Encounter
	if err := yaml.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("parsing encounter YAML: %w", err)
	}
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	return &enc, nil
}

// LoadEncounter reads an encounter file.
func LoadEncounter(path string) (*Encounter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading encounter %q: %w", path, err)
	}
	return LoadEncounterFromBytes(data)
}
