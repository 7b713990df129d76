package inventory

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// GearSlot is the body slot a gear piece occupies.
type GearSlot string

const (
	SlotHead    GearSlot = "head"
	SlotChest   GearSlot = "chest"
	SlotHands   GearSlot = "hands"
	SlotFeet    GearSlot = "feet"
	SlotOffhand GearSlot = "offhand"
	SlotAmulet  GearSlot = "amulet"
	SlotRing    GearSlot = "ring"
)

var validGearSlots = map[GearSlot]struct{}{
	SlotHead: {}, SlotChest: {}, SlotHands: {}, SlotFeet: {},
	SlotOffhand: {}, SlotAmulet: {}, SlotRing: {},
}

// Bonuses are the flat and percentage stats gear grants. They add together.
type Bonuses struct {
	FlatDamage           float64 `yaml:"flat_damage"`
	IncreasedDamage      float64 `yaml:"increased_damage"`
	IncreasedCritChance  float64 `yaml:"increased_crit_chance"`
	IncreasedCastSpeed   float64 `yaml:"increased_cast_speed"`
	IncreasedAttackSpeed float64 `yaml:"increased_attack_speed"`
	Armor                float64 `yaml:"armor"`
	Evasion              float64 `yaml:"evasion"`
	BlockChance          float64 `yaml:"block_chance"`
	MaxHealth            int     `yaml:"max_health"`
	MaxMana              int     `yaml:"max_mana"`
}

// Add returns the sum of b and o.
func (b Bonuses) Add(o Bonuses) Bonuses {
	return Bonuses{
		FlatDamage:           b.FlatDamage + o.FlatDamage,
		IncreasedDamage:      b.IncreasedDamage + o.IncreasedDamage,
		IncreasedCritChance:  b.IncreasedCritChance + o.IncreasedCritChance,
		IncreasedCastSpeed:   b.IncreasedCastSpeed + o.IncreasedCastSpeed,
		IncreasedAttackSpeed: b.IncreasedAttackSpeed + o.IncreasedAttackSpeed,
		Armor:                b.Armor + o.Armor,
		Evasion:              b.Evasion + o.Evasion,
		BlockChance:          b.BlockChance + o.BlockChance,
		MaxHealth:            b.MaxHealth + o.MaxHealth,
		MaxMana:              b.MaxMana + o.MaxMana,
	}
}

// GearDef is a non-weapon equipment piece.
type GearDef struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Slot    GearSlot `yaml:"slot"`
	Bonuses Bonuses  `yaml:"bonuses"`
}

// Validate reports an error if the def is missing required fields or has illegal values.
func (g *GearDef) Validate() error {
	var errs []error
	if g.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if g.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, ok := validGearSlots[g.Slot]; !ok {
		errs = append(errs, fmt.Errorf("slot %q is not a valid gear slot", g.Slot))
	}
	if g.Bonuses.BlockChance < 0 || g.Bonuses.BlockChance > 100 {
		errs = append(errs, errors.New("block_chance must be in [0, 100]"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("gear %q validation failed: %w", g.ID, errors.Join(errs...))
	}
	return nil
}

// DecodeGear parses a YAML list of gear pieces and validates each one.
func DecodeGear(r io.Reader) ([]*GearDef, error) {
	var defs []*GearDef
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding gear: %w", err)
	}
	for _, g := range defs {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// Total sums the bonuses of every piece.
func Total(gear []*GearDef) Bonuses {
	var b Bonuses
	for _, g := range gear {
		b = b.Add(g.Bonuses)
	}
	return b
}
