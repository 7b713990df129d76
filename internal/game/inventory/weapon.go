// Package inventory provides weapon and gear definitions consumed by the
// damage pipeline.
package inventory

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/delve/internal/game/damage"
)

// WeaponKind groups weapons for skill requirements.
type WeaponKind string

const (
	KindSword  WeaponKind = "sword"
	KindAxe    WeaponKind = "axe"
	KindMace   WeaponKind = "mace"
	KindDagger WeaponKind = "dagger"
	KindBow    WeaponKind = "bow"
	KindWand   WeaponKind = "wand"
	KindStaff  WeaponKind = "staff"
)

// WeaponDef is the static definition of a weapon. Damage may span several
// channels, e.g. a sword with added fire.
type WeaponDef struct {
	ID     string                       `yaml:"id"`
	Name   string                       `yaml:"name"`
	Kind   WeaponKind                   `yaml:"kind"`
	Damage map[damage.Type]damage.Range `yaml:"damage"`
	// AttacksPerSecond sets basic attack speed.
	AttacksPerSecond float64 `yaml:"attacks_per_second"`
	// CritChance is a fraction in [0, 1].
	CritChance float64 `yaml:"crit_chance"`
}

// Average returns the summed channel average and the dominant damage type.
func (w *WeaponDef) Average() (float64, damage.Type) {
	return damage.WeaponBase(w.Damage)
}

// IsRanged reports whether the weapon fires projectiles.
func (w *WeaponDef) IsRanged() bool {
	return w.Kind == KindBow || w.Kind == KindWand
}

// AttackTicks converts attack speed to a tick count at tps ticks per second.
// Never less than one tick.
func (w *WeaponDef) AttackTicks(tps int) int {
	if w.AttacksPerSecond <= 0 {
		return tps
	}
	return max(int(float64(tps)/w.AttacksPerSecond+0.5), 1)
}

// Validate checks the weapon's invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(w.Damage) == 0 {
		errs = append(errs, errors.New("damage must list at least one channel"))
	}
	for t, r := range w.Damage {
		if !t.Valid() || t == damage.Mixed {
			errs = append(errs, fmt.Errorf("damage channel %q is not valid", t))
		}
		if r.Min < 0 || r.Max < r.Min {
			errs = append(errs, fmt.Errorf("damage channel %q range %v-%v is invalid", t, r.Min, r.Max))
		}
	}
	if w.AttacksPerSecond < 0 {
		errs = append(errs, errors.New("attacks_per_second must be >= 0"))
	}
	if w.CritChance < 0 || w.CritChance > 1 {
		errs = append(errs, errors.New("crit_chance must be in [0, 1]"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q validation failed: %w", w.ID, errors.Join(errs...))
	}
	return nil
}

// DecodeWeapons parses a YAML list of weapons and validates each one.
func DecodeWeapons(r io.Reader) ([]*WeaponDef, error) {
	var defs []*WeaponDef
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding weapons: %w", err)
	}
	for _, w := range defs {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}
	return defs, nil
}
