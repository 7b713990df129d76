package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/delve/internal/game/inventory"
)

// ErrNotFound is returned when an id is not in the registry.
var ErrNotFound = errors.New("catalog: not found")

//go:embed data/*.yaml
var builtin embed.FS

// Registry is a read-only index of every catalog definition.
// It is safe for concurrent reads once loaded.
type Registry struct {
	skills    map[string]*SkillDef
	supports  map[string]*SupportDef
	abilities map[string]*BossAbilityDef
	weapons   map[string]*inventory.WeaponDef
	gear      map[string]*inventory.GearDef
	skillIDs  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		skills:    make(map[string]*SkillDef),
		supports:  make(map[string]*SupportDef),
		abilities: make(map[string]*BossAbilityDef),
		weapons:   make(map[string]*inventory.WeaponDef),
		gear:      make(map[string]*inventory.GearDef),
	}
}

// AddSkill registers s, replacing any skill with the same id.
func (r *Registry) AddSkill(s *SkillDef) {
	if _, ok := r.skills[s.ID]; !ok {
		r.skillIDs = append(r.skillIDs, s.ID)
	}
	r.skills[s.ID] = s
}

// AddSupport registers s.
func (r *Registry) AddSupport(s *SupportDef) { r.supports[s.ID] = s }

// AddAbility registers a.
func (r *Registry) AddAbility(a *BossAbilityDef) { r.abilities[a.ID] = a }

// AddWeapon registers w.
func (r *Registry) AddWeapon(w *inventory.WeaponDef) { r.weapons[w.ID] = w }

// AddGear registers g.
func (r *Registry) AddGear(g *inventory.GearDef) { r.gear[g.ID] = g }

// Skill looks up a skill by id.
func (r *Registry) Skill(id string) (*SkillDef, error) {
	if s, ok := r.skills[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("skill %q: %w", id, ErrNotFound)
}

// Support looks up a support by id.
func (r *Registry) Support(id string) (*SupportDef, error) {
	if s, ok := r.supports[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("support %q: %w", id, ErrNotFound)
}

// Ability looks up a boss ability by id.
func (r *Registry) Ability(id string) (*BossAbilityDef, error) {
	if a, ok := r.abilities[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("boss ability %q: %w", id, ErrNotFound)
}

// Weapon looks up a weapon by id.
func (r *Registry) Weapon(id string) (*inventory.WeaponDef, error) {
	if w, ok := r.weapons[id]; ok {
		return w, nil
	}
	return nil, fmt.Errorf("weapon %q: %w", id, ErrNotFound)
}

// Gear looks up a gear piece by id.
func (r *Registry) Gear(id string) (*inventory.GearDef, error) {
	if g, ok := r.gear[id]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("gear %q: %w", id, ErrNotFound)
}

// SkillIDs returns skill ids in load order.
func (r *Registry) SkillIDs() []string {
	out := make([]string, len(r.skillIDs))
	copy(out, r.skillIDs)
	return out
}

// Load reads skills.yaml, supports.yaml, boss_abilities.yaml, weapons.yaml and
// gear.yaml from fsys. Missing files are skipped; malformed or invalid
// entries fail the whole load.
func Load(fsys fs.FS) (*Registry, error) {
	r := NewRegistry()

	var skills []*SkillDef
	if err := decodeFile(fsys, "skills.yaml", &skills); err != nil {
		return nil, err
	}
	for _, s := range skills {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		r.AddSkill(s)
	}

	var supports []*SupportDef
	if err := decodeFile(fsys, "supports.yaml", &supports); err != nil {
		return nil, err
	}
	for _, s := range supports {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		r.AddSupport(s)
	}

	var abilities []*BossAbilityDef
	if err := decodeFile(fsys, "boss_abilities.yaml", &abilities); err != nil {
		return nil, err
	}
	for _, a := range abilities {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		r.AddAbility(a)
	}

	if data, err := fs.ReadFile(fsys, "weapons.yaml"); err == nil {
		ws, err := inventory.DecodeWeapons(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("weapons.yaml: %w", err)
		}
		for _, w := range ws {
			r.AddWeapon(w)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading weapons.yaml: %w", err)
	}

	if data, err := fs.ReadFile(fsys, "gear.yaml"); err == nil {
		gs, err := inventory.DecodeGear(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gear.yaml: %w", err)
		}
		for _, g := range gs {
			r.AddGear(g)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading gear.yaml: %w", err)
	}

	return r, nil
}

// LoadDir loads a catalog from a directory on disk.
func LoadDir(dir string) (*Registry, error) {
	return Load(os.DirFS(dir))
}

func decodeFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the embedded catalog, loading it on first use.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(builtin, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultReg, defaultErr = Load(sub)
	})
	return defaultReg, defaultErr
}
