package npc

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/delve/internal/game/combat"
)

// Manager holds enemy templates and spawns encounter packs.
// All methods are safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewManager creates a Manager holding templates.
func NewManager(templates []*Template) *Manager {
	m := &Manager{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		m.templates[t.ID] = t
	}
	return m
}

// LoadManager loads every template in dir.
func LoadManager(dir string) (*Manager, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	return NewManager(templates), nil
}

// Add registers or replaces a template.
func (m *Manager) Add(t *Template) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
}

// Template returns the template with id.
//
// Postcondition: Returns (tmpl, true) if found, or (nil, false) otherwise.
func (m *Manager) Template(id string) (*Template, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[id]
	return t, ok
}

// IDs returns the template ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.templates))
	for id := range m.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SpawnPacks builds every pack of enc. Instance ids are
// "<template>-p<pack>-<n>" with n counting within the pack from 1.
//
// Postcondition: Returns one slice per pack, or an error naming the first
// unknown template.
func (m *Manager) SpawnPacks(enc *Encounter, rules combat.Rules) ([][]*combat.Combatant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	packs := make([][]*combat.Combatant, 0, len(enc.Packs))
	for pi, p := range enc.Packs {
		pack := make([]*combat.Combatant, 0, len(p.Enemies))
		for i, tid := range p.Enemies {
			tmpl, ok := m.templates[tid]
			if !ok {
				return nil, fmt.Errorf("encounter %q pack %d: unknown enemy template %q", enc.ID, pi, tid)
			}
			id := fmt.Sprintf("%s-p%d-%d", tmpl.ID, pi+1, i+1)
			pack = append(pack, NewInstance(id, tmpl, i, rules))
		}
		packs = append(packs, pack)
	}
	return packs, nil
}
