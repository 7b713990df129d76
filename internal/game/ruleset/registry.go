package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ClassRegistry provides lookup of classes by ID.
type ClassRegistry struct {
	classes map[string]*Class
}

// NewClassRegistry returns an empty ClassRegistry.
//
// Postcondition: Returns a non-nil *ClassRegistry ready to accept registrations.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[string]*Class)}
}

// LoadClassRegistry loads every class in dir into a new registry.
func LoadClassRegistry(dir string) (*ClassRegistry, error) {
	classes, err := LoadClasses(dir)
	if err != nil {
		return nil, err
	}
	reg := NewClassRegistry()
	for _, c := range classes {
		reg.Register(c)
	}
	return reg, nil
}

// Register adds a Class to the registry.
//
// Precondition: class must be non-nil with a non-empty ID.
// Postcondition: class is retrievable via Class using class.ID;
// if called multiple times with the same ID, the last call wins.
func (r *ClassRegistry) Register(class *Class) {
	if class == nil {
		panic("ClassRegistry.Register: precondition violated: class must be non-nil")
	}
	if class.ID == "" {
		panic("ClassRegistry.Register: precondition violated: class ID must be non-empty")
	}
	r.classes[class.ID] = class
}

// Class returns the Class for id, if registered.
func (r *ClassRegistry) Class(id string) (*Class, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// IDs returns the registered class IDs in sorted order.
func (r *ClassRegistry) IDs() []string {
	ids := make([]string, 0, len(r.classes))
	for id := range r.classes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
