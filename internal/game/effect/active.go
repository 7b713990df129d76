package effect

// Active is one effect instance on a combatant.
type Active struct {
	Spec     Spec
	SourceID string
	Stacks   int
	// Remaining is the duration left in seconds.
	Remaining int
}

// ActiveSet is the ordered collection of effects on one combatant. Order is
// application order, which keeps the sweep deterministic.
//
// It is not safe for concurrent use; the scheduler owns it for the tick.
type ActiveSet struct {
	effects []*Active
}

// NewActiveSet returns an empty set.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

func (s *ActiveSet) find(name string) (int, *Active) {
	for i, a := range s.effects {
		if a.Spec.Name == name {
			return i, a
		}
	}
	return -1, nil
}

// Apply adds spec or reapplies it.
//
// A stacking effect gains stacks (capped at MaxStacks) and has its duration
// refreshed. A non-stacking effect only has its duration refreshed.
//
// Precondition: spec.Duration > 0.
// Postcondition: Stacks(spec.Name) <= max(spec.MaxStacks, 1).
// Returns the live instance and whether it was newly added.
func (s *ActiveSet) Apply(spec Spec, sourceID string, stacks int) (*Active, bool) {
	if stacks < 1 {
		stacks = 1
	}
	limit := max(spec.MaxStacks, 1)
	if _, a := s.find(spec.Name); a != nil {
		if spec.Stacking() {
			a.Stacks = min(a.Stacks+stacks, limit)
		}
		a.Remaining = spec.Duration
		a.Spec.Value = spec.Value
		a.SourceID = sourceID
		return a, false
	}
	a := &Active{
		Spec:      spec,
		SourceID:  sourceID,
		Stacks:    min(stacks, limit),
		Remaining: spec.Duration,
	}
	s.effects = append(s.effects, a)
	return a, true
}

// Remove deletes the named effect. No-op when absent.
func (s *ActiveSet) Remove(name string) {
	if i, _ := s.find(name); i >= 0 {
		s.effects = append(s.effects[:i], s.effects[i+1:]...)
	}
}

// RemoveKind deletes every effect of kind k and returns their names.
func (s *ActiveSet) RemoveKind(k Kind) []string {
	var removed []string
	kept := s.effects[:0]
	for _, a := range s.effects {
		if a.Spec.Kind == k {
			removed = append(removed, a.Spec.Name)
			continue
		}
		kept = append(kept, a)
	}
	clear(s.effects[len(kept):])
	s.effects = kept
	return removed
}

// Has reports whether the named effect is active.
func (s *ActiveSet) Has(name string) bool {
	_, a := s.find(name)
	return a != nil
}

// Get returns the named effect.
func (s *ActiveSet) Get(name string) (*Active, bool) {
	_, a := s.find(name)
	return a, a != nil
}

// Stacks returns the stack count of the named effect, or 0.
func (s *ActiveSet) Stacks(name string) int {
	if _, a := s.find(name); a != nil {
		return a.Stacks
	}
	return 0
}

// Len returns the number of active effects.
func (s *ActiveSet) Len() int { return len(s.effects) }

// CountKind returns the number of active effects of kind k.
func (s *ActiveSet) CountKind(k Kind) int {
	n := 0
	for _, a := range s.effects {
		if a.Spec.Kind == k {
			n++
		}
	}
	return n
}

// StacksOf sums stacks across every effect with behavior b.
func (s *ActiveSet) StacksOf(b Behavior) int {
	n := 0
	for _, a := range s.effects {
		if a.Spec.Behavior == b {
			n += a.Stacks
		}
	}
	return n
}

// All returns the effects in application order. The slice is a copy; the
// pointed-to values are shared and must not be modified by callers.
func (s *ActiveSet) All() []*Active {
	out := make([]*Active, len(s.effects))
	copy(out, s.effects)
	return out
}

// Clone returns a deep copy.
func (s *ActiveSet) Clone() *ActiveSet {
	c := &ActiveSet{effects: make([]*Active, len(s.effects))}
	for i, a := range s.effects {
		cp := *a
		c.effects[i] = &cp
	}
	return c
}
