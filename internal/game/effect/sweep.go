package effect

import "github.com/cory-johannsen/delve/internal/game/numeric"

// Periodic is one damage or healing tick produced by the sweep.
type Periodic struct {
	Effect   string
	SourceID string
	Amount   float64
}

// SweepResult is everything one ledger sweep produced for one combatant.
type SweepResult struct {
	Damage  []Periodic
	Healing []Periodic
	// Killed is set when a doom effect ran out.
	Killed   bool
	KilledBy string
	// KillSource is the SourceID of the doom effect.
	KillSource string
	Expired    []string
	Flags      Flags
	// Sanitized counts non-finite periodic amounts replaced with zero.
	Sanitized int
}

// TotalDamage sums Damage.
func (r SweepResult) TotalDamage() float64 {
	t := 0.0
	for _, p := range r.Damage {
		t += p.Amount
	}
	return t
}

// TotalHealing sums Healing.
func (r SweepResult) TotalHealing() float64 {
	t := 0.0
	for _, p := range r.Healing {
		t += p.Amount
	}
	return t
}

// Sweep processes one simulated second: periodic damage and healing,
// doom, leak growth, then duration decrement and pruning of every effect at
// or below zero. Flags are derived from the effects that survive.
func (s *ActiveSet) Sweep() SweepResult {
	var res SweepResult
	periodic := func(a *Active) Periodic {
		amt, ok := numeric.Sanitize(a.Spec.Value*float64(a.Stacks), 0)
		if !ok {
			res.Sanitized++
		}
		return Periodic{Effect: a.Spec.Name, SourceID: a.SourceID, Amount: max(amt, 0)}
	}

	for _, a := range s.effects {
		switch a.Spec.Behavior {
		case DoT:
			res.Damage = append(res.Damage, periodic(a))
		case Leak:
			res.Damage = append(res.Damage, periodic(a))
			a.Stacks = min(a.Stacks+1, max(a.Spec.MaxStacks, 1))
		case Doom:
			if a.Remaining-1 <= 0 && !res.Killed {
				res.Killed = true
				res.KilledBy = a.Spec.Name
				res.KillSource = a.SourceID
			}
		case HoT:
			res.Healing = append(res.Healing, periodic(a))
		case Marker, Silence, Stun, Blind, Confusion, Slow, HealAbsorb,
			Vulnerability, ArmorBreak, Empower, Fortify, Haste, Shield:
			// no per-second action; read through Flags and Sum
		}
	}

	kept := s.effects[:0]
	for _, a := range s.effects {
		a.Remaining--
		if a.Remaining <= 0 {
			res.Expired = append(res.Expired, a.Spec.Name)
			continue
		}
		kept = append(kept, a)
	}
	clear(s.effects[len(kept):])
	s.effects = kept
	res.Flags = s.Flags()
	return res
}
