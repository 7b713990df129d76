package effect

// Sum returns Σ Value × stacks over effects with behavior b.
func (s *ActiveSet) Sum(b Behavior) float64 {
	total := 0.0
	for _, a := range s.effects {
		if a.Spec.Behavior == b {
			total += a.Spec.Value * float64(a.Stacks)
		}
	}
	return total
}

// Flags are the transient per-actor states derived from active effects.
// They are recomputed from scratch on every sweep, so a flag whose backing
// effect expired is cleared automatically.
type Flags struct {
	Silenced bool
	Stunned  bool
	Blinded  bool
	// MissChance is a percentage in [0, 100].
	MissChance float64
	// CastSlow is a percentage added to cast times.
	CastSlow float64
	// HealAbsorbActive is false once every heal_absorb effect has expired.
	HealAbsorbActive bool
	// ShieldActive is false once every shield effect has expired.
	ShieldActive bool
}

// Flags derives the current flag set.
func (s *ActiveSet) Flags() Flags {
	var f Flags
	for _, a := range s.effects {
		switch a.Spec.Behavior {
		case Silence:
			f.Silenced = true
		case Stun:
			f.Stunned = true
		case Blind:
			f.Blinded = true
		case Confusion:
			f.MissChance = max(f.MissChance, a.Spec.Value)
		case Slow:
			f.CastSlow += a.Spec.Value * float64(a.Stacks)
		case HealAbsorb:
			f.HealAbsorbActive = true
		case Shield:
			f.ShieldActive = true
		}
	}
	f.MissChance = min(f.MissChance, 100)
	return f
}

// SpeedMultiplier is the factor applied to cast durations: slows lengthen,
// haste shortens. Never below 0.1.
func (s *ActiveSet) SpeedMultiplier() float64 {
	m := (1 + s.Sum(Slow)/100) / (1 + s.Sum(Haste)/100)
	return max(m, 0.1)
}

// DamageTaken is the net percent change to damage taken.
func (s *ActiveSet) DamageTaken() float64 {
	return s.Sum(Vulnerability) - s.Sum(Fortify)
}
