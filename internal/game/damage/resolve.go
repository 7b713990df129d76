package damage

import "github.com/cory-johannsen/delve/internal/game/numeric"

// Request is one damage instance to resolve against one defender.
type Request struct {
	// Amount is the pre-crit amount from SpellPower or AttackPower,
	// already scaled by any per-strike multiplier.
	Amount float64
	Type   Type
	// CritChance is a fraction in [0, 1].
	CritChance float64
	// CritMultiplier is the full multiplier on crit, e.g. 1.5.
	CritMultiplier float64
	Defense        Defense
	// BlockReduction is the fraction removed by a successful block.
	BlockReduction float64
	// Unmitigated skips armor, resistances and block (doom, true damage).
	Unmitigated bool
}

// Hit is the resolved outcome.
type Hit struct {
	Amount  int
	Type    Type
	Crit    bool
	Blocked bool
	// Sanitized is true when a non-finite intermediate was replaced with zero.
	Sanitized bool
}

// Resolve runs crit, mitigation and block in that order.
//
// Postcondition: Amount >= 0, and >= 1 for an unblocked hit of at least 1
// that mitigation did not cancel outright.
func Resolve(req Request, src Source) Hit {
	h := Hit{Type: req.Type}
	amount, ok := numeric.Sanitize(req.Amount, 0)
	h.Sanitized = !ok
	if amount <= 0 {
		return h
	}
	if RollCrit(req.CritChance, src) {
		h.Crit = true
		mult := req.CritMultiplier
		if mult < 1 {
			mult = 1
		}
		amount *= mult
	}
	pre := amount
	if !req.Unmitigated {
		amount = Mitigate(amount, req.Type, req.Defense)
		amount, h.Blocked = ApplyBlock(amount, req.Defense.BlockChance, req.BlockReduction, src)
	}
	amount, ok = numeric.Sanitize(amount, 0)
	if !ok {
		h.Sanitized = true
	}
	h.Amount = numeric.Floor(amount)
	// an unblocked hit of at least 1 that mitigation left positive deals 1
	if h.Amount == 0 && amount > 0 && pre >= 1 && !h.Blocked {
		h.Amount = 1
	}
	return h
}

// HealRequest is one healing instance.
type HealRequest struct {
	Amount         float64
	CritChance     float64
	CritMultiplier float64
	// Absorb is the receiver's remaining heal-absorption pool.
	Absorb int
}

// Heal is the resolved healing outcome. Absorbed is the part consumed by the
// receiver's heal-absorption pool; Amount is what actually restores health.
type Heal struct {
	Amount    int
	Absorbed  int
	Crit      bool
	Sanitized bool
}

// ResolveHeal runs the crit draw, floors, and nets out heal absorption.
func ResolveHeal(req HealRequest, src Source) Heal {
	var h Heal
	amount, ok := numeric.Sanitize(req.Amount, 0)
	h.Sanitized = !ok
	if amount <= 0 {
		return h
	}
	if RollCrit(req.CritChance, src) {
		h.Crit = true
		if req.CritMultiplier > 1 {
			amount *= req.CritMultiplier
		}
	}
	total := numeric.Floor(amount)
	h.Absorbed = min(total, max(req.Absorb, 0))
	h.Amount = total - h.Absorbed
	return h
}
