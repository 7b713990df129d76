package damage

// StrikeKind labels how a strike reached its target.
type StrikeKind string

const (
	StrikeInitial StrikeKind = "initial"
	StrikePierce  StrikeKind = "pierce"
	StrikeChain   StrikeKind = "chain"
	StrikeArea    StrikeKind = "area"
)

// Pattern is the multi-target shape of one cast.
type Pattern struct {
	// Projectiles is the number of distinct initial targets; 0 means 1.
	Projectiles int
	// Pierce continues each projectile through the next N targets at full damage.
	Pierce int
	// Chains bounces each projectile to N further random targets.
	Chains int
	// ChainFalloff is the percent damage lost per bounce.
	ChainFalloff float64
	// Area hits every target, ignoring the other fields.
	Area bool
	// TargetCap limits area hits; 0 means unlimited.
	TargetCap int
}

// Strike is one planned hit.
type Strike struct {
	TargetIndex int
	Multiplier  float64
	Kind        StrikeKind
}

// Plan expands a pattern into strikes against n live targets, with primary
// being the index of the chosen target.
//
// Initial hits never land on the same target twice within a cast. Pierce
// walks forward through the target order at full damage. Chains pick random
// targets not yet hit by that projectile and lose ChainFalloff percent per bounce;
// chains from different projectiles may reconverge.
func Plan(n, primary int, p Pattern, src Source) []Strike {
	if n <= 0 {
		return nil
	}
	if primary < 0 || primary >= n {
		primary = 0
	}
	if p.Area {
		limit := n
		if p.TargetCap > 0 && p.TargetCap < n {
			limit = p.TargetCap
		}
		strikes := make([]Strike, 0, limit)
		strikes = append(strikes, Strike{TargetIndex: primary, Multiplier: 1, Kind: StrikeArea})
		for i := 0; i < n && len(strikes) < limit; i++ {
			if i != primary {
				strikes = append(strikes, Strike{TargetIndex: i, Multiplier: 1, Kind: StrikeArea})
			}
		}
		return strikes
	}

	projectiles := max(p.Projectiles, 1)
	initial := []int{primary}
	for i := 1; i < n && len(initial) < projectiles; i++ {
		initial = append(initial, (primary+i)%n)
	}

	var strikes []Strike
	for _, first := range initial {
		hit := map[int]bool{first: true}
		strikes = append(strikes, Strike{TargetIndex: first, Multiplier: 1, Kind: StrikeInitial})

		cur := first
		for k := 0; k < p.Pierce; k++ {
			next := (cur + 1) % n
			if hit[next] {
				break
			}
			hit[next] = true
			strikes = append(strikes, Strike{TargetIndex: next, Multiplier: 1, Kind: StrikePierce})
			cur = next
		}

		mult := 1.0
		for k := 0; k < p.Chains; k++ {
			free := make([]int, 0, n)
			for i := 0; i < n; i++ {
				if !hit[i] {
					free = append(free, i)
				}
			}
			if len(free) == 0 {
				break
			}
			next := free[src.Intn(len(free))]
			hit[next] = true
			mult *= 1 - p.ChainFalloff/100
			if mult < 0 {
				mult = 0
			}
			strikes = append(strikes, Strike{TargetIndex: next, Multiplier: mult, Kind: StrikeChain})
		}
	}
	return strikes
}
