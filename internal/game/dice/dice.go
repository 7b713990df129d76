// Package dice provides the randomness abstraction used by every probabilistic
// decision in the simulator: enemy basic attack rolls, crit and block checks,
// target picks, and chain bounces.
//
// All draws during a run come from a single SeededSource owned by the
// simulation state, so a run is reproducible from its seed.
package dice

import (
	"fmt"
	"strings"
)

// RollResult records one evaluated dice expression.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of the kept dice plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "2d6+3 [4 5] +3 = 12".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String called with empty Expression")
	}
	parts := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		parts[i] = fmt.Sprint(d)
	}
	return fmt.Sprintf("%s [%s] %+d = %d", r.Expression, strings.Join(parts, " "), r.Modifier, r.Total())
}

// Source is the randomness provider.
type Source interface {
	// Intn returns a uniform int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// Chance draws once from src and reports whether the draw landed under p.
// No draw is consumed when p <= 0; p >= 1 always succeeds without a draw.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}
