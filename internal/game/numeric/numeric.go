// Package numeric holds the explicit sanitization helpers applied at the
// boundary of the damage pipeline and the effect ledger. Health and mana are
// integers everywhere else, so degenerate values can only enter through the
// floating-point formulas that pass through here.
package numeric

import "math"

// Finite reports whether v is neither NaN nor ±Inf.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Sanitize returns v unchanged when it is finite.
// Otherwise it returns fallback and false so the caller can log the event once.
//
// Postcondition: the returned value is finite whenever fallback is finite.
func Sanitize(v, fallback float64) (float64, bool) {
	if Finite(v) {
		return v, true
	}
	return fallback, false
}

// Floor converts a finite, non-negative amount to an int, flooring only here.
// Negative or non-finite input yields 0.
func Floor(v float64) int {
	if !Finite(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(v))
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat bounds v to [lo, hi]. NaN collapses to lo.
func ClampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Percent returns cur/max*100, or 0 when max is not positive.
func Percent(cur, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(cur) / float64(max) * 100
}
