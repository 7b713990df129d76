package dice

import "slices"

// Roll evaluates expr against src.
//
// Precondition: expr came from Parse.
// Postcondition: len(result.Dice) == expr.KeepHighest when set, else expr.Count.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	if expr.KeepHighest > 0 {
		slices.Sort(rolled)
		slices.Reverse(rolled)
		rolled = rolled[:expr.KeepHighest]
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
}

// Average is the expected total of expr, ignoring KeepHighest.
func Average(expr Expression) float64 {
	return float64(expr.Count)*float64(expr.Sides+1)/2 + float64(expr.Modifier)
}
