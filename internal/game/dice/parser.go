package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression.
//
// Invariant: Count >= 1 and Sides >= 2 after a successful Parse.
type Expression struct {
	Raw         string
	Count       int
	Sides       int
	Modifier    int
	KeepHighest int
}

// Parse accepts "d20", "2d6", "2d6+3", "4d8-2" and "4d6kh3".
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	countStr, rest, ok := strings.Cut(s, "d")
	if !ok {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", expr)
	}

	e := Expression{Raw: expr, Count: 1}
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil || n < 1 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q", expr)
		}
		e.Count = n
	}

	if i := strings.IndexAny(rest, "+-"); i > 0 {
		mod, err := strconv.Atoi(rest[i:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
		e.Modifier = mod
		rest = rest[:i]
	}

	sidesStr, khStr, hasKH := strings.Cut(rest, "kh")
	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q", expr)
	}
	e.Sides = sides

	if hasKH {
		kh, err := strconv.Atoi(khStr)
		if err != nil || kh <= 0 || kh >= e.Count {
			return Expression{}, fmt.Errorf("dice: kh value must be > 0 and < count %d in %q", e.Count, expr)
		}
		e.KeepHighest = kh
	}
	return e, nil
}

// MustParse panics when expr does not parse. Intended for fixed content.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return e
}
