package combat

import "slices"

// SourceAmount is one row of a per-source breakdown.
type SourceAmount struct {
	Source string
	Amount int
}

// Tally accumulates amounts per source in first-seen order.
type Tally struct {
	rows []SourceAmount
}

// Add credits amount to source.
func (t *Tally) Add(source string, amount int) {
	if amount <= 0 {
		return
	}
	for i := range t.rows {
		if t.rows[i].Source == source {
			t.rows[i].Amount += amount
			return
		}
	}
	t.rows = append(t.rows, SourceAmount{Source: source, Amount: amount})
}

// Total sums every source.
func (t Tally) Total() int {
	n := 0
	for _, r := range t.rows {
		n += r.Amount
	}
	return n
}

// Rows returns the breakdown sorted by amount descending, ties in first-seen order.
func (t Tally) Rows() []SourceAmount {
	out := slices.Clone(t.rows)
	slices.SortStableFunc(out, func(a, b SourceAmount) int { return b.Amount - a.Amount })
	return out
}

// Clone returns an independent copy.
func (t Tally) Clone() Tally {
	return Tally{rows: slices.Clone(t.rows)}
}
