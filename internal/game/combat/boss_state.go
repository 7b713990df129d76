package combat

import (
	"maps"
	"math"
	"slices"
)

// NeverReady marks a once-per-fight ability that has been used.
const NeverReady = math.MaxInt

// AbilityState is the per-encounter mutable companion of a boss ability table.
//
// Invariant: once ReadyAt[id] == NeverReady it never changes again.
type AbilityState struct {
	// ReadyAt maps ability id to the tick it becomes ready. Absent means ready.
	ReadyAt map[string]int
	// LastAbility is the id of the most recent ability cast, replays excluded.
	LastAbility string
	// History lists ability ids in cast order, replays excluded.
	History    []string
	CastCounts map[string]int
	// DamageWindowUntil and DamageWindowBonus implement a temporary damage increase.
	DamageWindowUntil int
	DamageWindowBonus float64
	// UndyingUntil keeps the boss at 1 HP or more while Tick < UndyingUntil.
	UndyingUntil int
}

// NewAbilityState returns a state with every ability ready.
func NewAbilityState() *AbilityState {
	return &AbilityState{ReadyAt: map[string]int{}, CastCounts: map[string]int{}}
}

// Ready reports whether id may be used at tick.
func (a *AbilityState) Ready(id string, tick int) bool {
	at, ok := a.ReadyAt[id]
	return !ok || (at != NeverReady && at <= tick)
}

// SetReadyAt records the next ready tick. A spent once-per-fight entry is
// never overwritten.
func (a *AbilityState) SetReadyAt(id string, tick int) {
	if a.ReadyAt[id] == NeverReady {
		return
	}
	a.ReadyAt[id] = tick
}

// Undying reports whether the lethal-damage floor is active.
func (a *AbilityState) Undying(tick int) bool { return tick < a.UndyingUntil }

// DamageBonus returns the active damage window bonus in percent.
func (a *AbilityState) DamageBonus(tick int) float64 {
	if tick < a.DamageWindowUntil {
		return a.DamageWindowBonus
	}
	return 0
}

// Record appends id to the cast history.
func (a *AbilityState) Record(id string) {
	a.LastAbility = id
	a.History = append(a.History, id)
	a.CastCounts[id]++
}

// Clone returns a deep copy.
func (a *AbilityState) Clone() *AbilityState {
	cp := *a
	cp.ReadyAt = maps.Clone(a.ReadyAt)
	cp.CastCounts = maps.Clone(a.CastCounts)
	cp.History = slices.Clone(a.History)
	return &cp
}
