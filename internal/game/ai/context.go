package ai

// EnemyInfo is the part of an enemy the engine may look at.
type EnemyInfo struct {
	ID            string
	Elite         bool
	Boss          bool
	HealthPercent float64
}

// Context is the snapshot one skill is evaluated against. It is built by
// the scheduler per actor per tick and never mutated by the engine.
type Context struct {
	// Actor is the evaluating member's id, passed to script predicates.
	Actor   string
	Enemies []EnemyInfo

	SelfHealth float64
	SelfMana   float64
	TankHealth float64
	// AllyHealth holds the health percent of every living ally, self included.
	AllyHealth []float64

	// EnemyEffects and AllyEffects count living bearers per effect name.
	EnemyEffects map[string]int
	AllyEffects  map[string]int
}

// LowestAllyHealth returns the minimum of AllyHealth, 100 when empty.
func (c Context) LowestAllyHealth() float64 {
	lowest := 100.0
	for _, h := range c.AllyHealth {
		lowest = min(lowest, h)
	}
	return lowest
}

// AlliesBelow counts allies under pct.
func (c Context) AlliesBelow(pct float64) int {
	n := 0
	for _, h := range c.AllyHealth {
		if h < pct {
			n++
		}
	}
	return n
}

// HasElite reports whether any elite or boss is alive.
func (c Context) HasElite() bool {
	for _, e := range c.Enemies {
		if e.Elite || e.Boss {
			return true
		}
	}
	return false
}

// PickTarget returns the index into Enemies the skill should aim at, or -1
// when there is no enemy. Health preferences break ties by spawn order.
func PickTarget(t TargetType, enemies []EnemyInfo) int {
	if len(enemies) == 0 {
		return -1
	}
	match := func(ok func(EnemyInfo) bool) int {
		for i, e := range enemies {
			if ok(e) {
				return i
			}
		}
		return 0
	}
	switch t {
	case TypeBoss:
		return match(func(e EnemyInfo) bool { return e.Boss })
	case TypeElitePlus:
		return match(func(e EnemyInfo) bool { return e.Elite || e.Boss })
	case TypeNormal:
		return match(func(e EnemyInfo) bool { return !e.Elite && !e.Boss })
	case TypeLowestHealth, TypeHighestHealth:
		best := 0
		for i, e := range enemies[1:] {
			if (t == TypeLowestHealth && e.HealthPercent < enemies[best].HealthPercent) ||
				(t == TypeHighestHealth && e.HealthPercent > enemies[best].HealthPercent) {
				best = i + 1
			}
		}
		return best
	}
	return 0
}
