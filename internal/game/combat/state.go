package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/delve/internal/game/dice"
)

// Phase is the encounter phase.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseTraveling Phase = "traveling"
	PhaseCombat    Phase = "combat"
	PhaseVictory   Phase = "victory"
	PhaseDefeat    Phase = "defeat"
)

// Finished reports whether the encounter has ended.
func (p Phase) Finished() bool { return p == PhaseVictory || p == PhaseDefeat }

// Rules are the balance constants and environment modifiers of one run.
type Rules struct {
	TicksPerSecond int
	// CooldownScale multiplies every boss cooldown before tick conversion.
	CooldownScale float64
	// BlockReduction is the fraction of damage a successful block removes.
	BlockReduction float64
	// CriticalHealthPercent triggers the heal fallback.
	CriticalHealthPercent float64
	TravelTicks           int
	// PlayerDamageReduction is a fraction removed from all damage to the team.
	PlayerDamageReduction float64
}

// DefaultRules are the reference balance values.
func DefaultRules() Rules {
	return Rules{
		TicksPerSecond:        10,
		CooldownScale:         0.4,
		BlockReduction:        0.5,
		CriticalHealthPercent: 35,
		TravelTicks:           30,
	}
}

// Seconds converts a duration in seconds to ticks, rounding up.
func (r Rules) Seconds(s float64) int {
	if s <= 0 {
		return 0
	}
	return int(math.Ceil(s*float64(r.TicksPerSecond) - 1e-9))
}

// State is the aggregate the scheduler owns.
type State struct {
	Tick  int
	Phase Phase
	Rules Rules

	Team    []*Combatant
	Enemies []*Combatant
	// Packs are every enemy group in spawn order. Once combat starts,
	// Enemies is Packs[PackIndex].
	Packs       [][]*Combatant
	PackIndex   int
	TravelUntil int

	Log      *Log
	Floating *FloatRing
	RNG      *dice.SeededSource

	warned map[string]bool
	// emitted and floated collect what the current tick produced.
	emitted []Entry
	floated []Floating
}

// NewState returns an idle state.
func NewState(rules Rules, rng *dice.SeededSource, logCapacity, floatCapacity int) *State {
	if rules.TicksPerSecond <= 0 {
		rules.TicksPerSecond = 10
	}
	return &State{
		Phase:    PhaseIdle,
		Rules:    rules,
		Log:      NewLog(logCapacity),
		Floating: NewFloatRing(floatCapacity),
		RNG:      rng,
		warned:   map[string]bool{},
	}
}

// Seconds returns the current tick in simulated seconds.
func (s *State) Seconds() float64 { return float64(s.Tick) / float64(s.Rules.TicksPerSecond) }

// Emit appends a log entry stamped with the current tick.
func (s *State) Emit(t EntryType, source, target string, value int, format string, args ...any) {
	e := Entry{
		Tick:    s.Tick,
		Seconds: s.Seconds(),
		Type:    t,
		Source:  source,
		Target:  target,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
	s.Log.Append(e)
	s.emitted = append(s.emitted, e)
}

// Float pushes a floating-number event for target.
func (s *State) Float(target *Combatant, amount int, cat FloatCategory) {
	f := Floating{
		Tick:     s.Tick,
		TargetID: target.ID,
		Amount:   amount,
		Category: cat,
		Team:     target.Kind == KindMember,
		Slot:     target.Slot,
	}
	s.Floating.Push(f)
	s.floated = append(s.floated, f)
}

// Drain returns and clears what was emitted since the last drain.
func (s *State) Drain() ([]Entry, []Floating) {
	e, f := s.emitted, s.floated
	s.emitted, s.floated = nil, nil
	return e, f
}

// WarnOnce reports true the first time key is seen in this run.
func (s *State) WarnOnce(key string) bool {
	if s.warned[key] {
		return false
	}
	s.warned[key] = true
	return true
}

// Find returns the combatant with id on either side.
func (s *State) Find(id string) *Combatant {
	for _, c := range s.Team {
		if c.ID == id {
			return c
		}
	}
	for _, c := range s.Enemies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// LivingTeam returns living members in roster order.
func (s *State) LivingTeam() []*Combatant { return living(s.Team) }

// LivingEnemies returns living enemies in spawn order.
func (s *State) LivingEnemies() []*Combatant { return living(s.Enemies) }

// OpponentsOf returns the living opponents of c.
func (s *State) OpponentsOf(c *Combatant) []*Combatant {
	if c.Kind == KindMember {
		return s.LivingEnemies()
	}
	return s.LivingTeam()
}

// AlliesOf returns the living allies of c, c included.
func (s *State) AlliesOf(c *Combatant) []*Combatant {
	if c.Kind == KindMember {
		return s.LivingTeam()
	}
	return s.LivingEnemies()
}

// Tank returns the first living tank, or the first living member when no
// tank survives.
func (s *State) Tank() *Combatant {
	team := s.LivingTeam()
	for _, c := range team {
		if c.Role == RoleTank {
			return c
		}
	}
	if len(team) > 0 {
		return team[0]
	}
	return nil
}

// DeadMembers counts dead team members.
func (s *State) DeadMembers() int {
	n := 0
	for _, c := range s.Team {
		if !c.Alive() {
			n++
		}
	}
	return n
}

func living(cs []*Combatant) []*Combatant {
	out := make([]*Combatant, 0, len(cs))
	for _, c := range cs {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a deep copy. The random source is cloned at its current
// position, so advancing the copy does not advance the original.
func (s *State) Clone() *State {
	cp := *s
	cp.Team = cloneAll(s.Team)
	cp.Packs = make([][]*Combatant, len(s.Packs))
	for i, p := range s.Packs {
		cp.Packs[i] = cloneAll(p)
	}
	if s.PackIndex < len(s.Packs) && sameGroup(s.Enemies, s.Packs[s.PackIndex]) {
		cp.Enemies = cp.Packs[s.PackIndex]
	} else {
		cp.Enemies = cloneAll(s.Enemies)
	}
	cp.Log = s.Log.Clone()
	cp.Floating = s.Floating.Clone()
	if s.RNG != nil {
		cp.RNG = s.RNG.Clone()
	}
	cp.warned = make(map[string]bool, len(s.warned))
	for k, v := range s.warned {
		cp.warned[k] = v
	}
	cp.emitted = nil
	cp.floated = nil
	return &cp
}

func sameGroup(a, b []*Combatant) bool {
	return len(a) > 0 && len(a) == len(b) && a[0] == b[0]
}

func cloneAll(cs []*Combatant) []*Combatant {
	out := make([]*Combatant, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}
