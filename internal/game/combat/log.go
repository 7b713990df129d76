package combat

import "slices"

// EntryType tags a combat log entry.
type EntryType string

const (
	EntryDamage  EntryType = "damage"
	EntryHeal    EntryType = "heal"
	EntryCast    EntryType = "cast"
	EntryCancel  EntryType = "cancel"
	EntryEffect  EntryType = "effect"
	EntryExpire  EntryType = "expire"
	EntryMiss    EntryType = "miss"
	EntryDeath   EntryType = "death"
	EntryAbility EntryType = "ability"
	EntryPhase   EntryType = "phase"
	EntryWarning EntryType = "warning"
)

// Entry is one combat log line.
type Entry struct {
	Tick int
	// Seconds is Tick expressed in simulated seconds.
	Seconds float64
	Type    EntryType
	Source  string
	Target  string
	Value   int
	Message string
}

// Log is the append-only combat log. When Capacity > 0 the oldest entries
// are dropped past Capacity and counted in Dropped.
type Log struct {
	Capacity int
	Dropped  int
	entries  []Entry
	// head is the oldest entry once a bounded log has wrapped.
	head int
}

// NewLog returns a log holding at most capacity entries; 0 means unbounded.
func NewLog(capacity int) *Log {
	return &Log{Capacity: capacity}
}

// Append adds e, overwriting the oldest entry when the log is full.
func (l *Log) Append(e Entry) {
	if l.Capacity <= 0 || len(l.entries) < l.Capacity {
		l.entries = append(l.entries, e)
		return
	}
	l.entries[l.head] = e
	l.head = (l.head + 1) % len(l.entries)
	l.Dropped++
}

// Entries returns the retained entries, oldest first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, 0, len(l.entries))
	out = append(out, l.entries[l.head:]...)
	return append(out, l.entries[:l.head]...)
}

// Len returns the number of retained entries.
func (l *Log) Len() int { return len(l.entries) }

// Clone returns an independent copy.
func (l *Log) Clone() *Log {
	cp := *l
	cp.entries = slices.Clone(l.entries)
	return &cp
}

// FloatCategory tells a renderer how to draw a floating number.
type FloatCategory string

const (
	FloatDamage FloatCategory = "damage"
	FloatCrit   FloatCategory = "crit"
	FloatHeal   FloatCategory = "heal"
	FloatBlock  FloatCategory = "block"
	FloatAbsorb FloatCategory = "absorb"
	FloatMiss   FloatCategory = "miss"
)

// Floating is one floating-number event for an external renderer.
type Floating struct {
	Tick     int
	TargetID string
	Amount   int
	Category FloatCategory
	// Team and Slot locate the target on screen.
	Team bool
	Slot int
}

// FloatRing is a fixed-capacity ring of recent floating events. Pushing
// into a full ring overwrites the oldest event.
type FloatRing struct {
	buf   []Floating
	head  int
	count int
}

// NewFloatRing returns a ring of the given capacity (at least 1).
func NewFloatRing(capacity int) *FloatRing {
	return &FloatRing{buf: make([]Floating, max(capacity, 1))}
}

// Push adds f, overwriting the oldest event when full.
func (r *FloatRing) Push(f Floating) {
	idx := (r.head + r.count) % len(r.buf)
	if r.count == len(r.buf) {
		r.buf[r.head] = f
		r.head = (r.head + 1) % len(r.buf)
		return
	}
	r.buf[idx] = f
	r.count++
}

// Recent returns the buffered events, oldest first.
func (r *FloatRing) Recent() []Floating {
	out := make([]Floating, r.count)
	for i := range r.count {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Len returns the number of buffered events.
func (r *FloatRing) Len() int { return r.count }

// Clone returns an independent copy.
func (r *FloatRing) Clone() *FloatRing {
	cp := *r
	cp.buf = slices.Clone(r.buf)
	return &cp
}
