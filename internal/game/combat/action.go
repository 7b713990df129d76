package combat

import (
	"context"

	"github.com/looplab/fsm"
)

// ActionState is the per-actor action state.
type ActionState string

const (
	Idle       ActionState = "idle"
	Casting    ActionState = "casting"
	Channeling ActionState = "channeling"
)

const (
	eventCast    = "cast"
	eventChannel = "channel"
	eventResolve = "resolve"
	eventCancel  = "cancel"
)

// ActionMachine governs when an actor may begin a new action:
//
//	idle -cast-> casting -resolve-> idle
//	casting -channel-> channeling -resolve-> idle
//	casting|channeling -cancel-> idle
type ActionMachine struct {
	fsm *fsm.FSM
}

// NewActionMachine returns a machine in the idle state.
func NewActionMachine() *ActionMachine {
	return &ActionMachine{fsm: newActionFSM(string(Idle))}
}

func newActionFSM(initial string) *fsm.FSM {
	return fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: eventCast, Src: []string{string(Idle)}, Dst: string(Casting)},
			{Name: eventChannel, Src: []string{string(Casting)}, Dst: string(Channeling)},
			{Name: eventResolve, Src: []string{string(Casting), string(Channeling)}, Dst: string(Idle)},
			{Name: eventCancel, Src: []string{string(Casting), string(Channeling)}, Dst: string(Idle)},
		},
		fsm.Callbacks{},
	)
}

// State returns the current state.
func (m *ActionMachine) State() ActionState { return ActionState(m.fsm.Current()) }

// Is reports whether the machine is in s.
func (m *ActionMachine) Is(s ActionState) bool { return m.fsm.Is(string(s)) }

// Begin moves idle to casting.
func (m *ActionMachine) Begin() error { return m.fsm.Event(context.Background(), eventCast) }

// Channel moves a finished wind-up into channeling.
func (m *ActionMachine) Channel() error { return m.fsm.Event(context.Background(), eventChannel) }

// Resolve returns to idle after a cast or channel completes.
func (m *ActionMachine) Resolve() error { return m.fsm.Event(context.Background(), eventResolve) }

// Cancel aborts the current action. Cancelling an idle machine is a no-op.
func (m *ActionMachine) Cancel() {
	if m.Is(Idle) {
		return
	}
	_ = m.fsm.Event(context.Background(), eventCancel)
}

// Clone returns an independent machine in the same state.
func (m *ActionMachine) Clone() *ActionMachine {
	return &ActionMachine{fsm: newActionFSM(m.fsm.Current())}
}

// Cast is the bookkeeping of the action in flight.
type Cast struct {
	// Ability is the skill or boss ability id; empty for a basic attack.
	Ability  string
	TargetID string
	// SkillIndex indexes the member loadout; -1 for a basic attack.
	SkillIndex int
	StartTick  int
	EndTick    int
	// NextTick is the next channel sub-tick.
	NextTick int
	// Interval is the channel sub-tick spacing in ticks.
	Interval int
	// Stage is the channel ramp stage.
	Stage int
}
