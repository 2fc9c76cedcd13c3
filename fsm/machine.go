package fsm

import "errors"

var (
	// ErrNilState is returned when a nil state is handed to the machine.
	ErrNilState = errors.New("fsm: nil state")
	// ErrAlreadyInitialized is returned when Initialize is called twice.
	ErrAlreadyInitialized = errors.New("fsm: machine already initialized")
)

// Machine runs exactly one State at a time. Transitions are imperative:
// there is no transition table, the current state constructs its successor
// and calls ChangeState. Two machines run per player, one for locomotion
// and one for actions.
type Machine struct {
	current     State
	timeInState float64
}

// NewMachine creates an empty machine. Initialize must be called before
// any update.
func NewMachine() *Machine {
	return &Machine{}
}

// Initialize sets the starting state and runs its Enter. It must be
// called exactly once before LogicUpdate or PhysicsUpdate.
func (m *Machine) Initialize(start State) error {
	if start == nil {
		return ErrNilState
	}
	if m.current != nil {
		return ErrAlreadyInitialized
	}
	m.current = start
	m.timeInState = 0
	m.current.Enter()
	return nil
}

// ChangeState exits the current state, swaps to next, and enters it.
// Passing the current state again is a no-op so redundant requests don't
// re-run Enter.
func (m *Machine) ChangeState(next State) error {
	if next == nil {
		return ErrNilState
	}
	if next == m.current {
		return nil
	}
	if m.current != nil {
		m.current.Exit(next)
	}
	m.current = next
	m.timeInState = 0
	m.current.Enter()
	return nil
}

// ForceSetState swaps the current state without running Exit or Enter.
// It skips the outgoing state's cleanup, so callers must have performed
// equivalent cleanup themselves. Rail-end attach is the one shipped user.
func (m *Machine) ForceSetState(next State) error {
	if next == nil {
		return ErrNilState
	}
	m.current = next
	m.timeInState = 0
	return nil
}

// LogicUpdate advances the variable-rate tick. No-op before Initialize.
func (m *Machine) LogicUpdate(dt float64) {
	if m.current == nil {
		return
	}
	m.timeInState += dt
	m.current.LogicUpdate(dt)
}

// PhysicsUpdate advances the fixed-rate tick. No-op before Initialize.
func (m *Machine) PhysicsUpdate(dt float64) {
	if m.current == nil {
		return
	}
	m.current.PhysicsUpdate(dt)
}

// Current returns the active state, nil before Initialize.
func (m *Machine) Current() State {
	return m.current
}

// CurrentName returns the active state's name, "" before Initialize.
func (m *Machine) CurrentName() string {
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// TimeInState reports seconds of logic time since the last Enter.
func (m *Machine) TimeInState() float64 {
	return m.timeInState
}
