package pipeline

import "fmt"

// State is the position of a run in the pipeline state machine:
// pending → checked-out → toolchain-ready → built → artifact-stored →
// (released | done), with any step failure moving directly to failed.
type State string

const (
	StatePending        State = "pending"
	StateCheckedOut     State = "checked-out"
	StateToolchainReady State = "toolchain-ready"
	StateBuilt          State = "built"
	StateArtifactStored State = "artifact-stored"
	StateReleased       State = "released"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// IsTerminal reports whether the state is terminal (finished).
func IsTerminal(s State) bool {
	switch s {
	case StateReleased, StateDone, StateFailed:
		return true
	default:
		return false
	}
}

// IsSuccessful reports whether the run completed without a step failure.
func IsSuccessful(s State) bool {
	switch s {
	case StateReleased, StateDone:
		return true
	default:
		return false
	}
}

// Machine tracks a single run's state and validates every transition. An
// invalid transition is a programming error in the engine, not a run failure.
type Machine struct {
	current State
}

// NewMachine returns a Machine in the pending state.
func NewMachine() *Machine {
	return &Machine{current: StatePending}
}

// Current returns the machine's state.
func (m *Machine) Current() State { return m.current }

// Advance moves the machine to the next state, validating the transition.
func (m *Machine) Advance(to State) error {
	if !isAllowedTransition(m.current, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", m.current, to)
	}
	m.current = to
	return nil
}

// Fail moves the machine to the failed terminal state from any live state.
func (m *Machine) Fail() error {
	if IsTerminal(m.current) {
		return fmt.Errorf("cannot fail from terminal state %s", m.current)
	}
	m.current = StateFailed
	return nil
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StatePending:
		return to == StateCheckedOut
	case StateCheckedOut:
		return to == StateToolchainReady
	case StateToolchainReady:
		return to == StateBuilt
	case StateBuilt:
		return to == StateArtifactStored
	case StateArtifactStored:
		return to == StateReleased || to == StateDone
	default:
		return false
	}
}
