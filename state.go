package reactor

import "github.com/latticerun/reactor/internal"

// State is a Computed's externally observable resting state — spec.md 4.G's
// {IDLE, PENDING, RESOLVED, REJECTED}.
type State uint8

const (
	StateIdle State = iota
	StatePending
	StateResolved
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func stateFromFlags(f internal.StateFlags) State {
	switch f {
	case internal.FlagPending:
		return StatePending
	case internal.FlagResolved:
		return StateResolved
	case internal.FlagRejected:
		return StateRejected
	default:
		return StateIdle
	}
}

// Unsubscribe removes a previously registered subscriber; calling it more
// than once is a no-op.
type Unsubscribe = internal.Unsubscribe
