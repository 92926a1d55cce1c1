package reminder

import "errors"

var ErrParseState = errors.New("invalid state")

// State is the lifecycle position of a reminder. Firing only exists in
// memory while a poll cycle handles a due reminder; it is never persisted.
type State struct {
	v string
}

func (s State) String() string {
	return s.v
}

func ParseState(value string) (State, error) {
	switch value {
	case "pending":
		return StatePending, nil
	case "firing":
		return StateFiring, nil
	case "fired":
		return StateFired, nil
	default:
		return StateUnknown, ErrParseState
	}
}

var (
	StateUnknown = State{}
	StatePending = State{v: "pending"}
	StateFiring  = State{v: "firing"}
	StateFired   = State{v: "fired"}
)
