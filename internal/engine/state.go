package engine

import "fmt"

// State is the relationship between one trip and one day's rolling window.
type State uint8

const (
	// StateNone: the trip does not touch the window ending on that day.
	StateNone State = iota
	// StateActive: the day is inside the trip.
	StateActive
	// StateTail: the trip has ended and every one of its days is still counted.
	StateTail
	// StateDropping: the trip has ended and its first days are leaving the window.
	StateDropping
)

var stateNames = [...]string{
	StateNone:     "none",
	StateActive:   "active",
	StateTail:     "tail",
	StateDropping: "dropping",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown trip state %q", b)
}
