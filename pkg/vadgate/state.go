package vadgate

import (
	"fmt"
)

type State uint8

const (
	// StateOpen passes frames through.
	StateOpen = State(iota)

	// StateClosed replaces frames with silence.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("unknown_state_%d", uint8(s))
}
