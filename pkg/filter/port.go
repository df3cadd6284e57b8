package filter

import (
	"fmt"
)

// Port is an index of a host-owned buffer connected to the filter.
type Port uint

const (
	PortInput = Port(iota)
	PortOutput
	PortVAD
	EndOfPort
)

func (p Port) String() string {
	switch p {
	case PortInput:
		return "Input"
	case PortOutput:
		return "Output"
	case PortVAD:
		return "VAD %%"
	}
	return fmt.Sprintf("unknown_port_%d", uint(p))
}
