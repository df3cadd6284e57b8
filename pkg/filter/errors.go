package filter

import (
	"fmt"
)

type ErrUnknownPort struct {
	Port Port
}

func (e ErrUnknownPort) Error() string {
	return fmt.Sprintf("unknown port %d", uint(e.Port))
}

type ErrPortNotConnected struct {
	Port Port
}

func (e ErrPortNotConnected) Error() string {
	return fmt.Sprintf("port '%s' is not connected", e.Port)
}

type ErrPortTooShort struct {
	Port     Port
	Length   int
	Required int
}

func (e ErrPortTooShort) Error() string {
	return fmt.Sprintf("port '%s' has %d samples, but %d are required", e.Port, e.Length, e.Required)
}

type ErrInvalidSampleCount struct {
	Count int
}

func (e ErrInvalidSampleCount) Error() string {
	return fmt.Sprintf("invalid sample count: %d", e.Count)
}
