package rnnoise

import (
	"fmt"
)

type ErrInitBackend struct {
	Err error
}

func (e ErrInitBackend) Error() string {
	return fmt.Sprintf("unable to initialize a RNNoise: %v", e.Err)
}

func (e ErrInitBackend) Unwrap() error {
	return e.Err
}
