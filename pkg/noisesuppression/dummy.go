package noisesuppression

import (
	"github.com/xaionaro-go/ntfilter/pkg/frame"
)

// Dummy passes frames through unchanged and reports a fixed probability.
type Dummy struct {
	Probability float32
}

var _ Engine = (*Dummy)(nil)

func NewDummy(probability float32) *Dummy {
	return &Dummy{
		Probability: probability,
	}
}

func (*Dummy) Close() error {
	return nil
}

func (d *Dummy) ProcessFrame(out, in *frame.Frame) (float32, error) {
	*out = *in
	return d.Probability, nil
}
