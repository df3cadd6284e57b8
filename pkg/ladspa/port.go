package ladspa

// PortKind is a set of flags describing a port, as in LADSPA_PortDescriptor.
type PortKind uint

const (
	PortKindInput = PortKind(1 << iota)
	PortKindOutput
	PortKindControl
	PortKindAudio
)

func (k PortKind) IsInput() bool   { return k&PortKindInput != 0 }
func (k PortKind) IsOutput() bool  { return k&PortKindOutput != 0 }
func (k PortKind) IsControl() bool { return k&PortKindControl != 0 }
func (k PortKind) IsAudio() bool   { return k&PortKindAudio != 0 }

// HintKind is a set of flags of LADSPA_PortRangeHintDescriptor.
type HintKind uint

const (
	HintBoundedBelow = HintKind(1 << iota)
	HintBoundedAbove
)

type PortRangeHint struct {
	Kind       HintKind
	LowerBound float32
	UpperBound float32
}

type PortInfo struct {
	Name      string
	Kind      PortKind
	RangeHint PortRangeHint
}

// Properties is a set of flags of LADSPA_Properties.
type Properties uint

const (
	PropertyRealTime = Properties(1 << iota)
	PropertyInplaceBroken
	PropertyHardRTCapable
)
