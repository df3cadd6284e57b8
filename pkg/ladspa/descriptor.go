package ladspa

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/audio/pkg/audio"
	"github.com/xaionaro-go/ntfilter/pkg/filter"
	"github.com/xaionaro-go/ntfilter/pkg/frame"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
	"github.com/xaionaro-go/ntfilter/pkg/vadgate"
)

const (
	UniqueID  = 16682994
	Label     = "nt-filter"
	Name      = "nt-filter rnnoise ladspa module"
	Maker     = "nt-org"
	Copyright = "GPL3+"
)

type InstanceID uint64

// Descriptor describes the plugin to a host and creates its instances.
type Descriptor struct {
	UniqueID   uint64
	Label      string
	Name       string
	Maker      string
	Copyright  string
	Properties Properties

	// Ports is indexed by filter.Port.
	Ports []PortInfo

	EngineFactory noisesuppression.Factory
	FilterOptions filter.Options

	NextInstanceID atomic.Uint64
	Instances      sync.Map
}

func newDescriptor(cfg config) *Descriptor {
	ports := make([]PortInfo, filter.EndOfPort)
	ports[filter.PortInput] = PortInfo{
		Name: filter.PortInput.String(),
		Kind: PortKindInput | PortKindAudio,
	}
	ports[filter.PortOutput] = PortInfo{
		Name: filter.PortOutput.String(),
		Kind: PortKindOutput | PortKindAudio,
	}
	ports[filter.PortVAD] = PortInfo{
		Name: filter.PortVAD.String(),
		Kind: PortKindInput | PortKindControl,
		RangeHint: PortRangeHint{
			Kind:       HintBoundedBelow | HintBoundedAbove,
			LowerBound: vadgate.ControlMin,
			UpperBound: vadgate.ControlMax,
		},
	}

	return &Descriptor{
		UniqueID:      UniqueID,
		Label:         Label,
		Name:          Name,
		Maker:         Maker,
		Copyright:     Copyright,
		Properties:    PropertyHardRTCapable,
		Ports:         ports,
		EngineFactory: cfg.EngineFactory,
		FilterOptions: cfg.FilterOptions,
	}
}

// Instantiate creates a new independent filter instance.
func (d *Descriptor) Instantiate(
	ctx context.Context,
	sampleRate audio.SampleRate,
) (_ret *Handle, _err error) {
	logger.Debugf(ctx, "Instantiate(ctx, %d)", sampleRate)
	defer func() { logger.Debugf(ctx, "/Instantiate(ctx, %d): %v", sampleRate, _err) }()

	if sampleRate != frame.SampleRate {
		return nil, ErrUnsupportedSampleRate{SampleRate: sampleRate, Supported: frame.SampleRate}
	}

	engine, err := d.EngineFactory(ctx)
	if err != nil {
		return nil, ErrInitEngine{Err: err}
	}

	f, err := filter.New(ctx, engine, d.FilterOptions...)
	if err != nil {
		if closeErr := engine.Close(); closeErr != nil {
			logger.Errorf(ctx, "unable to close the engine: %v", closeErr)
		}
		return nil, fmt.Errorf("unable to initialize the filter: %w", err)
	}

	h := &Handle{
		Filter:     f,
		ID:         InstanceID(d.NextInstanceID.Add(1)),
		Descriptor: d,
	}
	d.Instances.Store(h.ID, h)
	return h, nil
}

// RangeInstances calls callback for each live instance until it returns false.
func (d *Descriptor) RangeInstances(callback func(*Handle) bool) {
	d.Instances.Range(func(_, value any) bool {
		return callback(value.(*Handle))
	})
}

func (d *Descriptor) countInstances() int {
	count := 0
	d.RangeInstances(func(*Handle) bool {
		count++
		return true
	})
	return count
}
