package filter

import (
	"sync/atomic"
)

// Stats are updated on the real-time path and may be read from any goroutine.
type Stats struct {
	Calls           atomic.Uint64
	FramesProcessed atomic.Uint64
	FramesMuted     atomic.Uint64
	UnderrunSamples atomic.Uint64
	EngineErrors    atomic.Uint64

	// BacklogBytes is the amount of bytes left in both ring buffers after the last Run.
	BacklogBytes atomic.Uint64
}

type StatsSnapshot struct {
	Calls           uint64
	FramesProcessed uint64
	FramesMuted     uint64
	UnderrunSamples uint64
	EngineErrors    uint64
	BacklogBytes    uint64
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Calls:           s.Calls.Load(),
		FramesProcessed: s.FramesProcessed.Load(),
		FramesMuted:     s.FramesMuted.Load(),
		UnderrunSamples: s.UnderrunSamples.Load(),
		EngineErrors:    s.EngineErrors.Load(),
		BacklogBytes:    s.BacklogBytes.Load(),
	}
}
