package ladspa

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/ntfilter/pkg/filter"
)

// Handle is a single plugin instance.
type Handle struct {
	*filter.Filter
	ID         InstanceID
	Descriptor *Descriptor
}

func (h *Handle) InstanceID() InstanceID {
	return h.ID
}

// Cleanup releases the instance; it is safe to call it multiple times.
func (h *Handle) Cleanup(ctx context.Context) error {
	logger.Debugf(ctx, "Cleanup(ctx): instance %d", h.ID)
	h.Descriptor.Instances.Delete(h.ID)
	return h.Filter.Close()
}
