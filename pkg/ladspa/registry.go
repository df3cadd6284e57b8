// Package ladspa exposes the filter through an interface shaped after the
// LADSPA plugin ABI: a process-wide descriptor registry, instances with
// connectable ports, and the run callback.
package ladspa

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/xsync"
)

var (
	registryLocker xsync.Mutex
	registry       *Descriptor
)

// Init creates the process-wide descriptor. It is a no-op if it is already
// initialized (the options are ignored in this case).
func Init(ctx context.Context, opts ...Option) {
	registryLocker.Do(ctx, func() {
		if registry != nil {
			logger.Debugf(ctx, "already initialized")
			return
		}
		registry = newDescriptor(Options(opts).config())
		logger.Debugf(ctx, "initialized the descriptor '%s'", registry.Label)
	})
}

// Teardown drops the process-wide descriptor. The instances
// already created stay usable.
func Teardown(ctx context.Context) {
	registryLocker.Do(ctx, func() {
		if registry == nil {
			return
		}
		if count := registry.countInstances(); count > 0 {
			logger.Warnf(ctx, "tearing down with %d instances not cleaned up", count)
		}
		registry = nil
		logger.Debugf(ctx, "teardown complete")
	})
}

// DescriptorAt returns the descriptor by its index, or nil if there is no
// such descriptor. There is only one descriptor, at index 0.
func DescriptorAt(index uint) *Descriptor {
	ctx := xsync.WithNoLogging(context.TODO(), true)
	return xsync.DoR1(ctx, &registryLocker, func() *Descriptor {
		if index != 0 {
			return nil
		}
		return registry
	})
}
