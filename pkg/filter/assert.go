package filter

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// assert panics (through the logger) with the formatted message unless cond
// holds. It is for construction-time invariants only: never call it from Run.
func assert(
	ctx context.Context,
	cond bool,
	format string,
	args ...any,
) {
	if cond {
		return
	}
	logger.Panicf(ctx, "assertion failed: "+format, args...)
}
