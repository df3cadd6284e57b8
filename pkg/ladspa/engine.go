package ladspa

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression/implementations/energy"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression/implementations/rnnoise"
)

// DefaultEngineFactory creates an RNNoise engine, and if RNNoise is not
// built in, then the energy-based engine (which does not denoise).
func DefaultEngineFactory(ctx context.Context) (noisesuppression.Engine, error) {
	r, err := rnnoise.New(ctx)
	if err == nil {
		return r, nil
	}
	logger.Warnf(ctx, "RNNoise is not available, falling back to the energy-based voice detection (no denoising): %v", err)

	e, err := energy.New()
	if err != nil {
		return nil, err
	}
	return e, nil
}
