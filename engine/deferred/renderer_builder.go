package deferred

import (
	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/light"
)

// RendererBuilderOption is a functional option for configuring a Renderer.
type RendererBuilderOption func(*rendererImpl)

// WithLogger sets the logger used for frame diagnostics.
//
// Parameters:
//   - logger: the logger, nil keeps the no-op logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a rendererImpl
func WithLogger(logger common.Logger) RendererBuilderOption {
	return func(r *rendererImpl) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWorkers sets the number of worker goroutines. Values below 1 keep the default of
// one worker per CPU.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - RendererBuilderOption: a function that applies the workers option to a rendererImpl
func WithWorkers(n int) RendererBuilderOption {
	return func(r *rendererImpl) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithTileRows sets the height of one tile of pass work in pixels.
//
// Parameters:
//   - rows: rows per tile, values below 1 keep DefaultTileRows
//
// Returns:
//   - RendererBuilderOption: a function that applies the tile option to a rendererImpl
func WithTileRows(rows int) RendererBuilderOption {
	return func(r *rendererImpl) {
		if rows > 0 {
			r.tileRows = rows
		}
	}
}

// WithMode sets the initial shading mode.
//
// Parameters:
//   - m: the shading mode
//
// Returns:
//   - RendererBuilderOption: a function that applies the mode option to a rendererImpl
func WithMode(m Mode) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.mode = m
	}
}

// WithBiasMode sets the initial shadow bias mode.
//
// Parameters:
//   - m: the bias mode
//
// Returns:
//   - RendererBuilderOption: a function that applies the bias option to a rendererImpl
func WithBiasMode(m light.BiasMode) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.biasMode = m
	}
}

// WithShadowResolution sets the width and height of the shadow map in texels.
//
// Parameters:
//   - res: the resolution, values below 1 keep light.ShadowMapResolution
//
// Returns:
//   - RendererBuilderOption: a function that applies the resolution option to a rendererImpl
func WithShadowResolution(res int) RendererBuilderOption {
	return func(r *rendererImpl) {
		if res > 0 {
			r.shadowResolution = res
		}
	}
}

// WithShadowExtent sets the directional light's orthographic shadow volume.
//
// Parameters:
//   - halfExtent: half-size of the volume in world units
//   - near, far: the light-space clip planes
//
// Returns:
//   - RendererBuilderOption: a function that applies the extent option to a rendererImpl
func WithShadowExtent(halfExtent, near, far float32) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.shadowExtent = common.Coalesce(halfExtent, r.shadowExtent)
		r.shadowNear = common.Coalesce(near, r.shadowNear)
		r.shadowFar = common.Coalesce(far, r.shadowFar)
	}
}
