package renderer

import (
	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/light"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithLogger sets the logger used for pipeline, resize and per-frame messages.
//
// Parameters:
//   - logger: the logger, ignored if nil
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger common.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync, Mailbox or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMode sets the initial shading mode.
//
// Parameters:
//   - mode: deferred.ModeDeferred or deferred.ModeForward
//
// Returns:
//   - RendererBuilderOption: a function that applies the mode option to a renderer
func WithMode(mode deferred.Mode) RendererBuilderOption {
	return func(r *renderer) {
		r.mode = mode
	}
}

// WithBiasMode sets the initial shadow bias mode of the lighting pass.
//
// Parameters:
//   - mode: the bias mode
//
// Returns:
//   - RendererBuilderOption: a function that applies the bias mode option to a renderer
func WithBiasMode(mode light.BiasMode) RendererBuilderOption {
	return func(r *renderer) {
		r.biasMode = mode
	}
}

// WithShadowResolution sets the width and height of the shadow map in texels. Non-positive
// values keep the default.
//
// Parameters:
//   - resolution: the shadow map size
//
// Returns:
//   - RendererBuilderOption: a function that applies the resolution option to a renderer
func WithShadowResolution(resolution int) RendererBuilderOption {
	return func(r *renderer) {
		if resolution > 0 {
			r.shadowResolution = resolution
		}
	}
}

// WithShadowExtent sets the orthographic half-extent and clip planes of the directional
// light's shadow projection. Zero values keep the defaults.
//
// Parameters:
//   - halfExtent: half-size of the shadow frustum in world units
//   - near, far: light-space clip planes
//
// Returns:
//   - RendererBuilderOption: a function that applies the shadow extent option to a renderer
func WithShadowExtent(halfExtent, near, far float32) RendererBuilderOption {
	return func(r *renderer) {
		r.shadowExtent = common.Coalesce(halfExtent, r.shadowExtent)
		r.shadowNear = common.Coalesce(near, r.shadowNear)
		r.shadowFar = common.Coalesce(far, r.shadowFar)
	}
}

// WithForceFallbackAdapter requests a software (CPU) WebGPU adapter instead of hardware.
// Useful on machines without a usable GPU and in CI.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the fallback option to a renderer
func WithForceFallbackAdapter(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
