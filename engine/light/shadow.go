package light

import (
	"fmt"
	"strings"
)

// ShadowMapResolution is the default width and height in texels of the shadow
// depth texture. Renderers use this as their initial value but can override it
// via configuration.
const ShadowMapResolution = 2048

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units)
// used for the directional light shadow frustum. Controls how much of the scene
// around the shadow center is captured in the shadow map.
const DefaultShadowHalfExtent float32 = 40.0

// DefaultShadowNear is the default near plane for the directional light's
// orthographic shadow projection.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the default far plane for the directional light's
// orthographic shadow projection.
const DefaultShadowFar float32 = 200.0

// SlopeBiasScale multiplies tan(theta) in the slope-scaled shadow bias, where theta is the
// angle between the surface normal and the direction to the light.
const SlopeBiasScale float32 = 0.005

// MaxSlopeBias caps the slope-scaled bias so grazing surfaces do not detach their shadows.
const MaxSlopeBias float32 = 0.01

// FixedShadowBias is the constant depth offset used by BiasFixed.
const FixedShadowBias float32 = 0.005

// PCFKernelSize is the width of the square percentage-closer filter grid in taps.
const PCFKernelSize = 4

// BiasMode selects how the lighting pass offsets the shadow comparison reference.
type BiasMode uint32

const (
	// BiasSlopeScaled uses clamp(SlopeBiasScale*tan(acos(max(n·l, 0))), 0, MaxSlopeBias).
	// This is the default.
	BiasSlopeScaled BiasMode = iota

	// BiasFixed subtracts FixedShadowBias regardless of surface orientation. Kept for
	// comparison with scenes authored against the older constant-bias shading.
	BiasFixed
)

// String returns the configuration name of the bias mode.
func (m BiasMode) String() string {
	switch m {
	case BiasSlopeScaled:
		return "slope"
	case BiasFixed:
		return "fixed"
	default:
		return fmt.Sprintf("BiasMode(%d)", uint32(m))
	}
}

// ParseBiasMode converts a configuration name ("slope" or "fixed") into a BiasMode.
// The empty string selects BiasSlopeScaled.
//
// Parameters:
//   - s: the mode name, case-insensitive
//
// Returns:
//   - BiasMode: the parsed mode
//   - error: an error if the name is unknown
func ParseBiasMode(s string) (BiasMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "slope", "slope_scaled":
		return BiasSlopeScaled, nil
	case "fixed":
		return BiasFixed, nil
	default:
		return 0, fmt.Errorf("unknown shadow bias mode %q", s)
	}
}
