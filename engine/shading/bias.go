package shading

import (
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/chewxy/math32"
)

// minCosTheta keeps tan(acos(x)) finite at grazing angles; the result is clamped anyway.
const minCosTheta float32 = 1e-6

// SlopeScaledBias returns clamp(SlopeBiasScale * tan(acos(max(nDotL, 0))), 0, MaxSlopeBias).
// tan(acos(x)) is evaluated as sqrt(1-x²)/x, which has no float32 pole near π/2.
//
// Parameters:
//   - nDotL: dot product of the unit surface normal and the unit direction to the light
//
// Returns:
//   - float32: the depth bias in [0, MaxSlopeBias]
func SlopeScaledBias(nDotL float32) float32 {
	c := min(max(nDotL, 0), 1)
	tan := math32.Sqrt(1-c*c) / max(c, minCosTheta)
	return min(max(light.SlopeBiasScale*tan, 0), light.MaxSlopeBias)
}

// Bias returns the shadow comparison offset for the selected mode.
//
// Parameters:
//   - mode: slope-scaled or fixed
//   - nDotL: dot product of the surface normal and the direction to the light
//
// Returns:
//   - float32: the depth bias
func Bias(mode light.BiasMode, nDotL float32) float32 {
	if mode == light.BiasFixed {
		return light.FixedShadowBias
	}
	return SlopeScaledBias(nDotL)
}
