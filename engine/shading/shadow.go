package shading

import (
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowSampler is a depth map read through a comparison sampler.
type ShadowSampler interface {
	// SampleCompare returns 1 when ref is less than or equal to the stored depth at
	// texture coordinate (u, v) and 0 otherwise. Coordinates outside [0, 1] clamp to
	// the edge texel.
	SampleCompare(u, v, ref float32) float32

	// Resolution returns the width and height of the square map in texels.
	Resolution() int
}

// ProjectToShadow maps a world-space position into shadow map space: x and y become
// texture coordinates in [0, 1] with v pointing down, z stays the light-space depth.
//
// Parameters:
//   - lightVP: the directional light view-projection matrix
//   - position: world-space position
//
// Returns:
//   - mgl32.Vec3: (u, v, depth)
func ProjectToShadow(lightVP mgl32.Mat4, position mgl32.Vec3) mgl32.Vec3 {
	clip := lightVP.Mul4x1(position.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	return mgl32.Vec3{
		ndc.X()*0.5 + 0.5,
		1 - (ndc.Y()*0.5 + 0.5),
		ndc.Z(),
	}
}

// ShadowFactor filters PCFKernelSize × PCFKernelSize comparison taps one texel apart,
// centered on coord, against the reference depth coord.z - bias. Points outside the
// light's orthographic extent (u or v outside [0, 1], or z > 1) are fully lit, as is
// everything when s is nil.
//
// Parameters:
//   - s: the shadow map
//   - coord: the projected position from ProjectToShadow
//   - bias: the depth bias subtracted from the reference
//
// Returns:
//   - float32: the lit fraction in [0, 1]
func ShadowFactor(s ShadowSampler, coord mgl32.Vec3, bias float32) float32 {
	if s == nil || coord.Z() > 1 {
		return 1
	}
	if coord.X() < 0 || coord.X() > 1 || coord.Y() < 0 || coord.Y() > 1 {
		return 1
	}

	texel := 1 / float32(s.Resolution())
	ref := coord.Z() - bias
	half := float32(light.PCFKernelSize-1) / 2

	var lit float32
	for y := 0; y < light.PCFKernelSize; y++ {
		for x := 0; x < light.PCFKernelSize; x++ {
			du := (float32(x) - half) * texel
			dv := (float32(y) - half) * texel
			lit += s.SampleCompare(coord.X()+du, coord.Y()+dv, ref)
		}
	}
	return lit / float32(light.PCFKernelSize*light.PCFKernelSize)
}
