package shading

import (
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// LightingInputs is everything the composition pass reads besides the geometry buffer.
// It is assembled once per frame and shared read-only by every pixel worker.
type LightingInputs struct {
	// Eye is the world-space camera position.
	Eye mgl32.Vec3

	// Directional is the single shadow-casting light of the frame.
	Directional light.Params

	// Points holds the point light slots in order. Only the first ActivePointCount entries
	// are read.
	Points []light.Params

	// DeclaredCount is the light count accompanying Points, as it would arrive in the
	// GPU light uniform. It is never trusted: see ActivePointCount.
	DeclaredCount int

	// LightVP is the directional light view-projection matrix used by the shadow pass.
	LightVP mgl32.Mat4

	// Shadow is the shadow map of the frame, or nil for no shadowing.
	Shadow ShadowSampler

	// BiasMode selects slope-scaled or fixed shadow bias.
	BiasMode light.BiasMode
}

// ActivePointCount clamps DeclaredCount to the populated slots and to MaxPointLights.
func (in *LightingInputs) ActivePointCount() int {
	return light.ClampLightCount(in.DeclaredCount, len(in.Points))
}

// ShadeDeferred computes the final color of one geometry buffer pixel:
//
//  1. selected pixels are HighlightColor,
//  2. uncovered pixels are BackgroundColor,
//  3. otherwise the directional light term with PCF shadowing plus the attenuated
//     point light terms, alpha 1.
//
// The deferred path always uses material.DefaultShininess since the geometry buffer does
// not carry a per-pixel exponent.
//
// Parameters:
//   - t: the geometry buffer texel
//   - in: the frame's lighting inputs
//
// Returns:
//   - mgl32.Vec4: the shaded color
func ShadeDeferred(t Texel, in *LightingInputs) mgl32.Vec4 {
	sample := Decode(t)
	switch sample.Kind {
	case KindHighlight:
		return HighlightColor
	case KindBackground:
		return BackgroundColor
	}

	s := Surface{
		Position:  sample.Position,
		Normal:    sample.Normal.Normalize(),
		Albedo:    sample.Albedo,
		Specular:  sample.Specular,
		Shininess: material.DefaultShininess,
	}
	v := ViewDir(in.Eye, s.Position)

	l := in.Directional.ToLight(s.Position)
	coord := ProjectToShadow(in.LightVP, s.Position)
	bias := Bias(in.BiasMode, s.Normal.Dot(l))
	shadow := ShadowFactor(in.Shadow, coord, bias)

	color := LightTerm(s, l, v, in.Directional, shadow)
	for _, p := range in.Points[:in.ActivePointCount()] {
		color = color.Add(PointTerm(s, v, p))
	}
	return color.Vec4(1)
}

// ForwardInputs is the lighting state of the forward pass: one directional light and at
// most one point light, no shadow map.
type ForwardInputs struct {
	Eye         mgl32.Vec3
	Directional light.Params
	Point       *light.Params
}

// NewForwardInputs picks the forward pass lights from a frame: the directional light and
// the first point light, if any.
//
// Parameters:
//   - eye: world-space camera position
//   - directional: the frame's directional light
//   - points: the frame's point light snapshot
//
// Returns:
//   - ForwardInputs: the forward lighting state
func NewForwardInputs(eye mgl32.Vec3, directional light.Params, points []light.Params) ForwardInputs {
	in := ForwardInputs{Eye: eye, Directional: directional}
	if len(points) > 0 {
		p := points[0]
		in.Point = &p
	}
	return in
}

// ShadeForward shades one surface fragment directly, with the same terms as ShadeDeferred
// and the shadow factor fixed at 1. The surface normal must be unit length.
//
// Parameters:
//   - s: the surface at the fragment
//   - in: the forward lighting state
//
// Returns:
//   - mgl32.Vec4: the shaded color
func ShadeForward(s Surface, in ForwardInputs) mgl32.Vec4 {
	v := ViewDir(in.Eye, s.Position)
	color := LightTerm(s, in.Directional.ToLight(s.Position), v, in.Directional, 1)
	if in.Point != nil {
		color = color.Add(PointTerm(s, v, *in.Point))
	}
	return color.Vec4(1)
}
