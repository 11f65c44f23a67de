package shading

import "github.com/go-gl/mathgl/mgl32"

// Fixed output colors for the two sentinel pixel kinds.
var (
	HighlightColor  = mgl32.Vec4{1, 0.5, 0, 1}
	BackgroundColor = mgl32.Vec4{0.4, 0.4, 1, 1}
)

// Kind classifies a decoded geometry buffer texel.
type Kind int

const (
	// KindSurface is a covered, unselected pixel that goes through lighting.
	KindSurface Kind = iota

	// KindHighlight is a pixel of a selected draw item. It is painted HighlightColor
	// and never lit.
	KindHighlight

	// KindBackground is a pixel no geometry covered (zero normal). It is painted
	// BackgroundColor and never lit.
	KindBackground
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindHighlight:
		return "highlight"
	case KindBackground:
		return "background"
	default:
		return "surface"
	}
}

// Texel is one pixel of the geometry buffer in its packed channel layout:
//
//	Ch1 = (position.xyz, selected)
//	Ch2 = (normal.xyz, 0)
//	Ch3 = (albedo.rgb, specular)
//
// The zero Texel is the cleared state and decodes as KindBackground.
type Texel struct {
	Ch1 mgl32.Vec4
	Ch2 mgl32.Vec4
	Ch3 mgl32.Vec4
}

// Sample is a decoded geometry buffer texel.
type Sample struct {
	Kind     Kind
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Albedo   mgl32.Vec3
	Specular float32
}

// Encode packs surface attributes into the channel layout. The selection flag is written
// as exactly 0 or 1.
//
// Parameters:
//   - position: world-space position
//   - normal: world-space normal, unit length for lit surfaces
//   - albedo: diffuse texture color
//   - specular: specular mask intensity
//   - selected: the per-draw selection flag
//
// Returns:
//   - Texel: the packed texel
func Encode(position, normal, albedo mgl32.Vec3, specular float32, selected bool) Texel {
	var sel float32
	if selected {
		sel = 1
	}
	return Texel{
		Ch1: position.Vec4(sel),
		Ch2: normal.Vec4(0),
		Ch3: albedo.Vec4(specular),
	}
}

// Decode unpacks a texel and classifies it. This is the only place the sentinel values are
// interpreted. The selection check runs first, so a selected pixel is highlighted even if
// its normal is zero.
//
// Parameters:
//   - t: the packed texel
//
// Returns:
//   - Sample: the decoded attributes and their kind
func Decode(t Texel) Sample {
	s := Sample{
		Kind:     KindSurface,
		Position: t.Ch1.Vec3(),
		Normal:   t.Ch2.Vec3(),
		Albedo:   t.Ch3.Vec3(),
		Specular: t.Ch3[3],
	}
	switch {
	case t.Ch1[3] == 1:
		s.Kind = KindHighlight
	case s.Normal == (mgl32.Vec3{}):
		s.Kind = KindBackground
	}
	return s
}
