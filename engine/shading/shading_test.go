package shading

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// depthMap is a ShadowSampler backed by a depth function of texture coordinates.
type depthMap struct {
	res   int
	depth func(u, v float32) float32
}

func (d depthMap) SampleCompare(u, v, ref float32) float32 {
	if ref <= d.depth(u, v) {
		return 1
	}
	return 0
}

func (d depthMap) Resolution() int { return d.res }

func flatMap(depth float32) depthMap {
	return depthMap{res: 64, depth: func(_, _ float32) float32 { return depth }}
}

func overheadLight() light.Params {
	return light.NewLight(light.LightTypeDirectional, light.WithDirection(0, -1, 0)).Params()
}

func surfaceTexel() Texel {
	return Encode(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 1}, 0.5, false)
}

func TestDecode_ZeroNormalIsBackground(t *testing.T) {
	texels := []Texel{
		{},
		{Ch1: mgl32.Vec4{3, 4, 5, 0}, Ch3: mgl32.Vec4{1, 1, 1, 1}},
		{Ch1: mgl32.Vec4{3, 4, 5, 0.999}, Ch2: mgl32.Vec4{0, 0, 0, 7}},
	}
	for _, tx := range texels {
		assert.Equal(t, KindBackground, Decode(tx).Kind)
		assert.Equal(t, BackgroundColor, ShadeDeferred(tx, &LightingInputs{Directional: overheadLight()}))
	}
}

func TestDecode_SelectionPrecedesBackground(t *testing.T) {
	selectedMiss := Texel{Ch1: mgl32.Vec4{0, 0, 0, 1}}
	assert.Equal(t, KindHighlight, Decode(selectedMiss).Kind)

	selectedHit := Encode(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, 1, true)
	assert.Equal(t, KindHighlight, Decode(selectedHit).Kind)

	in := &LightingInputs{Directional: overheadLight()}
	assert.Equal(t, HighlightColor, ShadeDeferred(selectedMiss, in))
	assert.Equal(t, HighlightColor, ShadeDeferred(selectedHit, in))
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0, 1}, HighlightColor)
}

func TestEncode_PositionRoundTripsBitForBit(t *testing.T) {
	positions := []mgl32.Vec3{
		{0, 0, 0},
		{1.0 / 3.0, -2.5e-8, 123456.789},
		{math.MaxFloat32, math.SmallestNonzeroFloat32, float32(math.Copysign(0, -1))},
	}
	for _, p := range positions {
		s := Decode(Encode(p, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{}, 0, false))
		for k := 0; k < 3; k++ {
			assert.Equal(t, math.Float32bits(p[k]), math.Float32bits(s.Position[k]))
		}
		assert.Equal(t, KindSurface, s.Kind)
	}
}

func TestAttenuation_UnitAtZeroDistance(t *testing.T) {
	assert.Equal(t, float32(1), Attenuation(1, 0, 0, 0))
	assert.InDelta(t, 1.0/(1+0.09*10+0.032*100), Attenuation(1, 0.09, 0.032, 10), 1e-6)
}

func TestSlopeScaledBias(t *testing.T) {
	tests := []struct {
		name  string
		nDotL float32
		want  float32
	}{
		{"overhead", 1, 0},
		{"sixty degrees", 0.5, 0.005 * float32(math.Tan(math.Pi/3))},
		{"grazing", 0, light.MaxSlopeBias},
		{"facing away", -0.7, light.MaxSlopeBias},
		{"steep", 0.1, light.MaxSlopeBias},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SlopeScaledBias(tt.nDotL), 1e-7)
		})
	}
	assert.Equal(t, light.FixedShadowBias, Bias(light.BiasFixed, 1))
}

func TestShadowFactor_OverheadUnoccluded(t *testing.T) {
	vp := light.ComputeDirectionalLightVP(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{}, 10, 0.1, 100)
	coord := ProjectToShadow(vp, mgl32.Vec3{0, 0, 0})

	assert.InDelta(t, 0.5, coord.X(), 1e-6)
	assert.InDelta(t, 0.5, coord.Y(), 1e-6)

	// The map holds the surface's own depth: the only occluder is the surface itself.
	bias := SlopeScaledBias(1)
	assert.Equal(t, float32(0), bias)
	assert.Equal(t, float32(1), ShadowFactor(flatMap(coord.Z()), coord, bias))
}

func TestShadowFactor_Occluded(t *testing.T) {
	coord := mgl32.Vec3{0.5, 0.5, 0.6}
	assert.Equal(t, float32(0), ShadowFactor(flatMap(0.3), coord, 0.005))

	// Occluder covering the left half of the kernel: 8 of 16 taps blocked.
	half := depthMap{res: 64, depth: func(u, _ float32) float32 {
		if u < 0.5 {
			return 0.3
		}
		return 1
	}}
	assert.Equal(t, float32(0.5), ShadowFactor(half, coord, 0.005))
}

func TestShadowFactor_BeyondFarPlaneIsLit(t *testing.T) {
	assert.Equal(t, float32(1), ShadowFactor(flatMap(0), mgl32.Vec3{0.5, 0.5, 1.2}, 0))
	assert.Equal(t, float32(1), ShadowFactor(nil, mgl32.Vec3{0.5, 0.5, 0.5}, 0))
}

func TestShadowFactor_OutsideLightExtentIsLit(t *testing.T) {
	// Every texel occludes, so any tap that reaches the map comes back shadowed.
	occluded := flatMap(0)
	tests := []struct {
		name  string
		coord mgl32.Vec3
		want  float32
	}{
		{"right of extent", mgl32.Vec3{1.5, 0.5, 0.6}, 1},
		{"left of extent", mgl32.Vec3{-0.01, 0.5, 0.6}, 1},
		{"above extent", mgl32.Vec3{0.5, -0.2, 0.6}, 1},
		{"below extent", mgl32.Vec3{0.5, 1.01, 0.6}, 1},
		{"on the edge", mgl32.Vec3{1, 0.5, 0.6}, 0},
		{"inside", mgl32.Vec3{0.5, 0.5, 0.6}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShadowFactor(occluded, tt.coord, 0))
		})
	}
}

func randomPoints(r *rand.Rand, n int) []light.Params {
	out := make([]light.Params, n)
	for i := range out {
		out[i] = light.NewLight(light.LightTypePoint,
			light.WithPosition(r.Float32()*20-10, r.Float32()*5, r.Float32()*20-10),
			light.WithDiffuse(r.Float32(), r.Float32(), r.Float32()),
		).Params()
	}
	return out
}

func TestShadeDeferred_PointOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	points := randomPoints(r, 12)

	in := &LightingInputs{
		Eye:           mgl32.Vec3{0, 3, 6},
		Directional:   overheadLight(),
		Points:        points,
		DeclaredCount: len(points),
	}
	want := ShadeDeferred(surfaceTexel(), in)

	for i := 0; i < 5; i++ {
		shuffled := append([]light.Params(nil), points...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		in.Points = shuffled
		got := ShadeDeferred(surfaceTexel(), in)
		assert.True(t, got.ApproxEqualThreshold(want, 1e-5), "got %v want %v", got, want)
	}
}

func TestShadeDeferred_DeclaredCountClamped(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	slots := make([]light.Params, light.MaxPointLights)
	copy(slots, randomPoints(r, 10))

	base := LightingInputs{Eye: mgl32.Vec3{0, 3, 6}, Directional: overheadLight(), Points: slots}

	ten := base
	ten.DeclaredCount = 10
	over := base
	over.DeclaredCount = 500

	require.Equal(t, light.MaxPointLights, over.ActivePointCount())
	got := ShadeDeferred(surfaceTexel(), &over)
	assert.False(t, math.IsNaN(float64(got.X())))
	assert.Equal(t, ShadeDeferred(surfaceTexel(), &ten), got)
}

func TestShadeDeferred_ClosedForm(t *testing.T) {
	dir := overheadLight()
	eye := mgl32.Vec3{0, 4, 3}
	in := &LightingInputs{Eye: eye, Directional: dir}

	got := ShadeDeferred(surfaceTexel(), in)

	// n = l = (0,1,0), v = (0,0.8,0.6), h = normalize(0,1.8,0.6)
	nh := 1.8 / math.Sqrt(1.8*1.8+0.6*0.6)
	spec := math.Pow(nh, 16) * 0.5
	for k := 0; k < 3; k++ {
		want := float64(dir.Ambient[k]) + float64(dir.Diffuse[k]) + spec*float64(dir.Specular[k])
		assert.InDelta(t, want, got[k], 1e-5)
	}
	assert.Equal(t, float32(1), got.W())
}

func TestShadeDeferred_ShadowRemovesDirectLight(t *testing.T) {
	dir := overheadLight()
	in := &LightingInputs{
		Eye:         mgl32.Vec3{0, 4, 3},
		Directional: dir,
		LightVP:     light.ComputeDirectionalLightVP(dir.Direction, mgl32.Vec3{}, 10, 0.1, 100),
		Shadow:      flatMap(0.1),
	}
	got := ShadeDeferred(surfaceTexel(), in)
	assert.True(t, got.Vec3().ApproxEqual(dir.Ambient), "got %v", got)
}

func TestShadeForward_MatchesDeferred(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	points := randomPoints(r, 1)
	eye := mgl32.Vec3{2, 3, 6}
	dir := light.NewLight(light.LightTypeDirectional, light.WithDirection(-1, -2, -0.5)).Params()

	pos := mgl32.Vec3{0.5, 0, -0.25}
	n := mgl32.Vec3{0, 1, 0}
	albedo := mgl32.Vec3{0.8, 0.6, 0.4}

	deferred := ShadeDeferred(Encode(pos, n, albedo, 0.7, false), &LightingInputs{
		Eye: eye, Directional: dir, Points: points, DeclaredCount: 1,
	})
	forward := ShadeForward(
		Surface{Position: pos, Normal: n, Albedo: albedo, Specular: 0.7, Shininess: 16},
		NewForwardInputs(eye, dir, points),
	)
	assert.True(t, forward.ApproxEqualThreshold(deferred, 1e-6), "forward %v deferred %v", forward, deferred)
}

func TestNewForwardInputs_NoPoint(t *testing.T) {
	in := NewForwardInputs(mgl32.Vec3{}, overheadLight(), nil)
	assert.Nil(t, in.Point)
}

func TestPointTerm_DarkSlotIsInert(t *testing.T) {
	s := Surface{Normal: mgl32.Vec3{0, 1, 0}, Albedo: mgl32.Vec3{1, 1, 1}, Shininess: 16}
	assert.Equal(t, mgl32.Vec3{}, PointTerm(s, mgl32.Vec3{0, 1, 0}, light.Params{}))
}
