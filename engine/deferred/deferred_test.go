package deferred

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
	"github.com/Carmen-Shannon/umbra/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// size is odd so the center pixel lies exactly on the optical axis.
const size = 65

func newTestRenderer(t *testing.T, opts ...RendererBuilderOption) Renderer {
	t.Helper()
	opts = append([]RendererBuilderOption{
		WithWorkers(4),
		WithShadowResolution(256),
		WithShadowExtent(10, 0.1, 200),
	}, opts...)
	r := NewRenderer(opts...)
	t.Cleanup(r.Close)
	return r
}

// overheadFrame looks straight down at the origin from the given height.
func overheadFrame(height float32, sun light.Light, points []light.Light, items ...mesh.DrawItem) frame.Frame {
	eye := mgl32.Vec3{0, height, 0}
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	proj := common.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	f := frame.Frame{
		Width:          size,
		Height:         size,
		Eye:            eye,
		View:           view,
		Projection:     proj,
		ViewProjection: proj.Mul4(view),
		Directional:    sun.Params(),
		CastsShadows:   sun.CastsShadows(),
	}
	for _, p := range points {
		f.Points = append(f.Points, p.Params())
	}
	for _, it := range items {
		f.Items = append(f.Items, it.Snapshot())
	}
	return f
}

func pixelOf(f frame.Frame, p mgl32.Vec3) (int, int) {
	clip := f.ViewProjection.Mul4x1(p.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	x := (ndc.X()*0.5 + 0.5) * float32(f.Width)
	y := (1 - (ndc.Y()*0.5 + 0.5)) * float32(f.Height)
	return int(x), int(y)
}

func sunStraightDown() light.Light {
	return light.NewLight(light.LightTypeDirectional, light.WithDirection(0, -1, 0))
}

func TestRender_WhiteQuadClosedForm(t *testing.T) {
	r := newTestRenderer(t)
	quad := mesh.NewDrawItem(mesh.Plane(4, 4), mesh.WithCastsShadow(false))
	f := overheadFrame(5, sunStraightDown(), nil, quad)

	res, err := r.Render(f)
	require.NoError(t, err)

	// ambient + diffuse + specular * mask with n = l = v = +Y
	c := res.Color(size/2, size/2)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0.1+0.8+0.5*0.5, c[i], 1e-3)
	}
	assert.Equal(t, float32(1), c[3])

	// Off axis the half vector tilts away from the normal.
	x, y := 20, size/2
	pos := res.GBuffer().Texel(x, y).Ch1.Vec3()
	v := f.Eye.Sub(pos).Normalize()
	h := mgl32.Vec3{0, 1, 0}.Add(v).Normalize()
	want := 0.1 + 0.8 + 0.5*0.5*math.Pow(float64(h.Y()), 16)
	assert.InDelta(t, want, res.Color(x, y).X(), 1e-4)

	assert.Equal(t, shading.BackgroundColor, res.Color(0, 0))
	_, ok := res.Pick(0, 0)
	assert.False(t, ok)
}

func TestRender_SelectionAndPicking(t *testing.T) {
	r := newTestRenderer(t)
	ground := mesh.NewDrawItem(mesh.Plane(20, 20))
	cube := mesh.NewDrawItem(mesh.Cube(1, 1, 1), mesh.WithPosition(0, 1, 0), mesh.WithSelected(true))
	f := overheadFrame(5, sunStraightDown(), nil, ground, cube)

	res, err := r.Render(f)
	require.NoError(t, err)

	id, ok := res.Pick(size/2, size/2)
	require.True(t, ok)
	assert.Equal(t, cube.ID(), id)
	assert.Equal(t, shading.HighlightColor, res.Color(size/2, size/2))

	id, ok = res.Pick(2, 2)
	require.True(t, ok)
	assert.Equal(t, ground.ID(), id)
	assert.NotEqual(t, shading.HighlightColor, res.Color(2, 2))

	_, ok = res.Pick(-1, 0)
	assert.False(t, ok)
	_, ok = res.Pick(0, size)
	assert.False(t, ok)
}

func TestRender_CasterShadowsGround(t *testing.T) {
	for _, mode := range []light.BiasMode{light.BiasSlopeScaled, light.BiasFixed} {
		t.Run(mode.String(), func(t *testing.T) {
			r := newTestRenderer(t, WithBiasMode(mode))
			sun := light.NewLight(light.LightTypeDirectional, light.WithDirection(1, -1, 0))
			ground := mesh.NewDrawItem(mesh.Plane(20, 20))
			cube := mesh.NewDrawItem(mesh.Cube(2, 2, 2), mesh.WithPosition(0, 2, 0))
			f := overheadFrame(10, sun, nil, ground, cube)

			res, err := r.Render(f)
			require.NoError(t, err)
			assert.Equal(t, 2, res.Stats.ShadowCasters)

			// The cube spans y in [1, 3], so light travelling along (1, -1, 0) darkens
			// the ground for x in [0, 4].
			sx, sy := pixelOf(f, mgl32.Vec3{3, 0, 0})
			id, ok := res.Pick(sx, sy)
			require.True(t, ok)
			require.Equal(t, ground.ID(), id)
			shadowed := res.Color(sx, sy)
			assert.InDelta(t, 0.1, shadowed.X(), 1e-4, "ambient only")

			lx, ly := pixelOf(f, mgl32.Vec3{-3, 0, 0})
			lit := res.Color(lx, ly)
			assert.Greater(t, lit.X(), float32(0.5))
		})
	}
}

func TestRender_NoShadowsWhenLightDoesNotCast(t *testing.T) {
	r := newTestRenderer(t)
	sun := light.NewLight(light.LightTypeDirectional, light.WithDirection(1, -1, 0), light.WithCastsShadows(false))
	ground := mesh.NewDrawItem(mesh.Plane(20, 20))
	cube := mesh.NewDrawItem(mesh.Cube(2, 2, 2), mesh.WithPosition(0, 2, 0))
	f := overheadFrame(10, sun, nil, ground, cube)

	res, err := r.Render(f)
	require.NoError(t, err)
	assert.Zero(t, res.Stats.ShadowCasters)

	sx, sy := pixelOf(f, mgl32.Vec3{3, 0, 0})
	assert.Greater(t, res.Color(sx, sy).X(), float32(0.5))
}

func TestRender_ForwardModeMatchesDeferred(t *testing.T) {
	sun := light.NewLight(light.LightTypeDirectional, light.WithDirection(0.3, -1, 0.2))
	lamp := light.NewLight(light.LightTypePoint, light.WithPosition(1, 1, 0))
	quad := mesh.NewDrawItem(mesh.Plane(4, 4), mesh.WithCastsShadow(false))
	f := overheadFrame(5, sun, []light.Light{lamp}, quad)

	deferred, err := newTestRenderer(t).Render(f)
	require.NoError(t, err)
	forward, err := newTestRenderer(t, WithMode(ModeForward)).Render(f)
	require.NoError(t, err)

	assert.Equal(t, 1, deferred.Stats.Deferred)
	assert.Zero(t, deferred.Stats.Forward)
	assert.Zero(t, forward.Stats.Deferred)
	assert.Equal(t, 1, forward.Stats.Forward)

	for _, px := range [][2]int{{size / 2, size / 2}, {20, 40}, {45, 12}, {0, 0}} {
		d := deferred.Color(px[0], px[1])
		fw := forward.Color(px[0], px[1])
		assert.True(t, d.ApproxEqualThreshold(fw, 1e-4), "pixel %v: deferred %v forward %v", px, d, fw)
	}
}

func TestRender_ForwardItemsDepthTested(t *testing.T) {
	r := newTestRenderer(t)
	ground := mesh.NewDrawItem(mesh.Plane(20, 20))
	above := mesh.NewDrawItem(mesh.Cube(1, 1, 1), mesh.WithPosition(0, 1, 0), mesh.WithShadingMode(mesh.ShadingForward))
	below := mesh.NewDrawItem(mesh.Cube(1, 1, 1), mesh.WithPosition(2, -2, 0), mesh.WithShadingMode(mesh.ShadingForward))
	f := overheadFrame(5, sunStraightDown(), nil, ground, above, below)

	res, err := r.Render(f)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Deferred)
	assert.Equal(t, 2, res.Stats.Forward)

	id, ok := res.Pick(size/2, size/2)
	require.True(t, ok)
	assert.Equal(t, above.ID(), id)

	bx, by := pixelOf(f, mgl32.Vec3{2, -1.5, 0})
	id, ok = res.Pick(bx, by)
	require.True(t, ok)
	assert.Equal(t, ground.ID(), id, "below the ground plane")
}

func TestRender_PassOrder(t *testing.T) {
	r := newTestRenderer(t)
	res, err := r.Render(overheadFrame(5, sunStraightDown(), nil))
	require.NoError(t, err)
	assert.Equal(t, []string{PassShadow, PassGeometry, PassLighting, PassForward}, res.Stats.Passes)
}

func TestRender_TilingDoesNotChangePixels(t *testing.T) {
	sun := light.NewLight(light.LightTypeDirectional, light.WithDirection(1, -1, 0.5))
	lamp := light.NewLight(light.LightTypePoint, light.WithPosition(-2, 1, 1))
	items := []mesh.DrawItem{
		mesh.NewDrawItem(mesh.Plane(20, 20)),
		mesh.NewDrawItem(mesh.Cube(2, 2, 2), mesh.WithPosition(0, 2, 0), mesh.WithRotation(0, 30, 0)),
	}
	f := overheadFrame(10, sun, []light.Light{lamp}, items...)

	a, err := newTestRenderer(t, WithWorkers(1), WithTileRows(size)).Render(f)
	require.NoError(t, err)
	b, err := newTestRenderer(t, WithWorkers(8), WithTileRows(3)).Render(f)
	require.NoError(t, err)
	assert.Equal(t, a.Image().Pix, b.Image().Pix)
}

func TestRender_ImageIsOpaque(t *testing.T) {
	r := newTestRenderer(t)
	res, err := r.Render(overheadFrame(5, sunStraightDown(), nil, mesh.NewDrawItem(mesh.Plane(4, 4))))
	require.NoError(t, err)

	img := res.Image()
	require.Equal(t, size, img.Bounds().Dx())
	for i := 3; i < len(img.Pix); i += 4 {
		require.Equal(t, uint8(0xff), img.Pix[i])
	}
	// 0.4, 0.4, 1 background
	assert.Equal(t, []uint8{102, 102, 255, 255}, img.Pix[0:4])
}

func TestRender_Errors(t *testing.T) {
	r := NewRenderer(WithShadowResolution(16))
	_, err := r.Render(frame.Frame{})
	assert.ErrorIs(t, err, frame.ErrInvalidSize)

	r.Close()
	r.Close()
	_, err = r.Render(overheadFrame(5, sunStraightDown(), nil))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRenderer_Modes(t *testing.T) {
	r := newTestRenderer(t)
	assert.Equal(t, ModeDeferred, r.Mode())
	r.SetMode(ModeForward)
	assert.Equal(t, ModeForward, r.Mode())

	assert.Equal(t, light.BiasSlopeScaled, r.BiasMode())
	r.SetBiasMode(light.BiasFixed)
	assert.Equal(t, light.BiasFixed, r.BiasMode())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeDeferred, false},
		{"Deferred", ModeDeferred, false},
		{"forward", ModeForward, false},
		{"raytraced", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResult_ImageClampsAndDropsNaN(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	res := &Result{
		width:  4,
		height: 1,
		color: []mgl32.Vec4{
			{nan, nan, nan, 1},
			{-1, 0.5, 2, 1},
			{inf, float32(math.Inf(-1)), nan, 1},
			{0.2, 0.4, 0.6, nan},
		},
	}

	img := res.Image()
	tests := []struct {
		x    int
		want [4]uint8
	}{
		{0, [4]uint8{0, 0, 0, 0xff}},
		{1, [4]uint8{0, 128, 255, 0xff}},
		{2, [4]uint8{255, 0, 0, 0xff}},
		{3, [4]uint8{51, 102, 153, 0xff}},
	}
	for _, tt := range tests {
		c := img.NRGBAAt(tt.x, 0)
		assert.Equal(t, tt.want, [4]uint8{c.R, c.G, c.B, c.A}, "pixel %d", tt.x)
	}
}
