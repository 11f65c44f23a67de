package raster

import (
	"testing"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullscreen covers NDC [-1, 1] with two counter-clockwise triangles at depth z.
func fullscreen(z float32) [2][3]mgl32.Vec4 {
	a := mgl32.Vec4{-1, -1, z, 1}
	b := mgl32.Vec4{1, -1, z, 1}
	c := mgl32.Vec4{1, 1, z, 1}
	d := mgl32.Vec4{-1, 1, z, 1}
	return [2][3]mgl32.Vec4{{a, b, c}, {a, c, d}}
}

func collect(vp Viewport, tri [3]mgl32.Vec4, cull CullMode) []Fragment {
	var out []Fragment
	DrawTriangle(vp, tri, cull, func(f Fragment) { out = append(out, f) })
	return out
}

func TestDrawTriangle_CoversEveryPixelOnce(t *testing.T) {
	// On a square viewport the shared diagonal passes through pixel centers.
	tests := []struct {
		name string
		vp   Viewport
	}{
		{"square", Viewport{Width: 8, Height: 8}},
		{"wide", Viewport{Width: 8, Height: 6}},
		{"odd", Viewport{Width: 7, Height: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make(map[[2]int]int)
			for _, tri := range fullscreen(0.5) {
				for _, f := range collect(tt.vp, tri, CullBack) {
					hits[[2]int{f.X, f.Y}]++
					assert.InDelta(t, 0.5, f.Depth, 1e-6)
				}
			}
			require.Len(t, hits, tt.vp.Width*tt.vp.Height)
			for p, n := range hits {
				assert.Equal(t, 1, n, "pixel %v", p)
			}
		})
	}
}

func TestDrawTriangle_FanSharedEdgesCoveredOnce(t *testing.T) {
	// Four triangles around the NDC origin; every edge is shared and the diagonals cross
	// pixel centers.
	o := mgl32.Vec4{0, 0, 0.5, 1}
	corners := []mgl32.Vec4{{-1, -1, 0.5, 1}, {1, -1, 0.5, 1}, {1, 1, 0.5, 1}, {-1, 1, 0.5, 1}}
	vp := Viewport{Width: 16, Height: 16}

	for _, cull := range []CullMode{CullBack, CullNone} {
		hits := make(map[[2]int]int)
		for i := range corners {
			tri := [3]mgl32.Vec4{o, corners[i], corners[(i+1)%len(corners)]}
			for _, f := range collect(vp, tri, cull) {
				hits[[2]int{f.X, f.Y}]++
			}
		}
		require.Len(t, hits, 256)
		for p, n := range hits {
			assert.Equal(t, 1, n, "pixel %v", p)
		}
	}
}

func TestDrawTriangle_WindingDoesNotChangeCoverage(t *testing.T) {
	vp := Viewport{Width: 8, Height: 8}
	tri := fullscreen(0.5)[1]
	back := [3]mgl32.Vec4{tri[0], tri[2], tri[1]}

	front := collect(vp, tri, CullNone)
	reversed := collect(vp, back, CullNone)
	require.Len(t, reversed, len(front))
	for i := range front {
		assert.Equal(t, front[i].X, reversed[i].X)
		assert.Equal(t, front[i].Y, reversed[i].Y)
		assert.InDelta(t, front[i].Bary.X(), reversed[i].Bary.X(), 1e-6)
		assert.InDelta(t, front[i].Bary.Y(), reversed[i].Bary.Z(), 1e-6)
	}
}

func TestDrawTriangle_BackFaceCulled(t *testing.T) {
	vp := Viewport{Width: 8, Height: 8}
	tri := fullscreen(0.5)[0]
	back := [3]mgl32.Vec4{tri[0], tri[2], tri[1]}

	assert.Empty(t, collect(vp, back, CullBack))
	assert.NotEmpty(t, collect(vp, back, CullNone))
}

func TestDrawTriangle_RowBand(t *testing.T) {
	vp := Viewport{Width: 4, Height: 8}.Rows(2, 5)
	for _, tri := range fullscreen(0.2) {
		for _, f := range collect(vp, tri, CullBack) {
			assert.GreaterOrEqual(t, f.Y, 2)
			assert.Less(t, f.Y, 5)
		}
	}
}

func TestDrawTriangle_YDown(t *testing.T) {
	// A triangle in the upper half of NDC lands in the top rows.
	tri := [3]mgl32.Vec4{{-1, 0.5, 0.5, 1}, {1, 0.5, 0.5, 1}, {0, 1, 0.5, 1}}
	frags := collect(Viewport{Width: 8, Height: 8}, tri, CullBack)
	require.NotEmpty(t, frags)
	for _, f := range frags {
		assert.Less(t, f.Y, 2)
	}
}

func TestDrawTriangle_PerspectiveCorrectWeights(t *testing.T) {
	proj := common.Perspective(mgl32.DegToRad(90), 1, 0.1, 100)
	// A floor triangle receding from the camera: near edge at z=-1, far apex at z=-9.
	world := [3]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {0, -1, -9}}
	var clip [3]mgl32.Vec4
	for i, p := range world {
		clip[i] = proj.Mul4x1(p.Vec4(1))
	}

	frags := collect(Viewport{Width: 64, Height: 64}, clip, CullNone)
	require.NotEmpty(t, frags)
	for _, f := range frags {
		assert.InDelta(t, 1, f.Bary.X()+f.Bary.Y()+f.Bary.Z(), 1e-4)

		// The interpolated world position must lie on the floor and project back onto
		// the pixel it was produced for.
		p := Interpolate(f.Bary, world[0], world[1], world[2])
		assert.InDelta(t, -1, p.Y(), 1e-4)
		c := proj.Mul4x1(p.Vec4(1))
		sx := (c.X()/c.W()*0.5 + 0.5) * 64
		assert.InDelta(t, float32(f.X)+0.5, sx, 1e-2)
	}
}

func TestDrawTriangle_NearClipped(t *testing.T) {
	proj := common.Perspective(mgl32.DegToRad(90), 1, 1, 10)
	// One vertex behind the camera.
	world := [3]mgl32.Vec3{{-2, -1, -3}, {2, -1, -3}, {0, -1, 2}}
	var clip [3]mgl32.Vec4
	for i, p := range world {
		clip[i] = proj.Mul4x1(p.Vec4(1))
	}

	frags := collect(Viewport{Width: 32, Height: 32}, clip, CullNone)
	require.NotEmpty(t, frags)
	for _, f := range frags {
		assert.GreaterOrEqual(t, f.Depth, float32(0))
		assert.LessOrEqual(t, f.Depth, float32(1))
		p := Interpolate(f.Bary, world[0], world[1], world[2])
		assert.LessOrEqual(t, p.Z(), float32(-1+1e-3))
	}
}
