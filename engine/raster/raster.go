// Package raster converts clip-space triangles into pixel fragments on the CPU with the
// same conventions as the GPU pipeline: WebGPU clip depth [0, 1], pixel centers at +0.5,
// y pointing down in pixel space and counter-clockwise front faces.
package raster

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CullMode selects which triangles are discarded by winding.
type CullMode int

const (
	// CullNone rasterizes both windings.
	CullNone CullMode = iota

	// CullBack discards triangles that wind clockwise in normalized device coordinates.
	CullBack
)

// Viewport is the target pixel grid and the band of rows a call may touch. Rasterizing
// disjoint row bands from different goroutines is safe.
type Viewport struct {
	Width  int
	Height int

	// MinY and MaxY bound the rows [MinY, MaxY) fragments are produced for. A zero MaxY
	// means Height.
	MinY int
	MaxY int
}

// Rows returns a copy of the viewport restricted to rows [y0, y1).
func (vp Viewport) Rows(y0, y1 int) Viewport {
	vp.MinY, vp.MaxY = y0, y1
	return vp
}

// Fragment describes one covered pixel.
type Fragment struct {
	X, Y int

	// Depth is the interpolated normalized device depth in [0, 1].
	Depth float32

	// Bary holds perspective-correct weights of the three input vertices; attributes are
	// interpolated as Bary[0]*a0 + Bary[1]*a1 + Bary[2]*a2.
	Bary mgl32.Vec3
}

// FragmentFunc receives every fragment of a triangle. It is called from the goroutine
// that called DrawTriangle.
type FragmentFunc func(f Fragment)

// clipVertex is a clip-space position carrying its weights relative to the input triangle.
type clipVertex struct {
	pos    mgl32.Vec4
	weight mgl32.Vec3
}

// DrawTriangle clips a triangle against the near plane, culls it by winding and emits a
// fragment for every pixel center it covers within the viewport's row band. Fragments with
// depth outside [0, 1] are dropped.
//
// Parameters:
//   - vp: the target viewport
//   - clip: clip-space positions of the three vertices
//   - cull: the culling mode
//   - frag: the fragment callback
func DrawTriangle(vp Viewport, clip [3]mgl32.Vec4, cull CullMode, frag FragmentFunc) {
	poly := clipNear([]clipVertex{
		{clip[0], mgl32.Vec3{1, 0, 0}},
		{clip[1], mgl32.Vec3{0, 1, 0}},
		{clip[2], mgl32.Vec3{0, 0, 1}},
	})
	for i := 1; i+1 < len(poly); i++ {
		drawClipped(vp, poly[0], poly[i], poly[i+1], cull, frag)
	}
}

// Interpolate blends three vectors with fragment weights.
func Interpolate(b mgl32.Vec3, a0, a1, a2 mgl32.Vec3) mgl32.Vec3 {
	return a0.Mul(b[0]).Add(a1.Mul(b[1])).Add(a2.Mul(b[2]))
}

// Interpolate2 blends three 2-vectors with fragment weights.
func Interpolate2(b mgl32.Vec3, a0, a1, a2 mgl32.Vec2) mgl32.Vec2 {
	return a0.Mul(b[0]).Add(a1.Mul(b[1])).Add(a2.Mul(b[2]))
}

// clipNear clips a convex polygon against z >= 0 (Sutherland-Hodgman).
func clipNear(in []clipVertex) []clipVertex {
	out := make([]clipVertex, 0, 4)
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		da, db := a.pos.Z(), b.pos.Z()
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			out = append(out, clipVertex{
				pos:    a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
				weight: a.weight.Add(b.weight.Sub(a.weight).Mul(t)),
			})
		}
	}
	return out
}

type screenVertex struct {
	x, y, z float32
	invW    float32
	weight  mgl32.Vec3
}

func toScreen(vp Viewport, v clipVertex) screenVertex {
	invW := 1 / v.pos.W()
	return screenVertex{
		x:      (v.pos.X()*invW*0.5 + 0.5) * float32(vp.Width),
		y:      (1 - (v.pos.Y()*invW*0.5 + 0.5)) * float32(vp.Height),
		z:      v.pos.Z() * invW,
		invW:   invW,
		weight: v.weight,
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether edge a→b of a positively wound pixel-space triangle is a top edge
// (horizontal with the interior below) or a left edge (interior to its right). Pixel centers
// exactly on an edge belong to the triangle only when the edge is top or left, so a center on
// an edge shared by two triangles is emitted once.
func topLeft(a, b screenVertex) bool {
	return (a.y == b.y && b.x > a.x) || b.y < a.y
}

// covers applies the fill rule to one edge function value.
func covers(e float32, topLeftEdge bool) bool {
	return e > 0 || (e == 0 && topLeftEdge)
}

func drawClipped(vp Viewport, c0, c1, c2 clipVertex, cull CullMode, frag FragmentFunc) {
	v0, v1, v2 := toScreen(vp, c0), toScreen(vp, c1), toScreen(vp, c2)

	// Pixel space flips y, so counter-clockwise in NDC has negative area here.
	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 || (cull == CullBack && area > 0) {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}
	tl0, tl1, tl2 := topLeft(v1, v2), topLeft(v2, v0), topLeft(v0, v1)

	maxY := vp.MaxY
	if maxY == 0 {
		maxY = vp.Height
	}
	x0 := max(int(math32.Floor(min(v0.x, v1.x, v2.x))), 0)
	x1 := min(int(math32.Ceil(max(v0.x, v1.x, v2.x))), vp.Width-1)
	y0 := max(int(math32.Floor(min(v0.y, v1.y, v2.y))), vp.MinY, 0)
	y1 := min(int(math32.Ceil(max(v0.y, v1.y, v2.y))), maxY-1, vp.Height-1)

	invArea := 1 / area
	for py := y0; py <= y1; py++ {
		cy := float32(py) + 0.5
		for px := x0; px <= x1; px++ {
			cx := float32(px) + 0.5
			e0 := edge(v1.x, v1.y, v2.x, v2.y, cx, cy)
			e1 := edge(v2.x, v2.y, v0.x, v0.y, cx, cy)
			e2 := edge(v0.x, v0.y, v1.x, v1.y, cx, cy)
			if !covers(e0, tl0) || !covers(e1, tl1) || !covers(e2, tl2) {
				continue
			}
			w0, w1, w2 := e0*invArea, e1*invArea, e2*invArea

			depth := w0*v0.z + w1*v1.z + w2*v2.z
			if depth < 0 || depth > 1 {
				continue
			}

			p0, p1, p2 := w0*v0.invW, w1*v1.invW, w2*v2.invW
			norm := 1 / (p0 + p1 + p2)
			bary := v0.weight.Mul(p0 * norm).
				Add(v1.weight.Mul(p1 * norm)).
				Add(v2.weight.Mul(p2 * norm))

			frag(Fragment{X: px, Y: py, Depth: depth, Bary: bary})
		}
	}
}
