package mesh

import "github.com/go-gl/mathgl/mgl32"

// Cube builds an axis-aligned box centered on the origin with per-face normals and UVs.
//
// Parameters:
//   - w, h, d: extents along X, Y and Z
//
// Returns:
//   - *Mesh: 24 vertices, 12 triangles
func Cube(w, h, d float32) *Mesh {
	hx, hy, hz := w/2, h/2, d/2
	x, y, z := mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}

	m := &Mesh{Name: "Cube"}
	m.addFace(z.Mul(hz), z, x.Mul(hx), y.Mul(hy))
	m.addFace(z.Mul(-hz), z.Mul(-1), x.Mul(-hx), y.Mul(hy))
	m.addFace(x.Mul(hx), x, z.Mul(-hz), y.Mul(hy))
	m.addFace(x.Mul(-hx), x.Mul(-1), z.Mul(hz), y.Mul(hy))
	m.addFace(y.Mul(hy), y, x.Mul(hx), z.Mul(-hz))
	m.addFace(y.Mul(-hy), y.Mul(-1), x.Mul(hx), z.Mul(hz))
	return m
}

// Plane builds a horizontal rectangle in the XZ plane facing +Y.
//
// Parameters:
//   - w, d: extents along X and Z
//
// Returns:
//   - *Mesh: 4 vertices, 2 triangles
func Plane(w, d float32) *Mesh {
	m := &Mesh{Name: "Plane"}
	m.addFace(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{w / 2, 0, 0}, mgl32.Vec3{0, 0, -d / 2})
	return m
}

// Quad builds a square in the XY plane facing +Z.
//
// Parameters:
//   - size: edge length
//
// Returns:
//   - *Mesh: 4 vertices, 2 triangles
func Quad(size float32) *Mesh {
	m := &Mesh{Name: "Quad"}
	m.addFace(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{size / 2, 0, 0}, mgl32.Vec3{0, size / 2, 0})
	return m
}

// addFace appends a rectangle spanned by the half axes u and v around center. u × v must
// point along n so the two triangles wind counter-clockwise seen from n.
func (m *Mesh) addFace(center, n, u, v mgl32.Vec3) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Position: center.Sub(u).Sub(v), Normal: n, UV: mgl32.Vec2{0, 1}},
		Vertex{Position: center.Add(u).Sub(v), Normal: n, UV: mgl32.Vec2{1, 1}},
		Vertex{Position: center.Add(u).Add(v), Normal: n, UV: mgl32.Vec2{1, 0}},
		Vertex{Position: center.Sub(u).Add(v), Normal: n, UV: mgl32.Vec2{0, 0}},
	)
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}
