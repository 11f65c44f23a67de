package mesh

import (
	"github.com/Carmen-Shannon/umbra/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a single mesh vertex in model space.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh is an indexed triangle list. Triangles wind counter-clockwise when seen from the
// side their normals point to.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles described by the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the model-space axis-aligned bounding box of the mesh.
//
// Returns:
//   - lo: the minimum corner
//   - hi: the maximum corner
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo, hi = m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v.Position[k])
			hi[k] = max(hi[k], v.Position[k])
		}
	}
	return lo, hi
}

// VertexData returns the vertices in GPUVertex layout, ready for a vertex buffer upload.
//
// Returns:
//   - []byte: len(Vertices) * 32 bytes
func (m *Mesh) VertexData() []byte {
	gpu := make([]GPUVertex, len(m.Vertices))
	for i, v := range m.Vertices {
		gpu[i] = GPUVertex{Position: v.Position, Normal: v.Normal, TexCoord: v.UV}
	}
	buf := make([]byte, 0, len(gpu)*32)
	for i := range gpu {
		buf = append(buf, gpu[i].Marshal()...)
	}
	return buf
}

// IndexData returns the index list as little-endian uint32 bytes.
//
// Returns:
//   - []byte: len(Indices) * 4 bytes
func (m *Mesh) IndexData() []byte {
	return append([]byte(nil), common.SliceToBytes(m.Indices)...)
}
