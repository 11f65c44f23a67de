package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitives_WindingMatchesNormals(t *testing.T) {
	for _, m := range []*Mesh{Cube(1, 2, 3), Plane(10, 10), Quad(2)} {
		t.Run(m.Name, func(t *testing.T) {
			require.Zero(t, len(m.Indices)%3)
			for i := 0; i < len(m.Indices); i += 3 {
				a := m.Vertices[m.Indices[i]]
				b := m.Vertices[m.Indices[i+1]]
				c := m.Vertices[m.Indices[i+2]]
				face := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
				assert.Greater(t, face.Dot(a.Normal), float32(0), "triangle %d winds clockwise", i/3)
			}
		})
	}
}

func TestCube_Bounds(t *testing.T) {
	m := Cube(1, 2, 3)
	assert.Len(t, m.Vertices, 24)
	assert.Equal(t, 12, m.TriangleCount())

	lo, hi := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-0.5, -1, -1.5}, lo)
	assert.Equal(t, mgl32.Vec3{0.5, 1, 1.5}, hi)
}

func TestMesh_VertexAndIndexData(t *testing.T) {
	m := Quad(2)
	vd := m.VertexData()
	require.Len(t, vd, 4*32)
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(vd[0:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(vd[20:])), "normal.z")

	id := m.IndexData()
	require.Len(t, id, 6*4)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(id[8:]))
}

func TestDrawItem_TransformRebuildsMatrices(t *testing.T) {
	d := NewDrawItem(Cube(1, 1, 1), WithPosition(5, 0, 0))
	p := d.ModelMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{5, 0, 0, 1}, p)

	d.SetTransform(Transform{Position: mgl32.Vec3{0, -2, 0}, Scale: mgl32.Vec3{10, 1, 10}})
	p = d.ModelMatrix().Mul4x1(mgl32.Vec4{0.5, 0, 0.5, 1})
	assert.Equal(t, mgl32.Vec4{5, -2, 5, 1}, p)

	// Non-uniform scale keeps +Y normals pointing up.
	n := d.NormalMatrix().Mul3x1(mgl32.Vec3{0, 1, 0}).Normalize()
	assert.True(t, n.ApproxEqual(mgl32.Vec3{0, 1, 0}))
}

func TestDrawItem_Defaults(t *testing.T) {
	d := NewDrawItem(Plane(1, 1))
	assert.Equal(t, "Plane", d.Name())
	assert.NotNil(t, d.Material())
	assert.True(t, d.CastsShadow())
	assert.False(t, d.Selected())
	assert.Equal(t, ShadingDeferred, d.ShadingMode())

	d.SetSelected(true)
	d.SetShadingMode(ShadingForward)
	s := d.Snapshot()
	assert.True(t, s.Selected)
	assert.Equal(t, ShadingForward, s.ShadingMode)
	assert.Equal(t, d.ID(), s.ID)
	assert.Equal(t, "forward", s.ShadingMode.String())
}

func TestGPUDrawUniform(t *testing.T) {
	d := NewDrawItem(Cube(1, 1, 1), WithScale(2, 2, 2), WithSelected(true))
	u := NewGPUDrawUniform(d.Snapshot())

	assert.Equal(t, 128, u.Size())
	assert.Equal(t, 32, (&GPUVertex{}).Size())
	assert.Equal(t, float32(1), u.Selected)
	assert.InDelta(t, 0.5, u.NormalMatrix[0], 1e-6)
	assert.Zero(t, u.NormalMatrix[3], "column padding")
	assert.InDelta(t, 0.5, u.NormalMatrix[5], 1e-6)

	buf := u.Marshal()
	require.Len(t, buf, 128)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[112:])))
}
