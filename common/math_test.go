package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspective_DepthRange(t *testing.T) {
	proj := Perspective(mgl32.DegToRad(60), 1, 0.5, 50)

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -0.5, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -50, 1})

	assert.InDelta(t, 0, near.Z()/near.W(), 1e-6)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-5)
}

func TestOrtho_DepthRange(t *testing.T) {
	proj := Ortho(-10, 10, -5, 5, 1, 21)

	near := proj.Mul4x1(mgl32.Vec4{10, 5, -1, 1})
	far := proj.Mul4x1(mgl32.Vec4{-10, -5, -21, 1})

	assert.InDelta(t, 0, near.Z(), 1e-6)
	assert.InDelta(t, 1, far.Z(), 1e-6)
	assert.InDelta(t, 1, near.X(), 1e-6)
	assert.InDelta(t, 1, near.Y(), 1e-6)
	assert.InDelta(t, -1, far.X(), 1e-6)
	assert.InDelta(t, -1, far.Y(), 1e-6)
}

func TestBuildModelMatrix_Order(t *testing.T) {
	m := BuildModelMatrix(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, float32(math.Pi / 2), 0}, mgl32.Vec3{2, 2, 2})

	// Scale then rotate +90° about Y then translate: (1,0,0) -> (2,0,0) -> (0,0,-2) -> (1,2,1).
	p := TransformPoint(m, mgl32.Vec3{1, 0, 0})
	assert.True(t, p.Vec3().ApproxEqualThreshold(mgl32.Vec3{1, 2, 1}, 1e-5), "got %v", p)
}

func TestNormalMatrix_NonUniformScale(t *testing.T) {
	m := BuildModelMatrix(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{4, 1, 1})
	n := NormalMatrix(m)

	// A 45° normal in XY tilts towards Y after stretching X.
	out := n.Mul3x1(mgl32.Vec3{1, 1, 0}.Normalize()).Normalize()
	assert.Greater(t, out.Y(), out.X())

	assert.Equal(t, mgl32.Mat3{}, NormalMatrix(mgl32.Mat4{}))
}

func TestPutFloat32s(t *testing.T) {
	buf := make([]byte, 8)
	n := PutFloat32s(buf, 1.5, -2)

	require.Equal(t, 8, n)
	assert.Equal(t, []byte{0x00, 0x00, 0xc0, 0x3f, 0x00, 0x00, 0x00, 0xc0}, buf)
}

func TestFrustum_IntersectsAABB(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustumFromMatrix(Perspective(mgl32.DegToRad(60), 1, 0.1, 100).Mul4(view))

	tests := []struct {
		name   string
		lo, hi mgl32.Vec3
		want   bool
	}{
		{"at origin", mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}, true},
		{"behind camera", mgl32.Vec3{-1, -1, 10}, mgl32.Vec3{1, 1, 12}, false},
		{"far left", mgl32.Vec3{-100, -1, -1}, mgl32.Vec3{-90, 1, 1}, false},
		{"beyond far plane", mgl32.Vec3{-1, -1, -200}, mgl32.Vec3{1, 1, -150}, false},
		{"straddling near plane", mgl32.Vec3{-1, -1, 4}, mgl32.Vec3{1, 1, 6}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.IntersectsAABB(tc.lo, tc.hi))
		})
	}
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, float32(2048), Coalesce(float32(0), 2048))
}
