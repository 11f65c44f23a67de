package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCamera_Defaults(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10))

	assert.True(t, c.Front().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6), "front %v", c.Front())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.Up())
	assert.Equal(t, DefaultFov, c.Fov())

	// The origin is straight ahead at mid-screen.
	clip := c.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip.X(), 1e-5)
	assert.InDelta(t, 0, clip.Y(), 1e-5)
	ndcZ := clip.Z() / clip.W()
	assert.Greater(t, ndcZ, float32(0))
	assert.Less(t, ndcZ, float32(1))
}

func TestCamera_ViewProjectionIsProduct(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3), WithYawPitch(-45, -20), WithAspect(16.0/9.0))
	assert.True(t, c.ViewProjection().ApproxEqual(c.Projection().Mul4(c.View())))
}

func TestCamera_PitchClamped(t *testing.T) {
	c := NewCamera()
	c.SetYawPitch(0, 120)
	assert.Equal(t, MaxPitch, c.Pitch())
	c.SetYawPitch(0, -120)
	assert.Equal(t, -MaxPitch, c.Pitch())
}

func TestCameraController_MoveAndLook(t *testing.T) {
	c := NewCamera()
	cc := NewCameraController(c, WithMoveSpeed(2))

	cc.Move(MoveForward, 0.5)
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5), "pos %v", c.Position())

	cc.Move(MoveRight|MoveBoost, 0.5)
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{3, 0, -1}, 1e-5), "pos %v", c.Position())

	cc.Move(MoveUp|MoveDown, 1)
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{3, 0, -1}, 1e-5))

	cc.Look(900, 0)
	assert.InDelta(t, 0, c.Yaw(), 1e-4)
	assert.True(t, c.Front().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5))
}

func TestGPUCameraUniform(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3))
	u := NewGPUCameraUniform(c)
	assert.Equal(t, 80, u.Size())
	buf := u.Marshal()
	assert.Len(t, buf, 80)
	assert.Equal(t, [3]float32{1, 2, 3}, u.CameraPosition)
}
