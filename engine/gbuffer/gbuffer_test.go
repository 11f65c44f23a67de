package gbuffer

import (
	"testing"

	"github.com/Carmen-Shannon/umbra/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Cleared(t *testing.T) {
	b := New(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, shading.Texel{}, b.Texel(x, y))
			assert.Equal(t, float32(1), b.Depth(x, y))
			assert.Equal(t, NoItem, b.Item(x, y))
			assert.Equal(t, shading.KindBackground, shading.Decode(b.Texel(x, y)).Kind)
		}
	}
}

func TestWrite_DepthLess(t *testing.T) {
	b := New(2, 2)
	near := shading.Encode(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, 1, false)
	far := shading.Encode(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}, 1, false)

	assert.True(t, b.Write(1, 0, 0.5, far, 0))
	assert.True(t, b.Write(1, 0, 0.25, near, 1))
	assert.False(t, b.Write(1, 0, 0.25, far, 2), "equal depth fails LESS")
	assert.False(t, b.Write(1, 0, 0.75, far, 2))
	assert.False(t, b.Write(0, 0, 1, far, 2), "cleared depth rejects the far plane")

	assert.Equal(t, near, b.Texel(1, 0))
	assert.Equal(t, int32(1), b.Item(1, 0))
	assert.Equal(t, float32(0.25), b.Depth(1, 0))

	b.Clear()
	assert.Equal(t, shading.Texel{}, b.Texel(1, 0))
	assert.Equal(t, NoItem, b.Item(1, 0))
}

func TestClearRows(t *testing.T) {
	b := New(2, 3)
	tx := shading.Encode(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{}, 0, false)
	for y := 0; y < 3; y++ {
		b.Write(0, y, 0.5, tx, 0)
	}
	b.ClearRows(1, 2)
	assert.Equal(t, tx, b.Texel(0, 0))
	assert.Equal(t, shading.Texel{}, b.Texel(0, 1))
	assert.Equal(t, tx, b.Texel(0, 2))
}

func TestWriteDepth_KeepsChannels(t *testing.T) {
	b := New(1, 1)
	tx := shading.Encode(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 1}, 0.5, false)
	require.True(t, b.Write(0, 0, 0.5, tx, 0))

	assert.False(t, b.WriteDepth(0, 0, 0.75, 1), "behind the deferred surface")
	assert.True(t, b.WriteDepth(0, 0, 0.25, 1))
	assert.Equal(t, int32(1), b.Item(0, 0))
	assert.Equal(t, float32(0.25), b.Depth(0, 0))
	assert.Equal(t, tx, b.Texel(0, 0))
}
