package shadowmap

import (
	"testing"

	"github.com/Carmen-Shannon/umbra/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNew_ClearedToFar(t *testing.T) {
	m := New(4)
	assert.Equal(t, 4, m.Resolution())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, float32(1), m.Depth(x, y))
		}
	}
	assert.Equal(t, float32(1), m.SampleCompare(0.5, 0.5, 1), "ref equal to the clear depth is lit")
}

func TestWrite_KeepsNearest(t *testing.T) {
	m := New(2)
	assert.True(t, m.Write(0, 1, 0.6))
	assert.True(t, m.Write(0, 1, 0.4))
	assert.False(t, m.Write(0, 1, 0.5))
	assert.Equal(t, float32(0.4), m.Depth(0, 1))
}

func TestSampleCompare(t *testing.T) {
	m := New(4)
	m.Write(0, 0, 0.2)
	m.Write(3, 3, 0.2)

	tests := []struct {
		name string
		u, v float32
		ref  float32
		want float32
	}{
		{"occluded texel", 0.1, 0.1, 0.5, 0},
		{"ref at stored depth", 0.1, 0.1, 0.2, 1},
		{"unoccluded texel", 0.5, 0.5, 0.5, 1},
		{"clamped below", -3, -0.5, 0.5, 0},
		{"clamped above", 1.5, 7, 0.5, 0},
		{"clamped edge unoccluded", -1, 0.6, 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.SampleCompare(tt.u, tt.v, tt.ref))
		})
	}
}

func TestShadowFactor_EdgeCasterDoesNotShadowOutsideExtent(t *testing.T) {
	m := New(64)
	// A caster along the right edge, wider than the PCF kernel.
	for y := 0; y < 64; y++ {
		for x := 60; x < 64; x++ {
			m.Write(x, y, 0.1)
		}
	}

	// PCF taps near the edge still clamp onto the caster column.
	assert.Equal(t, float32(0), shading.ShadowFactor(m, mgl32.Vec3{0.999, 0.5, 0.6}, 0), "inside, against the caster")
	assert.Equal(t, float32(1), shading.ShadowFactor(m, mgl32.Vec3{1.5, 0.5, 0.6}, 0), "outside the light extent")
}
