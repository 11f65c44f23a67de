package material

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterial_Defaults(t *testing.T) {
	m := NewMaterial(WithName("default"))

	assert.Equal(t, "default", m.Name())
	assert.Equal(t, DefaultShininess, m.Shininess())
	require.NotNil(t, m.Diffuse())
	require.NotNil(t, m.Specular())
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, m.Diffuse().Sample(0.3, 0.7))
	assert.Equal(t, float32(0.5), m.Specular().Sample(0, 0).X())
}

func TestNewMaterial_ShininessFloor(t *testing.T) {
	assert.Equal(t, float32(1), NewMaterial(WithShininess(0)).Shininess())
	assert.Equal(t, float32(64), NewMaterial(WithShininess(64)).Shininess())
}

func TestNewTexture_Validates(t *testing.T) {
	_, err := NewTexture(2, 2, make([]mgl32.Vec4, 3))
	assert.ErrorIs(t, err, ErrInvalidTexture)

	_, err = NewTexture(0, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidTexture)
}

func TestTexture_SampleBilinearRepeat(t *testing.T) {
	tex, err := NewTexture(2, 1, []mgl32.Vec4{{0, 0, 0, 1}, {1, 1, 1, 1}})
	require.NoError(t, err)

	// texel centers
	assert.InDelta(t, 0, tex.Sample(0.25, 0.5).X(), 1e-6)
	assert.InDelta(t, 1, tex.Sample(0.75, 0.5).X(), 1e-6)

	// halfway between centers
	assert.InDelta(t, 0.5, tex.Sample(0.5, 0.5).X(), 1e-6)

	// u = 0 blends the first texel with the wrapped last texel
	assert.InDelta(t, 0.5, tex.Sample(0, 0.5).X(), 1e-6)

	// repeat addressing
	assert.InDelta(t, tex.Sample(0.25, 0.5).X(), tex.Sample(1.25, 0.5).X(), 1e-6)
	assert.InDelta(t, tex.Sample(0.75, 0.5).X(), tex.Sample(-0.25, 0.5).X(), 1e-6)
}

func TestNewTextureFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 12, 11))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})
	img.Set(11, 10, color.RGBA{G: 255, A: 255})

	tex, err := NewTextureFromImage(img)
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width())
	assert.Equal(t, 1, tex.Height())
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, tex.At(0, 0))
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, tex.At(1, 0))
	assert.Equal(t, tex.At(0, 0), tex.At(2, -1))

	_, err = NewTextureFromImage(image.NewRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, ErrInvalidTexture)
}

func TestTexture_StagingData(t *testing.T) {
	staged := NewSolidTexture(1, 0.5, 0, 2).StagingData()
	assert.Equal(t, uint32(1), staged.Width)
	assert.Equal(t, uint32(1), staged.Height)
	assert.Equal(t, []byte{255, 128, 0, 255}, staged.Pixels)
}

func TestGPUMaterialParams(t *testing.T) {
	p := NewGPUMaterialParams(NewMaterial(WithShininess(32)))
	assert.Equal(t, 16, p.Size())
	assert.Equal(t, []byte{0, 0, 0, 0x42, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, p.Marshal())
}
