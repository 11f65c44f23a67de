package material

import (
	"image"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// Texture is an immutable grid of straight-alpha RGBA texels in [0, 1].
// Sampling wraps in both directions and filters bilinearly, mirroring the GPU material sampler
// returned by common.MaterialSamplerStagingData.
type Texture struct {
	id     uuid.UUID
	width  int
	height int
	texels []mgl32.Vec4
}

// NewSolidTexture creates a 1x1 texture holding a single color.
//
// Parameters:
//   - r, g, b, a: the color components in [0, 1]
//
// Returns:
//   - *Texture: the new texture
func NewSolidTexture(r, g, b, a float32) *Texture {
	return &Texture{
		id:     uuid.New(),
		width:  1,
		height: 1,
		texels: []mgl32.Vec4{{r, g, b, a}},
	}
}

// NewTexture creates a texture from a row-major texel slice. The slice is copied.
//
// Parameters:
//   - width: texture width in texels (must be > 0)
//   - height: texture height in texels (must be > 0)
//   - texels: width*height colors, top row first
//
// Returns:
//   - *Texture: the new texture
//   - error: an error if the dimensions do not match the slice
func NewTexture(width, height int, texels []mgl32.Vec4) (*Texture, error) {
	if width <= 0 || height <= 0 || len(texels) != width*height {
		return nil, ErrInvalidTexture
	}
	t := &Texture{
		id:     uuid.New(),
		width:  width,
		height: height,
		texels: make([]mgl32.Vec4, len(texels)),
	}
	copy(t.texels, texels)
	return t, nil
}

// NewTextureFromImage converts a decoded image into a texture. Any image.Image works; it is
// drawn into a 16-bit non-premultiplied buffer first so the stored texels are straight alpha.
//
// Parameters:
//   - img: the decoded source image
//
// Returns:
//   - *Texture: the new texture
//   - error: an error if the image is empty
func NewTextureFromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrInvalidTexture
	}

	dst := image.NewNRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	texels := make([]mgl32.Vec4, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := dst.NRGBA64At(x, y)
			texels[y*b.Dx()+x] = mgl32.Vec4{
				float32(c.R) / 0xffff,
				float32(c.G) / 0xffff,
				float32(c.B) / 0xffff,
				float32(c.A) / 0xffff,
			}
		}
	}
	return &Texture{id: uuid.New(), width: b.Dx(), height: b.Dy(), texels: texels}, nil
}

// ID returns the texture handle.
func (t *Texture) ID() uuid.UUID { return t.id }

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.height }

// At returns the texel at integer coordinates, wrapping out-of-range indices.
//
// Parameters:
//   - x, y: texel coordinates
//
// Returns:
//   - mgl32.Vec4: the texel color
func (t *Texture) At(x, y int) mgl32.Vec4 {
	return t.texels[wrap(y, t.height)*t.width+wrap(x, t.width)]
}

// Sample returns the bilinearly filtered color at texture coordinate (u, v) with repeat
// addressing. Texel centers sit at ((i+0.5)/width, (j+0.5)/height), as on the GPU.
//
// Parameters:
//   - u, v: texture coordinates, any range
//
// Returns:
//   - mgl32.Vec4: the filtered color
func (t *Texture) Sample(u, v float32) mgl32.Vec4 {
	if t.width == 1 && t.height == 1 {
		return t.texels[0]
	}

	x := u*float32(t.width) - 0.5
	y := v*float32(t.height) - 0.5
	x0f, y0f := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0f, y-y0f
	x0, y0 := int(x0f), int(y0f)

	c00 := t.At(x0, y0)
	c10 := t.At(x0+1, y0)
	c01 := t.At(x0, y0+1)
	c11 := t.At(x0+1, y0+1)

	top := c00.Mul(1 - fx).Add(c10.Mul(fx))
	bottom := c01.Mul(1 - fx).Add(c11.Mul(fx))
	return top.Mul(1 - fy).Add(bottom.Mul(fy))
}

// StagingData converts the texture into RGBA8 pixels for GPU upload.
//
// Returns:
//   - common.TextureStagingData: the staged pixels and dimensions
func (t *Texture) StagingData() common.TextureStagingData {
	pixels := make([]byte, len(t.texels)*4)
	for i, c := range t.texels {
		for k := 0; k < 4; k++ {
			pixels[i*4+k] = uint8(mgl32.Clamp(c[k], 0, 1)*255 + 0.5)
		}
	}
	return common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(t.width),
		Height: uint32(t.height),
	}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
