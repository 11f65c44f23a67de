package deferred

import (
	"image"
	"image/color"
	"time"

	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/gbuffer"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Stats describes the work done for one frame.
type Stats struct {
	// Passes lists the executed passes in order.
	Passes []string

	ShadowCasters int
	Deferred      int
	Forward       int

	Duration time.Duration
}

// Result is a rendered frame: the linear color image and the geometry buffer it was
// composed from.
type Result struct {
	width  int
	height int
	color  []mgl32.Vec4
	gbuf   *gbuffer.Buffer
	items  []uuid.UUID

	Stats Stats
}

func newResult(f *frame.Frame, color []mgl32.Vec4, gbuf *gbuffer.Buffer) *Result {
	items := make([]uuid.UUID, len(f.Items))
	for i, s := range f.Items {
		items[i] = s.ID
	}
	return &Result{
		width:  f.Width,
		height: f.Height,
		color:  color,
		gbuf:   gbuf,
		items:  items,
	}
}

// Width returns the image width in pixels.
func (r *Result) Width() int { return r.width }

// Height returns the image height in pixels.
func (r *Result) Height() int { return r.height }

// Color returns the unclamped linear color of a pixel.
func (r *Result) Color(x, y int) mgl32.Vec4 {
	return r.color[y*r.width+x]
}

// GBuffer returns the geometry buffer of the frame, including the depth and item planes
// as updated by the forward pass.
func (r *Result) GBuffer() *gbuffer.Buffer {
	return r.gbuf
}

// Image converts the frame to 8-bit color. Channels are clamped to [0, 1] and NaN
// channels become 0; alpha is always opaque.
//
// Returns:
//   - *image.NRGBA: the converted image
func (r *Result) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			c := r.Color(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: 0xff})
		}
	}
	return img
}

// Pick returns the id of the draw item visible at a pixel.
//
// Parameters:
//   - x, y: pixel coordinates, top-left origin
//
// Returns:
//   - uuid.UUID: the item id
//   - bool: false if the pixel is outside the image or shows background
func (r *Result) Pick(x, y int) (uuid.UUID, bool) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return uuid.Nil, false
	}
	i := r.gbuf.Item(x, y)
	if i == gbuffer.NoItem {
		return uuid.Nil, false
	}
	return r.items[i], true
}

func to8(v float32) uint8 {
	if math32.IsNaN(v) {
		return 0
	}
	return uint8(math32.Round(min(max(v, 0), 1) * 255))
}
