// Package gbuffer holds the CPU geometry buffer written by the geometry pass and read by
// the lighting pass.
package gbuffer

import (
	"github.com/Carmen-Shannon/umbra/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
)

// NoItem is the item index of a pixel no draw item covered.
const NoItem int32 = -1

// Buffer stores the three packed channels of every pixel plus the depth plane used for the
// depth test and an item index plane used for picking. Rows are stored top to bottom.
//
// Writes from different goroutines are safe as long as they touch disjoint rows.
type Buffer struct {
	width  int
	height int

	ch1   []mgl32.Vec4
	ch2   []mgl32.Vec4
	ch3   []mgl32.Vec4
	depth []float32
	item  []int32
}

// New allocates a cleared buffer.
//
// Parameters:
//   - width, height: dimensions in pixels (must be > 0)
//
// Returns:
//   - *Buffer: the cleared buffer
func New(width, height int) *Buffer {
	n := width * height
	b := &Buffer{
		width:  width,
		height: height,
		ch1:    make([]mgl32.Vec4, n),
		ch2:    make([]mgl32.Vec4, n),
		ch3:    make([]mgl32.Vec4, n),
		depth:  make([]float32, n),
		item:   make([]int32, n),
	}
	b.Clear()
	return b
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Clear resets every channel to zero, depth to 1 and the item index to NoItem.
func (b *Buffer) Clear() {
	b.ClearRows(0, b.height)
}

// ClearRows clears the rows [y0, y1).
//
// Parameters:
//   - y0, y1: the row range
func (b *Buffer) ClearRows(y0, y1 int) {
	lo, hi := y0*b.width, y1*b.width
	clear(b.ch1[lo:hi])
	clear(b.ch2[lo:hi])
	clear(b.ch3[lo:hi])
	for i := lo; i < hi; i++ {
		b.depth[i] = 1
		b.item[i] = NoItem
	}
}

// Depth returns the stored depth at a pixel.
func (b *Buffer) Depth(x, y int) float32 {
	return b.depth[y*b.width+x]
}

// Texel returns the packed channels at a pixel.
func (b *Buffer) Texel(x, y int) shading.Texel {
	i := y*b.width + x
	return shading.Texel{Ch1: b.ch1[i], Ch2: b.ch2[i], Ch3: b.ch3[i]}
}

// Item returns the index of the draw item covering a pixel, or NoItem.
func (b *Buffer) Item(x, y int) int32 {
	return b.item[y*b.width+x]
}

// Write stores a fragment if it passes the LESS depth test.
//
// Parameters:
//   - x, y: pixel coordinates
//   - depth: fragment depth in [0, 1]
//   - t: the packed fragment channels
//   - item: the index of the draw item producing the fragment
//
// Returns:
//   - bool: true if the fragment was written
func (b *Buffer) Write(x, y int, depth float32, t shading.Texel, item int32) bool {
	i := y*b.width + x
	if !(depth < b.depth[i]) {
		return false
	}
	b.depth[i] = depth
	b.ch1[i], b.ch2[i], b.ch3[i] = t.Ch1, t.Ch2, t.Ch3
	b.item[i] = item
	return true
}

// WriteDepth performs the LESS depth test for a fragment that carries no channel data,
// such as a forward-shaded fragment, and records its depth and item index on success.
//
// Parameters:
//   - x, y: pixel coordinates
//   - depth: fragment depth in [0, 1]
//   - item: the index of the draw item producing the fragment
//
// Returns:
//   - bool: true if the fragment passed
func (b *Buffer) WriteDepth(x, y int, depth float32, item int32) bool {
	i := y*b.width + x
	if !(depth < b.depth[i]) {
		return false
	}
	b.depth[i] = depth
	b.item[i] = item
	return true
}
