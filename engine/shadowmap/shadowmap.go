// Package shadowmap holds the CPU directional light depth map.
package shadowmap

import (
	"github.com/Carmen-Shannon/umbra/engine/shading"
	"github.com/chewxy/math32"
)

// Map is a square depth buffer rendered from the directional light. It is written by the
// shadow pass and read only afterwards. Rows are stored top to bottom, matching the v
// coordinate produced by shading.ProjectToShadow.
//
// Writes from different goroutines are safe as long as they touch disjoint rows.
type Map struct {
	resolution int
	depth      []float32
}

var _ shading.ShadowSampler = &Map{}

// New allocates a map cleared to depth 1.
//
// Parameters:
//   - resolution: width and height in texels (must be > 0)
//
// Returns:
//   - *Map: the cleared map
func New(resolution int) *Map {
	m := &Map{
		resolution: resolution,
		depth:      make([]float32, resolution*resolution),
	}
	m.Clear()
	return m
}

// Resolution returns the width and height in texels.
func (m *Map) Resolution() int {
	return m.resolution
}

// Clear resets every texel to depth 1.
func (m *Map) Clear() {
	m.ClearRows(0, m.resolution)
}

// ClearRows resets the rows [y0, y1) to depth 1.
func (m *Map) ClearRows(y0, y1 int) {
	for i := y0 * m.resolution; i < y1*m.resolution; i++ {
		m.depth[i] = 1
	}
}

// Depth returns the stored depth at a texel.
func (m *Map) Depth(x, y int) float32 {
	return m.depth[y*m.resolution+x]
}

// Write stores depth at a texel if it passes the LESS depth test.
//
// Parameters:
//   - x, y: texel coordinates
//   - depth: light-space depth in [0, 1]
//
// Returns:
//   - bool: true if the depth was written
func (m *Map) Write(x, y int, depth float32) bool {
	i := y*m.resolution + x
	if !(depth < m.depth[i]) {
		return false
	}
	m.depth[i] = depth
	return true
}

// SampleCompare performs a nearest-texel comparison: 1 if ref <= stored depth, else 0.
// Coordinates outside [0, 1] clamp to the edge texel.
//
// Parameters:
//   - u, v: texture coordinates
//   - ref: the reference depth
//
// Returns:
//   - float32: 1 when lit, 0 when occluded
func (m *Map) SampleCompare(u, v, ref float32) float32 {
	x := m.texel(u)
	y := m.texel(v)
	if ref <= m.depth[y*m.resolution+x] {
		return 1
	}
	return 0
}

func (m *Map) texel(c float32) int {
	i := int(math32.Floor(c * float32(m.resolution)))
	return min(max(i, 0), m.resolution-1)
}
