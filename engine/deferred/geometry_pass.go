package deferred

import (
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/gbuffer"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
	"github.com/Carmen-Shannon/umbra/engine/raster"
	"github.com/Carmen-Shannon/umbra/engine/shading"
)

// GeometryPass rasterizes deferred items into a fresh geometry buffer.
type GeometryPass struct {
	tiles *tiler
	mode  Mode
}

// GeometryResult is the output of the geometry pass.
type GeometryResult struct {
	// Buffer holds the packed channels, depth and item index of every pixel.
	Buffer *gbuffer.Buffer

	// Drawn is the number of items rasterized.
	Drawn int
}

// Run writes position, normal, albedo, specular and the selection flag of the nearest
// deferred surface at every pixel. Back faces are culled. Pixels no item covers keep the
// cleared texel, which decodes as background.
//
// Parameters:
//   - f: the frame
//
// Returns:
//   - GeometryResult: the filled geometry buffer
//   - error: an error if a tile failed
func (p *GeometryPass) Run(f *frame.Frame) (GeometryResult, error) {
	buf := gbuffer.New(f.Width, f.Height)

	var items []preparedItem
	if p.mode == ModeDeferred {
		for i, s := range f.Items {
			if s.ShadingMode != mesh.ShadingDeferred || !f.Visible(s) {
				continue
			}
			items = append(items, prepare(i, s, f.ViewProjection, true))
		}
	}

	vp := raster.Viewport{Width: f.Width, Height: f.Height}
	err := p.tiles.run(f.Height, func(y0, y1 int) error {
		band := vp.Rows(y0, y1)
		for i := range items {
			it := &items[i]
			it.triangles(band, raster.CullBack, func(tri [3]uint32, frag raster.Fragment) {
				if !(frag.Depth < buf.Depth(frag.X, frag.Y)) {
					return
				}
				pos, n, uv := it.surface(tri, frag.Bary)
				albedo := it.material.Diffuse().Sample(uv.X(), uv.Y())
				spec := it.material.Specular().Sample(uv.X(), uv.Y())
				texel := shading.Encode(pos, n, albedo.Vec3(), spec.X(), it.selected)
				buf.Write(frag.X, frag.Y, frag.Depth, texel, it.index)
			})
		}
		return nil
	})
	return GeometryResult{Buffer: buf, Drawn: len(items)}, err
}
