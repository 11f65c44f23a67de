package deferred

import (
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
	"github.com/Carmen-Shannon/umbra/engine/raster"
	"github.com/Carmen-Shannon/umbra/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
)

// ForwardPass shades forward items directly into the composed image, depth tested against
// the geometry buffer.
type ForwardPass struct {
	tiles *tiler
	mode  Mode
}

// Run draws the forward items over color. The lighting is the directional light plus the
// first point light of the frame, without shadows. Selected items are painted with the
// highlight color like their deferred counterparts.
//
// Parameters:
//   - f: the frame
//   - geometry: the geometry pass output, its depth and item planes are updated
//   - color: the composed image from the lighting pass
//
// Returns:
//   - int: the number of items drawn
//   - error: an error if a tile failed
func (p *ForwardPass) Run(f *frame.Frame, geometry GeometryResult, color []mgl32.Vec4) (int, error) {
	var items []preparedItem
	for i, s := range f.Items {
		if p.mode == ModeDeferred && s.ShadingMode != mesh.ShadingForward {
			continue
		}
		if !f.Visible(s) {
			continue
		}
		items = append(items, prepare(i, s, f.ViewProjection, true))
	}
	if len(items) == 0 {
		return 0, nil
	}

	in := shading.NewForwardInputs(f.Eye, f.Directional, f.Points)
	buf := geometry.Buffer
	vp := raster.Viewport{Width: f.Width, Height: f.Height}
	err := p.tiles.run(f.Height, func(y0, y1 int) error {
		band := vp.Rows(y0, y1)
		for i := range items {
			it := &items[i]
			it.triangles(band, raster.CullBack, func(tri [3]uint32, frag raster.Fragment) {
				if !buf.WriteDepth(frag.X, frag.Y, frag.Depth, it.index) {
					return
				}
				px := frag.Y*f.Width + frag.X
				if it.selected {
					color[px] = shading.HighlightColor
					return
				}
				pos, n, uv := it.surface(tri, frag.Bary)
				color[px] = shading.ShadeForward(shading.Surface{
					Position:  pos,
					Normal:    n,
					Albedo:    it.material.Diffuse().Sample(uv.X(), uv.Y()).Vec3(),
					Specular:  it.material.Specular().Sample(uv.X(), uv.Y()).X(),
					Shininess: it.material.Shininess(),
				}, in)
			})
		}
		return nil
	})
	return len(items), err
}
