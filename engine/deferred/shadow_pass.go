package deferred

import (
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/raster"
	"github.com/Carmen-Shannon/umbra/engine/shadowmap"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowPass renders the depth of every shadow-casting item from the directional light.
// No bias is applied here; the lighting pass offsets its comparison instead.
type ShadowPass struct {
	tiles *tiler
	depth *shadowmap.Map

	halfExtent float32
	near       float32
	far        float32
}

// ShadowResult is the output of the shadow pass.
type ShadowResult struct {
	// LightVP is the light view-projection the map was rendered with.
	LightVP mgl32.Mat4

	// Map is the depth map, nil when the directional light casts no shadows.
	Map *shadowmap.Map

	// Casters is the number of items rendered into the map.
	Casters int
}

// Run clears the shadow map and rasterizes the casters into it. Both windings are drawn
// so open meshes such as planes still occlude.
//
// Parameters:
//   - f: the frame
//
// Returns:
//   - ShadowResult: the light matrix and the filled map
//   - error: an error if a tile failed
func (p *ShadowPass) Run(f *frame.Frame) (ShadowResult, error) {
	res := ShadowResult{LightVP: f.LightViewProjection(p.halfExtent, p.near, p.far)}
	if !f.CastsShadows {
		return res, nil
	}

	var casters []preparedItem
	for i, s := range f.Items {
		if !s.CastsShadow || s.Mesh == nil {
			continue
		}
		casters = append(casters, prepare(i, s, res.LightVP, false))
	}

	n := p.depth.Resolution()
	vp := raster.Viewport{Width: n, Height: n}
	err := p.tiles.run(n, func(y0, y1 int) error {
		p.depth.ClearRows(y0, y1)
		band := vp.Rows(y0, y1)
		for i := range casters {
			casters[i].triangles(band, raster.CullNone, func(_ [3]uint32, frag raster.Fragment) {
				p.depth.Write(frag.X, frag.Y, frag.Depth)
			})
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	res.Map = p.depth
	res.Casters = len(casters)
	return res, nil
}
