package deferred

import (
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/shading"
	"github.com/go-gl/mathgl/mgl32"
)

// LightingPass composes the final color of every pixel from the geometry buffer and the
// shadow map.
type LightingPass struct {
	tiles    *tiler
	biasMode light.BiasMode
}

// Run shades every pixel. It takes both pass results, so it cannot be scheduled before
// the geometry and shadow passes have produced them.
//
// Parameters:
//   - f: the frame
//   - geometry: the geometry pass output
//   - shadow: the shadow pass output
//
// Returns:
//   - []mgl32.Vec4: the linear color of every pixel, row-major
//   - error: an error if a tile failed
func (p *LightingPass) Run(f *frame.Frame, geometry GeometryResult, shadow ShadowResult) ([]mgl32.Vec4, error) {
	in := &shading.LightingInputs{
		Eye:           f.Eye,
		Directional:   f.Directional,
		Points:        f.Points,
		DeclaredCount: len(f.Points),
		LightVP:       shadow.LightVP,
		BiasMode:      p.biasMode,
	}
	if shadow.Map != nil {
		in.Shadow = shadow.Map
	}

	buf := geometry.Buffer
	color := make([]mgl32.Vec4, f.Width*f.Height)
	err := p.tiles.run(f.Height, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			row := color[y*f.Width : (y+1)*f.Width]
			for x := range row {
				row[x] = shading.ShadeDeferred(buf.Texel(x, y), in)
			}
		}
		return nil
	})
	return color, err
}
