// Package deferred is the software rendering backend. It runs the shadow, geometry,
// lighting and forward passes on the CPU, splitting every pass into row tiles that
// execute on a shared worker pool. It produces the same pixels the GPU backend does
// through the shading kernel both of them share.
package deferred

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/framegraph"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/shadowmap"
	"github.com/go-gl/mathgl/mgl32"
)

// Pass names as registered in the frame graph.
const (
	PassShadow   = "shadow"
	PassGeometry = "geometry"
	PassLighting = "lighting"
	PassForward  = "forward"
)

// DefaultTileRows is the height in pixels of one unit of pass work.
const DefaultTileRows = 16

// ErrClosed is returned by Render after Close.
var ErrClosed = errors.New("renderer is closed")

// Mode selects how a renderer shades draw items.
type Mode int

const (
	// ModeDeferred honours each item's shading mode: deferred items go through the
	// geometry buffer, forward items are drawn over the composed image.
	ModeDeferred Mode = iota

	// ModeForward shades every item directly over the background color.
	ModeForward
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDeferred:
		return "deferred"
	case ModeForward:
		return "forward"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configuration name into a Mode. The empty string selects
// ModeDeferred.
//
// Parameters:
//   - s: the mode name, case-insensitive
//
// Returns:
//   - Mode: the parsed mode
//   - error: an error if the name is unknown
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deferred":
		return ModeDeferred, nil
	case "forward":
		return ModeForward, nil
	default:
		return 0, fmt.Errorf("unknown shading mode %q", s)
	}
}

// rendererImpl is the implementation of the Renderer interface.
type rendererImpl struct {
	mu sync.Mutex

	logger   common.Logger
	workers  int
	tileRows int
	mode     Mode
	biasMode light.BiasMode

	shadowResolution int
	shadowExtent     float32
	shadowNear       float32
	shadowFar        float32

	pool   worker.DynamicWorkerPool
	shadow *shadowmap.Map
	closed bool
}

// Renderer renders frames on the CPU.
//
// Render calls are serialized; a Renderer may be shared between goroutines but only one
// frame is in flight at a time.
type Renderer interface {
	// Render executes every pass for a frame and returns the composed image.
	//
	// Parameters:
	//   - f: the frame to render
	//
	// Returns:
	//   - *Result: the rendered frame
	//   - error: an error if the frame is invalid or the renderer is closed
	Render(f frame.Frame) (*Result, error)

	// Mode returns the current shading mode.
	//
	// Returns:
	//   - Mode: the shading mode
	Mode() Mode

	// SetMode changes the shading mode from the next frame on.
	//
	// Parameters:
	//   - m: the new mode
	SetMode(m Mode)

	// BiasMode returns the shadow bias mode of the lighting pass.
	//
	// Returns:
	//   - light.BiasMode: the bias mode
	BiasMode() light.BiasMode

	// SetBiasMode changes the shadow bias mode from the next frame on.
	//
	// Parameters:
	//   - m: the new bias mode
	SetBiasMode(m light.BiasMode)

	// Close stops the worker pool. Render fails afterwards.
	Close()
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a software renderer with the provided options applied.
//
// Parameters:
//   - options: variadic list of RendererBuilderOption functions to configure the renderer
//
// Returns:
//   - Renderer: the renderer, ready to render
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &rendererImpl{
		logger:           common.NewNopLogger(),
		workers:          runtime.NumCPU(),
		tileRows:         DefaultTileRows,
		shadowResolution: light.ShadowMapResolution,
		shadowExtent:     light.DefaultShadowHalfExtent,
		shadowNear:       light.DefaultShadowNear,
		shadowFar:        light.DefaultShadowFar,
	}
	for _, opt := range options {
		opt(r)
	}

	r.pool = worker.NewDynamicWorkerPool(r.workers, 256, 1*time.Second)
	r.shadow = shadowmap.New(r.shadowResolution)
	r.logger.Debugf("software renderer: %d workers, %d row tiles, shadow map %d, mode %s",
		r.workers, r.tileRows, r.shadowResolution, r.mode)
	return r
}

func (r *rendererImpl) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *rendererImpl) SetMode(m Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = m
}

func (r *rendererImpl) BiasMode() light.BiasMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.biasMode
}

func (r *rendererImpl) SetBiasMode(m light.BiasMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.biasMode = m
}

func (r *rendererImpl) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.pool.Stop()
}

func (r *rendererImpl) Render(f frame.Frame) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("render %dx%d: %w", f.Width, f.Height, frame.ErrInvalidSize)
	}

	start := time.Now()
	tiles := &tiler{pool: r.pool, rows: r.tileRows}
	shadowPass := &ShadowPass{tiles: tiles, depth: r.shadow, halfExtent: r.shadowExtent, near: r.shadowNear, far: r.shadowFar}
	geometryPass := &GeometryPass{tiles: tiles, mode: r.mode}
	lightingPass := &LightingPass{tiles: tiles, biasMode: r.biasMode}
	forwardPass := &ForwardPass{tiles: tiles, mode: r.mode}

	var (
		shadowRes   ShadowResult
		geometryRes GeometryResult
		color       []mgl32.Vec4
		forwardN    int
	)
	g := framegraph.New()
	if err := errors.Join(
		g.Add(PassShadow, func() (err error) {
			shadowRes, err = shadowPass.Run(&f)
			return err
		}),
		g.Add(PassGeometry, func() (err error) {
			geometryRes, err = geometryPass.Run(&f)
			return err
		}),
		g.Add(PassLighting, func() (err error) {
			color, err = lightingPass.Run(&f, geometryRes, shadowRes)
			return err
		}, PassShadow, PassGeometry),
		g.Add(PassForward, func() (err error) {
			forwardN, err = forwardPass.Run(&f, geometryRes, color)
			return err
		}, PassLighting),
	); err != nil {
		return nil, fmt.Errorf("build frame graph: %w", err)
	}

	order, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile frame graph: %w", err)
	}
	if err := g.Execute(); err != nil {
		return nil, fmt.Errorf("render frame: %w", err)
	}

	res := newResult(&f, color, geometryRes.Buffer)
	res.Stats = Stats{
		Passes:        order,
		ShadowCasters: shadowRes.Casters,
		Deferred:      geometryRes.Drawn,
		Forward:       forwardN,
		Duration:      time.Since(start),
	}
	r.logger.Debugf("frame %dx%d: %d casters, %d deferred, %d forward in %s",
		f.Width, f.Height, shadowRes.Casters, geometryRes.Drawn, forwardN, res.Stats.Duration)
	return res, nil
}
