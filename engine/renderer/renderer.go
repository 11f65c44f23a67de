package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
	"github.com/Carmen-Shannon/umbra/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/umbra/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/umbra/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// ErrReleased is returned by Render and Resize after Release. It wraps deferred.ErrClosed
// so callers can treat both backends alike.
var ErrReleased = fmt.Errorf("renderer is released: %w", deferred.ErrClosed)

// Surface is the window side of a Renderer: a platform surface and its current size.
// window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	logger      common.Logger
	backendType RendererBackendType
	backend     RendererBackend

	pipelineCache map[string]pipeline.Pipeline
	layoutCache   map[string]map[int]wgpu.BindGroupLayoutDescriptor

	mode     deferred.Mode
	biasMode light.BiasMode

	shadowResolution int
	shadowExtent     float32
	shadowNear       float32
	shadowFar        float32

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode

	width, height int
	gbuffer       *gbufferTargets
	shadowMap     *renderTarget

	cameraProvider     bind_group_provider.BindGroupProvider
	lightsProvider     bind_group_provider.BindGroupProvider
	shadowDataProvider bind_group_provider.BindGroupProvider
	shadowProvider     bind_group_provider.BindGroupProvider
	gbufferProvider    bind_group_provider.BindGroupProvider

	meshes    map[*mesh.Mesh]bind_group_provider.BindGroupProvider
	draws     map[uuid.UUID]bind_group_provider.BindGroupProvider
	materials map[uuid.UUID]bind_group_provider.BindGroupProvider
	fallback  material.Material

	released bool
}

// Renderer is the GPU backend. It owns the WebGPU device, the shader pipelines of the
// shadow, geometry, lighting and forward passes, the geometry buffer and shadow map
// render targets, and the per-mesh, per-material and per-item GPU resources. Every frame
// it uploads the frame's uniforms, records the passes in frame graph order on one command
// encoder and presents the result.
//
// GPU resources of meshes, materials and items that are absent from a frame are released
// after that frame. A mesh's vertex data is uploaded once and must not change afterwards.
type Renderer interface {
	// Render draws and presents one frame. The surface is resized first when the frame size
	// differs from the current one.
	//
	// Parameters:
	//   - f: the frame to render
	//
	// Returns:
	//   - deferred.Stats: the executed passes and draw counts
	//   - error: an error if the frame is invalid or GPU work could not be recorded
	Render(f frame.Frame) (deferred.Stats, error)

	// Resize reconfigures the surface and recreates the geometry buffer targets.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the render targets could not be recreated
	Resize(width, height int) error

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: one of the shader Key constants
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Mode returns the current shading mode.
	//
	// Returns:
	//   - deferred.Mode: the shading mode
	Mode() deferred.Mode

	// SetMode changes the shading mode from the next frame on.
	//
	// Parameters:
	//   - m: the new mode
	SetMode(m deferred.Mode)

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

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// Release releases every GPU resource and the device. Render fails afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a GPU renderer drawing into a window surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the window providing the platform surface and its size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer, ready to render
//   - error: an error if the device, a pipeline or a render target could not be created
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:               &sync.Mutex{},
		logger:           common.NewNopLogger(),
		backendType:      backendType,
		pipelineCache:    make(map[string]pipeline.Pipeline),
		layoutCache:      make(map[string]map[int]wgpu.BindGroupLayoutDescriptor),
		shadowResolution: light.ShadowMapResolution,
		shadowExtent:     light.DefaultShadowHalfExtent,
		shadowNear:       light.DefaultShadowNear,
		shadowFar:        light.DefaultShadowFar,
		meshes:           make(map[*mesh.Mesh]bind_group_provider.BindGroupProvider),
		draws:            make(map[uuid.UUID]bind_group_provider.BindGroupProvider),
		materials:        make(map[uuid.UUID]bind_group_provider.BindGroupProvider),
		fallback:         material.NewMaterial(material.WithName("fallback")),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter)
	}
	if err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}

	r.width, r.height = surface.Width(), surface.Height()
	r.backend.SetPresentMode(r.presentMode)
	r.backend.ConfigureSurface(r.width, r.height)

	if err := r.init(); err != nil {
		r.Release()
		return nil, fmt.Errorf("new renderer: %w", err)
	}
	r.logger.Infof("GPU renderer: %dx%d, surface %v, shadow map %d, mode %s",
		r.width, r.height, r.backend.SurfaceFormat(), r.shadowResolution, r.mode)
	return r, nil
}

// init registers the pass pipelines and creates the render targets and frame-wide providers.
func (r *renderer) init() error {
	if err := r.registerPipelines(); err != nil {
		return err
	}
	if err := r.initShadowMap(); err != nil {
		return err
	}
	if err := r.initFrameProviders(); err != nil {
		return err
	}
	return r.initGBuffer(r.width, r.height)
}

// registerPipelines loads the four pass shaders and creates their GPU pipelines.
func (r *renderer) registerPipelines() error {
	load := func(key string, stages ...shader.ShaderType) ([]pipeline.PipelineBuilderOption, error) {
		var opts []pipeline.PipelineBuilderOption
		for _, st := range stages {
			s, err := shader.Load(key, st)
			if err != nil {
				return nil, err
			}
			if st == shader.ShaderTypeVertex {
				opts = append(opts, pipeline.WithVertexShader(s))
			} else {
				opts = append(opts, pipeline.WithFragmentShader(s))
			}
		}
		return opts, nil
	}

	defs := []struct {
		key    string
		stages []shader.ShaderType
		opts   []pipeline.PipelineBuilderOption
	}{
		{
			key:    shader.KeyShadow,
			stages: []shader.ShaderType{shader.ShaderTypeVertex},
			opts: []pipeline.PipelineBuilderOption{
				pipeline.WithColorTargets(),
				pipeline.WithDepth(ShadowMapFormat, wgpu.CompareFunctionLess, true),
				// Both windings so open meshes such as planes still occlude.
				pipeline.WithCullMode(wgpu.CullModeNone),
			},
		},
		{
			key:    shader.KeyGBuffer,
			stages: []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment},
			opts: []pipeline.PipelineBuilderOption{
				pipeline.WithColorTargets(formatRef(GBufferPositionFormat), formatRef(GBufferNormalFormat), formatRef(GBufferAlbedoFormat)),
				pipeline.WithDepth(GBufferDepthFormat, wgpu.CompareFunctionLess, true),
				pipeline.WithCullMode(wgpu.CullModeBack),
			},
		},
		{
			key:    shader.KeyLighting,
			stages: []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment},
			opts:   []pipeline.PipelineBuilderOption{pipeline.WithColorTargets(nil)},
		},
		{
			key:    shader.KeyForward,
			stages: []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment},
			opts: []pipeline.PipelineBuilderOption{
				pipeline.WithColorTargets(nil),
				pipeline.WithDepth(GBufferDepthFormat, wgpu.CompareFunctionLess, true),
				pipeline.WithCullMode(wgpu.CullModeBack),
			},
		},
	}

	for _, def := range defs {
		shaders, err := load(def.key, def.stages...)
		if err != nil {
			return err
		}
		p := pipeline.NewPipeline(def.key, append(shaders, def.opts...)...)
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", def.key, err)
		}
		r.pipelineCache[def.key] = p
		r.layoutCache[def.key] = pipelineBindGroupLayouts(p)
		r.logger.Debugf("registered pipeline %q with %d bind groups", def.key, len(r.layoutCache[def.key]))
	}
	return nil
}

// layout returns the bind group layout descriptor a pipeline declares for a group.
func (r *renderer) layout(key string, group int) (wgpu.BindGroupLayoutDescriptor, error) {
	desc, ok := r.layoutCache[key][group]
	if !ok {
		return wgpu.BindGroupLayoutDescriptor{}, fmt.Errorf("render pipeline %q not found in cache or has no group %d", key, group)
	}
	return desc, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Mode() deferred.Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *renderer) SetMode(m deferred.Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = m
}

func (r *renderer) BiasMode() light.BiasMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.biasMode
}

func (r *renderer) SetBiasMode(m light.BiasMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.biasMode = m
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	r.backend.ConfigureSurface(r.width, r.height)
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	return r.resize(width, height)
}

// resize does the work of Resize. Callers hold r.mu.
func (r *renderer) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize %dx%d: %w", width, height, frame.ErrInvalidSize)
	}
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
	if err := r.initGBuffer(width, height); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	r.logger.Debugf("resized to %dx%d", width, height)
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true

	for _, providers := range []map[uuid.UUID]bind_group_provider.BindGroupProvider{r.draws, r.materials} {
		for id, p := range providers {
			p.Release()
			delete(providers, id)
		}
	}
	for m, p := range r.meshes {
		p.Release()
		delete(r.meshes, m)
	}
	for _, p := range []bind_group_provider.BindGroupProvider{
		r.gbufferProvider, r.shadowProvider, r.shadowDataProvider, r.lightsProvider, r.cameraProvider,
	} {
		if p != nil {
			p.Release()
		}
	}
	r.gbuffer.release()
	r.shadowMap.release()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	if r.backend != nil {
		r.backend.Release()
	}
}
