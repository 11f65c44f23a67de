package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/umbra/engine/camera"
	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/framegraph"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
	"github.com/Carmen-Shannon/umbra/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/umbra/engine/renderer/shader"
	"github.com/Carmen-Shannon/umbra/engine/shading"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// drawable is a frame item with its GPU resources resolved.
type drawable struct {
	snap     mesh.Snapshot
	mesh     bind_group_provider.BindGroupProvider
	draw     bind_group_provider.BindGroupProvider
	material bind_group_provider.BindGroupProvider
}

func (r *renderer) Render(f frame.Frame) (deferred.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return deferred.Stats{}, ErrReleased
	}
	if f.Width <= 0 || f.Height <= 0 {
		return deferred.Stats{}, fmt.Errorf("render %dx%d: %w", f.Width, f.Height, frame.ErrInvalidSize)
	}
	if f.Width != r.width || f.Height != r.height {
		if err := r.resize(f.Width, f.Height); err != nil {
			return deferred.Stats{}, err
		}
	}

	start := time.Now()
	items, err := r.prepare(&f)
	if err != nil {
		return deferred.Stats{}, fmt.Errorf("prepare frame: %w", err)
	}
	r.upload(&f, items)

	var stats deferred.Stats
	g := framegraph.New()
	if err := errors.Join(
		g.Add(deferred.PassShadow, func() (err error) {
			stats.ShadowCasters, err = r.shadowPass(&f, items)
			return err
		}),
		g.Add(deferred.PassGeometry, func() (err error) {
			stats.Deferred, err = r.geometryPass(&f, items)
			return err
		}),
		g.Add(deferred.PassLighting, func() error {
			return r.lightingPass()
		}, deferred.PassShadow, deferred.PassGeometry),
		g.Add(deferred.PassForward, func() (err error) {
			stats.Forward, err = r.forwardPass(&f, items)
			return err
		}, deferred.PassLighting),
	); err != nil {
		return deferred.Stats{}, fmt.Errorf("build frame graph: %w", err)
	}
	if stats.Passes, err = g.Compile(); err != nil {
		return deferred.Stats{}, fmt.Errorf("compile frame graph: %w", err)
	}

	if err := r.backend.BeginFrame(); err != nil {
		return deferred.Stats{}, fmt.Errorf("begin frame: %w", err)
	}
	if err := g.Execute(); err != nil {
		r.backend.AbortFrame()
		return deferred.Stats{}, fmt.Errorf("render frame: %w", err)
	}
	if err := r.backend.EndFrame(); err != nil {
		r.backend.AbortFrame()
		return deferred.Stats{}, fmt.Errorf("submit frame: %w", err)
	}
	r.backend.Present()

	stats.Duration = time.Since(start)
	r.logger.Debugf("frame %dx%d: %d casters, %d deferred, %d forward in %s",
		f.Width, f.Height, stats.ShadowCasters, stats.Deferred, stats.Forward, stats.Duration)
	return stats, nil
}

// prepare resolves the GPU resources of every item with a mesh and releases those of
// meshes, materials and items the frame no longer references.
func (r *renderer) prepare(f *frame.Frame) ([]drawable, error) {
	items := make([]drawable, 0, len(f.Items))
	usedMeshes := make(map[*mesh.Mesh]bool)
	usedMaterials := make(map[uuid.UUID]bool)
	usedDraws := make(map[uuid.UUID]bool)

	for _, s := range f.Items {
		if s.Mesh == nil {
			continue
		}
		meshP, err := r.meshProvider(s.Mesh)
		if err != nil {
			return nil, err
		}
		drawP, err := r.drawProvider(s.ID)
		if err != nil {
			return nil, err
		}
		mat := s.Material
		if mat == nil {
			mat = r.fallback
		}
		matP, err := r.materialProvider(mat)
		if err != nil {
			return nil, err
		}

		usedMeshes[s.Mesh] = true
		usedMaterials[mat.ID()] = true
		usedDraws[s.ID] = true
		items = append(items, drawable{snap: s, mesh: meshP, draw: drawP, material: matP})
	}
	r.evict(usedMeshes, usedMaterials, usedDraws)
	return items, nil
}

// upload writes the frame's camera, lights, shadow data and per-item draw uniforms.
func (r *renderer) upload(f *frame.Frame, items []drawable) {
	cam := camera.GPUCameraUniform{ViewProj: f.ViewProjection, CameraPosition: f.Eye}
	shadow := light.NewGPUShadowData(f.LightViewProjection(r.shadowExtent, r.shadowNear, r.shadowFar), r.shadowResolution, r.biasMode)

	writes := make([]bind_group_provider.BufferWrite, 0, len(items)+3)
	writes = append(writes,
		bind_group_provider.NewBufferWrite(r.cameraProvider, 0, &cam),
		bind_group_provider.BufferWrite{Provider: r.lightsProvider, Binding: 0, Data: light.MarshalLightBuffer(f.Directional, f.Points)},
		bind_group_provider.NewBufferWrite(r.shadowDataProvider, 0, &shadow),
	)
	for _, it := range items {
		u := mesh.NewGPUDrawUniform(it.snap)
		writes = append(writes, bind_group_provider.NewBufferWrite(it.draw, 0, &u))
	}
	r.backend.WriteBuffers(writes)
}

// shadowPass renders the depth of every shadow caster from the directional light. The
// map is cleared even when the light casts no shadow, so the lighting pass always reads
// a fully lit map.
func (r *renderer) shadowPass(f *frame.Frame, items []drawable) (int, error) {
	if err := r.backend.BeginPass(PassDescriptor{
		Label:      deferred.PassShadow,
		Depth:      r.shadowMap.view,
		ClearDepth: true,
	}); err != nil {
		return 0, err
	}
	casters := 0
	if f.CastsShadows {
		p := r.pipelineCache[shader.KeyShadow]
		for _, it := range items {
			if !it.snap.CastsShadow {
				continue
			}
			r.backend.DrawCall(p, it.mesh, []bind_group_provider.BindGroupProvider{r.shadowDataProvider, it.draw})
			casters++
		}
	}
	return casters, r.backend.EndPass()
}

// geometryPass fills the geometry buffer with the visible deferred items. In forward
// mode the buffer is only cleared, so the lighting pass yields background everywhere.
func (r *renderer) geometryPass(f *frame.Frame, items []drawable) (int, error) {
	cleared := Attachment{Clear: true}
	if err := r.backend.BeginPass(PassDescriptor{
		Label: deferred.PassGeometry,
		Colors: []Attachment{
			withView(cleared, r.gbuffer.position.view),
			withView(cleared, r.gbuffer.normal.view),
			withView(cleared, r.gbuffer.albedo.view),
		},
		Depth:      r.gbuffer.depth.view,
		ClearDepth: true,
	}); err != nil {
		return 0, err
	}
	drawn := 0
	if r.mode == deferred.ModeDeferred {
		p := r.pipelineCache[shader.KeyGBuffer]
		for _, it := range items {
			if it.snap.ShadingMode != mesh.ShadingDeferred || !f.Visible(it.snap) {
				continue
			}
			r.backend.DrawCall(p, it.mesh, []bind_group_provider.BindGroupProvider{r.cameraProvider, it.draw, it.material})
			drawn++
		}
	}
	return drawn, r.backend.EndPass()
}

// lightingPass shades the geometry buffer onto the swapchain with a full-screen triangle.
func (r *renderer) lightingPass() error {
	if err := r.backend.BeginPass(PassDescriptor{
		Label:  deferred.PassLighting,
		Colors: []Attachment{{Clear: true, ClearValue: backgroundClear()}},
	}); err != nil {
		return err
	}
	r.backend.DrawFullscreen(r.pipelineCache[shader.KeyLighting], []bind_group_provider.BindGroupProvider{
		r.cameraProvider, r.gbufferProvider, r.lightsProvider, r.shadowProvider,
	})
	return r.backend.EndPass()
}

// forwardPass draws forward-shaded items over the composed image, depth tested against
// the geometry buffer. In forward mode every visible item is drawn here. The pass is
// skipped when there is nothing to draw.
func (r *renderer) forwardPass(f *frame.Frame, items []drawable) (int, error) {
	var queue []drawable
	for _, it := range items {
		if r.mode == deferred.ModeDeferred && it.snap.ShadingMode != mesh.ShadingForward {
			continue
		}
		if !f.Visible(it.snap) {
			continue
		}
		queue = append(queue, it)
	}
	if len(queue) == 0 {
		return 0, nil
	}

	if err := r.backend.BeginPass(PassDescriptor{
		Label:  deferred.PassForward,
		Colors: []Attachment{{}},
		Depth:  r.gbuffer.depth.view,
	}); err != nil {
		return 0, err
	}
	p := r.pipelineCache[shader.KeyForward]
	for _, it := range queue {
		r.backend.DrawCall(p, it.mesh, []bind_group_provider.BindGroupProvider{r.cameraProvider, it.draw, it.material, r.lightsProvider})
	}
	return len(queue), r.backend.EndPass()
}

func withView(a Attachment, view *wgpu.TextureView) Attachment {
	a.View = view
	return a
}

func backgroundClear() wgpu.Color {
	c := shading.BackgroundColor
	return wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
}
