package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
	"github.com/Carmen-Shannon/umbra/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/umbra/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// Render target formats. Position and normal keep full float precision so the selection
// flag and the zero background normal survive bit for bit.
const (
	GBufferPositionFormat = wgpu.TextureFormatRGBA32Float
	GBufferNormalFormat   = wgpu.TextureFormatRGBA32Float
	GBufferAlbedoFormat   = wgpu.TextureFormatRGBA16Float
	GBufferDepthFormat    = wgpu.TextureFormatDepth32Float
	ShadowMapFormat       = wgpu.TextureFormatDepth32Float
)

// Bind group indices, as declared by the pass shaders.
const (
	groupCamera   = 0
	groupDraw     = 1
	groupMaterial = 2

	groupShadowData = 0

	groupGBuffer        = 1
	groupLightingLights = 2
	groupLightingShadow = 3

	groupForwardLights = 3
)

// Bindings inside the material group.
const (
	bindingDiffuse = iota
	bindingSpecular
	bindingMaterialSampler
	bindingMaterialParams
)

// Bindings inside the lighting pass shadow group.
const (
	bindingShadowTexture = iota
	bindingShadowSampler
	bindingShadowData
)

func formatRef(f wgpu.TextureFormat) *wgpu.TextureFormat {
	return &f
}

// renderTarget is a texture and its default view.
type renderTarget struct {
	view    *wgpu.TextureView
	texture *wgpu.Texture
}

func (t *renderTarget) release() {
	if t == nil {
		return
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// gbufferTargets are the three color channels and the depth buffer of the geometry pass.
type gbufferTargets struct {
	position, normal, albedo, depth *renderTarget
}

func (g *gbufferTargets) release() {
	if g == nil {
		return
	}
	for _, t := range []*renderTarget{g.position, g.normal, g.albedo, g.depth} {
		t.release()
	}
}

func (r *renderer) createTarget(label string, format wgpu.TextureFormat, width, height int) (*renderTarget, error) {
	view, tex, err := r.backend.CreateRenderTarget(label, format, width, height)
	if err != nil {
		return nil, err
	}
	return &renderTarget{view: view, texture: tex}, nil
}

// initShadowMap creates the square shadow depth target.
func (r *renderer) initShadowMap() error {
	t, err := r.createTarget("Shadow Map", ShadowMapFormat, r.shadowResolution, r.shadowResolution)
	if err != nil {
		return err
	}
	r.shadowMap = t
	return nil
}

// initGBuffer (re)creates the geometry buffer targets at a size and rebinds them for the
// lighting pass.
func (r *renderer) initGBuffer(width, height int) error {
	targets := &gbufferTargets{}
	planes := []struct {
		dst    **renderTarget
		label  string
		format wgpu.TextureFormat
	}{
		{&targets.position, "GBuffer Position", GBufferPositionFormat},
		{&targets.normal, "GBuffer Normal", GBufferNormalFormat},
		{&targets.albedo, "GBuffer Albedo", GBufferAlbedoFormat},
		{&targets.depth, "GBuffer Depth", GBufferDepthFormat},
	}
	for _, s := range planes {
		t, err := r.createTarget(s.label, s.format, width, height)
		if err != nil {
			targets.release()
			return err
		}
		*s.dst = t
	}

	desc, err := r.layout(shader.KeyLighting, groupGBuffer)
	if err != nil {
		targets.release()
		return err
	}
	if r.gbufferProvider == nil {
		r.gbufferProvider = bind_group_provider.NewBindGroupProvider("GBuffer")
	}
	r.gbufferProvider.ReleaseBindGroup()
	r.gbufferProvider.ShareTextureView(0, targets.position.view)
	r.gbufferProvider.ShareTextureView(1, targets.normal.view)
	r.gbufferProvider.ShareTextureView(2, targets.albedo.view)
	if err := r.backend.InitBindGroup(r.gbufferProvider, desc); err != nil {
		targets.release()
		return fmt.Errorf("gbuffer bind group: %w", err)
	}

	r.gbuffer.release()
	r.gbuffer = targets
	return nil
}

// initFrameProviders creates the providers whose data changes once per frame: camera,
// lights and shadow data, plus the lighting pass view of the shadow map.
func (r *renderer) initFrameProviders() error {
	inits := []struct {
		dst   *bind_group_provider.BindGroupProvider
		label string
		key   string
		group int
	}{
		{&r.cameraProvider, "Camera", shader.KeyGBuffer, groupCamera},
		{&r.lightsProvider, "Lights", shader.KeyLighting, groupLightingLights},
		{&r.shadowDataProvider, "Shadow Data", shader.KeyShadow, groupShadowData},
	}
	for _, in := range inits {
		desc, err := r.layout(in.key, in.group)
		if err != nil {
			return err
		}
		p := bind_group_provider.NewBindGroupProvider(in.label)
		if err := r.backend.InitBindGroup(p, desc); err != nil {
			p.Release()
			return fmt.Errorf("%s bind group: %w", in.label, err)
		}
		*in.dst = p
	}

	desc, err := r.layout(shader.KeyLighting, groupLightingShadow)
	if err != nil {
		return err
	}
	p := bind_group_provider.NewBindGroupProvider("Shadow",
		bind_group_provider.WithSharedTextureView(bindingShadowTexture, r.shadowMap.view),
		bind_group_provider.WithSharedBuffer(bindingShadowData, r.shadowDataProvider.Buffer(0)),
	)
	r.shadowProvider = p
	if err := r.backend.InitSampler(p, bindingShadowSampler, common.ShadowSamplerStagingData()); err != nil {
		return fmt.Errorf("shadow sampler: %w", err)
	}
	if err := r.backend.InitBindGroup(p, desc); err != nil {
		return fmt.Errorf("shadow bind group: %w", err)
	}
	return nil
}

// meshProvider returns the vertex and index buffers of a mesh, uploading them on first use.
func (r *renderer) meshProvider(m *mesh.Mesh) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := r.meshes[m]; ok {
		return p, nil
	}
	p := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Mesh %p", m))
	if err := r.backend.InitMeshBuffers(p, m.VertexData(), m.IndexData(), len(m.Indices)); err != nil {
		p.Release()
		return nil, fmt.Errorf("mesh buffers: %w", err)
	}
	r.meshes[m] = p
	return p, nil
}

// drawProvider returns the per-draw uniform group of an item.
func (r *renderer) drawProvider(id uuid.UUID) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := r.draws[id]; ok {
		return p, nil
	}
	desc, err := r.layout(shader.KeyGBuffer, groupDraw)
	if err != nil {
		return nil, err
	}
	p := bind_group_provider.NewBindGroupProvider("Draw " + id.String())
	if err := r.backend.InitBindGroup(p, desc); err != nil {
		p.Release()
		return nil, fmt.Errorf("draw bind group: %w", err)
	}
	r.draws[id] = p
	return p, nil
}

// materialProvider returns the texture, sampler and parameter group of a material,
// uploading it on first use. Materials are immutable, so the upload happens once.
func (r *renderer) materialProvider(m material.Material) (bind_group_provider.BindGroupProvider, error) {
	if m == nil {
		m = r.fallback
	}
	if p, ok := r.materials[m.ID()]; ok {
		return p, nil
	}
	desc, err := r.layout(shader.KeyGBuffer, groupMaterial)
	if err != nil {
		return nil, err
	}

	p := bind_group_provider.NewBindGroupProvider("Material " + m.Name())
	err = r.backend.InitTextureView(p, bindingDiffuse, m.Diffuse().StagingData())
	if err == nil {
		err = r.backend.InitTextureView(p, bindingSpecular, m.Specular().StagingData())
	}
	if err == nil {
		err = r.backend.InitSampler(p, bindingMaterialSampler, common.MaterialSamplerStagingData())
	}
	if err == nil {
		err = r.backend.InitBindGroup(p, desc)
	}
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("material %s: %w", m.Name(), err)
	}

	params := material.NewGPUMaterialParams(m)
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		bind_group_provider.NewBufferWrite(p, bindingMaterialParams, &params),
	})
	r.materials[m.ID()] = p
	return p, nil
}

// evict releases the resources of meshes, materials and items no longer drawn.
func (r *renderer) evict(meshes map[*mesh.Mesh]bool, materials, draws map[uuid.UUID]bool) {
	for m, p := range r.meshes {
		if !meshes[m] {
			p.Release()
			delete(r.meshes, m)
		}
	}
	for id, p := range r.materials {
		if !materials[id] {
			p.Release()
			delete(r.materials, id)
		}
	}
	for id, p := range r.draws {
		if !draws[id] {
			p.Release()
			delete(r.draws, id)
		}
	}
}
