package deferred

import (
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
	"github.com/Carmen-Shannon/umbra/engine/raster"
	"github.com/go-gl/mathgl/mgl32"
)

var fallbackMaterial = material.NewMaterial(material.WithName("fallback"))

// preparedItem is a draw item with its vertices run through the vertex stage once per
// pass, shared read-only by every tile.
type preparedItem struct {
	index    int32
	selected bool
	material material.Material
	indices  []uint32

	clip   []mgl32.Vec4
	world  []mgl32.Vec3
	normal []mgl32.Vec3
	uv     []mgl32.Vec2
}

// prepare transforms a snapshot's vertices. With attributes false only clip positions are
// produced, which is all the shadow pass needs.
func prepare(index int, s mesh.Snapshot, viewProj mgl32.Mat4, attributes bool) preparedItem {
	p := preparedItem{
		index:    int32(index),
		selected: s.Selected,
		material: s.Material,
		indices:  s.Mesh.Indices,
		clip:     make([]mgl32.Vec4, len(s.Mesh.Vertices)),
	}
	if p.material == nil {
		p.material = fallbackMaterial
	}
	mvp := viewProj.Mul4(s.Model)
	for i, v := range s.Mesh.Vertices {
		p.clip[i] = mvp.Mul4x1(v.Position.Vec4(1))
	}
	if !attributes {
		return p
	}

	p.world = make([]mgl32.Vec3, len(s.Mesh.Vertices))
	p.normal = make([]mgl32.Vec3, len(s.Mesh.Vertices))
	p.uv = make([]mgl32.Vec2, len(s.Mesh.Vertices))
	for i, v := range s.Mesh.Vertices {
		p.world[i] = s.Model.Mul4x1(v.Position.Vec4(1)).Vec3()
		p.normal[i] = s.Normal.Mul3x1(v.Normal)
		p.uv[i] = v.UV
	}
	return p
}

// triangles emits every triangle of the item into a row band.
func (p *preparedItem) triangles(vp raster.Viewport, cull raster.CullMode, fn func(tri [3]uint32, f raster.Fragment)) {
	for t := 0; t+2 < len(p.indices); t += 3 {
		tri := [3]uint32{p.indices[t], p.indices[t+1], p.indices[t+2]}
		clip := [3]mgl32.Vec4{p.clip[tri[0]], p.clip[tri[1]], p.clip[tri[2]]}
		raster.DrawTriangle(vp, clip, cull, func(f raster.Fragment) {
			fn(tri, f)
		})
	}
}

// surface interpolates the vertex attributes of a fragment.
func (p *preparedItem) surface(tri [3]uint32, b mgl32.Vec3) (position, normal mgl32.Vec3, uv mgl32.Vec2) {
	position = raster.Interpolate(b, p.world[tri[0]], p.world[tri[1]], p.world[tri[2]])
	normal = raster.Interpolate(b, p.normal[tri[0]], p.normal[tri[1]], p.normal[tri[2]])
	if normal.LenSqr() > 0 {
		normal = normal.Normalize()
	}
	uv = raster.Interpolate2(b, p.uv[tri[0]], p.uv[tri[1]], p.uv[tri[2]])
	return position, normal, uv
}
