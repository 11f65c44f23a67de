// Package frame assembles the immutable per-frame input shared by both renderer backends.
package frame

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/camera"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidSize is returned when a frame has a non-positive width or height.
	ErrInvalidSize = errors.New("invalid frame size")

	// ErrNoDirectionalLight is returned when a frame is assembled without its directional light.
	ErrNoDirectionalLight = errors.New("frame has no directional light")
)

// Frame is a consistent copy of everything a frame renders: camera matrices, the lights
// and the draw list. Editor changes made after the frame was assembled are not visible
// to it.
type Frame struct {
	Width  int
	Height int

	Eye            mgl32.Vec3
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4

	Directional light.Params
	Points      []light.Params

	// CastsShadows enables the shadow pass for the directional light.
	CastsShadows bool

	Items []mesh.Snapshot
}

// New snapshots a camera, the lights and the draw items into a Frame. The point light
// set is copied under its lock, so concurrent edits land in the next frame.
//
// Parameters:
//   - width, height: target size in pixels
//   - cam: the camera
//   - directional: the frame's directional light
//   - points: the point light set, may be nil
//   - items: the flat draw list
//
// Returns:
//   - Frame: the frame
//   - error: ErrInvalidSize or ErrNoDirectionalLight
func New(width, height int, cam camera.Camera, directional light.Light, points *light.PointLightSet, items []mesh.DrawItem) (Frame, error) {
	if width <= 0 || height <= 0 {
		return Frame{}, fmt.Errorf("new frame %dx%d: %w", width, height, ErrInvalidSize)
	}
	if directional == nil {
		return Frame{}, ErrNoDirectionalLight
	}

	f := Frame{
		Width:          width,
		Height:         height,
		Eye:            cam.Position(),
		View:           cam.View(),
		Projection:     cam.Projection(),
		ViewProjection: cam.ViewProjection(),
		Directional:    directional.Params(),
		CastsShadows:   directional.CastsShadows(),
		Items:          make([]mesh.Snapshot, 0, len(items)),
	}
	if points != nil {
		f.Points = points.Snapshot()
	}
	for _, it := range items {
		f.Items = append(f.Items, it.Snapshot())
	}
	return f, nil
}

// WorldBounds returns the world-space axis-aligned bounds of a draw item.
//
// Parameters:
//   - s: the item snapshot
//
// Returns:
//   - lo, hi: the bounds corners
func WorldBounds(s mesh.Snapshot) (lo, hi mgl32.Vec3) {
	mlo, mhi := s.Mesh.Bounds()
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{mlo[0], mlo[1], mlo[2]}
		if i&1 != 0 {
			corner[0] = mhi[0]
		}
		if i&2 != 0 {
			corner[1] = mhi[1]
		}
		if i&4 != 0 {
			corner[2] = mhi[2]
		}
		p := common.TransformPoint(s.Model, corner).Vec3()
		if i == 0 {
			lo, hi = p, p
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}

// ShadowCenter returns the center of the shadow casters' combined bounds, or the origin
// when nothing casts a shadow.
func (f *Frame) ShadowCenter() mgl32.Vec3 {
	var lo, hi mgl32.Vec3
	found := false
	for _, s := range f.Items {
		if !s.CastsShadow || s.Mesh == nil {
			continue
		}
		l, h := WorldBounds(s)
		if !found {
			lo, hi, found = l, h, true
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], l[k])
			hi[k] = max(hi[k], h[k])
		}
	}
	return lo.Add(hi).Mul(0.5)
}

// LightViewProjection computes the directional light's shadow matrix for this frame.
//
// Parameters:
//   - halfExtent: orthographic half-size in world units
//   - near, far: light-space clip planes
//
// Returns:
//   - mgl32.Mat4: the light view-projection
func (f *Frame) LightViewProjection(halfExtent, near, far float32) mgl32.Mat4 {
	return light.ComputeDirectionalLightVP(f.Directional.Direction, f.ShadowCenter(), halfExtent, near, far)
}

// Visible reports whether a draw item's bounds intersect the camera frustum.
//
// Parameters:
//   - s: the item snapshot
//
// Returns:
//   - bool: false only if the item is certainly off screen
func (f *Frame) Visible(s mesh.Snapshot) bool {
	if s.Mesh == nil {
		return false
	}
	lo, hi := WorldBounds(s)
	return common.ExtractFrustumFromMatrix(f.ViewProjection).IntersectsAABB(lo, hi)
}
