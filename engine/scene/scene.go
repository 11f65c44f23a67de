package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/camera"
	"github.com/Carmen-Shannon/umbra/engine/frame"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ErrNoItem is returned when an operation names an item that is not in the scene.
var ErrNoItem = errors.New("no such draw item")

// DefaultSpawnDistance is how far in front of the camera SpawnCube places a new cube.
const DefaultSpawnDistance float32 = 1.0

// Scene is the editor's world: a flat draw list, a camera, one directional light and a
// bounded set of point lights. It is the producer side of rendering; Frame snapshots its
// state into the immutable input both renderer backends consume.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Directional returns the scene's directional light.
	Directional() light.Light

	// SetDirectional replaces the directional light.
	//
	// Parameters:
	//   - l: a light of type LightTypeDirectional
	//
	// Returns:
	//   - error: an error if l is nil or not directional
	SetDirectional(l light.Light) error

	// PointLights returns the bounded point light set.
	PointLights() *light.PointLightSet

	// Add appends draw items to the draw list. Items already present are ignored.
	//
	// Parameters:
	//   - items: the items to add
	Add(items ...mesh.DrawItem)

	// Remove deletes a draw item.
	//
	// Parameters:
	//   - id: the item id
	//
	// Returns:
	//   - bool: true if the item was present
	Remove(id uuid.UUID) bool

	// Get returns a draw item by id.
	//
	// Parameters:
	//   - id: the item id
	//
	// Returns:
	//   - mesh.DrawItem: the item
	//   - bool: false if no such item exists
	Get(id uuid.UUID) (mesh.DrawItem, bool)

	// Items returns the draw list in insertion order.
	Items() []mesh.DrawItem

	// Count returns the number of draw items.
	Count() int

	// Clear removes every draw item. Lights and camera are kept.
	Clear()

	// Select makes one item the only selected item.
	//
	// Parameters:
	//   - id: the item to select
	//
	// Returns:
	//   - error: ErrNoItem if the item is not in the scene
	Select(id uuid.UUID) error

	// ClearSelection deselects every item.
	ClearSelection()

	// Selected returns the ids of the selected items.
	Selected() []uuid.UUID

	// SpawnCube adds a unit cube at the spawn distance in front of the camera.
	//
	// Returns:
	//   - mesh.DrawItem: the new item
	SpawnCube() mesh.DrawItem

	// Pick casts a ray through a pixel and returns the nearest item whose world bounds it hits.
	//
	// Parameters:
	//   - x, y: pixel coordinates, origin top left
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - mesh.DrawItem: the hit item
	//   - bool: false if the ray hits nothing
	Pick(x, y, width, height int) (mesh.DrawItem, bool)

	// Frame snapshots the scene for rendering at a size. The camera's aspect ratio follows
	// the frame size.
	//
	// Parameters:
	//   - width, height: target size in pixels
	//
	// Returns:
	//   - frame.Frame: the frame
	//   - error: frame.ErrInvalidSize or frame.ErrNoDirectionalLight
	Frame(width, height int) (frame.Frame, error)
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	logger common.Logger
	name   string

	cam         camera.Camera
	directional light.Light
	points      *light.PointLightSet

	items []mesh.DrawItem

	cubeMesh      *mesh.Mesh
	spawnDistance float32
	spawnMaterial material.Material
}

var _ Scene = &scene{}

// NewScene creates an empty scene with a default directional light pointing straight down
// and an empty point light set of full capacity.
//
// Parameters:
//   - name: the scene name
//   - cam: the scene camera
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - Scene: the scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:            &sync.RWMutex{},
		logger:        common.NewNopLogger(),
		name:          name,
		cam:           cam,
		directional:   light.NewLight(light.LightTypeDirectional),
		points:        light.NewPointLightSet(light.MaxPointLights),
		cubeMesh:      mesh.Cube(1, 1, 1),
		spawnDistance: DefaultSpawnDistance,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Directional() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directional
}

func (s *scene) SetDirectional(l light.Light) error {
	if l == nil || l.Type() != light.LightTypeDirectional {
		return fmt.Errorf("set directional light: %w", frame.ErrNoDirectionalLight)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directional = l
	return nil
}

func (s *scene) PointLights() *light.PointLightSet {
	return s.points
}

func (s *scene) Add(items ...mesh.DrawItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if it == nil || s.indexOf(it.ID()) >= 0 {
			continue
		}
		s.items = append(s.items, it)
	}
}

func (s *scene) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func (s *scene) Get(id uuid.UUID) (mesh.DrawItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return nil, false
}

func (s *scene) Items() []mesh.DrawItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

func (s *scene) Select(id uuid.UUID) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.indexOf(id) < 0 {
		return fmt.Errorf("select %s: %w", id, ErrNoItem)
	}
	for _, it := range s.items {
		it.SetSelected(it.ID() == id)
	}
	return nil
}

func (s *scene) ClearSelection() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		it.SetSelected(false)
	}
}

func (s *scene) Selected() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []uuid.UUID
	for _, it := range s.items {
		if it.Selected() {
			ids = append(ids, it.ID())
		}
	}
	return ids
}

func (s *scene) SpawnCube() mesh.DrawItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.cam.Position().Add(s.cam.Front().Mul(s.spawnDistance))
	opts := []mesh.DrawItemBuilderOption{
		mesh.WithName(fmt.Sprintf("Cube %d", len(s.items)+1)),
		mesh.WithPosition(pos[0], pos[1], pos[2]),
	}
	if s.spawnMaterial != nil {
		opts = append(opts, mesh.WithMaterial(s.spawnMaterial))
	}
	it := mesh.NewDrawItem(s.cubeMesh, opts...)
	s.items = append(s.items, it)
	s.logger.Debugf("spawned %s at %v", it.Name(), pos)
	return it
}

func (s *scene) Pick(x, y, width, height int) (mesh.DrawItem, bool) {
	if width <= 0 || height <= 0 {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	origin, dir, ok := pickRay(s.cam.ViewProjection(), s.cam.Position(), x, y, width, height)
	if !ok {
		return nil, false
	}

	var (
		hit     mesh.DrawItem
		nearest = math32.Inf(1)
	)
	for _, it := range s.items {
		snap := it.Snapshot()
		if snap.Mesh == nil {
			continue
		}
		lo, hi := frame.WorldBounds(snap)
		if t, ok := rayBox(origin, dir, lo, hi); ok && t < nearest {
			hit, nearest = it, t
		}
	}
	return hit, hit != nil
}

func (s *scene) Frame(width, height int) (frame.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if width > 0 && height > 0 {
		aspect := float32(width) / float32(height)
		if s.cam.Aspect() != aspect {
			s.cam.SetAspect(aspect)
		}
	}
	return frame.New(width, height, s.cam, s.directional, s.points, s.items)
}

// indexOf returns the draw list index of an item, or -1. Callers hold s.mu.
func (s *scene) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.items, func(it mesh.DrawItem) bool { return it.ID() == id })
}

// pickRay unprojects a pixel into a world-space ray starting at the eye.
func pickRay(viewProj mgl32.Mat4, eye mgl32.Vec3, x, y, width, height int) (mgl32.Vec3, mgl32.Vec3, bool) {
	inv := viewProj.Inv()
	ndcX := 2*(float32(x)+0.5)/float32(width) - 1
	ndcY := 1 - 2*(float32(y)+0.5)/float32(height)

	p := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 0.5, 1})
	if p[3] == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	target := p.Vec3().Mul(1 / p[3])
	dir := target.Sub(eye)
	if dir.Len() == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return eye, dir.Normalize(), true
}

// rayBox intersects a ray with an axis-aligned box using the slab method and returns the
// entry distance. A ray starting inside the box hits at 0.
func rayBox(origin, dir, lo, hi mgl32.Vec3) (float32, bool) {
	tmin, tmax := float32(0), math32.Inf(1)
	for k := 0; k < 3; k++ {
		if dir[k] == 0 {
			if origin[k] < lo[k] || origin[k] > hi[k] {
				return 0, false
			}
			continue
		}
		t1 := (lo[k] - origin[k]) / dir[k]
		t2 := (hi[k] - origin[k]) / dir[k]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
