package light

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MaxPointLights is the fixed capacity of the point light array in the lighting shaders.
// The WGSL sources declare array<PointLight, MAX_POINT_LIGHTS> with this value, so the
// registry refuses lights beyond it rather than silently growing GPU storage.
const MaxPointLights = 128

var (
	// ErrLightCapacity is returned by PointLightSet.Add when the set already holds MaxPointLights lights.
	ErrLightCapacity = errors.New("point light capacity reached")

	// ErrNotPointLight is returned by PointLightSet.Add for a light that is not LightTypePoint.
	ErrNotPointLight = errors.New("light is not a point light")
)

// PointLightSet is an ordered, bounded collection of point lights. Capacity is checked
// when a light is registered, so every consumer can rely on Len() <= Cap().
// It is safe for concurrent use.
type PointLightSet struct {
	mu       sync.RWMutex
	capacity int
	lights   []Light
}

// NewPointLightSet creates an empty set. A capacity outside (0, MaxPointLights] is
// clamped to MaxPointLights.
//
// Parameters:
//   - capacity: maximum number of lights the set accepts
//
// Returns:
//   - *PointLightSet: the empty set
func NewPointLightSet(capacity int) *PointLightSet {
	if capacity <= 0 || capacity > MaxPointLights {
		capacity = MaxPointLights
	}
	return &PointLightSet{
		capacity: capacity,
		lights:   make([]Light, 0, capacity),
	}
}

// Add appends a point light. Adding a light that is already present is a no-op.
//
// Parameters:
//   - l: the point light to register
//
// Returns:
//   - error: ErrNotPointLight for other light types, ErrLightCapacity when full
func (s *PointLightSet) Add(l Light) error {
	if l.Type() != LightTypePoint {
		return fmt.Errorf("add light %s: %w", l.ID(), ErrNotPointLight)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(l.ID()) >= 0 {
		return nil
	}
	if len(s.lights) >= s.capacity {
		return fmt.Errorf("add light %s: %w (%d)", l.ID(), ErrLightCapacity, s.capacity)
	}
	s.lights = append(s.lights, l)
	return nil
}

// Remove deletes the light with the given id, preserving the order of the rest.
//
// Parameters:
//   - id: the light id
//
// Returns:
//   - bool: true if a light was removed
func (s *PointLightSet) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.lights = slices.Delete(s.lights, i, i+1)
	return true
}

// Len returns the number of registered lights.
func (s *PointLightSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lights)
}

// Cap returns the capacity the set was created with.
func (s *PointLightSet) Cap() int {
	return s.capacity
}

// Lights returns a copy of the registered light handles in insertion order.
func (s *PointLightSet) Lights() []Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

// Snapshot captures the current value of every light in insertion order. The set lock is
// held for the whole capture, so a frame never observes a half-applied add or remove.
//
// Returns:
//   - []Params: one entry per light, never longer than Cap()
func (s *PointLightSet) Snapshot() []Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Params, len(s.lights))
	for i, l := range s.lights {
		out[i] = l.Params()
	}
	return out
}

func (s *PointLightSet) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.lights, func(l Light) bool { return l.ID() == id })
}
