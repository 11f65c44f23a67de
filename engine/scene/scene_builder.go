package scene

import (
	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLogger sets the logger for editor actions such as spawning.
//
// Parameters:
//   - logger: the logger, ignored if nil
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger common.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithItems adds initial draw items to the scene.
//
// Parameters:
//   - items: the items to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithItems(items ...mesh.DrawItem) SceneBuilderOption {
	return func(s *scene) {
		for _, it := range items {
			if it != nil && s.indexOf(it.ID()) < 0 {
				s.items = append(s.items, it)
			}
		}
	}
}

// WithDirectional replaces the default directional light. Lights of another type are ignored.
//
// Parameters:
//   - l: the directional light
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithDirectional(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		if l != nil && l.Type() == light.LightTypeDirectional {
			s.directional = l
		}
	}
}

// WithPointLights replaces the scene's point light set.
//
// Parameters:
//   - set: the point light set
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPointLights(set *light.PointLightSet) SceneBuilderOption {
	return func(s *scene) {
		if set != nil {
			s.points = set
		}
	}
}

// WithSpawnDistance sets how far in front of the camera SpawnCube places cubes.
//
// Parameters:
//   - distance: the distance in world units, non-positive values keep the default
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSpawnDistance(distance float32) SceneBuilderOption {
	return func(s *scene) {
		if distance > 0 {
			s.spawnDistance = distance
		}
	}
}

// WithSpawnMaterial sets the material given to spawned cubes.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSpawnMaterial(m material.Material) SceneBuilderOption {
	return func(s *scene) {
		s.spawnMaterial = m
	}
}
