package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/umbra/engine/camera"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/Carmen-Shannon/umbra/engine/mesh"
)

// NewDemoScene builds the editor's start-up scene: a 10x10 ground plane two units below
// the origin, a cube at (5, 0, 0), a selected cube at the origin, one point light at
// (-5, 0, 0) and an oblique directional light casting shadows.
//
// Parameters:
//   - cam: the scene camera
//   - options: variadic list of SceneBuilderOption functions applied after the demo content
//
// Returns:
//   - Scene: the demo scene
//   - error: an error if the point light cannot be registered
func NewDemoScene(cam camera.Camera, options ...SceneBuilderOption) (Scene, error) {
	ground := material.NewMaterial(
		material.WithName("ground"),
		material.WithDiffuseColor(0.55, 0.55, 0.5),
		material.WithSpecularIntensity(0.1),
	)
	crate := material.NewMaterial(
		material.WithName("crate"),
		material.WithDiffuseColor(0.8, 0.35, 0.2),
		material.WithSpecularIntensity(0.5),
		material.WithShininess(32),
	)

	points := light.NewPointLightSet(light.MaxPointLights)
	if err := points.Add(light.NewLight(light.LightTypePoint, light.WithPosition(-5, 0, 0))); err != nil {
		return nil, fmt.Errorf("demo scene: %w", err)
	}

	cube := mesh.Cube(1, 1, 1)
	opts := []SceneBuilderOption{
		WithItems(
			mesh.NewDrawItem(mesh.Plane(1, 1),
				mesh.WithName("Ground"),
				mesh.WithMaterial(ground),
				mesh.WithPosition(0, -2, 0),
				mesh.WithScale(10, 1, 10),
			),
			mesh.NewDrawItem(cube,
				mesh.WithName("Cube"),
				mesh.WithMaterial(crate),
				mesh.WithPosition(5, 0, 0),
			),
			mesh.NewDrawItem(cube,
				mesh.WithName("Selected Cube"),
				mesh.WithMaterial(crate),
				mesh.WithSelected(true),
			),
		),
		WithDirectional(light.NewLight(light.LightTypeDirectional, light.WithDirection(-0.3, -1, -0.2))),
		WithPointLights(points),
		WithSpawnMaterial(crate),
	}
	return NewScene("demo", cam, append(opts, options...)...), nil
}

// NewDemoCamera returns a camera framing the demo scene from above and in front of the
// origin, with its aspect ratio set for the given viewport.
//
// Parameters:
//   - width, height: the viewport size in pixels
//
// Returns:
//   - camera.Camera: the camera
func NewDemoCamera(width, height int) camera.Camera {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return camera.NewCamera(
		camera.WithPosition(0, 3, 12),
		camera.WithYawPitch(camera.DefaultYaw, -12),
		camera.WithAspect(aspect),
	)
}
