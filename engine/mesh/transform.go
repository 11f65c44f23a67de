package mesh

import (
	"github.com/Carmen-Shannon/umbra/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a decomposed placement of a draw item in the world.
type Transform struct {
	// Position is the world-space translation.
	Position mgl32.Vec3

	// Rotation holds Euler angles in radians, applied Z first, then X, then Y.
	Rotation mgl32.Vec3

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform at the origin with unit scale and no rotation.
func IdentityTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes the model matrix T * Ry * Rx * Rz * S.
//
// Returns:
//   - mgl32.Mat4: the model-to-world matrix
func (t Transform) Matrix() mgl32.Mat4 {
	return common.BuildModelMatrix(t.Position, t.Rotation, t.Scale)
}
