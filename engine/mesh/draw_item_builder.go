package mesh

import (
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawItemBuilderOption is a functional option for configuring a DrawItem via NewDrawItem.
type DrawItemBuilderOption func(*drawItemImpl)

// WithName is an option builder that sets the display name of the item.
//
// Parameters:
//   - name: the item name
//
// Returns:
//   - DrawItemBuilderOption: a function that applies the name option to an item
func WithName(name string) DrawItemBuilderOption {
	return func(d *drawItemImpl) {
		d.name = name
	}
}

// WithMaterial is an option builder that sets the surface material.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - DrawItemBuilderOption: a function that applies the material option to an item
func WithMaterial(m material.Material) DrawItemBuilderOption {
	return func(d *drawItemImpl) {
		d.material = m
	}
}

// WithTransform is an option builder that sets the full transform.
//
// Parameters:
//   - t: the transform
//
// Returns:
//   - DrawItemBuilderOption: a function that applies the transform option to an item
func WithTransform(t Transform) DrawItemBuilderOption {
	return func(d *drawItemImpl) {
		d.transform = t
	}
}

// WithPosition is an option builder that sets the world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - DrawItemBuilderOption: a function that applies the position option to an item
func WithPosition(x, y, z float32) DrawItemBuilderOption {
	return func(d *drawItemImpl) {
		d.transform.Position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation is an option builder that sets the Euler rotation in radians.
//
// Parameters:
//   - x, y, z: rotation about each axis
//
// Returns:
//   - DrawItemBuilderOption: a function that applies the rotation option to an item
func WithRotation(x, y, z float32) DrawItemBuilderOption {
	return func(d *drawItemImpl) {
		d.transform.Rotation = mgl32.Vec3{x, y, z}
	}
}

// WithScale is an option builder that sets the per-axis scale.
//
// Parameters:
//   - x, y, z: scale factors
//
// Returns:
//   - DrawItemBuilderOption: a function that applies the scale option to an item
func WithScale(x, y, z float32) DrawItemBuilderOption {
	return func(d *drawItemImpl) {
		d.transform.Scale = mgl32.Vec3{x, y, z}
	}
}

// WithSelected is an option builder that sets the initial selection flag.
//
// Parameters:
//   - selected: true to highlight the item
//
// Returns:
//   - DrawItemBuilderOption: a function that applies the selection option to an item
func WithSelected(selected bool) DrawItemBuilderOption {
	return func(d *drawItemImpl) {
		d.selected = selected
	}
}

// WithShadingMode is an option builder that selects the shading pass for the item.
//
// Parameters:
//   - mode: deferred or forward
//
// Returns:
//   - DrawItemBuilderOption: a function that applies the shading mode option to an item
func WithShadingMode(mode ShadingMode) DrawItemBuilderOption {
	return func(d *drawItemImpl) {
		d.shadingMode = mode
	}
}

// WithCastsShadow is an option builder that sets whether the shadow pass renders the item.
//
// Parameters:
//   - casts: true to render into the shadow map
//
// Returns:
//   - DrawItemBuilderOption: a function that applies the shadow option to an item
func WithCastsShadow(casts bool) DrawItemBuilderOption {
	return func(d *drawItemImpl) {
		d.castsShadow = casts
	}
}
