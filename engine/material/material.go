package material

import (
	"errors"

	"github.com/google/uuid"
)

// DefaultShininess is the Blinn-Phong exponent used when none is configured. The deferred
// lighting pass always shades with this exponent.
const DefaultShininess float32 = 16

// ErrInvalidTexture is returned when texture dimensions and data do not agree.
var ErrInvalidTexture = errors.New("invalid texture dimensions")

// material is the implementation of the Material interface.
type material struct {
	id        uuid.UUID
	name      string
	diffuse   *Texture
	specular  *Texture
	shininess float32
}

// Material defines the interface for a surface material: a diffuse (albedo) texture, a
// specular mask texture whose red channel is the specular intensity, and a shininess
// exponent used by the forward pass.
//
// Materials are immutable once built, so they can be shared between draw items and read
// from any number of render workers without locking.
type Material interface {
	// ID returns the unique handle of this material.
	//
	// Returns:
	//   - uuid.UUID: the material id
	ID() uuid.UUID

	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Diffuse returns the albedo texture. Never nil.
	//
	// Returns:
	//   - *Texture: the diffuse texture
	Diffuse() *Texture

	// Specular returns the specular mask texture. Only the red channel is read. Never nil.
	//
	// Returns:
	//   - *Texture: the specular texture
	Specular() *Texture

	// Shininess returns the Blinn-Phong exponent, at least 1.
	//
	// Returns:
	//   - float32: the exponent
	Shininess() float32
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Without options the material is white with a half-intensity specular mask.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		id:        uuid.New(),
		shininess: DefaultShininess,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.diffuse == nil {
		m.diffuse = NewSolidTexture(1, 1, 1, 1)
	}
	if m.specular == nil {
		m.specular = NewSolidTexture(0.5, 0.5, 0.5, 1)
	}
	m.shininess = max(m.shininess, 1)
	return m
}

func (m *material) ID() uuid.UUID {
	return m.id
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Diffuse() *Texture {
	return m.diffuse
}

func (m *material) Specular() *Texture {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}
