package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithDiffuse is an option builder that sets the albedo texture of the material.
// A nil texture keeps the default white texture.
//
// Parameters:
//   - tex: the diffuse texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuse(tex *Texture) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = tex
	}
}

// WithDiffuseColor is an option builder that sets a solid albedo color.
//
// Parameters:
//   - r, g, b: the color components in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuseColor(r, g, b float32) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = NewSolidTexture(r, g, b, 1)
	}
}

// WithSpecular is an option builder that sets the specular mask texture of the material.
//
// Parameters:
//   - tex: the specular texture, red channel used as intensity
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecular(tex *Texture) MaterialBuilderOption {
	return func(m *material) {
		m.specular = tex
	}
}

// WithSpecularIntensity is an option builder that sets a uniform specular intensity.
//
// Parameters:
//   - intensity: the specular intensity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecularIntensity(intensity float32) MaterialBuilderOption {
	return func(m *material) {
		m.specular = NewSolidTexture(intensity, intensity, intensity, 1)
	}
}

// WithShininess is an option builder that sets the Blinn-Phong exponent used by the
// forward pass. Values below 1 are raised to 1.
//
// Parameters:
//   - shininess: the exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = shininess
	}
}
