package light

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for the single sun-like source of a frame. It is the only light that casts
	// shadows and it is not attenuated with distance.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Point lights attenuate with distance and never cast shadows.
	LightTypePoint
)

// String returns a short name for the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	default:
		return "unknown"
	}
}

// Params is the plain value of a light at one instant. Renderers consume Params copies
// taken at frame start so that edits made while a frame is in flight land in the next frame.
type Params struct {
	Type      LightType
	Position  mgl32.Vec3 // world space, point lights only
	Direction mgl32.Vec3 // unit vector the light travels along, directional lights only
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3

	// Attenuation coefficients: 1 / (Constant + Linear*d + Quadratic*d*d).
	// At least one must be > 0; the renderer does not re-check this.
	Constant  float32
	Linear    float32
	Quadratic float32
}

// ToLight returns the direction from a surface towards the light, the L vector of the
// lighting equations. For directional lights this is the negated travel direction; for
// point lights it is the normalized vector from surface to the light position.
//
// Parameters:
//   - surface: the world-space surface position
//
// Returns:
//   - mgl32.Vec3: the unit vector towards the light (zero if surface is the light position)
func (p Params) ToLight(surface mgl32.Vec3) mgl32.Vec3 {
	if p.Type == LightTypeDirectional {
		return p.Direction.Mul(-1)
	}
	d := p.Position.Sub(surface)
	if d.LenSqr() == 0 {
		return mgl32.Vec3{}
	}
	return d.Normalize()
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.RWMutex

	id           uuid.UUID
	lightType    LightType
	position     mgl32.Vec3
	direction    mgl32.Vec3
	ambient      mgl32.Vec3
	diffuse      mgl32.Vec3
	specular     mgl32.Vec3
	constant     float32
	linear       float32
	quadratic    float32
	castsShadows bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are editor-owned entities; the renderer never holds a Light across frames.
// Instead it reads a Params value per light when a frame is assembled. All accessors
// and setters are safe for concurrent use.
type Light interface {
	// ID returns the unique handle of this light.
	//
	// Returns:
	//   - uuid.UUID: the light id
	ID() uuid.UUID

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional or point)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Direction returns the normalized direction the light travels along.
	// Meaningless for point lights.
	//
	// Returns:
	//   - mgl32.Vec3: normalized direction as (x, y, z)
	Direction() mgl32.Vec3

	// Ambient returns the ambient color term.
	Ambient() mgl32.Vec3

	// Diffuse returns the diffuse color term.
	Diffuse() mgl32.Vec3

	// Specular returns the specular color term.
	Specular() mgl32.Vec3

	// Attenuation returns the constant, linear and quadratic falloff coefficients.
	// Directional lights report (1, 0, 0).
	//
	// Returns:
	//   - constant, linear, quadratic: the coefficients
	Attenuation() (constant, linear, quadratic float32)

	// CastsShadows returns whether the shadow pass renders depth for this light.
	// Only directional lights honour this flag.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// Params returns a consistent copy of every light property.
	//
	// Returns:
	//   - Params: the light value
	Params() Params

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColors sets the ambient, diffuse and specular terms together.
	//
	// Parameters:
	//   - ambient, diffuse, specular: RGB color terms
	SetColors(ambient, diffuse, specular mgl32.Vec3)

	// SetAttenuation sets the falloff coefficients.
	//
	// Parameters:
	//   - constant, linear, quadratic: the coefficients
	SetAttenuation(constant, linear, quadratic float32)

	// SetCastsShadows sets whether the light is eligible for shadow mapping.
	//
	// Parameters:
	//   - castsShadows: true to enable shadow casting
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// Default point light terms, matching the editor's stock light.
var (
	DefaultPointAmbient  = mgl32.Vec3{0.2, 0.2, 0.2}
	DefaultPointDiffuse  = mgl32.Vec3{1, 1, 1}
	DefaultPointSpecular = mgl32.Vec3{1, 1, 1}
)

// Default point light attenuation (roughly a 50 unit reach).
const (
	DefaultConstant  float32 = 1.0
	DefaultLinear    float32 = 0.09
	DefaultQuadratic float32 = 0.032
)

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional or point)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.RWMutex{},
		id:        uuid.New(),
		lightType: lightType,
		direction: mgl32.Vec3{0, -1, 0},
		ambient:   DefaultPointAmbient,
		diffuse:   DefaultPointDiffuse,
		specular:  DefaultPointSpecular,
		constant:  DefaultConstant,
		linear:    DefaultLinear,
		quadratic: DefaultQuadratic,
	}
	if lightType == LightTypeDirectional {
		l.ambient = mgl32.Vec3{0.1, 0.1, 0.1}
		l.diffuse = mgl32.Vec3{0.8, 0.8, 0.8}
		l.specular = mgl32.Vec3{0.5, 0.5, 0.5}
		l.constant, l.linear, l.quadratic = 1, 0, 0
		l.castsShadows = true
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) ID() uuid.UUID {
	return l.id
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.direction
}

func (l *lightImpl) Ambient() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ambient
}

func (l *lightImpl) Diffuse() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.diffuse
}

func (l *lightImpl) Specular() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.specular
}

func (l *lightImpl) Attenuation() (constant, linear, quadratic float32) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.constant, l.linear, l.quadratic
}

func (l *lightImpl) CastsShadows() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.castsShadows
}

func (l *lightImpl) Params() Params {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Params{
		Type:      l.lightType,
		Position:  l.position,
		Direction: l.direction,
		Ambient:   l.ambient,
		Diffuse:   l.diffuse,
		Specular:  l.specular,
		Constant:  l.constant,
		Linear:    l.linear,
		Quadratic: l.quadratic,
	}
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetColors(ambient, diffuse, specular mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ambient, l.diffuse, l.specular = ambient, diffuse, specular
}

func (l *lightImpl) SetAttenuation(constant, linear, quadratic float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.constant, l.linear, l.quadratic = constant, linear, quadratic
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.castsShadows = castsShadows
}
