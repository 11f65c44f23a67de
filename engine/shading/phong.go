package shading

import (
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Attenuation returns 1 / (constant + linear*d + quadratic*d²). The coefficients are not
// validated; callers guarantee a positive denominator.
//
// Parameters:
//   - constant, linear, quadratic: the falloff coefficients
//   - d: distance from the light
//
// Returns:
//   - float32: the attenuation factor
func Attenuation(constant, linear, quadratic, d float32) float32 {
	return 1 / (constant + linear*d + quadratic*d*d)
}

// Surface is the material side of the reflectance model at one point.
type Surface struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3 // unit length
	Albedo    mgl32.Vec3
	Specular  float32
	Shininess float32
}

// LightTerm evaluates ambient + shadow*(diffuse + specular) for one light:
//
//	ambient  = La * albedo
//	diffuse  = max(n·l, 0) * albedo * Ld
//	specular = max(n·h, 0)^shininess * specular * Ls,  h = normalize(l + v)
//
// Parameters:
//   - s: the surface
//   - l: unit direction from the surface to the light
//   - v: unit direction from the surface to the eye
//   - p: the light colors
//   - shadow: the lit fraction
//
// Returns:
//   - mgl32.Vec3: the reflected radiance
func LightTerm(s Surface, l, v mgl32.Vec3, p light.Params, shadow float32) mgl32.Vec3 {
	ambient := mul(p.Ambient, s.Albedo)

	diff := max(s.Normal.Dot(l), 0)
	diffuse := mul(p.Diffuse, s.Albedo).Mul(diff)

	var spec float32
	if h := l.Add(v); h.LenSqr() > 0 {
		spec = math32.Pow(max(s.Normal.Dot(h.Normalize()), 0), s.Shininess)
	}
	specular := p.Specular.Mul(spec * s.Specular)

	return ambient.Add(diffuse.Add(specular).Mul(shadow))
}

// PointTerm evaluates the attenuated, unshadowed light term of a point light. A light
// whose color terms are all zero contributes nothing, so zero-initialized slots of a
// fixed-size light array are inert.
//
// Parameters:
//   - s: the surface
//   - v: unit direction from the surface to the eye
//   - p: the point light
//
// Returns:
//   - mgl32.Vec3: the reflected radiance
func PointTerm(s Surface, v mgl32.Vec3, p light.Params) mgl32.Vec3 {
	if isDark(p) {
		return mgl32.Vec3{}
	}
	d := p.Position.Sub(s.Position).Len()
	att := Attenuation(p.Constant, p.Linear, p.Quadratic, d)
	return LightTerm(s, p.ToLight(s.Position), v, p, 1).Mul(att)
}

// ViewDir returns the unit vector from position towards eye, or zero if they coincide.
func ViewDir(eye, position mgl32.Vec3) mgl32.Vec3 {
	d := eye.Sub(position)
	if d.LenSqr() == 0 {
		return mgl32.Vec3{}
	}
	return d.Normalize()
}

func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func isDark(p light.Params) bool {
	var zero mgl32.Vec3
	return p.Ambient == zero && p.Diffuse == zero && p.Specular == zero
}
