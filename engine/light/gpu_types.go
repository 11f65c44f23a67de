package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPULightsSource is the canonical WGSL definition of the DirectionalLight, PointLight and
// Lights structs. Lights matches the buffer produced by MarshalLightBuffer exactly; its
// array length is the MAX_POINT_LIGHTS constant injected by the shader pre-processor.
//
//go:embed assets/lights.wgsl
var GPULightsSource string

// GPUDirectionalLight is the GPU-aligned representation of the frame's directional light.
// Size: 64 bytes (four vec4<f32>, the w components are unused).
type GPUDirectionalLight struct {
	Direction [4]float32 // offset  0: travel direction
	Ambient   [4]float32 // offset 16
	Diffuse   [4]float32 // offset 32
	Specular  [4]float32 // offset 48
}

// Size returns the size of the GPUDirectionalLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUDirectionalLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDirectionalLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPUDirectionalLight) Marshal() []byte {
	buf := make([]byte, 64)
	off := common.PutFloat32s(buf, g.Direction[:]...)
	off += common.PutFloat32s(buf[off:], g.Ambient[:]...)
	off += common.PutFloat32s(buf[off:], g.Diffuse[:]...)
	common.PutFloat32s(buf[off:], g.Specular[:]...)
	return buf
}

// GPUPointLight is the GPU-aligned representation of a single point light.
// Size: 80 bytes (five vec4<f32>), which is also the array stride in the Lights uniform.
type GPUPointLight struct {
	Position    [4]float32 // offset  0
	Ambient     [4]float32 // offset 16
	Diffuse     [4]float32 // offset 32
	Specular    [4]float32 // offset 48
	Attenuation [4]float32 // offset 64: constant, linear, quadratic, unused
}

// Size returns the size of the GPUPointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUPointLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPointLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (g *GPUPointLight) Marshal() []byte {
	buf := make([]byte, 80)
	off := common.PutFloat32s(buf, g.Position[:]...)
	off += common.PutFloat32s(buf[off:], g.Ambient[:]...)
	off += common.PutFloat32s(buf[off:], g.Diffuse[:]...)
	off += common.PutFloat32s(buf[off:], g.Specular[:]...)
	common.PutFloat32s(buf[off:], g.Attenuation[:]...)
	return buf
}

// GPULightHeader sits between the directional light and the point light array.
// Size: 16 bytes (u32 count padded to vec4 alignment).
type GPULightHeader struct {
	PointCount uint32 // offset 0: number of valid entries in the point light array
	_pad       [3]uint32
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], h.PointCount)
	return buf
}

// LightBufferSize is the byte size of the Lights uniform: directional light, header and a
// full MaxPointLights array. The buffer is allocated once at this size and never resized.
const LightBufferSize = 64 + 16 + MaxPointLights*80

// ToGPUDirectionalLight converts directional light Params into its GPU layout.
//
// Parameters:
//   - p: the light value
//
// Returns:
//   - GPUDirectionalLight: the GPU-aligned representation
func ToGPUDirectionalLight(p Params) GPUDirectionalLight {
	return GPUDirectionalLight{
		Direction: vec4(p.Direction, 0),
		Ambient:   vec4(p.Ambient, 0),
		Diffuse:   vec4(p.Diffuse, 0),
		Specular:  vec4(p.Specular, 0),
	}
}

// ToGPUPointLight converts point light Params into its GPU layout.
//
// Parameters:
//   - p: the light value
//
// Returns:
//   - GPUPointLight: the GPU-aligned representation
func ToGPUPointLight(p Params) GPUPointLight {
	return GPUPointLight{
		Position:    vec4(p.Position, 1),
		Ambient:     vec4(p.Ambient, 0),
		Diffuse:     vec4(p.Diffuse, 0),
		Specular:    vec4(p.Specular, 0),
		Attenuation: [4]float32{p.Constant, p.Linear, p.Quadratic, 0},
	}
}

// ClampLightCount bounds a declared point light count to what is actually available and
// to the MaxPointLights ceiling. Negative counts clamp to zero.
//
// Parameters:
//   - declared: the requested count
//   - available: the number of populated entries
//
// Returns:
//   - int: min(declared, available, MaxPointLights), at least 0
func ClampLightCount(declared, available int) int {
	return max(0, min(declared, available, MaxPointLights))
}

// MarshalLightBuffer marshals the directional light and the point lights into a byte
// buffer of exactly LightBufferSize bytes. The layout is:
//
//	[GPUDirectionalLight (64)] [GPULightHeader (16)] [GPUPointLight × MaxPointLights (80 each)]
//
// Lights beyond MaxPointLights are dropped and unused slots are zero. PointLightSet
// already enforces the ceiling; the clamp here protects callers that assemble their
// own slices.
//
// Parameters:
//   - directional: the frame's directional light
//   - points: the point lights in draw order
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalLightBuffer(directional Params, points []Params) []byte {
	buf := make([]byte, LightBufferSize)

	dir := ToGPUDirectionalLight(directional)
	copy(buf[0:64], dir.Marshal())

	count := ClampLightCount(len(points), len(points))
	header := GPULightHeader{PointCount: uint32(count)}
	copy(buf[64:80], header.Marshal())

	offset := 80
	for _, p := range points[:count] {
		gpu := ToGPUPointLight(p)
		copy(buf[offset:offset+80], gpu.Marshal())
		offset += 80
	}
	return buf
}

// GPUShadowDataSource is the canonical WGSL definition of the ShadowData struct.
// Matches GPUShadowData layout exactly (96 bytes).
//
//go:embed assets/shadow_data.wgsl
var GPUShadowDataSource string

// GPUShadowData is the GPU-aligned representation of directional shadow data, shared by
// the shadow pass (light_vp only) and the lighting pass.
// Size: 96 bytes.
//
// Layout:
//
//	mat4x4<f32> light_vp       (64 bytes, offset 0)
//	vec2<f32>   texel_size     ( 8 bytes, offset 64)
//	f32         bias_scale     ( 4 bytes, offset 72)
//	f32         max_bias       ( 4 bytes, offset 76)
//	u32         bias_mode      ( 4 bytes, offset 80)
//	f32         fixed_bias     ( 4 bytes, offset 84)
//	vec2<f32>   _pad           ( 8 bytes, offset 88)
type GPUShadowData struct {
	LightVP   [16]float32 // orthographic view-projection from light's perspective
	TexelSize [2]float32  // 1.0 / shadow_map_resolution for PCF offsets
	BiasScale float32
	MaxBias   float32
	BiasMode  uint32
	FixedBias float32
	_pad      [2]float32
}

// NewGPUShadowData builds shadow data for a light view-projection and shadow map
// resolution using the package bias constants.
//
// Parameters:
//   - lightVP: the light view-projection matrix
//   - resolution: shadow map width and height in texels
//   - mode: the bias mode
//
// Returns:
//   - GPUShadowData: the populated struct
func NewGPUShadowData(lightVP mgl32.Mat4, resolution int, mode BiasMode) GPUShadowData {
	texel := 1.0 / float32(resolution)
	return GPUShadowData{
		LightVP:   lightVP,
		TexelSize: [2]float32{texel, texel},
		BiasScale: SlopeBiasScale,
		MaxBias:   MaxSlopeBias,
		BiasMode:  uint32(mode),
		FixedBias: FixedShadowBias,
	}
}

// Size returns the size of the GPUShadowData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (s *GPUShadowData) Size() int {
	return int(unsafe.Sizeof(*s))
}

// Marshal serializes the GPUShadowData struct into a byte buffer suitable for
// GPU uniform upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (s *GPUShadowData) Marshal() []byte {
	buf := make([]byte, 96)
	off := common.PutFloat32s(buf, s.LightVP[:]...)
	off += common.PutFloat32s(buf[off:], s.TexelSize[0], s.TexelSize[1], s.BiasScale, s.MaxBias)
	binary.LittleEndian.PutUint32(buf[off:], s.BiasMode)
	binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(s.FixedBias))
	return buf
}

// ComputeDirectionalLightVP builds an orthographic view-projection matrix for a
// directional light's shadow pass. The frustum is centered on the provided point
// (typically the center of the shadow casters) and looks along the light's direction.
//
// Parameters:
//   - lightDir: normalized direction the light travels (from light toward scene)
//   - center: world-space center of the shadow frustum
//   - halfExtent: half-size of the orthographic frustum in world units
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - mgl32.Mat4: the light view-projection matrix with WebGPU depth [0, 1]
func ComputeDirectionalLightVP(lightDir, center mgl32.Vec3, halfExtent, near, far float32) mgl32.Mat4 {
	// Position the "eye" behind the center, opposite the light direction,
	// so the whole [near, far] range straddles the center.
	eye := center.Sub(lightDir.Mul(far * 0.5))

	// Choose a stable up vector that isn't parallel to the light direction.
	// If the light points nearly straight up or down, use X-axis as up.
	up := mgl32.Vec3{0, 1, 0}
	if mgl32.Abs(lightDir[1]) > 0.99 {
		up = mgl32.Vec3{1, 0, 0}
	}

	view := mgl32.LookAtV(eye, center, up)
	proj := common.Ortho(-halfExtent, halfExtent, -halfExtent, halfExtent, near, far)
	return proj.Mul4(view)
}

func vec4(v mgl32.Vec3, w float32) [4]float32 {
	return [4]float32{v[0], v[1], v[2], w}
}
