package mesh

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/umbra/common"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches GPUVertex layout exactly (32 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 32 bytes (no padding required).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 32)
	off := common.PutFloat32s(buf, g.Position[:]...)
	off += common.PutFloat32s(buf[off:], g.Normal[:]...)
	common.PutFloat32s(buf[off:], g.TexCoord[:]...)
	return buf
}

// GPUDrawUniformSource is the canonical WGSL definition of the DrawUniform struct.
// Matches GPUDrawUniform layout exactly (128 bytes).
//
//go:embed assets/draw_uniform.wgsl
var GPUDrawUniformSource string

// GPUDrawUniform is the GPU-aligned per-draw uniform shared by the geometry, shadow and
// forward passes. The selection flag is a per-draw scalar; it reaches every fragment of
// the draw unchanged.
// Size: 128 bytes.
//
// Layout:
//
//	mat4x4<f32> model          (64 bytes, offset 0)
//	mat3x3<f32> normal_matrix  (48 bytes, offset 64, columns padded to vec4)
//	f32         selected       ( 4 bytes, offset 112)
//	vec3 pad                   (12 bytes, offset 116)
type GPUDrawUniform struct {
	Model        [16]float32
	NormalMatrix [12]float32
	Selected     float32
	_pad         [3]float32
}

// NewGPUDrawUniform builds the per-draw uniform from an item snapshot.
//
// Parameters:
//   - s: the draw item snapshot
//
// Returns:
//   - GPUDrawUniform: the GPU-aligned representation
func NewGPUDrawUniform(s Snapshot) GPUDrawUniform {
	u := GPUDrawUniform{Model: s.Model}
	for c := 0; c < 3; c++ {
		col := s.Normal.Col(c)
		copy(u.NormalMatrix[c*4:c*4+3], col[:])
	}
	if s.Selected {
		u.Selected = 1
	}
	return u
}

// Size returns the size of the GPUDrawUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUDrawUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDrawUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload.
func (g *GPUDrawUniform) Marshal() []byte {
	buf := make([]byte, 128)
	off := common.PutFloat32s(buf, g.Model[:]...)
	off += common.PutFloat32s(buf[off:], g.NormalMatrix[:]...)
	common.PutFloat32s(buf[off:], g.Selected)
	return buf
}
