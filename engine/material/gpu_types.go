package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialParamsSource is the canonical WGSL definition of the MaterialParams struct.
// Matches GPUMaterialParams layout exactly (16 bytes).
//
//go:embed assets/material_params.wgsl
var GPUMaterialParamsSource string

// GPUMaterialParams is the GPU-aligned uniform carrying the scalar material properties.
// Textures are bound separately.
// Size: 16 bytes (one f32 padded to vec4 alignment).
type GPUMaterialParams struct {
	Shininess float32 // offset 0
	_pad      [3]float32
}

// NewGPUMaterialParams builds the uniform for a material.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - GPUMaterialParams: the GPU-aligned representation
func NewGPUMaterialParams(m Material) GPUMaterialParams {
	return GPUMaterialParams{Shininess: m.Shininess()}
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Shininess))
	return buf
}
