package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// PutFloat32s writes the given values into buf as consecutive little-endian float32 words.
// The caller must size buf to hold at least 4*len(values) bytes.
//
// Parameters:
//   - buf: destination byte slice
//   - values: the float32 values to write in order
//
// Returns:
//   - int: the number of bytes written
func PutFloat32s(buf []byte, values ...float32) int {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return len(values) * 4
}

// Perspective creates a right-handed perspective projection matrix that maps view-space
// depth into the WebGPU clip range [0, 1] (near plane to 0, far plane to 1).
// mgl32.Perspective targets the OpenGL [-1, 1] range and is not used for that reason.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// Ortho creates a right-handed orthographic projection matrix with WebGPU clip depth [0, 1].
//
// Parameters:
//   - left, right: horizontal extents of the view volume
//   - bottom, top: vertical extents of the view volume
//   - near, far: depth extents of the view volume
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Ortho(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	out := mgl32.Ident4()
	out[0] = 2 * rl
	out[5] = 2 * tb
	out[10] = -fn
	out[12] = -(right + left) * rl
	out[13] = -(top + bottom) * tb
	out[14] = -near * fn
	return out
}

// BuildModelMatrix constructs a model matrix from position, Euler rotation, and scale.
// The composition is T * Ry * Rx * Rz * S, so scale applies first and translation last.
//
// Parameters:
//   - position: translation in world space
//   - rotation: rotation angles in radians around the X, Y and Z axes
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func BuildModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(mgl32.HomogRotate3DY(rotation[1])).
		Mul4(mgl32.HomogRotate3DX(rotation[0])).
		Mul4(mgl32.HomogRotate3DZ(rotation[2])).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of a model matrix, which
// transforms normals correctly under non-uniform scale. A singular model matrix yields
// the zero matrix.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	if model.Det() == 0 {
		return mgl32.Mat3{}
	}
	return mgl32.Mat4Normal(model)
}

// TransformPoint multiplies a point (w = 1) by m without a perspective divide.
//
// Parameters:
//   - m: the transform
//   - p: the point
//
// Returns:
//   - mgl32.Vec4: the homogeneous result
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec4 {
	return m.Mul4x1(p.Vec4(1))
}
