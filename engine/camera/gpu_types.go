package camera

import (
	"unsafe"

	"github.com/prism3d/prism/common"
)

// GPUCameraUniform is the GPU-aligned representation of the camera uniform
// buffer: the combined view-projection matrix and the world-space camera
// position (80 bytes, WGSL aligned).
type GPUCameraUniform struct {
	ViewProj [16]float32 // offset  0: combined view-projection matrix, column major
	Position [3]float32  // offset 64: world-space camera position
	_        float32     // offset 76: padding to 80 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer
// suitable for GPU upload.
//
// Returns:
//   - []byte: the uniform bytes in field order, little-endian float32s.
func (g *GPUCameraUniform) Marshal() []byte {
	return common.StructToBytes(g)
}
