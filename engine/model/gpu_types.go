package model

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/prism3d/prism/common"
)

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// All fields are tightly packed float32s (56 bytes, no padding), matching
// the vertex buffer layout returned by VertexBufferLayout.
type GPUVertex struct {
	Position  [3]float32 // offset  0: vertex position in model space
	TexCoord  [2]float32 // offset 12: UV texture coordinate
	Normal    [3]float32 // offset 20: vertex normal for lighting
	Tangent   [3]float32 // offset 32: tangent vector for normal mapping
	Bitangent [3]float32 // offset 44: bitangent vector for normal mapping
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: the vertex bytes in field order, little-endian float32s.
func (g *GPUVertex) Marshal() []byte {
	return common.StructToBytes(g)
}

// VertexBufferLayout returns the per-vertex buffer layout consumed at shader
// locations 0 through 4.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-vertex layout for slot 0.
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(GPUVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 1, Offset: 12, Format: wgpu.VertexFormatFloat32x2},
			{ShaderLocation: 2, Offset: 20, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 3, Offset: 32, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 4, Offset: 44, Format: wgpu.VertexFormatFloat32x3},
		},
	}
}

// GPUInstanceData is the GPU-aligned per-instance record: a column-major
// model matrix followed by its 3x3 normal matrix (100 bytes, no padding).
type GPUInstanceData struct {
	Model  [16]float32 // offset  0: model-to-world transform, column major
	Normal [9]float32  // offset 64: inverse-transpose upper-left 3x3, column major
}

// Size returns the size of the GPUInstanceData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUInstanceData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstanceData struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: the instance bytes in field order, little-endian float32s.
func (g *GPUInstanceData) Marshal() []byte {
	return common.StructToBytes(g)
}

// InstanceBufferLayout returns the per-instance buffer layout consumed at
// shader locations 5 through 11: four vec4 columns of the model matrix and
// three vec3 columns of the normal matrix.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-instance layout for slot 1.
func InstanceBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(GPUInstanceData{})),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{ShaderLocation: 5, Offset: 0, Format: wgpu.VertexFormatFloat32x4},
			{ShaderLocation: 6, Offset: 16, Format: wgpu.VertexFormatFloat32x4},
			{ShaderLocation: 7, Offset: 32, Format: wgpu.VertexFormatFloat32x4},
			{ShaderLocation: 8, Offset: 48, Format: wgpu.VertexFormatFloat32x4},
			{ShaderLocation: 9, Offset: 64, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 10, Offset: 76, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 11, Offset: 88, Format: wgpu.VertexFormatFloat32x3},
		},
	}
}
