// Package device exposes the GPU device context as an explicit value passed
// into every operation that allocates GPU resources. Nothing in the engine
// reaches for ambient/global device state: shader compilation, pipeline
// creation, and buffer synchronization all take a Device (and, where they
// upload, a Queue) parameter.
//
// The concrete implementation wraps a WebGPU device (see NewWGPUDevice);
// MockDevice provides an in-memory stand-in for tests.
package device

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderModule is an opaque compiled GPU shader module handle.
type ShaderModule interface {
	// Release frees the underlying GPU object.
	Release()
}

// Buffer is an opaque GPU buffer handle.
type Buffer interface {
	// Size returns the buffer's byte size as fixed at creation.
	//
	// Returns:
	//   - uint64: the buffer size in bytes
	Size() uint64

	// Release frees the underlying GPU object.
	Release()
}

// BindGroupLayout is an opaque GPU bind group layout handle.
type BindGroupLayout interface {
	Release()
}

// PipelineLayout is an opaque GPU pipeline layout handle.
type PipelineLayout interface {
	Release()
}

// RenderPipeline is an opaque GPU render pipeline handle.
type RenderPipeline interface {
	Release()
}

// VertexState describes the vertex stage of a render pipeline.
type VertexState struct {
	Module     ShaderModule
	EntryPoint string
	Buffers    []wgpu.VertexBufferLayout
}

// FragmentState describes the fragment stage of a render pipeline.
type FragmentState struct {
	Module      ShaderModule
	EntryPoint  string
	ColorFormat wgpu.TextureFormat
}

// RenderPipelineDescriptor carries everything needed to create one render
// pipeline object against an already-created pipeline layout.
type RenderPipelineDescriptor struct {
	Label    string
	Layout   PipelineLayout
	Vertex   VertexState
	Fragment FragmentState
	Topology wgpu.PrimitiveTopology
	// DepthFormat enables the depth/stencil attachment when non-nil.
	DepthFormat *wgpu.TextureFormat
}

// Device creates GPU resources. All methods execute synchronously on the
// calling goroutine; pipeline creation in particular may block for
// milliseconds while the driver compiles pipeline state.
type Device interface {
	// CreateShaderModule compiles WGSL source into a GPU shader module.
	//
	// Parameters:
	//   - label: debug label for the module
	//   - source: WGSL source text
	//
	// Returns:
	//   - ShaderModule: the compiled module handle
	//   - error: non-nil if the GPU API rejected the module
	CreateShaderModule(label, source string) (ShaderModule, error)

	// CreateBindGroupLayout creates a GPU bind group layout from a descriptor.
	//
	// Parameters:
	//   - desc: the bind group layout descriptor
	//
	// Returns:
	//   - BindGroupLayout: the created layout handle
	//   - error: non-nil if creation failed
	CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (BindGroupLayout, error)

	// CreatePipelineLayout creates a GPU pipeline layout from a sequence of
	// bind group layouts (positional: slice index = group index).
	//
	// Parameters:
	//   - label: debug label for the layout
	//   - groups: bind group layouts ordered by group index
	//
	// Returns:
	//   - PipelineLayout: the created layout handle
	//   - error: non-nil if creation failed
	CreatePipelineLayout(label string, groups []BindGroupLayout) (PipelineLayout, error)

	// CreateRenderPipeline creates a render pipeline object. Failure here is
	// a configuration error (mismatched formats or vertex layouts), not a
	// transient condition; callers treat it as fatal to the operation that
	// triggered it.
	//
	// Parameters:
	//   - desc: the pipeline descriptor
	//
	// Returns:
	//   - RenderPipeline: the created pipeline handle
	//   - error: non-nil if the GPU API rejected the descriptor
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateBuffer allocates a GPU buffer of the given size.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - size: byte size
	//   - usage: buffer usage flags
	//
	// Returns:
	//   - Buffer: the allocated buffer handle
	//   - error: non-nil if allocation failed
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error)
}

// Queue uploads data to GPU resources.
type Queue interface {
	// WriteBuffer schedules a write of data into buf at the given byte offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: byte offset into the buffer
	//   - data: the bytes to write
	WriteBuffer(buf Buffer, offset uint64, data []byte)
}
