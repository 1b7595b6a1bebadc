package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/prism3d/prism/engine/renderer/shader"
)

// BuilderOption is a functional option used to configure a Pipeline during construction.
type BuilderOption func(*pipeline)

// WithLabel sets the debug label applied to the pipeline and the GPU objects
// it creates.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - BuilderOption: a function that sets the label for this pipeline
func WithLabel(label string) BuilderOption {
	return func(p *pipeline) {
		p.label = label
	}
}

// WithShader sets the initial shader for this pipeline. Required.
//
// Parameters:
//   - s: the shader to build the pipeline with
//
// Returns:
//   - BuilderOption: a function that sets the shader for this pipeline
func WithShader(s shader.Shader) BuilderOption {
	return func(p *pipeline) {
		p.shader = s
	}
}

// WithColorFormat sets the color attachment format. Defaults to
// wgpu.TextureFormatBGRA8UnormSrgb.
//
// Parameters:
//   - format: the color attachment texture format
//
// Returns:
//   - BuilderOption: a function that sets the color format for this pipeline
func WithColorFormat(format wgpu.TextureFormat) BuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
	}
}

// WithDepthFormat enables depth testing against an attachment of the given
// format. No depth state is configured when this option is omitted.
//
// Parameters:
//   - format: the depth attachment texture format
//
// Returns:
//   - BuilderOption: a function that sets the depth format for this pipeline
func WithDepthFormat(format wgpu.TextureFormat) BuilderOption {
	return func(p *pipeline) {
		p.depthFormat = &format
	}
}

// WithVertexLayouts sets the vertex buffer layouts the pipeline consumes.
//
// Parameters:
//   - layouts: one layout per vertex buffer slot
//
// Returns:
//   - BuilderOption: a function that sets the vertex layouts for this pipeline
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) BuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// WithTopology sets the primitive topology. Defaults to
// wgpu.PrimitiveTopologyTriangleList.
//
// Parameters:
//   - topology: the primitive topology
//
// Returns:
//   - BuilderOption: a function that sets the topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) BuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}
