package viewer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// BuilderOption is a functional option used to configure a Viewer during construction.
type BuilderOption func(*viewer)

type colorFormatOption struct {
	set    bool
	format wgpu.TextureFormat
}

type depthFormatOption struct {
	set    bool
	format wgpu.TextureFormat
}

// WithShaderName sets the debug name used for compiled shaders and the
// pipeline.
//
// Parameters:
//   - name: the debug name
//
// Returns:
//   - BuilderOption: a function that sets the shader name for this viewer
func WithShaderName(name string) BuilderOption {
	return func(v *viewer) {
		v.shaderName = name
	}
}

// WithShaderSource replaces the built-in initial shader source. The initial
// shader defines the pipeline's bind group layout contract.
//
// Parameters:
//   - source: the WGSL source to start with
//
// Returns:
//   - BuilderOption: a function that sets the initial source for this viewer
func WithShaderSource(source string) BuilderOption {
	return func(v *viewer) {
		v.initialSource = source
	}
}

// WithColorFormat sets the color attachment format for the viewer's
// pipeline.
//
// Parameters:
//   - format: the color attachment texture format
//
// Returns:
//   - BuilderOption: a function that sets the color format for this viewer
func WithColorFormat(format wgpu.TextureFormat) BuilderOption {
	return func(v *viewer) {
		v.colorFormat = colorFormatOption{set: true, format: format}
	}
}

// WithDepthFormat enables depth testing on the viewer's pipeline.
//
// Parameters:
//   - format: the depth attachment texture format
//
// Returns:
//   - BuilderOption: a function that sets the depth format for this viewer
func WithDepthFormat(format wgpu.TextureFormat) BuilderOption {
	return func(v *viewer) {
		v.depthFormat = depthFormatOption{set: true, format: format}
	}
}
