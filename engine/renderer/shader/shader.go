// Package shader compiles WGSL source into an immutable, GPU-ready shader
// value: parsed entry points, an inferred bind group layout per group
// index, and the compiled shader module handle.
//
// Parsing and semantic checking are delegated to the naga front end; this
// package's own work is entry-point selection, per-stage visibility
// analysis, and mapping the module's annotated globals onto the engine's
// binding-layout model.
package shader

import (
	"github.com/gogpu/naga"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/renderer/bind_group_layout"
	"github.com/prism3d/prism/engine/renderer/device"
)

// ShaderType identifies a render pipeline stage.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	name               string
	source             string
	vertexEntryPoint   string
	fragmentEntryPoint string
	module             device.ShaderModule
	layout             []bind_group_layout.Group
}

// Shader is a compiled WGSL shader: entry points for both render stages,
// the compiled module handle, and the bind group layout inferred from the
// module's resource declarations. Immutable once constructed.
type Shader interface {
	// Name retrieves the shader's debug name.
	//
	// Returns:
	//   - string: the name given to Compile
	Name() string

	// Source retrieves the WGSL source the shader was compiled from.
	//
	// Returns:
	//   - string: the WGSL source text
	Source() string

	// VertexEntryPoint returns the name of the vertex entry function.
	//
	// Returns:
	//   - string: the @vertex function name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the fragment entry function.
	//
	// Returns:
	//   - string: the @fragment function name
	FragmentEntryPoint() string

	// VertexModule returns the compiled module containing the vertex stage.
	//
	// Returns:
	//   - device.ShaderModule: the compiled module handle
	VertexModule() device.ShaderModule

	// FragmentModule returns the compiled module containing the fragment
	// stage. For single-source WGSL this is the same handle as VertexModule.
	//
	// Returns:
	//   - device.ShaderModule: the compiled module handle
	FragmentModule() device.ShaderModule

	// Layout returns the bind group layouts inferred from the module's
	// annotated globals, indexed by group number. Group indices the source
	// never mentions appear as empty groups.
	//
	// Returns:
	//   - []bind_group_layout.Group: the inferred layouts
	Layout() []bind_group_layout.Group
}

var _ Shader = &shader{}

// Compile parses WGSL source, extracts its entry points, infers its bind
// group layout, and allocates the GPU shader module. This is the only
// GPU-allocating side effect in the package.
//
// Exactly one @vertex and one @fragment entry point are required. When a
// stage declares more than one, the first in declaration order is kept and
// a warning is logged.
//
// Parameters:
//   - dev: the device context used to allocate the shader module
//   - name: debug name for the shader
//   - source: WGSL source text
//
// Returns:
//   - Shader: the compiled shader
//   - error: *ParseError on syntax/semantic errors, *MissingEntryPointError
//     when a stage has no entry point, *UnsupportedBindingError when a
//     resource declaration falls outside the binding model, or the device's
//     error if module creation failed
func Compile(dev device.Device, name, source string) (Shader, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, newParseError(err)
	}

	// Lowering performs the semantic checks (unknown identifiers, type
	// mismatches) the parser alone does not catch.
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, newParseError(err)
	}

	vertexEntry, fragmentEntry, err := extractEntryPoints(name, ast)
	if err != nil {
		return nil, err
	}

	usage := globalStageUsage(module, vertexEntry, fragmentEntry)

	layout, err := inferLayout(ast, usage)
	if err != nil {
		return nil, err
	}

	compiled, err := dev.CreateShaderModule(name, source)
	if err != nil {
		return nil, err
	}

	common.Logger().Debug("shader compiled",
		"name", name,
		"vertex", vertexEntry,
		"fragment", fragmentEntry,
		"groups", len(layout))

	return &shader{
		name:               name,
		source:             source,
		vertexEntryPoint:   vertexEntry,
		fragmentEntryPoint: fragmentEntry,
		module:             compiled,
		layout:             layout,
	}, nil
}

func (s *shader) Name() string {
	return s.name
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) VertexModule() device.ShaderModule {
	return s.module
}

func (s *shader) FragmentModule() device.ShaderModule {
	return s.module
}

func (s *shader) Layout() []bind_group_layout.Group {
	return s.layout
}
