package shader

import (
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/wgsl"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/renderer/bind_group_layout"
)

// extractEntryPoints walks the module's functions in declaration order and
// returns the vertex and fragment entry point names. The first function per
// stage wins; later ones are ignored with a warning.
func extractEntryPoints(name string, ast *wgsl.Module) (vertex, fragment string, err error) {
	for _, fn := range ast.Functions {
		for _, attr := range fn.Attributes {
			switch attr.Name {
			case "vertex":
				if vertex != "" {
					common.Logger().Warn("shader declares multiple vertex entry points, keeping the first",
						"shader", name, "kept", vertex, "ignored", fn.Name)
					continue
				}
				vertex = fn.Name
			case "fragment":
				if fragment != "" {
					common.Logger().Warn("shader declares multiple fragment entry points, keeping the first",
						"shader", name, "kept", fragment, "ignored", fn.Name)
					continue
				}
				fragment = fn.Name
			}
		}
	}

	if vertex == "" {
		return "", "", &MissingEntryPointError{Stage: ShaderTypeVertex}
	}
	if fragment == "" {
		return "", "", &MissingEntryPointError{Stage: ShaderTypeFragment}
	}
	return vertex, fragment, nil
}

// globalStageUsage computes, per global variable name, the set of stages
// whose entry function references it. Globals only reached through helper
// functions are absent from the map; inference treats those as visible to
// both stages rather than under-reporting.
func globalStageUsage(module *ir.Module, vertexEntry, fragmentEntry string) map[string]wgpu.ShaderStage {
	usage := make(map[string]wgpu.ShaderStage)

	for _, ep := range module.EntryPoints {
		var stage wgpu.ShaderStage
		switch {
		case ep.Stage == ir.StageVertex && ep.Name == vertexEntry:
			stage = wgpu.ShaderStageVertex
		case ep.Stage == ir.StageFragment && ep.Name == fragmentEntry:
			stage = wgpu.ShaderStageFragment
		default:
			continue
		}

		fn := ep.Function
		for _, expr := range fn.Expressions {
			ref, ok := expr.Kind.(ir.ExprGlobalVariable)
			if !ok {
				continue
			}
			if int(ref.Variable) >= len(module.GlobalVariables) {
				continue
			}
			usage[module.GlobalVariables[ref.Variable].Name] |= stage
		}
	}

	return usage
}

// inferLayout maps the module's @group/@binding globals onto bind group
// layouts. The result is indexed by group number; group indices the source
// skips appear as empty groups so the slice lines up with pipeline layout
// slots.
func inferLayout(ast *wgsl.Module, usage map[string]wgpu.ShaderStage) ([]bind_group_layout.Group, error) {
	groups := make(map[uint32][]bind_group_layout.Entry)
	maxGroup := -1

	for _, v := range ast.GlobalVars {
		group, hasGroup := attrUint(v.Attributes, "group")
		binding, hasBinding := attrUint(v.Attributes, "binding")
		if !hasGroup || !hasBinding {
			continue
		}

		entry, err := classifyGlobal(v)
		if err != nil {
			return nil, err
		}
		entry.Binding = binding

		if vis, ok := usage[v.Name]; ok {
			entry.Visibility = vis
		} else {
			entry.Visibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
		}

		groups[group] = append(groups[group], entry)
		if int(group) > maxGroup {
			maxGroup = int(group)
		}
	}

	layout := make([]bind_group_layout.Group, maxGroup+1)
	for g := range layout {
		layout[g] = bind_group_layout.Group{Entries: groups[uint32(g)]}
	}
	return layout, nil
}

// classifyGlobal determines the resource category of one annotated global.
// Binding array wrappers are unwrapped first; the element type is then
// classified like a plain binding.
func classifyGlobal(v *wgsl.VarDecl) (bind_group_layout.Entry, error) {
	varType := v.Type
	var count uint32
	if arr, ok := varType.(*wgsl.BindingArrayType); ok {
		varType = arr.Element
		count = 1
		if n, ok := literalUint(arr.Size); ok {
			count = n
		}
	}

	entry := bind_group_layout.Entry{Count: count}

	if v.AddressSpace == "uniform" {
		entry.Kind = bind_group_layout.KindUniformBuffer
		return entry, nil
	}

	named, ok := varType.(*wgsl.NamedType)
	if !ok {
		return entry, &UnsupportedBindingError{Var: v.Name, Type: typeName(v.Type)}
	}

	switch named.Name {
	case "sampler":
		entry.Kind = bind_group_layout.KindSampler
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		return entry, nil
	case "sampler_comparison":
		entry.Kind = bind_group_layout.KindSampler
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
		return entry, nil
	}

	if tex, ok := sampledTextureTypes[named.Name]; ok {
		entry.Kind = bind_group_layout.KindTexture
		entry.Texture.ViewDimension = tex.dimension
		entry.Texture.Multisampled = tex.multisampled
		if tex.depth {
			entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
			return entry, nil
		}
		sampleType, err := texelSampleType(v, named)
		if err != nil {
			return entry, err
		}
		entry.Texture.SampleType = sampleType
		return entry, nil
	}

	// Storage buffers, storage textures, atomics, and anything else the
	// binding model does not cover.
	return entry, &UnsupportedBindingError{Var: v.Name, Type: typeName(v.Type)}
}

// textureShape captures what a sampled texture type's name alone determines.
type textureShape struct {
	dimension    wgpu.TextureViewDimension
	multisampled bool
	depth        bool
}

var sampledTextureTypes = map[string]textureShape{
	"texture_1d":         {dimension: wgpu.TextureViewDimension1D},
	"texture_2d":         {dimension: wgpu.TextureViewDimension2D},
	"texture_2d_array":   {dimension: wgpu.TextureViewDimension2DArray},
	"texture_3d":         {dimension: wgpu.TextureViewDimension3D},
	"texture_cube":       {dimension: wgpu.TextureViewDimensionCube},
	"texture_cube_array": {dimension: wgpu.TextureViewDimensionCubeArray},

	"texture_multisampled_2d": {dimension: wgpu.TextureViewDimension2D, multisampled: true},

	"texture_depth_2d":              {dimension: wgpu.TextureViewDimension2D, depth: true},
	"texture_depth_2d_array":        {dimension: wgpu.TextureViewDimension2DArray, depth: true},
	"texture_depth_cube":            {dimension: wgpu.TextureViewDimensionCube, depth: true},
	"texture_depth_cube_array":      {dimension: wgpu.TextureViewDimensionCubeArray, depth: true},
	"texture_depth_multisampled_2d": {dimension: wgpu.TextureViewDimension2D, multisampled: true, depth: true},
}

// texelSampleType reads the sample type off a sampled texture's type
// parameter (texture_2d<f32> and friends).
func texelSampleType(v *wgsl.VarDecl, named *wgsl.NamedType) (wgpu.TextureSampleType, error) {
	if len(named.TypeParams) == 1 {
		if param, ok := named.TypeParams[0].(*wgsl.NamedType); ok {
			switch param.Name {
			case "f32":
				return wgpu.TextureSampleTypeFloat, nil
			case "i32":
				return wgpu.TextureSampleTypeSint, nil
			case "u32":
				return wgpu.TextureSampleTypeUint, nil
			}
		}
	}
	return 0, &UnsupportedBindingError{Var: v.Name, Type: typeName(v.Type)}
}

// attrUint looks up an attribute by name and returns its single integer
// argument.
func attrUint(attrs []wgsl.Attribute, name string) (uint32, bool) {
	for _, attr := range attrs {
		if attr.Name != name || len(attr.Args) != 1 {
			continue
		}
		return literalUint(attr.Args[0])
	}
	return 0, false
}

// literalUint extracts an unsigned integer from a literal expression.
func literalUint(expr wgsl.Expr) (uint32, bool) {
	lit, ok := expr.(*wgsl.Literal)
	if !ok || lit.Kind != wgsl.TokenIntLiteral {
		return 0, false
	}
	n, err := strconv.ParseUint(lit.Value, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// typeName renders a WGSL type for diagnostics.
func typeName(t wgsl.Type) string {
	switch t := t.(type) {
	case *wgsl.NamedType:
		name := t.Name
		if len(t.TypeParams) > 0 {
			name += "<"
			for i, p := range t.TypeParams {
				if i > 0 {
					name += ", "
				}
				name += typeName(p)
			}
			name += ">"
		}
		return name
	case *wgsl.ArrayType:
		return "array<" + typeName(t.Element) + ">"
	case *wgsl.BindingArrayType:
		return "binding_array<" + typeName(t.Element) + ">"
	case *wgsl.PtrType:
		return "ptr<" + t.AddressSpace + ", " + typeName(t.PointeeType) + ">"
	default:
		return "?"
	}
}
