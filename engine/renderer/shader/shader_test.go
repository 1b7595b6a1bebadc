package shader

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga/wgsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/engine/renderer/bind_group_layout"
	"github.com/prism3d/prism/engine/renderer/device"
)

const basicSource = `
struct Camera {
    offset: vec4<f32>,
}

@group(0) @binding(0) var<uniform> camera: Camera;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position.x + camera.offset.x, position.y, position.z, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func TestCompileBasic(t *testing.T) {
	dev := &device.MockDevice{}

	s, err := Compile(dev, "basic", basicSource)
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name())
	assert.Equal(t, basicSource, s.Source())
	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())

	// Single-source WGSL compiles to one module shared by both stages.
	assert.Equal(t, 1, dev.ShaderModules)
	assert.Same(t, s.VertexModule(), s.FragmentModule())

	layout := s.Layout()
	require.Len(t, layout, 1)
	require.Len(t, layout[0].Entries, 1)

	entry := layout[0].Entries[0]
	assert.Equal(t, uint32(0), entry.Binding)
	assert.Equal(t, bind_group_layout.KindUniformBuffer, entry.Kind)
	assert.Equal(t, wgpu.ShaderStageVertex, entry.Visibility)
}

func TestCompileTextureAndSampler(t *testing.T) {
	source := `
@group(0) @binding(0) var base_color: texture_2d<f32>;
@group(0) @binding(1) var base_sampler: sampler;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position.x, position.y, position.z, 1.0);
}

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(base_color, base_sampler, uv);
}
`
	s, err := Compile(&device.MockDevice{}, "textured", source)
	require.NoError(t, err)

	layout := s.Layout()
	require.Len(t, layout, 1)
	require.Len(t, layout[0].Entries, 2)

	tex := layout[0].Entries[0]
	assert.Equal(t, uint32(0), tex.Binding)
	assert.Equal(t, bind_group_layout.KindTexture, tex.Kind)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, tex.Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, tex.Texture.ViewDimension)
	assert.False(t, tex.Texture.Multisampled)
	assert.Equal(t, wgpu.ShaderStageFragment, tex.Visibility)

	samp := layout[0].Entries[1]
	assert.Equal(t, uint32(1), samp.Binding)
	assert.Equal(t, bind_group_layout.KindSampler, samp.Kind)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, samp.Sampler.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, samp.Visibility)
}

func TestCompileGroupGaps(t *testing.T) {
	source := `
struct Params {
    tint: vec4<f32>,
}

@group(0) @binding(0) var<uniform> a: Params;
@group(2) @binding(0) var<uniform> b: Params;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(a.tint.x, b.tint.y, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	s, err := Compile(&device.MockDevice{}, "gaps", source)
	require.NoError(t, err)

	layout := s.Layout()
	require.Len(t, layout, 3)
	assert.Len(t, layout[0].Entries, 1)
	assert.Empty(t, layout[1].Entries)
	assert.Len(t, layout[2].Entries, 1)
}

func TestCompileMissingVertexEntryPoint(t *testing.T) {
	source := `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	_, err := Compile(&device.MockDevice{}, "fragment-only", source)

	var missing *MissingEntryPointError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ShaderTypeVertex, missing.Stage)
}

func TestCompileMissingFragmentEntryPoint(t *testing.T) {
	source := `
@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	_, err := Compile(&device.MockDevice{}, "vertex-only", source)

	var missing *MissingEntryPointError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ShaderTypeFragment, missing.Stage)
}

func TestCompileDuplicateEntryPointsKeepsFirst(t *testing.T) {
	source := `
@vertex
fn first() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@vertex
fn second() -> @builtin(position) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	s, err := Compile(&device.MockDevice{}, "duplicates", source)
	require.NoError(t, err)
	assert.Equal(t, "first", s.VertexEntryPoint())
}

func TestCompileParseError(t *testing.T) {
	_, err := Compile(&device.MockDevice{}, "broken", "@vertex fn broken( {")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.NotEmpty(t, parseErr.Message)
}

func TestCompileStorageBufferUnsupported(t *testing.T) {
	source := `
@group(0) @binding(0) var<storage, read> data: array<f32>;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	_, err := Compile(&device.MockDevice{}, "storage", source)

	var unsupported *UnsupportedBindingError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "data", unsupported.Var)
}

func TestCompileDeviceErrorPropagates(t *testing.T) {
	boom := errors.New("out of device memory")
	dev := &device.MockDevice{FailShaderModules: true, FailErr: boom}

	_, err := Compile(dev, "basic", basicSource)
	require.ErrorIs(t, err, boom)
}

func TestClassifyGlobalBindingArray(t *testing.T) {
	decl := &wgsl.VarDecl{
		Name: "palette",
		Type: &wgsl.BindingArrayType{
			Element: &wgsl.NamedType{
				Name:       "texture_2d",
				TypeParams: []wgsl.Type{&wgsl.NamedType{Name: "f32"}},
			},
			Size: &wgsl.Literal{Kind: wgsl.TokenIntLiteral, Value: "4"},
		},
	}

	entry, err := classifyGlobal(decl)
	require.NoError(t, err)
	assert.Equal(t, bind_group_layout.KindTexture, entry.Kind)
	assert.Equal(t, uint32(4), entry.Count)
}

func TestClassifyGlobalDepthTexture(t *testing.T) {
	decl := &wgsl.VarDecl{
		Name: "shadow_map",
		Type: &wgsl.NamedType{Name: "texture_depth_2d"},
	}

	entry, err := classifyGlobal(decl)
	require.NoError(t, err)
	assert.Equal(t, bind_group_layout.KindTexture, entry.Kind)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, entry.Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, entry.Texture.ViewDimension)
}
