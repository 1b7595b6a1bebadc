package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/engine/renderer/device"
	"github.com/prism3d/prism/engine/renderer/shader"
)

const uniformSource = `
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

func compileShader(t *testing.T, dev device.Device, name, source string) shader.Shader {
	t.Helper()
	s, err := shader.Compile(dev, name, source)
	require.NoError(t, err)
	return s
}

func TestNewAllocatesLayoutOnce(t *testing.T) {
	dev := &device.MockDevice{}
	s := compileShader(t, dev, "uniform", uniformSource)
	contract := s.Layout()

	p, err := New(dev, contract, WithLabel("test"), WithShader(s))
	require.NoError(t, err)

	assert.Equal(t, "test", p.Label())
	assert.Same(t, s, p.Shader())
	assert.NotNil(t, p.Handle())
	assert.Equal(t, len(contract), dev.BindGroupLayouts)
	assert.Equal(t, 1, dev.PipelineLayouts)
	assert.Equal(t, 1, dev.RenderPipelines)
}

func TestNewRequiresShader(t *testing.T) {
	_, err := New(&device.MockDevice{}, nil)
	require.ErrorIs(t, err, ErrNoShader)
}

func TestRecreateSwapsPipelineOnly(t *testing.T) {
	dev := &device.MockDevice{}
	first := compileShader(t, dev, "first", uniformSource)
	contract := first.Layout()

	p, err := New(dev, contract, WithShader(first))
	require.NoError(t, err)
	oldHandle := p.Handle()

	second := compileShader(t, dev, "second", uniformSource)
	require.NoError(t, p.Recreate(dev, second))

	assert.Same(t, second, p.Shader())
	assert.NotSame(t, oldHandle, p.Handle())
	assert.True(t, oldHandle.(*device.MockRenderPipeline).Released)

	// The layout objects are reused; only the pipeline object is new.
	assert.Equal(t, len(contract), dev.BindGroupLayouts)
	assert.Equal(t, 1, dev.PipelineLayouts)
	assert.Equal(t, 2, dev.RenderPipelines)
}

func TestRecreateDeviceFailureKeepsOld(t *testing.T) {
	dev := &device.MockDevice{}
	first := compileShader(t, dev, "first", uniformSource)

	p, err := New(dev, first.Layout(), WithShader(first))
	require.NoError(t, err)
	oldHandle := p.Handle()

	boom := errors.New("device lost")
	dev.FailPipelines = true
	dev.FailErr = boom

	second := compileShader(t, dev, "second", uniformSource)
	require.ErrorIs(t, p.Recreate(dev, second), boom)
	assert.Same(t, first, p.Shader())
	assert.Same(t, oldHandle, p.Handle())
}
