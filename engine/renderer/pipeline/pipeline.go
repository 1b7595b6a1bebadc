// Package pipeline owns render pipeline objects and their hot-swap
// lifecycle. A pipeline is created once against a fixed bind group layout
// contract; subsequent shaders may be swapped in via Recreate without
// touching the pipeline layout. The package performs no layout validation
// itself: callers are expected to have checked the shader against the
// contract with bind_group_layout.Check before creating or recreating.
package pipeline

import (
	"errors"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/renderer/bind_group_layout"
	"github.com/prism3d/prism/engine/renderer/device"
	"github.com/prism3d/prism/engine/renderer/shader"
)

// ErrNoShader is returned by New when no shader was supplied.
var ErrNoShader = errors.New("pipeline requires a shader")

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	mu sync.Mutex

	label    string
	contract []bind_group_layout.Group
	shader   shader.Shader

	bindGroupLayouts []device.BindGroupLayout
	pipelineLayout   device.PipelineLayout
	renderPipeline   device.RenderPipeline

	colorFormat   wgpu.TextureFormat
	depthFormat   *wgpu.TextureFormat
	vertexLayouts []wgpu.VertexBufferLayout
	topology      wgpu.PrimitiveTopology
}

// Pipeline is a render pipeline bound to an immutable bind group layout
// contract. The pipeline object itself may be replaced via Recreate; the
// contract, bind group layouts, and pipeline layout never change over the
// pipeline's lifetime.
type Pipeline interface {
	// Label returns the pipeline's debug label.
	//
	// Returns:
	//   - string: the label supplied at creation
	Label() string

	// Shader returns the shader currently driving the pipeline.
	//
	// Returns:
	//   - shader.Shader: the active shader
	Shader() shader.Shader

	// Contract returns a copy of the bind group layout contract the pipeline
	// was created with.
	//
	// Returns:
	//   - []bind_group_layout.Group: the contract, indexed by group
	Contract() []bind_group_layout.Group

	// Handle returns the underlying render pipeline object for encoding draw
	// calls. The returned handle is only valid until the next Recreate.
	//
	// Returns:
	//   - device.RenderPipeline: the current pipeline object
	Handle() device.RenderPipeline

	// BindGroupLayouts returns the GPU bind group layouts created from the
	// contract, indexed by group. They stay valid across Recreate calls.
	//
	// Returns:
	//   - []device.BindGroupLayout: the contract's layouts
	BindGroupLayouts() []device.BindGroupLayout

	// Recreate swaps in a new shader, building a replacement pipeline object
	// on the existing pipeline layout. The shader must already have been
	// validated against the contract; Recreate does not check it. If
	// pipeline creation fails, the previous pipeline remains active.
	//
	// Parameters:
	//   - dev: the device context used to build the replacement pipeline
	//   - s: the candidate shader, pre-validated against the contract
	//
	// Returns:
	//   - error: the device's error if creation failed, nil once swapped
	Recreate(dev device.Device, s shader.Shader) error

	// Release frees the pipeline object, pipeline layout, and bind group
	// layouts. The pipeline must not be used afterwards.
	Release()
}

var _ Pipeline = &pipeline{}

// New creates a render pipeline from a bind group layout contract and an
// initial shader. The contract's GPU bind group layouts and the pipeline
// layout are created here, once; every later Recreate reuses them. The
// shader is assumed to already satisfy the contract; check it with
// bind_group_layout.Check first.
//
// Parameters:
//   - dev: the device context used to allocate GPU objects
//   - contract: the bind group layouts the application binds at draw time
//   - opts: builder options; WithShader is required
//
// Returns:
//   - Pipeline: the created pipeline
//   - error: ErrNoShader, or the device's error
func New(dev device.Device, contract []bind_group_layout.Group, opts ...BuilderOption) (Pipeline, error) {
	p := &pipeline{
		label:       "render-pipeline",
		contract:    contract,
		colorFormat: wgpu.TextureFormatBGRA8UnormSrgb,
		topology:    wgpu.PrimitiveTopologyTriangleList,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.shader == nil {
		return nil, ErrNoShader
	}

	for _, group := range contract {
		desc := group.Descriptor()
		if desc.Label == "" {
			desc.Label = p.label
		}
		bgl, err := dev.CreateBindGroupLayout(&desc)
		if err != nil {
			p.Release()
			return nil, err
		}
		p.bindGroupLayouts = append(p.bindGroupLayouts, bgl)
	}

	layout, err := dev.CreatePipelineLayout(p.label, p.bindGroupLayouts)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.pipelineLayout = layout

	rp, err := p.build(dev, p.shader)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.renderPipeline = rp

	return p, nil
}

func (p *pipeline) Label() string {
	return p.label
}

func (p *pipeline) Shader() shader.Shader {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shader
}

func (p *pipeline) Contract() []bind_group_layout.Group {
	out := make([]bind_group_layout.Group, len(p.contract))
	copy(out, p.contract)
	return out
}

func (p *pipeline) Handle() device.RenderPipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayouts() []device.BindGroupLayout {
	out := make([]device.BindGroupLayout, len(p.bindGroupLayouts))
	copy(out, p.bindGroupLayouts)
	return out
}

func (p *pipeline) Recreate(dev device.Device, s shader.Shader) error {
	rp, err := p.build(dev, s)
	if err != nil {
		return err
	}

	p.mu.Lock()
	old := p.renderPipeline
	p.renderPipeline = rp
	p.shader = s
	p.mu.Unlock()

	if old != nil {
		old.Release()
	}

	common.Logger().Info("pipeline recreated", "label", p.label, "shader", s.Name())
	return nil
}

// build creates a render pipeline object on the existing pipeline layout.
func (p *pipeline) build(dev device.Device, s shader.Shader) (device.RenderPipeline, error) {
	return dev.CreateRenderPipeline(&device.RenderPipelineDescriptor{
		Label:  p.label,
		Layout: p.pipelineLayout,
		Vertex: device.VertexState{
			Module:     s.VertexModule(),
			EntryPoint: s.VertexEntryPoint(),
			Buffers:    p.vertexLayouts,
		},
		Fragment: device.FragmentState{
			Module:      s.FragmentModule(),
			EntryPoint:  s.FragmentEntryPoint(),
			ColorFormat: p.colorFormat,
		},
		Topology:    p.topology,
		DepthFormat: p.depthFormat,
	})
}

func (p *pipeline) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	for _, bgl := range p.bindGroupLayouts {
		bgl.Release()
	}
	p.bindGroupLayouts = nil
}
