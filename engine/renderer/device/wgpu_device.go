package device

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuDevice implements Device on top of a real WebGPU device.
type wgpuDevice struct {
	device *wgpu.Device
}

// wgpuQueue implements Queue on top of a real WebGPU queue.
type wgpuQueue struct {
	queue *wgpu.Queue
}

var (
	_ Device = &wgpuDevice{}
	_ Queue  = &wgpuQueue{}
)

// NewWGPUDevice wraps a WebGPU device and its queue in the engine's Device
// and Queue interfaces.
//
// Parameters:
//   - d: the WebGPU device obtained from adapter.RequestDevice
//
// Returns:
//   - Device: the wrapped device
//   - Queue: the device's default queue
func NewWGPUDevice(d *wgpu.Device) (Device, Queue) {
	return &wgpuDevice{device: d}, &wgpuQueue{queue: d.GetQueue()}
}

type wgpuShaderModule struct{ module *wgpu.ShaderModule }

func (m *wgpuShaderModule) Release() { m.module.Release() }

type wgpuBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

func (b *wgpuBuffer) Size() uint64 { return b.size }
func (b *wgpuBuffer) Release()     { b.buffer.Release() }

type wgpuBindGroupLayout struct{ layout *wgpu.BindGroupLayout }

func (l *wgpuBindGroupLayout) Release() { l.layout.Release() }

type wgpuPipelineLayout struct{ layout *wgpu.PipelineLayout }

func (l *wgpuPipelineLayout) Release() { l.layout.Release() }

type wgpuRenderPipeline struct{ pipeline *wgpu.RenderPipeline }

func (p *wgpuRenderPipeline) Release() { p.pipeline.Release() }

// Handle returns the underlying WebGPU pipeline for draw-call encoding.
//
// Returns:
//   - *wgpu.RenderPipeline: the wrapped pipeline object
func (p *wgpuRenderPipeline) Handle() *wgpu.RenderPipeline { return p.pipeline }

// RawBuffer unwraps a Buffer created by a WebGPU-backed Device.
//
// Parameters:
//   - buf: the buffer to unwrap
//
// Returns:
//   - *wgpu.Buffer: the underlying buffer
//   - bool: false if buf was not created by a WebGPU-backed Device
func RawBuffer(buf Buffer) (*wgpu.Buffer, bool) {
	b, ok := buf.(*wgpuBuffer)
	if !ok {
		return nil, false
	}
	return b.buffer, true
}

// RawBindGroupLayout unwraps a BindGroupLayout created by a WebGPU-backed
// Device.
//
// Parameters:
//   - layout: the layout to unwrap
//
// Returns:
//   - *wgpu.BindGroupLayout: the underlying layout
//   - bool: false if layout was not created by a WebGPU-backed Device
func RawBindGroupLayout(layout BindGroupLayout) (*wgpu.BindGroupLayout, bool) {
	l, ok := layout.(*wgpuBindGroupLayout)
	if !ok {
		return nil, false
	}
	return l.layout, true
}

// RawRenderPipeline unwraps a RenderPipeline created by a WebGPU-backed
// Device.
//
// Parameters:
//   - p: the pipeline to unwrap
//
// Returns:
//   - *wgpu.RenderPipeline: the underlying pipeline
//   - bool: false if p was not created by a WebGPU-backed Device
func RawRenderPipeline(p RenderPipeline) (*wgpu.RenderPipeline, bool) {
	rp, ok := p.(*wgpuRenderPipeline)
	if !ok {
		return nil, false
	}
	return rp.pipeline, true
}

func (d *wgpuDevice) CreateShaderModule(label, source string) (ShaderModule, error) {
	m, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, err
	}
	return &wgpuShaderModule{module: m}, nil
}

func (d *wgpuDevice) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (BindGroupLayout, error) {
	l, err := d.device.CreateBindGroupLayout(desc)
	if err != nil {
		return nil, err
	}
	return &wgpuBindGroupLayout{layout: l}, nil
}

func (d *wgpuDevice) CreatePipelineLayout(label string, groups []BindGroupLayout) (PipelineLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, len(groups))
	for i, g := range groups {
		wl, ok := g.(*wgpuBindGroupLayout)
		if !ok {
			return nil, fmt.Errorf("bind group layout %d is not a WebGPU layout", i)
		}
		layouts[i] = wl.layout
	}
	l, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuPipelineLayout{layout: l}, nil
}

func (d *wgpuDevice) CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error) {
	layout, ok := desc.Layout.(*wgpuPipelineLayout)
	if !ok {
		return nil, fmt.Errorf("pipeline layout is not a WebGPU layout")
	}
	vs, ok := desc.Vertex.Module.(*wgpuShaderModule)
	if !ok {
		return nil, fmt.Errorf("vertex module is not a WebGPU shader module")
	}
	fs, ok := desc.Fragment.Module.(*wgpuShaderModule)
	if !ok {
		return nil, fmt.Errorf("fragment module is not a WebGPU shader module")
	}

	var depthStencil *wgpu.DepthStencilState
	if desc.DepthFormat != nil {
		depthStencil = &wgpu.DepthStencilState{
			Format:            *desc.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLessEqual,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	p, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout.layout,
		Vertex: wgpu.VertexState{
			Module:     vs.module,
			EntryPoint: desc.Vertex.EntryPoint,
			Buffers:    desc.Vertex.Buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs.module,
			EntryPoint: desc.Fragment.EntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    desc.Fragment.ColorFormat,
					Blend:     &wgpu.BlendStateReplace,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  desc.Topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: depthStencil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}
	return &wgpuRenderPipeline{pipeline: p}, nil
}

func (d *wgpuDevice) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error) {
	b, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{buffer: b, size: size}, nil
}

func (q *wgpuQueue) WriteBuffer(buf Buffer, offset uint64, data []byte) {
	wb, ok := buf.(*wgpuBuffer)
	if !ok {
		return
	}
	q.queue.WriteBuffer(wb.buffer, offset, data)
}
