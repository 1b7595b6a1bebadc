package device

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// MockDevice is an in-memory Device used in tests. It performs no GPU work
// and counts every allocation so tests can assert, for example, that an
// in-place buffer update did not reallocate.
type MockDevice struct {
	// ShaderModules counts CreateShaderModule calls.
	ShaderModules int
	// BindGroupLayouts counts CreateBindGroupLayout calls.
	BindGroupLayouts int
	// PipelineLayouts counts CreatePipelineLayout calls.
	PipelineLayouts int
	// RenderPipelines counts CreateRenderPipeline calls.
	RenderPipelines int
	// Buffers counts CreateBuffer calls.
	Buffers int

	// FailShaderModules makes CreateShaderModule return FailErr when set.
	FailShaderModules bool
	// FailPipelines makes CreateRenderPipeline return FailErr when set.
	FailPipelines bool
	// FailErr is the error returned by failing calls.
	FailErr error
}

// MockQueue is an in-memory Queue that records writes into the destination
// MockBuffer's Data so tests can inspect uploaded contents.
type MockQueue struct {
	// Writes counts WriteBuffer calls.
	Writes int
}

var (
	_ Device = &MockDevice{}
	_ Queue  = &MockQueue{}
)

// MockShaderModule is the module handle produced by MockDevice.
type MockShaderModule struct {
	Label  string
	Source string
}

func (m *MockShaderModule) Release() {}

// MockBuffer is the buffer handle produced by MockDevice. Data holds the
// last bytes written through MockQueue.
type MockBuffer struct {
	Label    string
	ByteSize uint64
	Usage    wgpu.BufferUsage
	Data     []byte
	Released bool
}

func (b *MockBuffer) Size() uint64 { return b.ByteSize }
func (b *MockBuffer) Release()     { b.Released = true }

// MockBindGroupLayout is the bind group layout handle produced by MockDevice.
type MockBindGroupLayout struct {
	Desc wgpu.BindGroupLayoutDescriptor
}

func (l *MockBindGroupLayout) Release() {}

// MockPipelineLayout is the pipeline layout handle produced by MockDevice.
type MockPipelineLayout struct {
	Label  string
	Groups []BindGroupLayout
}

func (l *MockPipelineLayout) Release() {}

// MockRenderPipeline is the pipeline handle produced by MockDevice.
type MockRenderPipeline struct {
	Desc     RenderPipelineDescriptor
	Released bool
}

func (p *MockRenderPipeline) Release() { p.Released = true }

func (d *MockDevice) CreateShaderModule(label, source string) (ShaderModule, error) {
	if d.FailShaderModules {
		return nil, d.FailErr
	}
	d.ShaderModules++
	return &MockShaderModule{Label: label, Source: source}, nil
}

func (d *MockDevice) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (BindGroupLayout, error) {
	d.BindGroupLayouts++
	return &MockBindGroupLayout{Desc: *desc}, nil
}

func (d *MockDevice) CreatePipelineLayout(label string, groups []BindGroupLayout) (PipelineLayout, error) {
	d.PipelineLayouts++
	return &MockPipelineLayout{Label: label, Groups: groups}, nil
}

func (d *MockDevice) CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error) {
	if d.FailPipelines {
		return nil, d.FailErr
	}
	d.RenderPipelines++
	return &MockRenderPipeline{Desc: *desc}, nil
}

func (d *MockDevice) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error) {
	d.Buffers++
	return &MockBuffer{Label: label, ByteSize: size, Usage: usage}, nil
}

func (q *MockQueue) WriteBuffer(buf Buffer, offset uint64, data []byte) {
	q.Writes++
	mb, ok := buf.(*MockBuffer)
	if !ok {
		return
	}
	if mb.Data == nil {
		mb.Data = make([]byte, mb.ByteSize)
	}
	copy(mb.Data[offset:], data)
}
