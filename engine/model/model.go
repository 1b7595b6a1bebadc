// Package model holds renderable mesh data and the per-instance transform
// records that accompany it on the GPU. Instances accumulate CPU-side and
// are pushed to the GPU in one sync step per frame: a grown or shrunk
// instance list reallocates the instance buffer, an unchanged size writes
// in place.
package model

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/renderer/device"
)

// InstanceID identifies one instance record within a model. IDs are dense
// indices handed out in allocation order and stay valid for the model's
// lifetime.
type InstanceID int

// Mesh is one drawable piece of a model: GPU vertex and index buffers plus
// the element count to draw.
type Mesh struct {
	// Name is the mesh's debug name.
	Name string
	// VertexBuffer holds GPUVertex records.
	VertexBuffer device.Buffer
	// IndexBuffer holds uint32 indices.
	IndexBuffer device.Buffer
	// IndexCount is the number of indices to draw.
	IndexCount uint32
}

// model is the implementation of the Model interface.
type model struct {
	mu sync.Mutex

	name   string
	meshes []Mesh

	instances      []GPUInstanceData
	instanceBuffer device.Buffer
}

// Model is a renderable asset with a dynamic set of instances. Instance
// transforms are updated CPU-side via UpdateInstance and uploaded by
// SyncInstanceBuffer.
type Model interface {
	// Name returns the model's debug name.
	//
	// Returns:
	//   - string: the name supplied at construction
	Name() string

	// Meshes returns the model's meshes.
	//
	// Returns:
	//   - []Mesh: the meshes supplied at construction
	Meshes() []Mesh

	// NewInstance allocates a zeroed instance record and returns its ID.
	//
	// Returns:
	//   - InstanceID: the new instance's ID
	NewInstance() InstanceID

	// UpdateInstance stores an instance's model matrix and derives its
	// normal matrix. A singular transform yields an identity normal matrix
	// and a warning rather than an error.
	//
	// Parameters:
	//   - id: the instance to update
	//   - transform: the model-to-world transform
	//
	// Returns:
	//   - error: if the ID was not allocated by this model
	UpdateInstance(id InstanceID, transform mgl32.Mat4) error

	// Instance returns a copy of an instance's GPU record.
	//
	// Parameters:
	//   - id: the instance to read
	//
	// Returns:
	//   - GPUInstanceData: the record
	//   - bool: false if the ID was not allocated by this model
	Instance(id InstanceID) (GPUInstanceData, bool)

	// InstanceCount returns the number of allocated instances.
	//
	// Returns:
	//   - int: the instance count
	InstanceCount() int

	// SyncInstanceBuffer brings the GPU instance buffer up to date with the
	// CPU-side records. The buffer is reallocated only when the byte size of
	// the instance list changed; otherwise the existing buffer is written in
	// place.
	//
	// Parameters:
	//   - dev: the device context used when a reallocation is needed
	//   - queue: the queue used for in-place writes
	//
	// Returns:
	//   - error: the device's error if buffer creation failed
	SyncInstanceBuffer(dev device.Device, queue device.Queue) error

	// InstanceBuffer returns the GPU instance buffer, or nil before the
	// first sync with a non-empty instance list.
	//
	// Returns:
	//   - device.Buffer: the instance buffer
	InstanceBuffer() device.Buffer

	// Release frees the model's GPU buffers.
	Release()
}

var _ Model = &model{}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) NewInstance() InstanceID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := InstanceID(len(m.instances))
	m.instances = append(m.instances, GPUInstanceData{})
	return id
}

func (m *model) UpdateInstance(id InstanceID, transform mgl32.Mat4) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < 0 || int(id) >= len(m.instances) {
		return fmt.Errorf("model %s has no instance %d", m.name, id)
	}

	normal, ok := common.NormalMatrix(transform)
	if !ok {
		common.Logger().Warn("singular instance transform, using identity normal matrix",
			"model", m.name, "instance", int(id))
	}

	m.instances[id] = GPUInstanceData{
		Model:  [16]float32(transform),
		Normal: [9]float32(normal),
	}
	return nil
}

func (m *model) Instance(id InstanceID) (GPUInstanceData, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < 0 || int(id) >= len(m.instances) {
		return GPUInstanceData{}, false
	}
	return m.instances[id], true
}

func (m *model) InstanceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}

func (m *model) SyncInstanceBuffer(dev device.Device, queue device.Queue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.instances) == 0 {
		if m.instanceBuffer != nil {
			m.instanceBuffer.Release()
			m.instanceBuffer = nil
		}
		return nil
	}

	data := common.SliceToBytes(m.instances)

	if m.instanceBuffer != nil && m.instanceBuffer.Size() == uint64(len(data)) {
		queue.WriteBuffer(m.instanceBuffer, 0, data)
		return nil
	}

	buf, err := dev.CreateBuffer(m.name+"-instances", uint64(len(data)), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	if m.instanceBuffer != nil {
		m.instanceBuffer.Release()
	}
	m.instanceBuffer = buf
	queue.WriteBuffer(m.instanceBuffer, 0, data)

	common.Logger().Debug("instance buffer reallocated",
		"model", m.name, "instances", len(m.instances), "bytes", len(data))
	return nil
}

func (m *model) InstanceBuffer() device.Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instanceBuffer
}

func (m *model) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.instanceBuffer != nil {
		m.instanceBuffer.Release()
		m.instanceBuffer = nil
	}
	for _, mesh := range m.meshes {
		if mesh.VertexBuffer != nil {
			mesh.VertexBuffer.Release()
		}
		if mesh.IndexBuffer != nil {
			mesh.IndexBuffer.Release()
		}
	}
	m.meshes = nil
}
