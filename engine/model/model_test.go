package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/renderer/device"
)

func TestNewInstanceIsZeroed(t *testing.T) {
	m := New(WithName("cube"))

	id := m.NewInstance()
	assert.Equal(t, InstanceID(0), id)
	assert.Equal(t, 1, m.InstanceCount())

	record, ok := m.Instance(id)
	require.True(t, ok)
	assert.Equal(t, GPUInstanceData{}, record)
}

func TestUpdateInstanceStoresModelAndNormal(t *testing.T) {
	m := New(WithName("cube"))
	id := m.NewInstance()

	transform := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	require.NoError(t, m.UpdateInstance(id, transform))

	record, ok := m.Instance(id)
	require.True(t, ok)
	assert.Equal(t, [16]float32(transform), record.Model)

	// Uniform scale by 2: the normal matrix is the inverse transpose, so
	// every diagonal element is 0.5.
	assert.InDelta(t, 0.5, record.Normal[0], 1e-6)
	assert.InDelta(t, 0.5, record.Normal[4], 1e-6)
	assert.InDelta(t, 0.5, record.Normal[8], 1e-6)
}

func TestUpdateInstanceSingularTransform(t *testing.T) {
	m := New(WithName("cube"))
	id := m.NewInstance()

	require.NoError(t, m.UpdateInstance(id, mgl32.Scale3D(0, 0, 0)))

	record, ok := m.Instance(id)
	require.True(t, ok)
	assert.Equal(t, [9]float32(mgl32.Ident3()), record.Normal)
}

func TestUpdateInstanceUnknownID(t *testing.T) {
	m := New(WithName("cube"))
	assert.Error(t, m.UpdateInstance(InstanceID(0), mgl32.Ident4()))
	assert.Error(t, m.UpdateInstance(InstanceID(-1), mgl32.Ident4()))
}

func TestSyncInstanceBufferReallocatesOnGrowth(t *testing.T) {
	dev := &device.MockDevice{}
	queue := &device.MockQueue{}
	m := New(WithName("cube"))

	first := m.NewInstance()
	require.NoError(t, m.UpdateInstance(first, mgl32.Translate3D(1, 0, 0)))
	require.NoError(t, m.SyncInstanceBuffer(dev, queue))
	assert.Equal(t, 1, dev.Buffers)

	record := GPUInstanceData{}
	recordSize := uint64(record.Size())
	assert.Equal(t, recordSize, m.InstanceBuffer().Size())

	// A second instance changes the byte size: the buffer is reallocated
	// and the full list uploaded, preserving the first record.
	second := m.NewInstance()
	require.NoError(t, m.UpdateInstance(second, mgl32.Translate3D(0, 1, 0)))
	require.NoError(t, m.SyncInstanceBuffer(dev, queue))
	assert.Equal(t, 2, dev.Buffers)
	assert.Equal(t, 2*recordSize, m.InstanceBuffer().Size())

	uploaded := m.InstanceBuffer().(*device.MockBuffer).Data
	firstRecord, _ := m.Instance(first)
	assert.Equal(t, firstRecord.Marshal(), uploaded[:recordSize])
}

func TestSyncInstanceBufferWritesInPlaceWhenSizeUnchanged(t *testing.T) {
	dev := &device.MockDevice{}
	queue := &device.MockQueue{}
	m := New(WithName("cube"))

	id := m.NewInstance()
	require.NoError(t, m.SyncInstanceBuffer(dev, queue))
	require.Equal(t, 1, dev.Buffers)
	buf := m.InstanceBuffer()

	require.NoError(t, m.UpdateInstance(id, mgl32.Translate3D(5, 0, 0)))
	require.NoError(t, m.SyncInstanceBuffer(dev, queue))

	// Same byte size: no reallocation, same buffer, one more write.
	assert.Equal(t, 1, dev.Buffers)
	assert.Same(t, buf, m.InstanceBuffer())
	assert.Equal(t, 2, queue.Writes)

	record, _ := m.Instance(id)
	assert.Equal(t, common.SliceToBytes([]GPUInstanceData{record}), buf.(*device.MockBuffer).Data)
}

func TestSyncInstanceBufferEmptyReleasesBuffer(t *testing.T) {
	dev := &device.MockDevice{}
	queue := &device.MockQueue{}
	m := New(WithName("cube"))

	require.NoError(t, m.SyncInstanceBuffer(dev, queue))
	assert.Nil(t, m.InstanceBuffer())
	assert.Zero(t, dev.Buffers)
}

func TestInstanceLayoutSizes(t *testing.T) {
	vertex := GPUVertex{}
	assert.Equal(t, 56, vertex.Size())
	assert.Equal(t, uint64(56), VertexBufferLayout().ArrayStride)

	record := GPUInstanceData{}
	assert.Equal(t, 100, record.Size())
	assert.Equal(t, uint64(100), InstanceBufferLayout().ArrayStride)
	assert.Len(t, InstanceBufferLayout().Attributes, 7)
}
