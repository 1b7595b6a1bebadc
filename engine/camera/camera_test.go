package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/engine/renderer/device"
)

func TestViewMatrixLooksAlongForward(t *testing.T) {
	// Default orientation looks down negative Z.
	c := New(WithPosition(mgl32.Vec3{0, 0, 5}))

	view := c.ViewMatrix()
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})

	// The world origin sits 5 units ahead of the camera.
	assert.InDelta(t, 0, origin.X(), 1e-5)
	assert.InDelta(t, 0, origin.Y(), 1e-5)
	assert.InDelta(t, -5, origin.Z(), 1e-5)
}

func TestSetYawPitchClampsPitch(t *testing.T) {
	c := New().(*camera)

	c.SetYawPitch(0, float32(math.Pi))
	assert.LessOrEqual(t, c.pitch, pitchLimit)

	c.SetYawPitch(0, -float32(math.Pi))
	assert.GreaterOrEqual(t, c.pitch, -pitchLimit)
}

func TestUniformMatchesViewProjection(t *testing.T) {
	c := New(WithPosition(mgl32.Vec3{1, 2, 3}))
	c.SetAspect(1920, 1080)

	uniform := c.Uniform()
	expected := c.ProjectionMatrix().Mul4(c.ViewMatrix())

	assert.Equal(t, [16]float32(expected), uniform.ViewProj)
	assert.Equal(t, [3]float32{1, 2, 3}, uniform.Position)
	assert.Equal(t, 80, uniform.Size())
}

func TestUploadUniformAllocatesOnce(t *testing.T) {
	dev := &device.MockDevice{}
	queue := &device.MockQueue{}
	c := New()

	require.NoError(t, c.UploadUniform(dev, queue))
	require.NoError(t, c.UploadUniform(dev, queue))

	assert.Equal(t, 1, dev.Buffers)
	assert.Equal(t, 2, queue.Writes)
	assert.Equal(t, uint64(80), c.UniformBuffer().Size())
}
