// Package camera computes view and projection matrices for the viewer and
// keeps the corresponding GPU uniform buffer up to date. The camera is a
// yaw/pitch fly camera with a perspective projection.
package camera

import (
	"math"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism3d/prism/engine/renderer/device"
)

// pitchLimit keeps the camera shy of straight up/down so the view basis
// never degenerates.
const pitchLimit = float32(math.Pi/2) - 0.0001

// camera is the implementation of the Camera interface.
type camera struct {
	mu sync.Mutex

	position mgl32.Vec3
	yaw      float32
	pitch    float32

	fovY   float32
	aspect float32
	near   float32
	far    float32

	uniformBuffer device.Buffer
}

// Camera is a perspective fly camera.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition moves the camera.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)

	// SetYawPitch orients the camera. Pitch is clamped just short of
	// vertical.
	//
	// Parameters:
	//   - yaw: rotation around the Y axis, radians
	//   - pitch: elevation angle, radians
	SetYawPitch(yaw, pitch float32)

	// SetAspect updates the projection's aspect ratio, typically from a
	// window resize.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	SetAspect(width, height int)

	// ViewMatrix returns the world-to-view transform.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the view-to-clip transform.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// Uniform returns the GPU uniform record for the current camera state.
	//
	// Returns:
	//   - GPUCameraUniform: the view-projection matrix and position
	Uniform() GPUCameraUniform

	// UploadUniform writes the current camera state into the camera's
	// uniform buffer, allocating it on first use.
	//
	// Parameters:
	//   - dev: the device context used to allocate the buffer
	//   - queue: the queue used for the write
	//
	// Returns:
	//   - error: the device's error if buffer creation failed
	UploadUniform(dev device.Device, queue device.Queue) error

	// UniformBuffer returns the camera's uniform buffer, or nil before the
	// first upload.
	//
	// Returns:
	//   - device.Buffer: the uniform buffer
	UniformBuffer() device.Buffer

	// Release frees the uniform buffer.
	Release()
}

var _ Camera = &camera{}

func (c *camera) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *camera) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
}

func (c *camera) SetYawPitch(yaw, pitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw = yaw
	c.pitch = mgl32.Clamp(pitch, -pitchLimit, pitchLimit)
}

func (c *camera) SetAspect(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if height > 0 {
		c.aspect = float32(width) / float32(height)
	}
}

func (c *camera) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix()
}

// viewMatrix computes the look-to matrix. Caller holds the lock.
func (c *camera) viewMatrix() mgl32.Mat4 {
	sinPitch := float32(math.Sin(float64(c.pitch)))
	cosPitch := float32(math.Cos(float64(c.pitch)))
	sinYaw := float32(math.Sin(float64(c.yaw)))
	cosYaw := float32(math.Cos(float64(c.yaw)))

	forward := mgl32.Vec3{cosPitch * cosYaw, sinPitch, cosPitch * sinYaw}.Normalize()
	return mgl32.LookAtV(c.position, c.position.Add(forward), mgl32.Vec3{0, 1, 0})
}

func (c *camera) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.Perspective(c.fovY, c.aspect, c.near, c.far)
}

func (c *camera) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()

	proj := mgl32.Perspective(c.fovY, c.aspect, c.near, c.far)
	viewProj := proj.Mul4(c.viewMatrix())
	return GPUCameraUniform{
		ViewProj: [16]float32(viewProj),
		Position: [3]float32(c.position),
	}
}

func (c *camera) UploadUniform(dev device.Device, queue device.Queue) error {
	uniform := c.Uniform()
	data := uniform.Marshal()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.uniformBuffer == nil {
		buf, err := dev.CreateBuffer("camera-uniform", uint64(len(data)), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		c.uniformBuffer = buf
	}
	queue.WriteBuffer(c.uniformBuffer, 0, data)
	return nil
}

func (c *camera) UniformBuffer() device.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniformBuffer
}

func (c *camera) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uniformBuffer != nil {
		c.uniformBuffer.Release()
		c.uniformBuffer = nil
	}
}
