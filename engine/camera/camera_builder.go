package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BuilderOption is a functional option used to configure a Camera during construction.
type BuilderOption func(*camera)

// WithPosition sets the camera's starting position.
//
// Parameters:
//   - position: the world-space position
//
// Returns:
//   - BuilderOption: a function that sets the position for this camera
func WithPosition(position mgl32.Vec3) BuilderOption {
	return func(c *camera) {
		c.position = position
	}
}

// WithYawPitch sets the camera's starting orientation.
//
// Parameters:
//   - yaw: rotation around the Y axis, radians
//   - pitch: elevation angle, radians
//
// Returns:
//   - BuilderOption: a function that sets the orientation for this camera
func WithYawPitch(yaw, pitch float32) BuilderOption {
	return func(c *camera) {
		c.yaw = yaw
		c.pitch = mgl32.Clamp(pitch, -pitchLimit, pitchLimit)
	}
}

// WithFovY sets the vertical field of view. Defaults to 45 degrees.
//
// Parameters:
//   - fovY: the vertical field of view, radians
//
// Returns:
//   - BuilderOption: a function that sets the field of view for this camera
func WithFovY(fovY float32) BuilderOption {
	return func(c *camera) {
		c.fovY = fovY
	}
}

// WithClipPlanes sets the near and far clip distances. Defaults to 0.1 and
// 1000.
//
// Parameters:
//   - near: the near clip distance
//   - far: the far clip distance
//
// Returns:
//   - BuilderOption: a function that sets the clip planes for this camera
func WithClipPlanes(near, far float32) BuilderOption {
	return func(c *camera) {
		c.near = near
		c.far = far
	}
}

// New creates a Camera at the origin looking down negative Z with a 1:1
// aspect ratio until SetAspect is called.
//
// Parameters:
//   - opts: builder options
//
// Returns:
//   - Camera: the created camera
func New(opts ...BuilderOption) Camera {
	c := &camera{
		yaw:    -float32(math.Pi / 2),
		fovY:   float32(math.Pi / 4),
		aspect: 1,
		near:   0.1,
		far:    1000,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
