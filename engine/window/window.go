// Package window wraps GLFW for the viewer: one window, a WebGPU surface
// descriptor, and the small set of input events the viewer reacts to.
// Window creation locks the calling goroutine to its OS thread; all window
// calls must stay on that goroutine.
package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// window is the implementation of the Window interface.
type window struct {
	win    *glfw.Window
	title  string
	width  int
	height int

	onResize  func(width, height int)
	onKeyDown func(key glfw.Key)
}

// Window provides the viewer's OS window and input events.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is
	// resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the pressed key
	SetKeyDownCallback(callback func(key glfw.Key))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for creating a
	// WebGPU surface on this window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Poll pumps pending window events and reports whether the window is
	// still open.
	//
	// Returns:
	//   - bool: false once the window should close
	Poll() bool

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// Close destroys the window and terminates GLFW.
	Close()
}

var _ Window = &window{}

// New creates the viewer window. GLFW requires this to run on the main
// goroutine.
//
// Parameters:
//   - opts: builder options
//
// Returns:
//   - Window: the created window
//   - error: if GLFW or the window could not be initialized
func New(opts ...BuilderOption) (Window, error) {
	runtime.LockOSThread()

	w := &window{
		title:  "prism",
		width:  1280,
		height: 720,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU brings its own graphics API; no GL context wanted.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	w.win = win

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
			return
		}
		if action == glfw.Press && w.onKeyDown != nil {
			w.onKeyDown(key)
		}
	})

	// Framebuffer size, not window size: they differ on high-DPI displays
	// and the surface needs pixels.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	w.width, w.height = win.GetFramebufferSize()
	return w, nil
}

func (w *window) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *window) SetKeyDownCallback(callback func(key glfw.Key)) {
	w.onKeyDown = callback
}

func (w *window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

func (w *window) Poll() bool {
	glfw.PollEvents()
	return !w.win.ShouldClose()
}

func (w *window) Width() int {
	return w.width
}

func (w *window) Height() int {
	return w.height
}

func (w *window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
