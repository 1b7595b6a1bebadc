// Package viewer ties the scene graph, models, and the live-editable render
// pipeline together. It owns the edit-compile-swap loop for shader source:
// candidates are compiled and checked against the pipeline's bind group
// layout contract, and only a fully valid candidate replaces the active
// pipeline. Everything else leaves the last good shader on screen.
package viewer

import (
	_ "embed"
	"sync"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/model"
	"github.com/prism3d/prism/engine/renderer/bind_group_layout"
	"github.com/prism3d/prism/engine/renderer/device"
	"github.com/prism3d/prism/engine/renderer/pipeline"
	"github.com/prism3d/prism/engine/renderer/shader"
	"github.com/prism3d/prism/engine/scene"
)

// DefaultShaderSource is the built-in WGSL source the viewer starts with.
// Its bind group layout defines the pipeline contract every live-edited
// shader must stay compatible with.
//
//go:embed default.wgsl
var DefaultShaderSource string

// viewer is the implementation of the Viewer interface.
type viewer struct {
	mu sync.Mutex

	dev   device.Device
	queue device.Queue

	scene  scene.Tree
	models []model.Model

	pipeline   pipeline.Pipeline
	shaderName string
	// lastError holds the most recent rejected reload's error, for display
	// alongside the still-active previous shader.
	lastError error

	watcher *watcher

	colorFormat   colorFormatOption
	depthFormat   depthFormatOption
	initialSource string
}

// Viewer is a 3D scene viewer with live shader editing. The scene and its
// models are updated per frame via Update; shader source may be swapped at
// any time via ReloadShader or a watched file.
type Viewer interface {
	// Scene returns the viewer's scene tree.
	//
	// Returns:
	//   - scene.Tree: the scene tree
	Scene() scene.Tree

	// AddModel registers a model so Update keeps its instance buffer in
	// sync. Attach instances to scene nodes via Scene().SetRenderable.
	//
	// Parameters:
	//   - m: the model to register
	AddModel(m model.Model)

	// Pipeline returns the active render pipeline.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline driven by the current shader
	Pipeline() pipeline.Pipeline

	// ReloadShader compiles a candidate shader source and, if it is valid
	// and layout-compatible, swaps it into the pipeline. On any failure the
	// previous shader stays active and the error is retained for display.
	//
	// Parameters:
	//   - source: the candidate WGSL source
	//
	// Returns:
	//   - error: the compile or compatibility error, nil once swapped
	ReloadShader(source string) error

	// LastError returns the error from the most recent rejected reload, or
	// nil if the last reload succeeded.
	//
	// Returns:
	//   - error: the retained diagnostic
	LastError() error

	// WatchShaderFile reloads the shader whenever the file at path changes.
	// Only one file is watched at a time; watching a new path replaces the
	// previous watch.
	//
	// Parameters:
	//   - path: the WGSL file to watch
	//
	// Returns:
	//   - error: if the watch could not be established
	WatchShaderFile(path string) error

	// Update advances the viewer one frame: scene transforms are
	// propagated and every registered model's instance buffer is synced.
	//
	// Returns:
	//   - error: the first instance buffer sync failure, if any
	Update() error

	// Close stops the shader file watch and releases the pipeline.
	Close()
}

var _ Viewer = &viewer{}

// New creates a viewer with an empty scene and a pipeline built from the
// initial shader source (DefaultShaderSource unless overridden). The
// initial shader's inferred bind group layout becomes the pipeline
// contract for all later reloads.
//
// Parameters:
//   - dev: the device context used for all GPU allocations
//   - queue: the queue used for buffer uploads
//   - opts: builder options
//
// Returns:
//   - Viewer: the created viewer
//   - error: if the initial shader or pipeline could not be built
func New(dev device.Device, queue device.Queue, opts ...BuilderOption) (Viewer, error) {
	v := &viewer{
		dev:           dev,
		queue:         queue,
		scene:         scene.New(),
		shaderName:    "viewer-shader",
		initialSource: DefaultShaderSource,
	}
	for _, opt := range opts {
		opt(v)
	}

	s, err := shader.Compile(dev, v.shaderName, v.initialSource)
	if err != nil {
		return nil, err
	}

	pipelineOpts := []pipeline.BuilderOption{
		pipeline.WithLabel(v.shaderName),
		pipeline.WithShader(s),
		pipeline.WithVertexLayouts(model.VertexBufferLayout(), model.InstanceBufferLayout()),
	}
	if v.colorFormat.set {
		pipelineOpts = append(pipelineOpts, pipeline.WithColorFormat(v.colorFormat.format))
	}
	if v.depthFormat.set {
		pipelineOpts = append(pipelineOpts, pipeline.WithDepthFormat(v.depthFormat.format))
	}

	p, err := pipeline.New(dev, s.Layout(), pipelineOpts...)
	if err != nil {
		return nil, err
	}
	v.pipeline = p

	return v, nil
}

func (v *viewer) Scene() scene.Tree {
	return v.scene
}

func (v *viewer) AddModel(m model.Model) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.models = append(v.models, m)
}

func (v *viewer) Pipeline() pipeline.Pipeline {
	return v.pipeline
}

func (v *viewer) ReloadShader(source string) error {
	s, err := shader.Compile(v.dev, v.shaderName, source)
	if err != nil {
		v.rejectReload(err)
		return err
	}

	// The pipeline layout is fixed for the viewer's lifetime, so the
	// candidate must fit the contract before it may drive the pipeline.
	if mismatches := bind_group_layout.Check(s.Layout(), v.pipeline.Contract()); len(mismatches) > 0 {
		err := &bind_group_layout.LayoutMismatchError{Shader: s.Name(), Mismatches: mismatches}
		v.rejectReload(err)
		return err
	}

	if err := v.pipeline.Recreate(v.dev, s); err != nil {
		v.rejectReload(err)
		return err
	}

	v.mu.Lock()
	v.lastError = nil
	v.mu.Unlock()

	common.Logger().Info("shader reloaded", "name", v.shaderName)
	return nil
}

// rejectReload retains the diagnostic; the previous pipeline stays active.
func (v *viewer) rejectReload(err error) {
	v.mu.Lock()
	v.lastError = err
	v.mu.Unlock()

	common.Logger().Error("shader reload rejected, keeping previous shader",
		"name", v.shaderName, "error", err)
}

func (v *viewer) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastError
}

func (v *viewer) Update() error {
	v.scene.UpdateTransforms()

	v.mu.Lock()
	models := make([]model.Model, len(v.models))
	copy(models, v.models)
	v.mu.Unlock()

	var firstErr error
	for _, m := range models {
		if err := m.SyncInstanceBuffer(v.dev, v.queue); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			common.Logger().Error("instance buffer sync failed",
				"model", m.Name(), "error", err)
		}
	}
	return firstErr
}

func (v *viewer) Close() {
	v.mu.Lock()
	w := v.watcher
	v.watcher = nil
	v.mu.Unlock()

	if w != nil {
		w.stop()
	}
	if v.pipeline != nil {
		v.pipeline.Release()
	}
}
