// Command prism opens a window, drops a pair of cubes into the scene, and
// renders them with a live-editable WGSL shader. Point it at a shader file
// with -shader and every save swaps the pipeline; a broken save keeps the
// last good shader on screen and logs the diagnostics.
package main

import (
	"flag"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/camera"
	"github.com/prism3d/prism/engine/model"
	"github.com/prism3d/prism/engine/renderer/device"
	"github.com/prism3d/prism/engine/scene"
	"github.com/prism3d/prism/engine/viewer"
	"github.com/prism3d/prism/engine/window"
)

const depthFormat = wgpu.TextureFormatDepth32Float

func main() {
	shaderPath := flag.String("shader", "", "WGSL file to watch for live shader reloads")
	title := flag.String("title", "prism", "window title")
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	flag.Parse()

	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	log := common.Logger()

	win, err := window.New(window.WithTitle(*title), window.WithSize(*width, *height))
	if err != nil {
		log.Error("failed to create window", "error", err)
		os.Exit(1)
	}
	defer win.Close()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(win.SurfaceDescriptor())
	defer surface.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
	})
	if err != nil {
		log.Error("failed to request adapter", "error", err)
		os.Exit(1)
	}
	defer adapter.Release()

	wgpuDev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "prism"})
	if err != nil {
		log.Error("failed to request device", "error", err)
		os.Exit(1)
	}
	defer wgpuDev.Release()

	dev, queue := device.NewWGPUDevice(wgpuDev)
	rawQueue := wgpuDev.GetQueue()

	capabilities := surface.GetCapabilities(adapter)
	surfaceFormat := capabilities.Formats[0]
	alphaMode := capabilities.AlphaModes[0]

	var depthView *wgpu.TextureView
	configure := func(w, h int) {
		surface.Configure(adapter, wgpuDev, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      surfaceFormat,
			Width:       uint32(w),
			Height:      uint32(h),
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   alphaMode,
		})

		if depthView != nil {
			depthView.Release()
			depthView = nil
		}
		depthTexture, err := wgpuDev.CreateTexture(&wgpu.TextureDescriptor{
			Label: "depth",
			Size: wgpu.Extent3D{
				Width:              uint32(w),
				Height:             uint32(h),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        depthFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			log.Error("failed to create depth texture", "error", err)
			os.Exit(1)
		}
		depthView, err = depthTexture.CreateView(nil)
		if err != nil {
			log.Error("failed to create depth view", "error", err)
			os.Exit(1)
		}
		depthTexture.Release()
	}
	configure(win.Width(), win.Height())

	v, err := viewer.New(dev, queue,
		viewer.WithShaderName("prism"),
		viewer.WithColorFormat(surfaceFormat),
		viewer.WithDepthFormat(depthFormat),
	)
	if err != nil {
		log.Error("failed to create viewer", "error", err)
		os.Exit(1)
	}
	defer v.Close()

	if *shaderPath != "" {
		if err := v.WatchShaderFile(*shaderPath); err != nil {
			log.Error("failed to watch shader file", "path", *shaderPath, "error", err)
			os.Exit(1)
		}
	}

	cam := camera.New(
		camera.WithPosition(mgl32.Vec3{0, 2, 6}),
		camera.WithYawPitch(-float32(math.Pi/2), -0.3),
	)
	defer cam.Release()
	cam.SetAspect(win.Width(), win.Height())
	win.SetResizeCallback(func(w, h int) {
		configure(w, h)
		cam.SetAspect(w, h)
	})

	if err := cam.UploadUniform(dev, queue); err != nil {
		log.Error("failed to upload camera uniform", "error", err)
		os.Exit(1)
	}

	// The viewer's pipeline contract has one group: the camera uniform.
	cameraBindGroup := makeCameraBindGroup(wgpuDev, v, cam)
	defer cameraBindGroup.Release()

	cube := makeCubeModel(dev, queue)
	v.AddModel(cube)
	defer cube.Release()

	tree := v.Scene()
	root := tree.NewNode()
	orbiter, err := tree.NewChildNode(root)
	if err != nil {
		log.Error("failed to build scene", "error", err)
		os.Exit(1)
	}
	mustSetRenderable(tree, root, cube)
	mustSetRenderable(tree, orbiter, cube)

	start := time.Now()
	for win.Poll() {
		elapsed := float32(time.Since(start).Seconds())

		spin := mgl32.HomogRotate3DY(elapsed)
		orbit := mgl32.Translate3D(2.5, 0, 0).Mul4(mgl32.Scale3D(0.4, 0.4, 0.4))
		if err := tree.UpdateLocalTransform(root, spin); err != nil {
			log.Error("failed to update root transform", "error", err)
		}
		if err := tree.UpdateLocalTransform(orbiter, orbit); err != nil {
			log.Error("failed to update orbiter transform", "error", err)
		}

		if err := v.Update(); err != nil {
			log.Error("frame update failed", "error", err)
		}
		if err := cam.UploadUniform(dev, queue); err != nil {
			log.Error("failed to upload camera uniform", "error", err)
		}

		if err := renderFrame(wgpuDev, rawQueue, surface, depthView, v, cube, cameraBindGroup); err != nil {
			log.Error("frame render failed", "error", err)
		}
	}
}

func mustSetRenderable(tree scene.Tree, h scene.NodeHandle, m model.Model) {
	if err := tree.SetRenderable(h, m); err != nil {
		common.Logger().Error("failed to attach renderable", "error", err)
		os.Exit(1)
	}
}

// makeCameraBindGroup binds the camera uniform buffer to group 0 of the
// viewer's pipeline contract.
func makeCameraBindGroup(wgpuDev *wgpu.Device, v viewer.Viewer, cam camera.Camera) *wgpu.BindGroup {
	layouts := v.Pipeline().BindGroupLayouts()
	rawLayout, ok := device.RawBindGroupLayout(layouts[0])
	if !ok {
		common.Logger().Error("pipeline layout is not WebGPU-backed")
		os.Exit(1)
	}
	rawBuffer, ok := device.RawBuffer(cam.UniformBuffer())
	if !ok {
		common.Logger().Error("camera uniform buffer is not WebGPU-backed")
		os.Exit(1)
	}

	bindGroup, err := wgpuDev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "camera",
		Layout: rawLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  rawBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		common.Logger().Error("failed to create camera bind group", "error", err)
		os.Exit(1)
	}
	return bindGroup
}

func renderFrame(
	wgpuDev *wgpu.Device,
	rawQueue *wgpu.Queue,
	surface *wgpu.Surface,
	depthView *wgpu.TextureView,
	v viewer.Viewer,
	cube model.Model,
	cameraBindGroup *wgpu.BindGroup,
) error {
	surfaceTexture, err := surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := wgpuDev.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.02, G: 0.02, B: 0.04, A: 1},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	rawPipeline, ok := device.RawRenderPipeline(v.Pipeline().Handle())
	if !ok {
		pass.End()
		pass.Release()
		return nil
	}
	pass.SetPipeline(rawPipeline)
	pass.SetBindGroup(0, cameraBindGroup, nil)

	instanceBuffer := cube.InstanceBuffer()
	if instanceBuffer != nil {
		rawInstances, _ := device.RawBuffer(instanceBuffer)
		for _, mesh := range cube.Meshes() {
			rawVertices, _ := device.RawBuffer(mesh.VertexBuffer)
			rawIndices, _ := device.RawBuffer(mesh.IndexBuffer)
			pass.SetVertexBuffer(0, rawVertices, 0, wgpu.WholeSize)
			pass.SetVertexBuffer(1, rawInstances, 0, wgpu.WholeSize)
			pass.SetIndexBuffer(rawIndices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			pass.DrawIndexed(mesh.IndexCount, uint32(cube.InstanceCount()), 0, 0, 0)
		}
	}

	pass.End()
	pass.Release()

	commands, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commands.Release()

	rawQueue.Submit(commands)
	surface.Present()
	return nil
}
