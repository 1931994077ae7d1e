package gekko

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/mathgl/mgl32"
)

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

func createGpuState(s *WindowState) (*GpuState, error) {
	if s.windowGlfw == nil {
		return nil, errors.New("gpu: a native window is required")
	}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surface.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}
	// allocates the device and command queue
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		adapter.Release()
		surface.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		device.Release()
		adapter.Release()
		surface.Release()
		return nil, errors.New("gpu: surface is not compatible with the adapter")
	}

	width, height := s.FramebufferSize()
	// defines how the swapchain behaves (size, format, vsync)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpuPresentMode(s.PresentMode()),
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}, nil
}

// resize reconfigures the swapchain when the framebuffer size changed.
func (g *GpuState) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if g.surfaceConfig.Width == uint32(width) && g.surfaceConfig.Height == uint32(height) {
		return
	}
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
}

func (g *GpuState) aspect() float32 {
	return float32(g.surfaceConfig.Width) / float32(g.surfaceConfig.Height)
}

func (g *GpuState) Release() {
	g.queue.Release()
	g.device.Release()
	g.adapter.Release()
	g.surface.Release()
}

// meshPipelineDesc is everything needed to build a pipeline for one material.
type meshPipelineDesc struct {
	name           string
	vertexSource   string
	fragmentSource string
	alphaMode      AlphaMode
}

func createMeshPipeline(desc meshPipelineDesc, gpuState *GpuState) (*wgpu.RenderPipeline, error) {
	vertexShader, err := gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.name + " vs",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.vertexSource},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: vertex shader: %w", desc.name, err)
	}
	defer vertexShader.Release()

	fragmentShader := vertexShader
	if desc.fragmentSource != desc.vertexSource {
		fragmentShader, err = gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          desc.name + " fs",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.fragmentSource},
		})
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: fragment shader: %w", desc.name, err)
		}
		defer fragmentShader.Release()
	}

	pipeline, err := gpuState.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: desc.name,
		Vertex: wgpu.VertexState{
			Module:     vertexShader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				createVertexBufferLayout(MeshVertex{}),
				instanceBufferLayout(),
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragmentShader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    gpuState.surfaceConfig.Format,
					Blend:     blendStateFor(desc.alphaMode),
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cullModeFor(desc.alphaMode),
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", desc.name, err)
	}
	return pipeline, nil
}

// meshInstance is the per-instance vertex data: the model matrix split into
// four column attributes at locations 2 to 5.
type meshInstance struct {
	Model mgl32.Mat4
}

func instanceBufferLayout() wgpu.VertexBufferLayout {
	attributes := make([]wgpu.VertexAttribute, 4)
	for i := range attributes {
		attributes[i] = wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(i * 16),
			ShaderLocation: uint32(2 + i),
		}
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(meshInstance{})),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  attributes,
	}
}

func createVertexBufferLayout(vertexType any) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("Vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64 = 0

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if "layout" == field.Tag.Get("gekko") {
			format := parseFormat(field.Tag.Get("format"))
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if nil != err {
				panic(err)
			}

			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}

		// Add size of field to offset
		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

type gpuMesh struct {
	vertexBuf  *wgpu.Buffer
	indexBuf   *wgpu.Buffer
	indexCount uint32
}

func (m *gpuMesh) Release() {
	m.vertexBuf.Release()
	m.indexBuf.Release()
}

func createGpuMesh(mesh *MeshAsset, device *wgpu.Device) (*gpuMesh, error) {
	if len(mesh.vertices) == 0 || len(mesh.indices) == 0 {
		return nil, errors.New("mesh has no geometry")
	}
	vertexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Vertex Buffer",
		Contents: wgpu.ToBytes(mesh.vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex buffer: %w", err)
	}

	// buffer sizes must be a multiple of 4 bytes
	indices := mesh.indices
	if len(indices)%2 == 1 {
		indices = append(indices[:len(indices):len(indices)], 0)
	}
	indexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Index Buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vertexBuf.Release()
		return nil, fmt.Errorf("index buffer: %w", err)
	}
	return &gpuMesh{vertexBuf: vertexBuf, indexBuf: indexBuf, indexCount: uint32(len(mesh.indices))}, nil
}

func createBuffer(name string, data any, gpuState *GpuState, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buffer, err := gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name,
		Contents: toBufferBytes(data),
		Usage:    usage,
	})
	if err != nil {
		return nil, fmt.Errorf("buffer %s: %w", name, err)
	}
	return buffer, nil
}
