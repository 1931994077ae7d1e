package gekko

import (
	"cmp"
	"fmt"
	"slices"
	"time"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshRenderModule draws every entity carrying a TransformComponent, a Mesh
// and a Material, seen from the first camera and lit by the first
// directional light. Headless windows get no renderer.
type MeshRenderModule struct{}

// viewUniform matches the View struct bound at @group(0) @binding(0).
type viewUniform struct {
	ViewProj   mgl32.Mat4
	CameraPos  mgl32.Vec4
	LightDir   mgl32.Vec4 // towards the light
	LightColor mgl32.Vec4 // exposed illuminance
}

type meshBatchKey struct {
	mesh     AssetId
	material AssetId
}

type meshBatch struct {
	key       meshBatchKey
	instances []meshInstance
}

type gpuMaterial struct {
	pipeline  *wgpu.RenderPipeline
	bindGroup *wgpu.BindGroup
}

func (m *gpuMaterial) Release() {
	m.bindGroup.Release()
	m.pipeline.Release()
}

type meshRenderState struct {
	gpu       *GpuState
	logger    Logger
	meshes    map[AssetId]*gpuMesh
	materials map[AssetId]*gpuMaterial

	viewBuffer     *wgpu.Buffer
	instanceBuffer *wgpu.Buffer
	instanceCap    int

	frames    int
	fpsWindow time.Duration
}

func (mod MeshRenderModule) Install(app *App, cmd *Commands) {
	logger := app.Logger().Target(LogTargetGpu)
	ws, ok := Resource[WindowState](app)
	if !ok {
		cmd.Fail(fmt.Errorf("mesh renderer: no window, install PlatformWindowModule first"))
		return
	}
	if ws.Headless() {
		logger.Debugf("headless window, mesh rendering disabled")
		return
	}
	if already, err := claimRenderer(app, rendererMesh); err != nil || already {
		if err != nil {
			cmd.Fail(fmt.Errorf("mesh renderer: %w", err))
		}
		return
	}

	gpuState, err := createGpuState(ws)
	if err != nil {
		cmd.Fail(err)
		return
	}
	viewBuffer, err := createBuffer("View Uniform", viewUniform{}, gpuState, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		gpuState.Release()
		cmd.Fail(err)
		return
	}

	app.addResources(&meshRenderState{
		gpu:        gpuState,
		logger:     logger,
		meshes:     make(map[AssetId]*gpuMesh),
		materials:  make(map[AssetId]*gpuMaterial),
		viewBuffer: viewBuffer,
	})
	app.UseSystem(
		System(meshRenderSystem).
			InStage(Render).
			RunAlways(),
	)
}

func meshRenderSystem(cmd *Commands, rs *meshRenderState, ws *WindowState, assets *AssetServer, t *Time) {
	rs.countFrame(t.Dt)

	width, height := ws.FramebufferSize()
	if width <= 0 || height <= 0 {
		// minimized
		return
	}
	rs.gpu.resize(width, height)

	view, clear, ok := collectView(cmd, rs.gpu.aspect())
	if !ok {
		return
	}
	batches := collectMeshBatches(cmd)
	if err := rs.prepare(batches, assets); err != nil {
		cmd.Fail(err)
		return
	}
	rs.draw(view, clear, batches)
}

// collectView builds the view uniform from the first camera and the first
// directional light. No camera means nothing is drawn.
func collectView(cmd *Commands, aspect float32) (viewUniform, [4]float32, bool) {
	var (
		view  viewUniform
		clear [4]float32
		found bool
	)
	MakeQuery2[TransformComponent, CameraComponent](cmd).Map(
		func(eid EntityId, tr *TransformComponent, cam *CameraComponent) bool {
			view.ViewProj = cam.ViewProjection(*tr, aspect)
			view.CameraPos = tr.Position.Vec4(1)
			clear = cam.ClearColor
			found = true

			MakeQuery2[TransformComponent, LightComponent](cmd).Map(
				func(eid EntityId, ltr *TransformComponent, light *LightComponent) bool {
					if light.Type != LightTypeDirectional {
						return true
					}
					view.LightDir = ltr.Forward().Mul(-1).Vec4(0)
					radiance := light.Intensity * cam.Exposure.Scale()
					view.LightColor = mgl32.Vec4{
						light.Color[0] * radiance,
						light.Color[1] * radiance,
						light.Color[2] * radiance,
						1,
					}
					return false
				})
			return false
		})
	return view, clear, found
}

// collectMeshBatches groups instances by mesh and material. Batches are
// ordered by asset id so draw order is stable across frames.
func collectMeshBatches(cmd *Commands) []meshBatch {
	byKey := map[meshBatchKey]*meshBatch{}
	MakeQuery3[TransformComponent, Mesh, Material](cmd).Map(
		func(eid EntityId, tr *TransformComponent, mesh *Mesh, mat *Material) bool {
			key := meshBatchKey{mesh: mesh.assetId, material: mat.assetId}
			batch, ok := byKey[key]
			if !ok {
				batch = &meshBatch{key: key}
				byKey[key] = batch
			}
			batch.instances = append(batch.instances, meshInstance{Model: tr.ObjectToWorld()})
			return true
		})

	batches := make([]meshBatch, 0, len(byKey))
	for _, b := range byKey {
		batches = append(batches, *b)
	}
	slices.SortFunc(batches, func(a, b meshBatch) int {
		if c := cmp.Compare(a.key.material, b.key.material); c != 0 {
			return c
		}
		return cmp.Compare(a.key.mesh, b.key.mesh)
	})
	return batches
}

// prepare uploads meshes, builds pipelines for newly seen materials and grows
// the instance buffer. Any failure here is fatal.
func (rs *meshRenderState) prepare(batches []meshBatch, assets *AssetServer) error {
	total := 0
	for _, b := range batches {
		total += len(b.instances)

		if _, ok := rs.meshes[b.key.mesh]; !ok {
			mesh, ok := assets.Mesh(Mesh{assetId: b.key.mesh})
			if !ok {
				return fmt.Errorf("mesh renderer: unknown mesh %s", b.key.mesh)
			}
			gm, err := createGpuMesh(mesh, rs.gpu.device)
			if err != nil {
				return fmt.Errorf("mesh renderer: mesh %s: %w", b.key.mesh, err)
			}
			rs.meshes[b.key.mesh] = gm
		}

		if _, ok := rs.materials[b.key.material]; !ok {
			mat, ok := assets.Material(Material{assetId: b.key.material})
			if !ok {
				return fmt.Errorf("mesh renderer: unknown material %s", b.key.material)
			}
			gm, err := rs.createMaterial(b.key.material, mat)
			if err != nil {
				return fmt.Errorf("mesh renderer: %w", err)
			}
			rs.materials[b.key.material] = gm
			rs.logger.Debugf("material %s ready, alpha mode %s", b.key.material, mat.AlphaMode())
		}
	}

	if total > rs.instanceCap {
		if rs.instanceBuffer != nil {
			rs.instanceBuffer.Release()
		}
		capacity := total + 128
		buf, err := rs.gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Mesh Instance Buffer",
			Size:  uint64(capacity) * uint64(unsafe.Sizeof(meshInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			rs.instanceBuffer, rs.instanceCap = nil, 0
			return fmt.Errorf("mesh renderer: instance buffer: %w", err)
		}
		rs.instanceBuffer, rs.instanceCap = buf, capacity
	}
	return nil
}

func (rs *meshRenderState) createMaterial(id AssetId, mat *MaterialAsset) (*gpuMaterial, error) {
	pipeline, err := createMeshPipeline(meshPipelineDesc{
		name:           "material " + string(id),
		vertexSource:   mat.vertexSource,
		fragmentSource: mat.fragmentSource,
		alphaMode:      mat.AlphaMode(),
	}, rs.gpu)
	if err != nil {
		return nil, err
	}

	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()
	bindGroup, err := rs.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: rs.viewBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		pipeline.Release()
		return nil, fmt.Errorf("material %s bind group: %w", id, err)
	}
	return &gpuMaterial{pipeline: pipeline, bindGroup: bindGroup}, nil
}

// draw renders a single frame. Surface problems are transient: the frame is
// skipped and logged.
func (rs *meshRenderState) draw(view viewUniform, clear [4]float32, batches []meshBatch) {
	gpuState := rs.gpu

	nextTexture, err := gpuState.surface.GetCurrentTexture()
	if err != nil {
		rs.logger.Warnf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	textureView, err := nextTexture.CreateView(nil)
	if err != nil {
		rs.logger.Warnf("CreateView failed: %v", err)
		return
	}
	defer textureView.Release()

	encoder, err := gpuState.device.CreateCommandEncoder(nil)
	if err != nil {
		rs.logger.Warnf("CreateCommandEncoder failed: %v", err)
		return
	}
	defer encoder.Release()

	if err := gpuState.queue.WriteBuffer(rs.viewBuffer, 0, toBufferBytes(view)); err != nil {
		rs.logger.Warnf("view uniform upload failed: %v", err)
		return
	}
	var instances []meshInstance
	for _, b := range batches {
		instances = append(instances, b.instances...)
	}
	if len(instances) > 0 {
		if err := gpuState.queue.WriteBuffer(rs.instanceBuffer, 0, toBufferBytes(instances)); err != nil {
			rs.logger.Warnf("instance upload failed: %v", err)
			return
		}
	}

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    textureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(clear[0]),
					G: float64(clear[1]),
					B: float64(clear[2]),
					A: float64(clear[3]),
				},
			},
		},
	})
	defer renderPass.Release()

	var firstInstance uint32
	for _, b := range batches {
		mesh := rs.meshes[b.key.mesh]
		mat := rs.materials[b.key.material]
		count := uint32(len(b.instances))

		renderPass.SetPipeline(mat.pipeline)
		renderPass.SetBindGroup(0, mat.bindGroup, nil)
		renderPass.SetVertexBuffer(0, mesh.vertexBuf, 0, wgpu.WholeSize)
		renderPass.SetVertexBuffer(1, rs.instanceBuffer, 0, wgpu.WholeSize)
		renderPass.SetIndexBuffer(mesh.indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		renderPass.DrawIndexed(mesh.indexCount, count, 0, 0, firstInstance)
		firstInstance += count
	}

	if err := renderPass.End(); err != nil {
		rs.logger.Warnf("render pass End failed: %v", err)
		return
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		rs.logger.Warnf("encoder Finish failed: %v", err)
		return
	}
	defer cmdBuffer.Release()

	gpuState.queue.Submit(cmdBuffer)
	gpuState.surface.Present()
}

func (rs *meshRenderState) countFrame(dt time.Duration) {
	rs.frames++
	rs.fpsWindow += dt
	if rs.fpsWindow >= time.Second {
		rs.logger.Debugf("%.1f fps", float64(rs.frames)/rs.fpsWindow.Seconds())
		rs.frames = 0
		rs.fpsWindow = 0
	}
}

func (rs *meshRenderState) Release() {
	for _, m := range rs.materials {
		m.Release()
	}
	for _, m := range rs.meshes {
		m.Release()
	}
	if rs.instanceBuffer != nil {
		rs.instanceBuffer.Release()
	}
	rs.viewBuffer.Release()
	rs.gpu.Release()
}
