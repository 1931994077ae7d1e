package shield

import (
	"fmt"
	"math"

	gekko "github.com/gekko3d/sceneviewer"
	"github.com/go-gl/mathgl/mgl32"
)

// App states. The window stays hidden during warmup so the first frames
// are not shown before the GPU produced an image.
const (
	StateWarmup gekko.State = iota
	StateRunning
	StateExiting
)

const (
	GridSize = 20

	SphereRadius       float32 = 2.0
	SphereSubdivisions         = 2
	SphereScale        float32 = 4.0

	// RevealFrame is the frame on which the window is shown.
	RevealFrame uint32 = 3
)

// RotationStep is applied to every Rotatable once per frame.
var RotationStep = mgl32.QuatRotate(0.01, mgl32.Vec3{1, 0, 0})

var (
	CameraPosition = mgl32.Vec3{0, 0, 100}
	LightPosition  = mgl32.Vec3{4, 4, 10}
)

type Module struct{}

func (Module) Install(app *gekko.App, cmd *gekko.Commands) {
	app.UseSystem(
		gekko.System(Setup).
			InStage(gekko.Update).
			InState(gekko.OnEnter(StateWarmup)),
	)
	app.UseSystem(
		gekko.System(MakeVisible).
			InStage(gekko.Update).
			InState(gekko.OnExecute(StateWarmup)),
	)
	app.UseSystem(
		gekko.System(Rotate).
			InStage(gekko.Update).
			RunAlways(),
	)
	app.UseSystem(
		gekko.System(CloseOnEscape).
			InStage(gekko.PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		gekko.System(logExit).
			InStage(gekko.Finale).
			InState(gekko.OnEnter(StateExiting)),
	)
}

// Setup spawns the camera, the light and the shield grid. All spheres
// share one mesh and one material.
func Setup(cmd *gekko.Commands, assets *gekko.AssetServer) {
	camera := gekko.NewCamera3d()
	camera.Hdr = true
	camera.ClearColor = [4]float32{0, 0, 0, 1}
	camera.Exposure = gekko.ExposureBlender
	camera.Tonemapping = gekko.TonemappingTonyMcMapface
	cameraTransform := gekko.TransformFromTranslation(CameraPosition).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	bloom := gekko.DefaultBloomSettings()
	cmd.AddEntity(
		&cameraTransform,
		&camera,
		&gekko.DepthPrepass{},
		&bloom,
	)

	lightTransform := gekko.TransformFromTranslation(LightPosition)
	lightTransform.Rotation = mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{0, 1, 0})
	light := gekko.NewDirectionalLight(gekko.LuxOvercastDay)
	light.ShadowsEnabled = false
	cmd.AddEntity(&lightTransform, &light)

	sphere, err := gekko.IcosphereMesh(SphereRadius, SphereSubdivisions)
	if err != nil {
		cmd.Fail(fmt.Errorf("shield mesh: %w", err))
		return
	}
	mesh := assets.AddMesh(sphere)

	shieldMaterial := ShieldMaterial{Alpha: gekko.AlphaAdd}
	material, err := assets.AddMaterial(shieldMaterial, gekko.WithAlphaMode(shieldMaterial.Alpha))
	if err != nil {
		cmd.Fail(fmt.Errorf("shield material: %w", err))
		return
	}

	for range GridSize * GridSize {
		cmd.Add(SpawnShieldedSphere{
			Transform:      gekko.TransformFromScale(mgl32.Vec3{SphereScale, SphereScale, SphereScale}),
			Shield:         mesh,
			ShieldMaterial: material,
		})
	}
	cmd.Logger().Infof("spawned %d shields", GridSize*GridSize)
}

// MakeVisible reveals the window once warmup frames are done and moves the
// app into its running state.
func MakeVisible(cmd *gekko.Commands, window *gekko.WindowState, frames *gekko.FrameCount) {
	if frames.Count < RevealFrame {
		return
	}
	window.SetVisible(true)
	cmd.ChangeState(StateRunning)
}

func Rotate(cmd *gekko.Commands) {
	gekko.MakeQuery1[gekko.TransformComponent](cmd).
		With(Rotatable{}).
		Map(func(eid gekko.EntityId, t *gekko.TransformComponent) bool {
			t.Rotate(RotationStep)
			return true
		})
}

func CloseOnEscape(cmd *gekko.Commands, input *gekko.Input) {
	if input.JustPressed[gekko.KeyEscape] {
		cmd.Exit()
	}
}

func logExit(cmd *gekko.Commands) {
	cmd.Logger().Infof("exiting")
}
