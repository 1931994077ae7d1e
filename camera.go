package gekko

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EV100 presets. Blender renders at EV100 9.7 with its default settings.
const (
	EV100Blender        float32 = 9.7
	EV100PhysicalCamera float32 = 0
)

// Exposure controls how scene luminance maps onto the output.
type Exposure struct {
	EV100 float32
}

var ExposureBlender = Exposure{EV100: EV100Blender}

// Scale is the multiplier applied to scene radiance: 2^-EV100 / 1.2.
func (e Exposure) Scale() float32 {
	return float32(math.Exp2(float64(-e.EV100)) / 1.2)
}

type Tonemapping uint32

const (
	TonemappingNone Tonemapping = iota
	TonemappingReinhard
	TonemappingTonyMcMapface
)

type CameraComponent struct {
	Hdr         bool
	ClearColor  [4]float32
	Exposure    Exposure
	Tonemapping Tonemapping
	FovY        float32 // radians
	Near        float32
	Far         float32
}

// DepthPrepass and BloomSettings mark camera post-processing requests.
type DepthPrepass struct{}

type BloomSettings struct {
	Intensity float32
}

func NewCamera3d() CameraComponent {
	return CameraComponent{
		ClearColor:  [4]float32{0, 0, 0, 1},
		Exposure:    ExposureBlender,
		Tonemapping: TonemappingTonyMcMapface,
		FovY:        math.Pi / 4,
		Near:        0.1,
		Far:         1000,
	}
}

func DefaultBloomSettings() BloomSettings {
	return BloomSettings{Intensity: 0.15}
}

// wgpu clip space keeps z in [0, 1]; mgl32 projections produce [-1, 1].
var clipDepthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func (c CameraComponent) Projection(aspect float32) mgl32.Mat4 {
	return clipDepthCorrection.Mul4(mgl32.Perspective(c.FovY, aspect, c.Near, c.Far))
}

// ViewProjection combines the camera's projection with the inverse of its transform.
func (c CameraComponent) ViewProjection(tr TransformComponent, aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(tr.WorldToObject())
}
