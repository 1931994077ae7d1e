package gekko

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestExposure_Scale(t *testing.T) {
	assert.InDelta(t, 1/1.2, Exposure{EV100: 0}.Scale(), 1e-6)
	assert.InDelta(t, math.Exp2(-9.7)/1.2, ExposureBlender.Scale(), 1e-7)
	assert.InDelta(t, 1.0, LuxOvercastDay*ExposureBlender.Scale(), 0.05, "overcast daylight lands near unit radiance")
}

func TestCamera_Defaults(t *testing.T) {
	cam := NewCamera3d()

	assert.Equal(t, [4]float32{0, 0, 0, 1}, cam.ClearColor)
	assert.Equal(t, ExposureBlender, cam.Exposure)
	assert.Equal(t, TonemappingTonyMcMapface, cam.Tonemapping)
	assert.False(t, cam.Hdr)
}

func TestCamera_ViewProjectionDepthRange(t *testing.T) {
	cam := NewCamera3d()
	tr := TransformFromTranslation(mgl32.Vec3{0, 0, 100}).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	vp := cam.ViewProjection(tr, 450.0/800.0)

	project := func(p mgl32.Vec3) mgl32.Vec3 {
		clip := vp.Mul4x1(p.Vec4(1))
		return clip.Vec3().Mul(1 / clip.W())
	}

	origin := project(mgl32.Vec3{})
	assert.InDelta(t, 0, origin.X(), 1e-5)
	assert.InDelta(t, 0, origin.Y(), 1e-5)
	assert.Greater(t, origin.Z(), float32(0))
	assert.Less(t, origin.Z(), float32(1))

	near := project(mgl32.Vec3{0, 0, 100 - cam.Near})
	far := project(mgl32.Vec3{0, 0, 100 - cam.Far})
	assert.InDelta(t, 0, near.Z(), 1e-3)
	assert.InDelta(t, 1, far.Z(), 1e-3)
}
