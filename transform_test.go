package gekko

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransform_LookingAt(t *testing.T) {
	tr := TransformFromTranslation(mgl32.Vec3{0, 0, 100}).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	assertVec3(t, mgl32.Vec3{0, 0, -1}, tr.Forward(), 1e-4)
	assertQuat(t, mgl32.QuatIdent(), tr.Rotation, 1e-5)

	side := TransformFromTranslation(mgl32.Vec3{10, 0, 0}).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, side.Forward(), 1e-4)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, side.Rotation.Rotate(mgl32.Vec3{0, 1, 0}), 1e-4)
}

func TestTransform_LookingAtDegenerate(t *testing.T) {
	tr := TransformFromTranslation(mgl32.Vec3{0, 5, 0})

	assert.Equal(t, tr, tr.LookingAt(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 1, 0}), "target at the position")
	assert.Equal(t, tr, tr.LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}), "up parallel to the view direction")
}

func TestTransform_RotateComposes(t *testing.T) {
	step := mgl32.QuatRotate(0.01, mgl32.Vec3{1, 0, 0})
	tr := NewTransform()

	for range 100 {
		tr.Rotate(step)
	}

	expected := mgl32.QuatRotate(1, mgl32.Vec3{1, 0, 0})
	assertQuat(t, expected, tr.Rotation, 1e-4)
}

func TestTransform_RotateIsWorldSpace(t *testing.T) {
	tr := NewTransform()
	tr.Rotation = mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})

	tr.Rotate(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{1, 0, 0}))

	// yaw turns forward to -X, the world X pitch then leaves it there
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, tr.Forward(), 1e-4)
}

func TestTransform_WorldToObjectInvertsObjectToWorld(t *testing.T) {
	tr := TransformComponent{
		Position: mgl32.Vec3{1, -2, 3},
		Rotation: mgl32.QuatRotate(0.7, mgl32.Vec3{1, 1, 0}.Normalize()),
		Scale:    mgl32.Vec3{4, 4, 4},
	}

	identity := tr.ObjectToWorld().Mul4(tr.WorldToObject())
	assertMat4(t, mgl32.Ident4(), identity, 1e-4)

	p := tr.ObjectToWorld().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVec3(t, tr.Position.Add(tr.Rotation.Rotate(mgl32.Vec3{4, 0, 0})), p, 1e-4)
}
