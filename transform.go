package gekko

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent places an entity in world space. Objects look down -Z
// with +Y up, so Forward() is Rotation applied to (0, 0, -1).
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() TransformComponent {
	return TransformComponent{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func TransformFromTranslation(position mgl32.Vec3) TransformComponent {
	t := NewTransform()
	t.Position = position
	return t
}

func TransformFromScale(scale mgl32.Vec3) TransformComponent {
	t := NewTransform()
	t.Scale = scale
	return t
}

// Rotate applies q on top of the current orientation (world-space rotation).
func (t *TransformComponent) Rotate(q mgl32.Quat) {
	t.Rotation = q.Mul(t.Rotation)
}

// LookingAt returns a copy rotated so Forward() points at target. A
// degenerate request (target at the position, or up parallel to the view
// direction) leaves the rotation untouched.
func (t TransformComponent) LookingAt(target mgl32.Vec3, up mgl32.Vec3) TransformComponent {
	back := t.Position.Sub(target)
	if back.Len() < 1e-6 {
		return t
	}
	back = back.Normalize()

	right := up.Cross(back)
	if right.Len() < 1e-6 {
		return t
	}
	right = right.Normalize()
	realUp := back.Cross(right)

	basis := mgl32.Mat4{
		right.X(), right.Y(), right.Z(), 0,
		realUp.X(), realUp.Y(), realUp.Z(), 0,
		back.X(), back.Y(), back.Z(), 0,
		0, 0, 0, 1,
	}
	t.Rotation = mgl32.Mat4ToQuat(basis).Normalize()
	return t
}

func (t TransformComponent) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (t TransformComponent) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

func (t TransformComponent) WorldToObject() mgl32.Mat4 {
	// inv(M) = inv(S) * inv(R) * inv(T)
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invScale.Mul4(invRotate).Mul4(invTranslate)
}
