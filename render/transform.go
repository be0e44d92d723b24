package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns M = T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Normalize().Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

// Inverse returns inv(S) * inv(R) * inv(T) without a general matrix inversion.
func (t Transform) Inverse() mgl32.Mat4 {
	invScale := mgl32.Scale3D(safeInv(t.Scale.X()), safeInv(t.Scale.Y()), safeInv(t.Scale.Z()))
	invRotate := t.Rotation.Normalize().Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// Lerp blends position and scale linearly and rotation spherically.
func (t Transform) Lerp(to Transform, amount float32) Transform {
	return Transform{
		Position: t.Position.Add(to.Position.Sub(t.Position).Mul(amount)),
		Rotation: mgl32.QuatSlerp(t.Rotation, to.Rotation, amount),
		Scale:    t.Scale.Add(to.Scale.Sub(t.Scale).Mul(amount)),
	}
}

func safeInv(v float32) float32 {
	if v > -1e-6 && v < 1e-6 {
		return 0
	}
	return 1.0 / v
}
