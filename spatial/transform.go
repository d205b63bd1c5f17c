// Package spatial provides position, orientation and scale components and
// the hierarchy propagation that turns local transforms into world matrices.
package spatial

import (
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// AxisX is the world right axis.
	AxisX = mgl32.Vec3{1, 0, 0}
	// AxisY is the world up axis.
	AxisY = mgl32.Vec3{0, 1, 0}
	// AxisZ points out of the screen; forward is -Z.
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// Transform is an entity's translation, rotation and scale relative to its
// parent, or to the world when it has no Parent.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// FromXYZ returns an identity transform translated to (x, y, z).
func FromXYZ(x, y, z float32) Transform {
	t := NewTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// FromTranslation returns an identity transform translated to v.
func FromTranslation(v mgl32.Vec3) Transform {
	return FromXYZ(v[0], v[1], v[2])
}

// WithScale returns a copy of t with the given scale.
func (t Transform) WithScale(scale mgl32.Vec3) Transform {
	t.Scale = scale
	return t
}

// WithRotation returns a copy of t with the given rotation.
func (t Transform) WithRotation(rotation mgl32.Quat) Transform {
	t.Rotation = rotation
	return t
}

// LookingAt returns a copy of t rotated so that Forward points at target and
// Up lies in the plane of Forward and up. If target coincides with the
// translation, or up is parallel to the view direction, t is returned unchanged.
func (t Transform) LookingAt(target, up mgl32.Vec3) Transform {
	forward := target.Sub(t.Translation)
	if forward.Len() == 0 {
		return t
	}
	forward = forward.Normalize()

	right := forward.Cross(up)
	if right.Len() < 1e-6 {
		return t
	}
	right = right.Normalize()
	newUp := right.Cross(forward)

	basis := mgl32.Mat3FromCols(right, newUp, forward.Mul(-1))
	t.Rotation = mgl32.Mat4ToQuat(basis.Mat4()).Normalize()
	return t
}

// Right returns the local +X axis in parent space.
func (t Transform) Right() mgl32.Vec3 {
	return t.Rotation.Rotate(AxisX)
}

// Up returns the local +Y axis in parent space.
func (t Transform) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(AxisY)
}

// Forward returns the local -Z axis in parent space.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(AxisZ.Mul(-1))
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	scale := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// GlobalTransform is the world matrix of an entity, written by
// PropagateSystem each frame.
type GlobalTransform struct {
	Matrix mgl32.Mat4
}

// NewGlobalTransform returns the identity world transform.
func NewGlobalTransform() GlobalTransform {
	return GlobalTransform{Matrix: mgl32.Ident4()}
}

// Translation returns the world position.
func (g GlobalTransform) Translation() mgl32.Vec3 {
	return g.Matrix.Col(3).Vec3()
}

// TransformPoint maps a point from local to world space.
func (g GlobalTransform) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, g.Matrix)
}

// TransformDirection maps a direction from local to world space, ignoring
// translation. The result is not normalised.
func (g GlobalTransform) TransformDirection(d mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformNormal(d, g.Matrix)
}
