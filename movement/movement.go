// Package movement maps the movement keys to a per-frame translation of the
// player entity.
//
// The direction comes from two axes: horizontal (move-left -1, move-right
// +1) and vertical (move-forward -1, move-backward +1). Opposing keys cancel.
// In world mode the direction is (h, 0, v). In relative mode it is built from
// a reference orientation, normally the camera: right is the reference's
// local +X axis and forward is right × world up, so the player walks along
// the camera's view of the ground. The direction is normalised (zero stays
// zero) and scaled by speed and the frame's elapsed seconds, so diagonal and
// axis-aligned movement cover the same distance.
package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/input"
)

// Keys is the read-only view of key state the mapper needs.
type Keys interface {
	Pressed(k input.Key) bool
}

// Axes returns the horizontal and vertical axis values, each in {-1, 0, 1}.
func Axes(keys Keys) (h, v float32) {
	if keys.Pressed(input.MoveLeft) {
		h -= 1
	}
	if keys.Pressed(input.MoveRight) {
		h += 1
	}
	if keys.Pressed(input.MoveForward) {
		v -= 1
	}
	if keys.Pressed(input.MoveBackward) {
		v += 1
	}
	return h, v
}

// Direction builds the unnormalised movement vector for the axis values.
// A nil reference selects world axes.
//
// The relative forward vector is right × up without re-projecting right onto
// the ground plane; with a rolled reference it leaves the horizontal plane.
func Direction(h, v float32, reference *mgl32.Quat) mgl32.Vec3 {
	if reference == nil {
		return mgl32.Vec3{h, 0, v}
	}

	right := reference.Rotate(mgl32.Vec3{1, 0, 0})
	forward := right.Cross(mgl32.Vec3{0, 1, 0})
	return right.Mul(h).Add(forward.Mul(v))
}

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v
// has zero length.
func NormalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	length := v.Len()
	if length == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / length)
}

// Displacement returns the translation for one frame.
func Displacement(keys Keys, reference *mgl32.Quat, dt, speed float32) mgl32.Vec3 {
	h, v := Axes(keys)
	return NormalizeOrZero(Direction(h, v, reference)).Mul(speed * dt)
}

// Step returns position moved by one frame of input.
func Step(position mgl32.Vec3, keys Keys, reference *mgl32.Quat, dt, speed float32) mgl32.Vec3 {
	return position.Add(Displacement(keys, reference, dt, speed))
}
