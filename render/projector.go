package render

import "github.com/go-gl/mathgl/mgl32"

// Projector maps world positions to window pixels for one camera and
// viewport. Pixel y grows downwards.
type Projector struct {
	view          mgl32.Mat4
	forward       mgl32.Vec3
	halfW, halfH  float32
	width, height float32
	near, far     float32
}

// NewProjector returns a projector for a camera at cameraWorld.
func NewProjector(cameraWorld mgl32.Mat4, projection Orthographic, width, height int) Projector {
	w, h := projection.ViewSize(width, height)
	return Projector{
		view:    cameraWorld.Inv(),
		forward: mgl32.TransformNormal(mgl32.Vec3{0, 0, -1}, cameraWorld).Normalize(),
		halfW:   w / 2,
		halfH:   h / 2,
		width:   float32(width),
		height:  float32(height),
		near:    projection.Near,
		far:     projection.Far,
	}
}

// Project returns the pixel position of p and its depth in front of the
// camera. ok is false when p lies outside the near/far range.
func (pr Projector) Project(p mgl32.Vec3) (x, y, depth float32, ok bool) {
	v := mgl32.TransformCoordinate(p, pr.view)
	depth = -v.Z()
	x = (v.X()/pr.halfW + 1) / 2 * pr.width
	y = (1 - v.Y()/pr.halfH) / 2 * pr.height
	return x, y, depth, depth >= pr.near && depth <= pr.far
}

// Forward returns the camera's viewing direction in world space.
func (pr Projector) Forward() mgl32.Vec3 {
	return pr.forward
}

// FacesCamera reports whether a surface with world normal n is turned
// towards the camera.
func (pr Projector) FacesCamera(n mgl32.Vec3) bool {
	return n.Dot(pr.forward) < 0
}
