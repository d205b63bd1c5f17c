package spatial_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/spatial"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

// assertVec compares component-wise with an absolute tolerance. Rotations
// leave float noise on components that should be zero, which a relative
// comparison rejects.
func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], eps, "want %v, got %v", want, got)
}

func TestNewTransformIsIdentity(t *testing.T) {
	tr := spatial.NewTransform()

	assertVec(t, spatial.AxisX, tr.Right())
	assertVec(t, spatial.AxisY, tr.Up())
	assertVec(t, mgl32.Vec3{0, 0, -1}, tr.Forward())
	ident := mgl32.Ident4()
	matrix := tr.Matrix()
	assert.InDeltaSlice(t, ident[:], matrix[:], eps)
}

func TestLookingAtFromCameraCorner(t *testing.T) {
	tr := spatial.FromXYZ(5, 5, 5).LookingAt(mgl32.Vec3{}, spatial.AxisY)

	s2 := float32(1 / math.Sqrt2)
	s3 := float32(1 / math.Sqrt(3))
	assertVec(t, mgl32.Vec3{-s3, -s3, -s3}, tr.Forward())
	assertVec(t, mgl32.Vec3{s2, 0, -s2}, tr.Right())
	assert.Greater(t, tr.Up().Y(), float32(0))
	assertVec(t, mgl32.Vec3{5, 5, 5}, tr.Translation)
}

func TestLookingAtDegenerateKeepsRotation(t *testing.T) {
	tr := spatial.FromXYZ(1, 2, 3)

	assert.Equal(t, tr, tr.LookingAt(mgl32.Vec3{1, 2, 3}, spatial.AxisY))
	assert.Equal(t, tr, tr.LookingAt(mgl32.Vec3{1, 10, 3}, spatial.AxisY))
}

func TestYawRotatesRightAxis(t *testing.T) {
	tr := spatial.NewTransform().WithRotation(mgl32.QuatRotate(mgl32.DegToRad(-90), spatial.AxisY))

	assertVec(t, spatial.AxisZ, tr.Right())
}

func TestMatrixAppliesScaleRotationTranslation(t *testing.T) {
	tr := spatial.FromXYZ(1, 0, 0).
		WithRotation(mgl32.QuatRotate(mgl32.DegToRad(90), spatial.AxisY)).
		WithScale(mgl32.Vec3{2, 2, 2})

	global := spatial.GlobalTransform{Matrix: tr.Matrix()}

	// (1,0,0) scaled to (2,0,0), rotated +90deg about Y to (0,0,-2), moved by +X.
	assertVec(t, mgl32.Vec3{1, 0, -2}, global.TransformPoint(spatial.AxisX))
	assertVec(t, mgl32.Vec3{1, 0, 0}, global.Translation())
	assertVec(t, mgl32.Vec3{0, 0, -2}, global.TransformDirection(spatial.AxisX))
}
