package spatial_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/spatial"
	"github.com/stretchr/testify/assert"
)

func newSpatialScheduler() (*ecs.Storage, *ecs.Scheduler) {
	registry := ecs.NewComponentRegistry()
	spatial.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&spatial.PropagateSystem{})
	return storage, scheduler
}

func TestPropagateRootsAndChildren(t *testing.T) {
	storage, scheduler := newSpatialScheduler()

	root := storage.Spawn(
		spatial.FromXYZ(-0.5, 0, -0.7).WithScale(mgl32.Vec3{0.4, 0.4, 0.4}),
		spatial.NewGlobalTransform(),
	)
	child := storage.Spawn(
		spatial.FromXYZ(0, 1, 0),
		spatial.NewGlobalTransform(),
		spatial.Parent{Id: root},
	)
	grandchild := storage.Spawn(
		spatial.FromXYZ(0, 1, 0),
		spatial.NewGlobalTransform(),
		spatial.Parent{Id: child},
	)

	scheduler.Once(0)

	assertVec(t, mgl32.Vec3{-0.5, 0, -0.7}, ecs.ReadComponent[spatial.GlobalTransform](storage, root).Translation())
	assertVec(t, mgl32.Vec3{-0.5, 0.4, -0.7}, ecs.ReadComponent[spatial.GlobalTransform](storage, child).Translation())
	assertVec(t, mgl32.Vec3{-0.5, 0.8, -0.7}, ecs.ReadComponent[spatial.GlobalTransform](storage, grandchild).Translation())

	// Moving the root moves the children on the next frame.
	ecs.ReadComponent[spatial.Transform](storage, root).Translation = mgl32.Vec3{1, 0, 0}
	scheduler.Once(0)
	assertVec(t, mgl32.Vec3{1, 0.4, 0}, ecs.ReadComponent[spatial.GlobalTransform](storage, child).Translation())
}

func TestPropagateMissingParentIsWorldOrigin(t *testing.T) {
	storage, scheduler := newSpatialScheduler()

	orphan := storage.Spawn(spatial.FromXYZ(2, 0, 0), spatial.NewGlobalTransform(), spatial.Parent{Id: 999})
	scheduler.Once(0)

	assertVec(t, mgl32.Vec3{2, 0, 0}, ecs.ReadComponent[spatial.GlobalTransform](storage, orphan).Translation())
}

func TestPropagateCyclePanics(t *testing.T) {
	storage, scheduler := newSpatialScheduler()

	a := storage.Spawn(spatial.NewTransform(), spatial.NewGlobalTransform())
	b := storage.Spawn(spatial.NewTransform(), spatial.NewGlobalTransform(), spatial.Parent{Id: a})
	storage.AddComponent(a, spatial.Parent{Id: b})

	assert.Panics(t, func() { scheduler.Once(0) })
}
