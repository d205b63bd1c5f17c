package main

import (
	"testing"

	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/input"
	"github.com/plus3/screenspace/movement"
	"github.com/plus3/screenspace/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// teleportSystem moves the player outside the movement system.
type teleportSystem struct {
	Players ecs.Query[struct {
		*spatial.Transform
		*movement.Player
	}]
	at int
	n  int
}

func (s *teleportSystem) Execute(frame *ecs.UpdateFrame) {
	s.n++
	if s.n != s.at {
		return
	}
	player, err := s.Players.Single()
	if err == nil {
		player.Transform.Translation[1] += 3
	}
}

func newCheckWorld(t *testing.T, extra ecs.System, frames ...input.KeySet) (*ecs.Storage, *ecs.Scheduler, *CheckResults) {
	t.Helper()

	registry := ecs.NewComponentRegistry()
	spatial.RegisterComponents(registry)
	movement.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	storage.Spawn(spatial.NewTransform(), movement.Player{})

	input.Install(storage)
	ecs.NewSingleton(storage, movement.DefaultSettings())
	results := ecs.NewSingleton[CheckResults](storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&input.PollSystem{Source: input.NewScript(true, frames...)})
	scheduler.Register(&movement.System{})
	if extra != nil {
		scheduler.Register(extra)
	}
	scheduler.Register(&InvariantSystem{})
	require.NoError(t, scheduler.Validate())
	return storage, scheduler, results.Get()
}

func TestInvariantSystemPasses(t *testing.T) {
	_, scheduler, results := newCheckWorld(t, nil,
		input.NewKeySet(input.MoveForward, input.MoveRight),
		input.NewKeySet(),
		input.NewKeySet(input.MoveLeft, input.MoveRight),
	)

	for range 7 {
		scheduler.Once(0.1)
	}

	// The first frame only records the baseline.
	assert.EqualValues(t, 6, results.Frames)
	assert.EqualValues(t, 2, results.MovingFrames)
	assert.EqualValues(t, 4, results.IdleFrames)
	assert.Zero(t, results.Violations)
	assert.InDelta(t, 0.2, results.Distance, 1e-5)
}

func TestInvariantSystemDetectsStrayMovement(t *testing.T) {
	_, scheduler, results := newCheckWorld(t, &teleportSystem{at: 3}, input.NewKeySet())

	for range 5 {
		scheduler.Once(0.1)
	}

	assert.EqualValues(t, 1, results.Violations)
	assert.Equal(t, "distance mismatch", results.FirstViolation)
	assert.InDelta(t, 3, results.MaxError, 1e-5)
}

func TestInvariantSystemCountsEntityChanges(t *testing.T) {
	storage, scheduler, results := newCheckWorld(t, nil, input.NewKeySet(input.MoveForward))

	scheduler.Once(0.1)
	storage.Spawn(spatial.NewTransform())
	scheduler.Once(0.1)

	assert.EqualValues(t, 1, results.EntityChanges)
	assert.Zero(t, results.Violations)
}
