package ecs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plus3/screenspace/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	dt := float32(frame.DeltaTime)
	for item := range s.Entities.Iter() {
		item.Position.X += item.Velocity.DX * dt
		item.Position.Y += item.Velocity.DY * dt
		item.Position.Z += item.Velocity.DZ * dt
	}
}

type HealthTotals struct {
	Total int
}

type HealthSystem struct {
	Entities ecs.Query[struct{ *Health }]
	Totals   ecs.Singleton[HealthTotals]
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	totals := s.Totals.Get()
	totals.Total = 0
	for item := range s.Entities.Iter() {
		totals.Total += item.Health.Current
	}
}

type singleMarkerSystem struct {
	Marked ecs.Query[struct {
		ecs.EntityId
		*Marker
	}]
}

func (s *singleMarkerSystem) Execute(frame *ecs.UpdateFrame) {}

func (s *singleMarkerSystem) Validate(storage *ecs.Storage) error {
	_, err := s.Marked.Single()
	return err
}

func TestSchedulerRunsSystemsInOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[HealthTotals](storage)
	scheduler := ecs.NewScheduler(storage)

	movement := &MovementSystem{}
	health := &HealthSystem{}
	scheduler.Register(movement)
	scheduler.Register(health)

	id := storage.Spawn(Position{}, Velocity{DX: 1, DY: 2})
	storage.Spawn(Health{Current: 50, Max: 100})
	storage.Spawn(Health{Current: 25, Max: 100})

	scheduler.Once(0.5)
	scheduler.Once(0.5)

	assert.Equal(t, 2, movement.ExecuteCount)
	assert.Equal(t, Position{X: 1, Y: 2}, *ecs.ReadComponent[Position](storage, id))
	assert.Equal(t, 75, health.Totals.Get().Total)

	stats := scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(4), stats.TotalExecutions)
	assert.Equal(t, int64(2), stats.Frames)
	assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
	assert.Equal(t, "HealthSystem", stats.Systems[1].Name)
	assert.LessOrEqual(t, stats.Systems[0].MinDuration, stats.Systems[0].MaxDuration)
}

func TestSchedulerStatsBeforeFirstFrame(t *testing.T) {
	scheduler := ecs.NewScheduler(ecs.NewStorage(newTestRegistry()))
	scheduler.Register(&MovementSystem{})

	stats := scheduler.GetStats()
	assert.Equal(t, time.Duration(0), stats.Systems[0].MinDuration)
	assert.Equal(t, time.Duration(0), stats.Systems[0].AvgDuration)
}

func TestSchedulerValidate(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&singleMarkerSystem{})

	err := scheduler.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecs.ErrNoMatch))
	assert.Contains(t, err.Error(), "singleMarkerSystem")

	storage.Spawn(Marker{})
	assert.NoError(t, scheduler.Validate())

	storage.Spawn(Marker{}, Position{})
	assert.True(t, errors.Is(scheduler.Validate(), ecs.ErrAmbiguousMatch))
}

type tickSystem struct {
	ticks atomic.Int64
}

func (s *tickSystem) Execute(frame *ecs.UpdateFrame) {
	s.ticks.Add(1)
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	ticker := &tickSystem{}
	scheduler.Register(ticker)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return ticker.ticks.Load() > 0
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
