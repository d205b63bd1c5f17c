package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/input"
	"github.com/plus3/screenspace/movement"
	"github.com/plus3/screenspace/spatial"
)

// tolerance absorbs float32 rounding in the per-frame distance check.
const tolerance = 1e-4

// CheckResults accumulates what InvariantSystem observed.
type CheckResults struct {
	Frames         int64
	MovingFrames   int64
	IdleFrames     int64
	Violations     int64
	MaxError       float64
	EntityCount    int
	EntityChanges  int64
	Distance       float64
	FirstViolation string
}

// InvariantSystem runs after the movement system and checks each frame that
// the player moved exactly speed×dt when a direction was held, not at all
// otherwise, and that no entity was created or destroyed.
type InvariantSystem struct {
	Players ecs.Query[struct {
		*spatial.Transform
		*movement.Player
	}]
	Keyboard ecs.Singleton[input.Keyboard]
	Settings ecs.Singleton[movement.Settings]
	Results  ecs.Singleton[CheckResults]

	previous mgl32.Vec3
	started  bool
}

func (s *InvariantSystem) Execute(frame *ecs.UpdateFrame) {
	results := s.Results.Get()
	player, err := s.Players.Single()
	if err != nil {
		s.violation(results, 1, "player: "+err.Error())
		return
	}

	current := player.Transform.Translation
	entities := frame.Storage.Len()
	if !s.started {
		s.previous = current
		s.started = true
		results.EntityCount = entities
		return
	}
	results.Frames++
	if entities != results.EntityCount {
		results.EntityChanges++
		results.EntityCount = entities
	}

	moved := float64(current.Sub(s.previous).Len())
	s.previous = current
	results.Distance += moved

	h, v := movement.Axes(s.Keyboard.Get())
	expected := 0.0
	if h != 0 || v != 0 {
		expected = float64(s.Settings.Get().Speed) * frame.DeltaTime
		results.MovingFrames++
	} else {
		results.IdleFrames++
	}

	if diff := abs(moved - expected); diff > tolerance*max(1, expected) {
		s.violation(results, diff, "distance mismatch")
	}
}

func (s *InvariantSystem) violation(results *CheckResults, diff float64, reason string) {
	results.Violations++
	results.MaxError = max(results.MaxError, diff)
	if results.FirstViolation == "" {
		results.FirstViolation = reason
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
