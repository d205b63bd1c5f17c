package movement

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/input"
	"github.com/plus3/screenspace/spatial"
)

// DefaultSpeed is the player speed in world units per second.
const DefaultSpeed = 1.0

// Settings configures the movement system. It is a singleton so the debug UI
// can change it at runtime.
type Settings struct {
	Speed float32
	// Relative moves the player along the camera's axes instead of the
	// world's.
	Relative bool
}

// DefaultSettings returns unit speed in world-axis mode.
func DefaultSettings() Settings {
	return Settings{Speed: DefaultSpeed}
}

// Player marks the entity moved by the keyboard.
type Player struct{}

// Reference marks the entity whose orientation drives relative movement.
type Reference struct{}

// RegisterComponents registers the movement marker components.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Reference](registry)
}

type playerView = struct {
	ecs.EntityId
	*spatial.Transform
	*Player
}

type referenceView = struct {
	ecs.EntityId
	*spatial.Transform
	*Reference
}

// System moves the single Player entity by the keyboard each frame.
//
// Validate must succeed before the first frame: it resolves the player and,
// in relative mode, the reference entity once, and Execute trusts those ids
// afterwards.
type System struct {
	Players    ecs.Query[playerView]
	References ecs.Query[referenceView]
	Keyboard   ecs.Singleton[input.Keyboard]
	Settings   ecs.Singleton[Settings]

	player    ecs.EntityId
	reference ecs.EntityId
}

// Validate checks that exactly one player exists and, when relative
// movement is enabled, exactly one reference.
func (s *System) Validate(storage *ecs.Storage) error {
	if !s.Keyboard.Exists() {
		return fmt.Errorf("keyboard singleton missing")
	}

	player, err := s.Players.Single()
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	s.player = player.EntityId

	s.reference = 0
	if !s.settings().Relative {
		return nil
	}

	reference, err := s.References.Single()
	if err != nil {
		return fmt.Errorf("relative movement reference: %w", err)
	}
	s.reference = reference.EntityId
	return nil
}

func (s *System) settings() Settings {
	if settings := s.Settings.Get(); settings != nil {
		return *settings
	}
	return DefaultSettings()
}

func (s *System) Execute(frame *ecs.UpdateFrame) {
	player := s.Players.Get(s.player)
	if player == nil {
		panic(fmt.Sprintf("movement: player entity %d missing, was Validate called?", s.player))
	}

	settings := s.settings()

	var reference *mgl32.Quat
	if settings.Relative {
		// Relative mode may be switched on after validation.
		if !s.reference.Valid() {
			item, err := s.References.Single()
			if err != nil {
				panic(fmt.Sprintf("movement: relative mode without a reference: %v", err))
			}
			s.reference = item.EntityId
		}
		ref := s.References.Get(s.reference)
		if ref == nil {
			panic(fmt.Sprintf("movement: reference entity %d missing", s.reference))
		}
		rotation := ref.Transform.Rotation
		reference = &rotation
	}

	player.Transform.Translation = Step(
		player.Transform.Translation,
		s.Keyboard.Get(),
		reference,
		float32(frame.DeltaTime),
		settings.Speed,
	)
}

// Player returns the entity resolved by Validate.
func (s *System) Player() ecs.EntityId {
	return s.player
}
