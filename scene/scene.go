// Package scene builds the demo world: an orthographic camera, a directional
// light, a ground plane and a hidden block drawn with the screen-space
// material, and the player, a capsule with two eyes.
package scene

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/assets"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/movement"
	"github.com/plus3/screenspace/render"
	"github.com/plus3/screenspace/spatial"
)

// ErrMissingAsset is returned by Validate when a drawable refers to a mesh or
// material that was never added.
var ErrMissingAsset = errors.New("missing asset")

// Player tags the entity the keyboard moves.
type Player = movement.Player

// MainCamera tags the camera; relative movement follows its orientation.
type MainCamera = movement.Reference

// ClearColor is the window background.
var ClearColor = color.RGBA{0x66, 0x66, 0x66, 0xff}

// Config holds the scene layout.
type Config struct {
	LevelTexture string       `yaml:"level_texture"`
	PlaneSize    float32      `yaml:"plane_size"`
	Camera       CameraConfig `yaml:"camera"`
	Light        LightConfig  `yaml:"light"`
	Player       PlayerConfig `yaml:"player"`
	// EyeSubdivisions is the icosphere detail of the player's eyes.
	EyeSubdivisions int `yaml:"eye_subdivisions"`
}

type CameraConfig struct {
	Position      mgl32.Vec3 `yaml:"position"`
	Target        mgl32.Vec3 `yaml:"target"`
	Scale         float32    `yaml:"scale"`
	FixedVertical float32    `yaml:"fixed_vertical"`
}

type LightConfig struct {
	Position    mgl32.Vec3 `yaml:"position"`
	Target      mgl32.Vec3 `yaml:"target"`
	Illuminance float32    `yaml:"illuminance"`
}

type PlayerConfig struct {
	Position mgl32.Vec3 `yaml:"position"`
	Scale    float32    `yaml:"scale"`
	// Yaw is the rotation about world up in degrees.
	Yaw float32 `yaml:"yaw"`
}

// DefaultConfig returns the standard layout.
func DefaultConfig() Config {
	return Config{
		LevelTexture: "level.png",
		PlaneSize:    15,
		Camera: CameraConfig{
			Position:      mgl32.Vec3{5, 5, 5},
			Scale:         3,
			FixedVertical: 2,
		},
		Light: LightConfig{
			Position:    mgl32.Vec3{10, 20, 10},
			Illuminance: 25000,
		},
		Player: PlayerConfig{
			Position: mgl32.Vec3{-0.5, 0, -0.7},
			Scale:    0.4,
			Yaw:      -135,
		},
		EyeSubdivisions: 2,
	}
}

// Scene lists the entities Setup spawned.
type Scene struct {
	Camera      ecs.EntityId
	Light       ecs.EntityId
	Plane       ecs.EntityId
	SecretBlock ecs.EntityId
	Player      ecs.EntityId
	Body        ecs.EntityId
	Eyes        [2]ecs.EntityId
}

// RegisterComponents registers every component type the scene uses.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	spatial.RegisterComponents(registry)
	movement.RegisterComponents(registry)
	render.RegisterComponents(registry)
}

var (
	secretBlockPosition = mgl32.Vec3{0.2, 0.2, -0.04}
	secretBlockScale    = mgl32.Vec3{1, 3, 1}
	bodyOffset          = mgl32.Vec3{0, 1, 0}
	eyeLeft             = mgl32.Vec3{-0.2, 1.6, -0.4}
	eyeScale            = float32(0.15)
)

const (
	secretBlockSize   = 0.3
	capsuleRadius     = 0.5
	capsuleDepth      = 1
	capsuleLatitudes  = 16
	capsuleLongitudes = 32
)

// Setup spawns the scene into storage. Meshes and materials go into the
// render.Resources singleton, which is created if needed and shares the
// server's image table.
func Setup(storage *ecs.Storage, server *assets.Server, cfg Config) Scene {
	var res *render.Resources
	if !storage.ReadSingleton(&res) {
		storage.AddSingleton(render.NewResources(server.Images()))
		storage.ReadSingleton(&res)
	}

	spawn := func(t spatial.Transform, components ...any) ecs.EntityId {
		return storage.Spawn(append([]any{t, spatial.NewGlobalTransform()}, components...)...)
	}
	drawable := func(mesh *render.Mesh, material render.Material) render.Drawable {
		return render.Drawable{
			Mesh:     res.Meshes.Add(*mesh),
			Material: res.Materials.Add(material),
		}
	}

	var s Scene

	s.Camera = spawn(
		spatial.FromTranslation(cfg.Camera.Position).LookingAt(cfg.Camera.Target, spatial.AxisY),
		render.Camera{
			Projection: render.Orthographic{
				Scale:         cfg.Camera.Scale,
				FixedVertical: cfg.Camera.FixedVertical,
				Near:          0,
				Far:           1000,
			},
			Clear: ClearColor,
		},
		MainCamera{},
	)

	s.Light = spawn(
		spatial.FromTranslation(cfg.Light.Position).LookingAt(cfg.Light.Target, spatial.AxisY),
		render.DirectionalLight{Color: render.White, Illuminance: cfg.Light.Illuminance},
	)

	level := server.Load(cfg.LevelTexture)

	s.Plane = spawn(
		spatial.NewTransform(),
		drawable(render.NewPlane(cfg.PlaneSize), render.ScreenSpaceMaterial(level)),
	)

	s.SecretBlock = spawn(
		spatial.FromTranslation(secretBlockPosition).WithScale(secretBlockScale),
		drawable(render.NewCube(secretBlockSize), render.ScreenSpaceMaterial(level)),
	)

	s.Player = spawn(
		spatial.FromTranslation(cfg.Player.Position).
			WithScale(mgl32.Vec3{1, 1, 1}.Mul(cfg.Player.Scale)).
			WithRotation(mgl32.QuatRotate(mgl32.DegToRad(cfg.Player.Yaw), spatial.AxisY)),
		Player{},
	)
	parent := spatial.Parent{Id: s.Player}

	s.Body = spawn(
		spatial.FromTranslation(bodyOffset),
		drawable(render.NewCapsule(capsuleRadius, capsuleDepth, capsuleLatitudes, capsuleLongitudes), render.ColorMaterial(render.White)),
		parent,
	)

	eye := render.NewIcosphere(1, cfg.EyeSubdivisions)
	eyeRight := mgl32.Vec3{-eyeLeft.X(), eyeLeft.Y(), eyeLeft.Z()}
	for i, pos := range []mgl32.Vec3{eyeLeft, eyeRight} {
		s.Eyes[i] = spawn(
			spatial.FromTranslation(pos).WithScale(mgl32.Vec3{eyeScale, eyeScale, eyeScale}),
			drawable(eye, render.ColorMaterial(render.Black)),
			parent,
		)
	}

	return s
}

type drawableView = struct {
	ecs.EntityId
	*render.Drawable
}

// Validate checks the preconditions the frame loop relies on: exactly one
// player, exactly one main camera when movement is relative, and no drawable
// referring to an unknown mesh or material.
func Validate(storage *ecs.Storage, relative bool) error {
	var errs []error

	players := ecs.NewQuery[struct {
		*spatial.Transform
		*Player
	}](storage)
	if _, err := players.Single(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}

	if relative {
		cameras := ecs.NewQuery[struct {
			*spatial.Transform
			*MainCamera
		}](storage)
		if _, err := cameras.Single(); err != nil {
			errs = append(errs, fmt.Errorf("main camera: %w", err))
		}
	}

	var res *render.Resources
	if !storage.ReadSingleton(&res) {
		return errors.Join(append(errs, fmt.Errorf("render resources: %w", ErrMissingAsset))...)
	}
	for item := range ecs.NewQuery[drawableView](storage).Iter() {
		if !res.Meshes.Contains(item.Drawable.Mesh) {
			errs = append(errs, fmt.Errorf("entity %d mesh %s: %w", item.EntityId, item.Drawable.Mesh.ID, ErrMissingAsset))
		}
		if !res.Materials.Contains(item.Drawable.Material) {
			errs = append(errs, fmt.Errorf("entity %d material %s: %w", item.EntityId, item.Drawable.Material.ID, ErrMissingAsset))
		}
	}

	return errors.Join(errs...)
}
