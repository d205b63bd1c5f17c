// Package config loads the YAML configuration shared by the commands.
// Fields missing from the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/plus3/screenspace/logging"
	"github.com/plus3/screenspace/scene"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Log      logging.Config `yaml:"log"`
	Movement MovementConfig `yaml:"movement"`
	Scene    SceneConfig    `yaml:"scene"`
	Debug    DebugConfig    `yaml:"debug"`
	Soak     SoakConfig     `yaml:"soak"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type MovementConfig struct {
	Speed float32 `yaml:"speed"`
	// Relative moves the player along the camera's axes.
	Relative bool `yaml:"relative"`
}

type SceneConfig struct {
	AssetRoot    string `yaml:"asset_root"`
	scene.Config `yaml:",inline"`
}

type DebugConfig struct {
	Imgui bool `yaml:"imgui"`
}

// SoakConfig drives the headless soak runner.
type SoakConfig struct {
	Duration time.Duration `yaml:"duration"`
	// Interval is the simulated frame time.
	Interval time.Duration `yaml:"interval"`
	Seed     uint64        `yaml:"seed"`
	// Hold is how many frames each random key combination is held.
	Hold int `yaml:"hold"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "screenspace",
		},
		Log: logging.DefaultConfig(),
		Movement: MovementConfig{
			Speed: 1,
		},
		Scene: SceneConfig{
			AssetRoot: "data",
			Config:    scene.DefaultConfig(),
		},
		Soak: SoakConfig{
			Duration: 10 * time.Second,
			Interval: time.Second / 60,
			Seed:     1,
			Hold:     30,
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	invalid := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalid, field, fmt.Sprintf(format, args...)))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window", "size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if !logging.ValidFormat(c.Log.Format) {
		invalid("log.format", "%q is not json or console", c.Log.Format)
	}
	if c.Movement.Speed < 0 {
		invalid("movement.speed", "%g is negative", c.Movement.Speed)
	}
	if c.Scene.LevelTexture == "" {
		invalid("scene.level_texture", "empty")
	}
	if c.Scene.PlaneSize <= 0 {
		invalid("scene.plane_size", "%g must be positive", c.Scene.PlaneSize)
	}
	if c.Scene.Camera.Scale <= 0 || c.Scene.Camera.FixedVertical <= 0 {
		invalid("scene.camera", "scale and fixed_vertical must be positive")
	}
	if c.Scene.Camera.Position == c.Scene.Camera.Target {
		invalid("scene.camera", "position and target coincide")
	}
	if c.Scene.Player.Scale <= 0 {
		invalid("scene.player.scale", "%g must be positive", c.Scene.Player.Scale)
	}
	if c.Scene.EyeSubdivisions < 0 || c.Scene.EyeSubdivisions > 5 {
		invalid("scene.eye_subdivisions", "%d is outside [0, 5]", c.Scene.EyeSubdivisions)
	}
	if c.Soak.Interval <= 0 {
		invalid("soak.interval", "%s must be positive", c.Soak.Interval)
	}
	if c.Soak.Hold < 1 {
		invalid("soak.hold", "%d must be at least 1", c.Soak.Hold)
	}

	return errors.Join(errs...)
}
