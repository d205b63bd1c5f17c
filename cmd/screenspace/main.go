// Command screenspace opens a window showing the demo scene. WASD moves the
// player, F1 toggles the debug UI and Escape quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/screenspace/assets"
	"github.com/plus3/screenspace/config"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/ecs/debugui"
	debugui_ebiten "github.com/plus3/screenspace/ecs/debugui/ebiten"
	"github.com/plus3/screenspace/input"
	inputebiten "github.com/plus3/screenspace/input/ebiten"
	"github.com/plus3/screenspace/logging"
	"github.com/plus3/screenspace/movement"
	"github.com/plus3/screenspace/render"
	renderebiten "github.com/plus3/screenspace/render/ebiten"
	"github.com/plus3/screenspace/scene"
	"github.com/plus3/screenspace/spatial"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file. Defaults are used when empty.")
	relative := flag.Bool("relative", false, "Move relative to the camera instead of along the world axes.")
	debugUI := flag.Bool("debug-ui", false, "Show the ImGui debug windows.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *relative {
		cfg.Movement.Relative = true
	}
	if *debugUI {
		cfg.Debug.Imgui = true
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	game, err := newGame(cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	logger.Info("starting",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Bool("relative", cfg.Movement.Relative),
		zap.Bool("debug_ui", cfg.Debug.Imgui),
	)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("game loop failed", zap.Error(err))
	}
	logger.Info("exiting", zap.Int64("frames", game.scheduler.GetStats().Frames))
}

func newGame(cfg config.Config, logger *zap.Logger) (*Game, error) {
	if !cfg.Debug.Imgui {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	debugui.RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)

	server := assets.NewServer(cfg.Scene.AssetRoot, logger.Named("assets"))
	s := scene.Setup(storage, server, cfg.Scene.Config)
	if err := scene.Validate(storage, cfg.Movement.Relative); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	keyboard := input.Install(storage)
	ecs.NewSingleton(storage, movement.Settings{
		Speed:    cfg.Movement.Speed,
		Relative: cfg.Movement.Relative,
	})
	visibility := ecs.NewSingleton(storage, debugui.Visibility{Hidden: !cfg.Debug.Imgui})
	imguiState := ecs.NewSingleton[debugui.ImguiInputState](storage)

	game := &Game{
		storage:    storage,
		keyboard:   keyboard,
		visibility: visibility,
		builder:    render.NewBuilder(storage),
		renderer:   renderebiten.NewRenderer(server.Images()),
		timer:      debugui.NewFrameTimer(),
		logger:     logger,
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
	}

	source := input.SourceFunc(func() input.KeySet {
		keys := inputebiten.Source{}.Poll()
		if game.imgui != nil && imguiState.Get().WantCaptureKeyboard {
			// Typing into a debug window must not move the player; the
			// debug toggle still works.
			return keys & input.NewKeySet(input.ToggleDebug, input.Exit)
		}
		return keys
	})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&input.PollSystem{Source: source})
	scheduler.Register(&movement.System{})
	scheduler.Register(&spatial.PropagateSystem{})

	if cfg.Debug.Imgui {
		game.imgui = ecs.NewSingleton(storage, debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height))
		scheduler.Register(&debugui.ImguiSystem{})
		debugui.SpawnDebugUI(storage, scheduler)
		spawnMovementPanel(storage, s.Player)
	}

	if err := scheduler.Validate(); err != nil {
		return nil, fmt.Errorf("systems: %w", err)
	}
	game.scheduler = scheduler
	return game, nil
}
