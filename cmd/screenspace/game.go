package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/ecs/debugui"
	debugui_ebiten "github.com/plus3/screenspace/ecs/debugui/ebiten"
	"github.com/plus3/screenspace/input"
	"github.com/plus3/screenspace/render"
	renderebiten "github.com/plus3/screenspace/render/ebiten"
	"go.uber.org/zap"
)

// Game implements ebiten.Game: Update runs the systems and builds the next
// frame, Draw paints it.
type Game struct {
	storage    *ecs.Storage
	scheduler  *ecs.Scheduler
	keyboard   *ecs.Singleton[input.Keyboard]
	visibility *ecs.Singleton[debugui.Visibility]
	// imgui is nil unless the debug UI was enabled at startup.
	imgui *ecs.Singleton[debugui_ebiten.ImguiBackend]

	builder  *render.Builder
	renderer *renderebiten.Renderer
	frame    render.Frame
	timer    *debugui.FrameTimer
	logger   *zap.Logger

	width, height int
}

func (g *Game) Update() error {
	if g.imgui != nil {
		g.imgui.Get().BeginFrame()
	}

	g.scheduler.Once(float64(g.timer.GetDeltaTime()))

	if g.imgui != nil {
		g.imgui.Get().EndFrame()
	}

	keyboard := g.keyboard.Get()
	if keyboard.JustPressed(input.Exit) {
		return ebiten.Termination
	}
	if keyboard.JustPressed(input.ToggleDebug) && g.imgui != nil {
		g.visibility.Get().Toggle()
		g.logger.Debug("debug ui toggled", zap.Bool("hidden", g.visibility.Get().Hidden))
	}

	frame, err := g.builder.Build(g.width, g.height)
	if err != nil {
		return fmt.Errorf("build frame: %w", err)
	}
	g.frame = frame
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.frame)

	if g.imgui != nil {
		g.imgui.Get().Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Get().Layout(outsideWidth, outsideHeight)
	}
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
