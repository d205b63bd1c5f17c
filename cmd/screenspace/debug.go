package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/ecs/debugui"
	"github.com/plus3/screenspace/movement"
	"github.com/plus3/screenspace/spatial"
)

// spawnMovementPanel adds a window showing the player position with
// controls for the movement settings.
func spawnMovementPanel(storage *ecs.Storage, player ecs.EntityId) {
	storage.Spawn(debugui.ImguiItem{
		Render: func() {
			var settings *movement.Settings
			if !storage.ReadSingleton(&settings) {
				return
			}

			imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(300, 110), imgui.CondOnce)

			if imgui.BeginV("Movement", nil, 0) {
				if t := ecs.ReadComponent[spatial.Transform](storage, player); t != nil {
					p := t.Translation
					imgui.Text(fmt.Sprintf("Player: (%.2f, %.2f, %.2f)", p.X(), p.Y(), p.Z()))
				}
				imgui.Checkbox("Relative to camera", &settings.Relative)
				imgui.SliderFloat("Speed", &settings.Speed, 0, 5)
			}
			imgui.End()
		},
	})
}
