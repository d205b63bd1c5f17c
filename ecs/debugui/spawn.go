package debugui

import "github.com/plus3/screenspace/ecs"

// SpawnDebugUI spawns the entity browser and the performance window. The
// scheduler may be nil, which hides the per-system table.
func SpawnDebugUI(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	ecs.NewSingleton[ImguiInputState](storage)

	browser := storage.Spawn(NewEntityBrowserComponent(100))
	storage.AddComponent(browser, ImguiItem{Render: func() {
		if b := ecs.ReadComponent[EntityBrowserComponent](storage, browser); b != nil {
			b.Render(storage)
		}
	}})

	timer := NewFrameTimer()
	stats := storage.Spawn(NewPerformanceStatsComponent(120, scheduler))
	storage.AddComponent(stats, ImguiItem{Render: func() {
		if s := ecs.ReadComponent[PerformanceStatsComponent](storage, stats); s != nil {
			s.Render(storage, timer.GetDeltaTime())
		}
	}})
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
}
