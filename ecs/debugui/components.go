package debugui

import (
	"github.com/plus3/screenspace/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type PerformanceStatsComponent struct {
	history   *FrameHistory
	scheduler *ecs.Scheduler
}
