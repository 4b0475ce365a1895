package debugui

import (
	"github.com/plus3/hearth/ecs"
)

type EntityBrowserComponent struct {
	ecs.ComponentBase
	cache              *EntityBrowserCache
	selectedEntityID   ecs.EntityID
	filterText         string
	filterFamily       *ecs.Family
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	ecs.ComponentBase
	selectedEntityID ecs.EntityID
}

type FamilyViewerComponent struct {
	ecs.ComponentBase
	cache          *FamilyViewerCache
	selectedFamily *ecs.Family
}

type PerformanceStatsComponent struct {
	ecs.ComponentBase
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type QueryDebuggerComponent struct {
	ecs.ComponentBase
	selected map[ecs.ComponentType]bool
}
