package ecs

import (
	"slices"

	"github.com/google/uuid"
)

// RegistryStats is a point-in-time summary of a Registry.
type RegistryStats struct {
	ID              uuid.UUID
	Frame           uint64
	EntityCount     int
	PendingCommands int
	Listeners       int
	FilteredCount   int
	Hierarchies     int
	ComponentTypes  int

	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats

	GroupCount      int
	GroupBreakdown  []GroupStats
	ComponentCounts []ComponentCount
}

// GroupStats describes one live group.
type GroupStats struct {
	Family      Family
	EntityCount int
}

// ComponentCount is the number of owned entities holding a component type.
type ComponentCount struct {
	Type  ComponentType
	Count int
}

// CollectStats gathers statistics about entities, groups and systems.
func (r *Registry) CollectStats() *RegistryStats {
	stats := &RegistryStats{
		ID:              r.id,
		Frame:           r.frame,
		EntityCount:     len(r.entities),
		PendingCommands: r.commands.len(),
		Listeners:       len(r.listeners),
		FilteredCount:   len(r.filtered),
		Hierarchies:     len(r.hierarchies),
		ComponentTypes:  len(RegisteredTypes()),
		SystemCount:     len(r.systems),
		Systems:         make([]SystemStats, 0, len(r.systems)),
		GroupCount:      len(r.groupOrder),
		GroupBreakdown:  make([]GroupStats, 0, len(r.groupOrder)),
	}

	for _, s := range r.systems {
		st := s.systemBase().Stats()
		stats.Systems = append(stats.Systems, st)
		stats.TotalExecutions += st.ExecutionCount
	}

	for _, g := range r.groupOrder {
		stats.GroupBreakdown = append(stats.GroupBreakdown, GroupStats{
			Family:      g.family,
			EntityCount: g.Len(),
		})
	}

	counts := make(map[ComponentType]int)
	for _, e := range r.entities {
		for t := range e.counts {
			counts[t]++
		}
	}
	for t, n := range counts {
		stats.ComponentCounts = append(stats.ComponentCounts, ComponentCount{Type: t, Count: n})
	}
	slices.SortFunc(stats.ComponentCounts, func(a, b ComponentCount) int {
		return int(a.Type) - int(b.Type)
	})

	return stats
}
