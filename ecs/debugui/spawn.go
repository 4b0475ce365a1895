package debugui

import "github.com/plus3/hearth/ecs"

// SpawnDebugUI adds one entity carrying every inspector window plus the ImguiItem
// that renders them. Selecting a row in the family viewer filters the entity
// browser; selecting an entity shows it in the component inspector.
func SpawnDebugUI(r *ecs.Registry) (*ecs.Entity, error) {
	browser := NewEntityBrowserComponent(100)
	inspector := NewComponentInspectorComponent()
	families := NewFamilyViewerComponent()
	perf := NewPerformanceStatsComponent(120)
	queries := NewQueryDebuggerComponent()

	item := &ImguiItem{
		Render: func(frame *ecs.UpdateFrame) {
			browser.Render(frame.Registry)
			inspector.Render(frame.Registry, browser.SelectedEntity())
			if f := families.Render(frame.Registry); f != nil {
				browser.SetFamilyFilter(f)
			}
			perf.Render(frame.Registry, float32(frame.DeltaTime))
			queries.Render(frame.Registry)
		},
	}

	return r.Emplace(browser, inspector, families, perf, queries, item)
}
