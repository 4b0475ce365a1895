package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityID
	ComponentTypes []string
	ComponentCount int
	Enabled        bool

	entity *ecs.Entity
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	lastFrame     uint64
	lastCount     int
	valid         bool
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) *EntityBrowserComponent {
	if maxEntitiesPerPage <= 0 {
		maxEntitiesPerPage = 100
	}
	return &EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(r *ecs.Registry) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Refresh(r)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterFamily = nil
		eb.currentPage = 0
	}
	if eb.filterFamily != nil {
		imgui.Text("Family: " + eb.filterFamily.String())
	}

	filteredEntities := eb.Entities()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableSetupColumn("Enabled")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.SetSort(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			filteredEntities = eb.Entities()
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := min(eb.currentPage*eb.maxEntitiesPerPage, len(filteredEntities))
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityID == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityID = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%t", entity.Enabled))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// Refresh rebuilds the cached entity list when the registry has advanced a frame
// or its entity count changed since the last build.
func (eb *EntityBrowserComponent) Refresh(r *ecs.Registry) {
	if eb.cache.valid && eb.cache.lastFrame == r.Frame() && eb.cache.lastCount == r.Len() {
		return
	}
	eb.rebuildCache(r)
}

func (eb *EntityBrowserComponent) rebuildCache(r *ecs.Registry) {
	eb.cache.entities = eb.cache.entities[:0]

	for _, e := range r.All() {
		types := e.Types()
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		slices.Sort(names)

		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			ID:             e.ID(),
			ComponentTypes: names,
			ComponentCount: len(names),
			Enabled:        e.Enabled(),
			entity:         e,
		})
	}

	eb.cache.lastFrame = r.Frame()
	eb.cache.lastCount = r.Len()
	eb.cache.valid = true
	eb.sortEntities()
}

// SetSort orders the list by column (0 id, 1 components, 2 count, 3 enabled).
func (eb *EntityBrowserComponent) SetSort(column int, ascending bool) {
	eb.cache.sortColumn = column
	eb.cache.sortAscending = ascending
	eb.sortEntities()
}

func (eb *EntityBrowserComponent) sortEntities() {
	slices.SortStableFunc(eb.cache.entities, func(a, b EntityInfo) int {
		var c int
		switch eb.cache.sortColumn {
		case 1:
			c = cmp.Compare(strings.Join(a.ComponentTypes, ","), strings.Join(b.ComponentTypes, ","))
		case 2:
			c = cmp.Compare(a.ComponentCount, b.ComponentCount)
		case 3:
			c = compareBool(a.Enabled, b.Enabled)
		}
		c = cmp.Or(c, cmp.Compare(a.ID, b.ID))

		if !eb.cache.sortAscending {
			return -c
		}
		return c
	})
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// SetFilter sets the free-text filter matched against ids and component names.
func (eb *EntityBrowserComponent) SetFilter(text string) {
	eb.filterText = text
	eb.currentPage = 0
}

// SetFamilyFilter restricts the list to members of f. A nil f clears it.
func (eb *EntityBrowserComponent) SetFamilyFilter(f *ecs.Family) {
	eb.filterFamily = f
	eb.currentPage = 0
}

// Entities returns the cached entities that pass the current filters.
func (eb *EntityBrowserComponent) Entities() []EntityInfo {
	if eb.filterText == "" && eb.filterFamily == nil {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterFamily != nil && !eb.filterFamily.IsMember(entity.entity) {
			continue
		}

		if eb.filterText != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) && !strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowserComponent) SelectedEntity() ecs.EntityID {
	return eb.selectedEntityID
}

func (eb *EntityBrowserComponent) Select(id ecs.EntityID) {
	eb.selectedEntityID = id
}
