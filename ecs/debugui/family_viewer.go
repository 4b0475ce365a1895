package debugui

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

// FamilyInfo describes one live group of a Registry.
type FamilyInfo struct {
	Family         ecs.Family
	Name           string
	ComponentCount int
	EntityCount    int
}

type FamilyViewerCache struct {
	families      []FamilyInfo
	sortColumn    int
	sortAscending bool
}

func NewFamilyViewerComponent() *FamilyViewerComponent {
	return &FamilyViewerComponent{
		cache: &FamilyViewerCache{
			sortColumn:    3,
			sortAscending: false,
		},
	}
}

// Render draws the group table and returns the Family clicked this frame, if any.
func (fv *FamilyViewerComponent) Render(r *ecs.Registry) *ecs.Family {
	if !imgui.BeginV("Family Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	fv.Refresh(r)

	maxEntityCount := 0
	for _, info := range fv.cache.families {
		maxEntityCount = max(maxEntityCount, info.EntityCount)
	}

	var clicked *ecs.Family

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("FamilyTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Hash")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Comp Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			fv.SetSort(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, info := range fv.cache.families {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := fv.selectedFamily != nil && fv.selectedFamily.Equal(info.Family)
			if imgui.SelectableBoolV(fmt.Sprintf("%016x", info.Family.Hash()), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				f := info.Family
				clicked = &f
				fv.selectedFamily = &f
			}

			imgui.TableNextColumn()
			imgui.Text(info.Name)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.ComponentCount))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(info.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked
}

// Refresh reloads the group list from the registry's statistics.
func (fv *FamilyViewerComponent) Refresh(r *ecs.Registry) {
	stats := r.CollectStats()

	fv.cache.families = fv.cache.families[:0]
	for _, g := range stats.GroupBreakdown {
		fv.cache.families = append(fv.cache.families, FamilyInfo{
			Family:         g.Family,
			Name:           g.Family.String(),
			ComponentCount: g.Family.Len(),
			EntityCount:    g.EntityCount,
		})
	}
	fv.sortFamilies()
}

// Families returns the cached groups in display order.
func (fv *FamilyViewerComponent) Families() []FamilyInfo {
	return fv.cache.families
}

// SetSort orders the table by column (0 hash, 1 name, 2 component count, 3 entity count).
func (fv *FamilyViewerComponent) SetSort(column int, ascending bool) {
	fv.cache.sortColumn = column
	fv.cache.sortAscending = ascending
	fv.sortFamilies()
}

func (fv *FamilyViewerComponent) sortFamilies() {
	slices.SortStableFunc(fv.cache.families, func(a, b FamilyInfo) int {
		var c int
		switch fv.cache.sortColumn {
		case 0:
			c = a.Family.Compare(b.Family)
		case 1:
			c = cmp.Compare(a.Name, b.Name)
		case 2:
			c = cmp.Compare(a.ComponentCount, b.ComponentCount)
		default:
			c = cmp.Compare(a.EntityCount, b.EntityCount)
		}
		c = cmp.Or(c, a.Family.Compare(b.Family))

		if !fv.cache.sortAscending {
			return -c
		}
		return c
	})
}
