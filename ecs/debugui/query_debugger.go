package debugui

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

func NewQueryDebuggerComponent() *QueryDebuggerComponent {
	return &QueryDebuggerComponent{
		selected: make(map[ecs.ComponentType]bool),
	}
}

func (qd *QueryDebuggerComponent) Render(r *ecs.Registry) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.Clear()
	}

	types := ecs.RegisteredTypes()
	slices.SortFunc(types, func(a, b ecs.ComponentType) int {
		return cmp.Compare(a.String(), b.String())
	})
	for _, t := range types {
		selected := qd.selected[t]
		if imgui.Checkbox(t.String(), &selected) {
			qd.Select(t, selected)
		}
	}

	imgui.Separator()

	family, matches, err := qd.Match(r)
	if err != nil {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	imgui.Text(family.String())
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matches)))
	imgui.Text(fmt.Sprintf("Live Group: %t", slices.ContainsFunc(r.Families(), family.Equal)))

	if imgui.TreeNodeStr("Entities") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryEntityTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity ID")
			imgui.TableSetupColumn("All Components")
			imgui.TableHeadersRow()

			for _, e := range matches {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", e.ID()))

				imgui.TableSetColumnIndex(1)
				imgui.Text(fmt.Sprintf("%v", e.Types()))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebuggerComponent) Select(t ecs.ComponentType, selected bool) {
	if selected {
		qd.selected[t] = true
	} else {
		delete(qd.selected, t)
	}
}

func (qd *QueryDebuggerComponent) Clear() {
	clear(qd.selected)
}

// Match evaluates the selected types as a Family against every owned entity.
// It scans instead of asking for a group so that debugging does not leave new
// groups behind in the registry.
func (qd *QueryDebuggerComponent) Match(r *ecs.Registry) (ecs.Family, []*ecs.Entity, error) {
	types := make([]ecs.ComponentType, 0, len(qd.selected))
	for t := range qd.selected {
		types = append(types, t)
	}

	family, err := ecs.Define(types...)
	if err != nil {
		return ecs.Family{}, nil, err
	}

	var matches []*ecs.Entity
	for _, e := range r.All() {
		if family.IsMember(e) {
			matches = append(matches, e)
		}
	}
	return family, matches, nil
}
