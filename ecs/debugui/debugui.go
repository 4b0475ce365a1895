// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// Render functions and input capture state live in components and are driven by ImguiSystem.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	ecs.ComponentBase
	Render func(frame *ecs.UpdateFrame)
}

// ImguiInputState tracks Dear ImGui's input capture state.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem calls the render function of every ImguiItem once per update and
// records the current input capture state. Bind it with a priority above the
// game systems so windows observe the frame's final state.
type ImguiSystem struct {
	ecs.SystemBase

	Items      ecs.Query1[ImguiItem]
	InputState ImguiInputState
}

// Update refreshes the input state and renders all items.
func (i *ImguiSystem) Update(frame *ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	i.InputState.WantCaptureMouse = io.WantCaptureMouse()
	i.InputState.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for item := range i.Items.Values() {
		if item.Render != nil {
			item.Render(frame)
		}
	}
}
