package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

func NewPerformanceStatsComponent(historyFrames int) *PerformanceStatsComponent {
	if historyFrames <= 0 {
		historyFrames = 120
	}
	return &PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

// Record stores one frame time sample in the ring buffer.
func (ps *PerformanceStatsComponent) Record(deltaTime float32) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

// AverageFrameTime returns the mean of the recorded samples in milliseconds.
func (ps *PerformanceStatsComponent) AverageFrameTime() float32 {
	var total float32
	for _, ft := range ps.frameHistory {
		total += ft
	}
	return total / float32(ps.historyFrames)
}

func (ps *PerformanceStatsComponent) Render(r *ecs.Registry, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.Record(deltaTime)

	stats := r.CollectStats()

	imgui.Text(fmt.Sprintf("Registry: %s", stats.ID))
	imgui.Text(fmt.Sprintf("Frame: %d", stats.Frame))
	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Groups: %d", stats.GroupCount))
	imgui.Text(fmt.Sprintf("Listeners: %d (+%d filtered)", stats.Listeners, stats.FilteredCount))
	imgui.Text(fmt.Sprintf("Hierarchies: %d", stats.Hierarchies))
	imgui.Text(fmt.Sprintf("Pending Commands: %d", stats.PendingCommands))

	avgFrameTime := ps.AverageFrameTime()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("System Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Priority")
			imgui.TableSetupColumn("Enabled")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, s := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.Priority))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%t", s.Enabled))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Component Counts") {
		for _, c := range stats.ComponentCounts {
			imgui.BulletText(fmt.Sprintf("%s: %d", c.Type, c.Count))
		}
		imgui.TreePop()
	}

	imgui.End()
}
