package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/hearth/ecs"
)

type Report struct {
	Config Config

	// Results
	Results        []*WorldResult
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	for _, sample := range s.Samples {
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

// Finalize aggregates the per-world samples into the report totals.
func (r *Report) Finalize() {
	r.TotalUpdates = 0
	r.UpdateTime = Stats{}
	for _, res := range r.Results {
		if res == nil {
			continue
		}
		r.TotalUpdates += res.Updates
		r.UpdateTime.Samples = append(r.UpdateTime.Samples, res.UpdateTime.Samples...)
	}
	r.UpdateTime.Finalize()
}

// Systems returns the per-system statistics of the first world.
func (r *Report) Systems() []ecs.SystemStats {
	if len(r.Results) == 0 || r.Results[0] == nil || r.Results[0].Registry == nil {
		return nil
	}
	return r.Results[0].Registry.Systems
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Config.Run.Duration}}
- **Worlds:** {{.Config.Run.Worlds}}
- **Initial Entities per World:** {{.Config.World.Entities}}
- **Spawned per Frame:** {{.Config.World.SpawnPerFrame}}
- **Churned per Frame:** {{.Config.World.ChurnPerFrame}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
  - **P99:** {{.UpdateTime.P99}}

## Worlds
{{range .Results}}{{if .}}- World {{.ID}}: {{.Updates}} updates, {{.Registry.EntityCount}} entities, {{.Registry.GroupCount}} groups, spawned {{.Spawned}}, expired {{.Expired}}, churned {{.Churned}}, command errors {{.CommandErrors}}, census {{.Census}}
{{end}}{{end}}
## Systems (world 0)
{{range .Systems}}- {{.Name}} (priority {{.Priority}}): {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}, total {{.TotalDuration}}
{{end}}
## Memory Usage (MiB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc)}}
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}}
- Sys Memory:     {{mb .MemStatsStart.Sys}} (start) -> {{mb .MemStatsEnd.Sys}} (end) -> delta: {{mb (bsub .MemStatsEnd.Sys .MemStatsStart.Sys)}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{ns (bsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs)}}
- **Num GC Cycles:** {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{end}}`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns int64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
