package ecs

import (
	"reflect"
	"time"
)

// System is a unit of per-frame behavior bound to a Registry. Implementations embed
// SystemBase, which carries the priority, enabled flag and bound registry:
//
//	type Movement struct {
//		ecs.SystemBase
//	}
//
//	func (m *Movement) Update(frame *ecs.UpdateFrame) { ... }
//
// Systems run in ascending priority order; equal priorities run in bind order.
type System interface {
	Update(frame *UpdateFrame)
	systemBase() *SystemBase
}

// Binder is implemented by systems that need to set up state when bound.
type Binder interface {
	OnBind(r *Registry)
}

// Unbinder is implemented by systems that need to tear down state when unbound.
type Unbinder interface {
	OnUnbind(r *Registry)
}

// SystemBase holds the state the Registry manages for every system.
// The zero value is an enabled system with priority 0.
type SystemBase struct {
	priority int
	disabled bool
	registry *Registry
	seq      uint64
	stats    systemStatsInternal
}

func (s *SystemBase) systemBase() *SystemBase {
	return s
}

// Priority returns the ordering key. Lower values run first.
func (s *SystemBase) Priority() int {
	return s.priority
}

// SetPriority changes the ordering key. A bound system is re-ordered before the next update.
func (s *SystemBase) SetPriority(p int) {
	if s.priority == p {
		return
	}
	s.priority = p
	if s.registry != nil {
		s.registry.systemsDirty = true
	}
}

// Enabled reports whether Update will be called for the system.
func (s *SystemBase) Enabled() bool {
	return !s.disabled
}

// SetEnabled enables or disables the system without unbinding it.
func (s *SystemBase) SetEnabled(enabled bool) {
	s.disabled = !enabled
}

// Registry returns the registry the system is bound to, or nil.
func (s *SystemBase) Registry() *Registry {
	return s.registry
}

// Stats returns timing statistics for the system's Update calls.
func (s *SystemBase) Stats() SystemStats {
	st := s.stats.snapshot()
	st.Priority = s.priority
	st.Enabled = !s.disabled
	return st
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Priority       int
	Enabled        bool
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (st *systemStatsInternal) record(d time.Duration) {
	st.executionCount++
	st.lastDuration = d
	st.totalDuration += d

	if st.executionCount == 1 || d < st.minDuration {
		st.minDuration = d
	}
	if d > st.maxDuration {
		st.maxDuration = d
	}
}

func (st *systemStatsInternal) snapshot() SystemStats {
	avg := time.Duration(0)
	if st.executionCount > 0 {
		avg = st.totalDuration / time.Duration(st.executionCount)
	}
	return SystemStats{
		Name:           st.name,
		ExecutionCount: st.executionCount,
		MinDuration:    st.minDuration,
		MaxDuration:    st.maxDuration,
		AvgDuration:    avg,
		LastDuration:   st.lastDuration,
		TotalDuration:  st.totalDuration,
	}
}

func systemName(s System) string {
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
