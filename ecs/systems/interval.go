package systems

import (
	"github.com/plus3/hearth/ecs"
)

// Interval runs its processor over the members of a Family at a fixed step.
// Frame time is accumulated; each elapsed step triggers one pass whose frame
// carries the step as DeltaTime. A long frame can trigger several passes.
type Interval[P EntityProcessor] struct {
	ecs.SystemBase
	Processor P

	family      ecs.Family
	interval    float64
	accumulator float64
	ticks       uint64
	group       *ecs.Group
}

// NewInterval creates an Interval system that steps every interval seconds.
func NewInterval[P EntityProcessor](family ecs.Family, interval float64, processor P) *Interval[P] {
	if interval <= 0 {
		panic("systems: interval must be positive")
	}
	return &Interval[P]{
		Processor: processor,
		family:    family,
		interval:  interval,
	}
}

// Interval returns the step length in seconds.
func (s *Interval[P]) Interval() float64 {
	return s.interval
}

// Ticks returns the number of passes run so far.
func (s *Interval[P]) Ticks() uint64 {
	return s.ticks
}

// Alpha returns how far the accumulator is into the next step, in [0, 1).
func (s *Interval[P]) Alpha() float64 {
	return s.accumulator / s.interval
}

func (s *Interval[P]) OnBind(r *ecs.Registry) {
	s.group = r.Group(s.family)
	s.accumulator = 0
}

func (s *Interval[P]) OnUnbind(r *ecs.Registry) {
	s.group = nil
}

func (s *Interval[P]) Update(frame *ecs.UpdateFrame) {
	s.accumulator += frame.DeltaTime
	if s.accumulator < s.interval {
		return
	}

	step := *frame
	step.DeltaTime = s.interval
	for s.accumulator >= s.interval {
		s.accumulator -= s.interval
		s.ticks++
		pass(&step, s.Processor, s.group.Entities())
	}
}
