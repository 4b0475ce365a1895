// Package systems provides reusable System implementations built on the ecs
// Registry: per-entity iteration, fixed-interval iteration, comparator-ordered
// iteration and signal-driven processing.
//
// Each system is generic over the type that does the work, so two systems with
// different processors are different concrete types and can be bound to the same
// Registry side by side.
package systems

import (
	"github.com/plus3/hearth/ecs"
)

// EntityProcessor handles one entity per call.
type EntityProcessor interface {
	Process(frame *ecs.UpdateFrame, e *ecs.Entity)
}

// Beginner is implemented by processors that need a hook before a pass.
type Beginner interface {
	Begin(frame *ecs.UpdateFrame)
}

// Ender is implemented by processors that need a hook after a pass.
type Ender interface {
	End(frame *ecs.UpdateFrame)
}

// Iterative runs its processor over every live member of a Family each frame.
type Iterative[P EntityProcessor] struct {
	ecs.SystemBase
	Processor P

	family ecs.Family
	group  *ecs.Group
}

// NewIterative creates an Iterative system for family.
func NewIterative[P EntityProcessor](family ecs.Family, processor P) *Iterative[P] {
	return &Iterative[P]{
		Processor: processor,
		family:    family,
	}
}

// Family returns the Family the system iterates.
func (s *Iterative[P]) Family() ecs.Family {
	return s.family
}

// Entities returns the live members, or nil while unbound.
func (s *Iterative[P]) Entities() []*ecs.Entity {
	if s.group == nil {
		return nil
	}
	return s.group.Entities()
}

func (s *Iterative[P]) OnBind(r *ecs.Registry) {
	s.group = r.Group(s.family)
}

func (s *Iterative[P]) OnUnbind(r *ecs.Registry) {
	s.group = nil
}

func (s *Iterative[P]) Update(frame *ecs.UpdateFrame) {
	pass(frame, s.Processor, s.group.Entities())
}

// pass runs one processing pass with the optional begin and end hooks.
func pass[P EntityProcessor](frame *ecs.UpdateFrame, processor P, entities []*ecs.Entity) {
	if b, ok := any(processor).(Beginner); ok {
		b.Begin(frame)
	}
	for _, e := range entities {
		processor.Process(frame, e)
	}
	if e, ok := any(processor).(Ender); ok {
		e.End(frame)
	}
}
