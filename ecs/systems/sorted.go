package systems

import (
	"slices"

	"github.com/plus3/hearth/ecs"
)

// Sorted runs its processor over the members of a Family in comparator order.
// Membership is tracked through a filtered listener and the list is re-sorted
// lazily before the next pass after any change, or after Force.
type Sorted[P EntityProcessor] struct {
	ecs.SystemBase
	Processor P

	family   ecs.Family
	compare  func(a, b *ecs.Entity) int
	entities []*ecs.Entity
	dirty    bool
}

// NewSorted creates a Sorted system ordering members with compare.
func NewSorted[P EntityProcessor](family ecs.Family, compare func(a, b *ecs.Entity) int, processor P) *Sorted[P] {
	return &Sorted[P]{
		Processor: processor,
		family:    family,
		compare:   compare,
	}
}

// Force requests a re-sort before the next pass, for when component values the
// comparator reads have changed.
func (s *Sorted[P]) Force() {
	s.dirty = true
}

// Entities returns the members in their current order.
func (s *Sorted[P]) Entities() []*ecs.Entity {
	s.sort()
	return slices.Clone(s.entities)
}

func (s *Sorted[P]) sort() {
	if !s.dirty {
		return
	}
	slices.SortStableFunc(s.entities, s.compare)
	s.dirty = false
}

func (s *Sorted[P]) OnBind(r *ecs.Registry) {
	s.entities = append(s.entities[:0], r.Group(s.family).Entities()...)
	s.dirty = true
	s.sort()
	r.RegisterFiltered(s.family, s)
}

func (s *Sorted[P]) OnUnbind(r *ecs.Registry) {
	r.UnregisterFiltered(s.family, s)
	s.entities = nil
	s.dirty = false
}

func (s *Sorted[P]) OnEntityAdded(e *ecs.Entity) {
	s.entities = append(s.entities, e)
	s.dirty = true
}

func (s *Sorted[P]) OnEntityRemoved(e *ecs.Entity) {
	if i := slices.Index(s.entities, e); i >= 0 {
		s.entities = slices.Delete(s.entities, i, i+1)
	}
}

func (s *Sorted[P]) Update(frame *ecs.UpdateFrame) {
	s.sort()
	pass(frame, s.Processor, s.entities)
}
