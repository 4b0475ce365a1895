package ecs

import (
	"iter"
	"slices"
)

// View is a point-in-time snapshot of the entities matching a Family.
// Later changes to the Registry do not alter a View that was already returned.
type View struct {
	family   Family
	entities []*Entity
}

func newView(family Family, members []*Entity) *View {
	return &View{
		family:   family,
		entities: slices.Clone(members),
	}
}

// Family returns the Family the View was computed for.
func (v *View) Family() Family {
	return v.family
}

// Len returns the number of entities in the snapshot.
func (v *View) Len() int {
	return len(v.entities)
}

// At returns the entity at index i.
func (v *View) At(i int) *Entity {
	return v.entities[i]
}

// Contains reports whether e was part of the snapshot.
func (v *View) Contains(e *Entity) bool {
	return slices.Contains(v.entities, e)
}

// IsEmpty reports whether the snapshot holds no entities.
func (v *View) IsEmpty() bool {
	return len(v.entities) == 0
}

// Entities returns a copy of the snapshot.
func (v *View) Entities() []*Entity {
	return slices.Clone(v.entities)
}

// All returns an iterator over (index, entity) pairs.
func (v *View) All() iter.Seq2[int, *Entity] {
	return slices.All(v.entities)
}

// Values returns an iterator over the entities.
func (v *View) Values() iter.Seq[*Entity] {
	return slices.Values(v.entities)
}

// Each calls fn for every entity in the snapshot.
func (v *View) Each(fn func(*Entity)) {
	for _, e := range v.entities {
		fn(e)
	}
}

// EachRange calls fn for the entities in [start, end).
func (v *View) EachRange(start, end int, fn func(*Entity)) {
	for _, e := range v.entities[start:end] {
		fn(e)
	}
}
