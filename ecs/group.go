package ecs

import (
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

// Group is the Registry's live member list for a Family. The Registry keeps it
// synchronized on every add, destroy, release and component change; callers only read it.
type Group struct {
	family  Family
	members []*Entity
	index   *intmap.Map[EntityID, struct{}]
}

func newGroup(family Family, capacity int) *Group {
	return &Group{
		family:  family,
		members: make([]*Entity, 0, capacity),
		index:   intmap.New[EntityID, struct{}](capacity),
	}
}

// Family returns the Family the Group tracks.
func (g *Group) Family() Family {
	return g.family
}

// Len returns the current number of members.
func (g *Group) Len() int {
	return len(g.members)
}

// At returns the member at index i.
func (g *Group) At(i int) *Entity {
	return g.members[i]
}

// Contains reports whether e is currently a member.
func (g *Group) Contains(e *Entity) bool {
	_, ok := g.index.Get(e.id)
	return ok
}

// Entities exposes the live backing slice. It must not be modified.
func (g *Group) Entities() []*Entity {
	return g.members
}

// All returns an iterator over (index, entity) pairs of the live list.
func (g *Group) All() iter.Seq2[int, *Entity] {
	return slices.All(g.members)
}

// Values returns an iterator over the live members.
func (g *Group) Values() iter.Seq[*Entity] {
	return slices.Values(g.members)
}

func (g *Group) add(e *Entity) bool {
	if g.Contains(e) {
		return false
	}
	g.members = append(g.members, e)
	g.index.Put(e.id, struct{}{})
	return true
}

func (g *Group) remove(e *Entity) bool {
	if !g.Contains(e) {
		return false
	}
	g.index.Del(e.id)
	if i := slices.Index(g.members, e); i >= 0 {
		g.members = slices.Delete(g.members, i, i+1)
	}
	return true
}

func (g *Group) clear() {
	clear(g.members)
	g.members = g.members[:0]
	g.index.Clear()
}
