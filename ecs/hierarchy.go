package ecs

import (
	"fmt"
	"iter"

	"github.com/kamstrup/intmap"
)

const noNode = -1

// Hierarchy is a parent/child tree over entities of one Registry. Nodes live in a
// slot arena and refer to each other by index; entities are referenced by EntityID.
// Destroying or releasing an entity prunes it, with its subtree, from every hierarchy.
type Hierarchy struct {
	registry *Registry
	root     int
	nodes    []hierarchyNode
	free     []int
	index    *intmap.Map[EntityID, int]
}

type hierarchyNode struct {
	entity   EntityID
	parent   int
	children []int
	used     bool
}

// CreateHierarchy builds a hierarchy rooted at root with children directly below it,
// replacing any hierarchy previously created for root.
func (r *Registry) CreateHierarchy(root *Entity, children ...*Entity) (*Hierarchy, error) {
	if !r.Has(root) {
		return nil, fmt.Errorf("create hierarchy at %v: %w", root, ErrNotOwned)
	}

	h := &Hierarchy{
		registry: r,
		index:    intmap.New[EntityID, int](len(children) + 1),
	}
	h.root = h.alloc(root.id, noNode)

	for _, child := range children {
		if _, err := h.AddChild(root, child); err != nil {
			return nil, err
		}
	}

	r.hierarchies[root.id] = h
	return h, nil
}

// Hierarchy returns the hierarchy rooted at root.
func (r *Registry) Hierarchy(root *Entity) (*Hierarchy, bool) {
	if root == nil {
		return nil, false
	}
	h, ok := r.hierarchies[root.id]
	return h, ok
}

// RemoveHierarchy forgets the hierarchy rooted at root. The entities are untouched.
func (r *Registry) RemoveHierarchy(root *Entity) bool {
	if root == nil {
		return false
	}
	if _, ok := r.hierarchies[root.id]; !ok {
		return false
	}
	delete(r.hierarchies, root.id)
	return true
}

// Hierarchies returns the number of hierarchies the registry tracks.
func (r *Registry) Hierarchies() int {
	return len(r.hierarchies)
}

func (r *Registry) pruneHierarchies(e *Entity) {
	if len(r.hierarchies) == 0 {
		return
	}
	if h, ok := r.hierarchies[e.id]; ok {
		if !h.IsEmpty() {
			h.removeSlot(h.root)
		}
		delete(r.hierarchies, e.id)
	}
	for _, h := range r.hierarchies {
		if slot, ok := h.index.Get(e.id); ok {
			h.removeSlot(slot)
		}
	}
}

func (h *Hierarchy) alloc(id EntityID, parent int) int {
	node := hierarchyNode{entity: id, parent: parent, used: true}

	var slot int
	if n := len(h.free); n > 0 {
		slot = h.free[n-1]
		h.free = h.free[:n-1]
		h.nodes[slot] = node
	} else {
		slot = len(h.nodes)
		h.nodes = append(h.nodes, node)
	}

	h.index.Put(id, slot)
	if parent != noNode {
		h.nodes[parent].children = append(h.nodes[parent].children, slot)
	}
	return slot
}

func (h *Hierarchy) removeSlot(slot int) {
	node := &h.nodes[slot]
	if p := node.parent; p != noNode {
		siblings := h.nodes[p].children
		for i, s := range siblings {
			if s == slot {
				h.nodes[p].children = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	h.release(slot)
}

func (h *Hierarchy) release(slot int) {
	node := h.nodes[slot]
	for _, child := range node.children {
		h.release(child)
	}
	h.index.Del(node.entity)
	h.nodes[slot] = hierarchyNode{parent: noNode}
	h.free = append(h.free, slot)
}

func (h *Hierarchy) slotOf(e *Entity) (int, bool) {
	if e == nil || h.IsEmpty() {
		return noNode, false
	}
	return h.index.Get(e.id)
}

func (h *Hierarchy) entityAt(slot int) *Entity {
	e, _ := h.registry.Lookup(h.nodes[slot].entity)
	return e
}

// Root returns the root entity, or nil once the root has been pruned.
func (h *Hierarchy) Root() *Entity {
	if h.IsEmpty() {
		return nil
	}
	return h.entityAt(h.root)
}

// IsEmpty reports whether the hierarchy lost its root.
func (h *Hierarchy) IsEmpty() bool {
	return h.root == noNode || !h.nodes[h.root].used
}

// AddChild places child directly below parent.
func (h *Hierarchy) AddChild(parent, child *Entity) (*Entity, error) {
	p, ok := h.slotOf(parent)
	if !ok {
		return nil, fmt.Errorf("add child to %v: %w", parent, ErrNotInHierarchy)
	}
	if !h.registry.Has(child) {
		return nil, fmt.Errorf("add child %v: %w", child, ErrNotOwned)
	}
	if _, exists := h.index.Get(child.id); exists {
		return nil, fmt.Errorf("add child %v: %w", child, ErrInHierarchy)
	}
	h.alloc(child.id, p)
	return child, nil
}

// Remove detaches e and its whole subtree. Removing the root empties the hierarchy.
func (h *Hierarchy) Remove(e *Entity) error {
	slot, ok := h.slotOf(e)
	if !ok {
		return fmt.Errorf("remove %v: %w", e, ErrNotInHierarchy)
	}
	h.removeSlot(slot)
	return nil
}

// Has reports whether e is a member.
func (h *Hierarchy) Has(e *Entity) bool {
	_, ok := h.slotOf(e)
	return ok
}

// Parent returns the parent of e. The root has none.
func (h *Hierarchy) Parent(e *Entity) (*Entity, bool) {
	slot, ok := h.slotOf(e)
	if !ok || h.nodes[slot].parent == noNode {
		return nil, false
	}
	return h.entityAt(h.nodes[slot].parent), true
}

// Children returns the direct children of e in insertion order.
func (h *Hierarchy) Children(e *Entity) []*Entity {
	slot, ok := h.slotOf(e)
	if !ok {
		return nil
	}
	out := make([]*Entity, 0, len(h.nodes[slot].children))
	for _, c := range h.nodes[slot].children {
		out = append(out, h.entityAt(c))
	}
	return out
}

// Descendants returns every entity below e in pre-order, excluding e.
func (h *Hierarchy) Descendants(e *Entity) []*Entity {
	slot, ok := h.slotOf(e)
	if !ok {
		return nil
	}
	var out []*Entity
	for _, c := range h.nodes[slot].children {
		h.preorder(c, func(s int) bool {
			out = append(out, h.entityAt(s))
			return true
		})
	}
	return out
}

// DescendantCount returns the size of the subtree rooted at e, e included.
// It is 0 when e is not a member.
func (h *Hierarchy) DescendantCount(e *Entity) int {
	slot, ok := h.slotOf(e)
	if !ok {
		return 0
	}
	return h.count(slot)
}

func (h *Hierarchy) count(slot int) int {
	n := 1
	for _, c := range h.nodes[slot].children {
		n += h.count(c)
	}
	return n
}

// Size returns the number of members.
func (h *Hierarchy) Size() int {
	if h.IsEmpty() {
		return 0
	}
	return h.count(h.root)
}

// Height returns the number of levels in the tree. A lone root has height 1.
func (h *Hierarchy) Height() int {
	if h.IsEmpty() {
		return 0
	}
	return h.height(h.root)
}

// HeightOf returns the height of the subtree rooted at e, or 0 when e is not a member.
func (h *Hierarchy) HeightOf(e *Entity) int {
	slot, ok := h.slotOf(e)
	if !ok {
		return 0
	}
	return h.height(slot)
}

func (h *Hierarchy) height(slot int) int {
	best := 0
	for _, c := range h.nodes[slot].children {
		best = max(best, h.height(c))
	}
	return best + 1
}

// Depth returns the number of edges between e and the root, or -1 when e is not a member.
func (h *Hierarchy) Depth(e *Entity) int {
	slot, ok := h.slotOf(e)
	if !ok {
		return -1
	}
	depth := 0
	for p := h.nodes[slot].parent; p != noNode; p = h.nodes[p].parent {
		depth++
	}
	return depth
}

// PreOrder iterates members parent first.
func (h *Hierarchy) PreOrder() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		if h.IsEmpty() {
			return
		}
		h.preorder(h.root, func(s int) bool {
			return yield(h.entityAt(s))
		})
	}
}

// PostOrder iterates members children first.
func (h *Hierarchy) PostOrder() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		if h.IsEmpty() {
			return
		}
		h.postorder(h.root, func(s int) bool {
			return yield(h.entityAt(s))
		})
	}
}

func (h *Hierarchy) preorder(slot int, visit func(int) bool) bool {
	if !visit(slot) {
		return false
	}
	for _, c := range h.nodes[slot].children {
		if !h.preorder(c, visit) {
			return false
		}
	}
	return true
}

func (h *Hierarchy) postorder(slot int, visit func(int) bool) bool {
	for _, c := range h.nodes[slot].children {
		if !h.postorder(c, visit) {
			return false
		}
	}
	return visit(slot)
}
