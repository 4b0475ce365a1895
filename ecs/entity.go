package ecs

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/TheBitDrifter/mask"
)

// EntityID is a process-unique handle for an entity. Zero is never issued.
type EntityID uint64

var lastEntityID atomic.Uint64

func nextEntityID() EntityID {
	return EntityID(lastEntityID.Add(1))
}

// ComponentEvent is emitted by an entity whenever a component is attached or detached.
type ComponentEvent struct {
	Entity    *Entity
	Component Component
	Type      ComponentType
}

// Entity owns a set of components and belongs to at most one Registry at a time.
// Entities are created detached and disabled by NewEntity; the Registry enables
// them on Add.
type Entity struct {
	id       EntityID
	registry *Registry
	enabled  bool

	components []Component
	types      []ComponentType
	counts     map[ComponentType]int
	mask       mask.Mask
	cache      map[ComponentType]Component

	ComponentAdded   Signal[ComponentEvent]
	ComponentRemoved Signal[ComponentEvent]
}

// NewEntity creates a detached entity holding the given components.
func NewEntity(components ...Component) (*Entity, error) {
	e := &Entity{
		id:     nextEntityID(),
		counts: make(map[ComponentType]int),
		cache:  make(map[ComponentType]Component),
	}
	if err := e.AddAll(components...); err != nil {
		e.flush()
		return nil, err
	}
	return e, nil
}

// ID returns the entity handle.
func (e *Entity) ID() EntityID {
	return e.id
}

// Registry returns the owning registry, or nil while unmanaged.
func (e *Entity) Registry() *Registry {
	return e.registry
}

// Enabled reports whether the entity is enabled.
func (e *Entity) Enabled() bool {
	return e.enabled
}

// Len returns the number of attached components.
func (e *Entity) Len() int {
	return len(e.components)
}

// Components returns a copy of the attached components in attach order.
func (e *Entity) Components() []Component {
	return slices.Clone(e.components)
}

// Types returns the component types in attach order.
func (e *Entity) Types() []ComponentType {
	return slices.Clone(e.types)
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(%d)", e.id)
}

// Add attaches a component. Components may only be added while the entity is
// unmanaged; owned entities change shape through Replace and Remove.
func (e *Entity) Add(c Component) error {
	if c == nil {
		return fmt.Errorf("add to %v: %w", e, ErrComponentNotFound)
	}
	if c.componentBase().owner != 0 {
		return fmt.Errorf("add %T to %v: %w", c, e, ErrComponentAttached)
	}
	if e.enabled || e.registry != nil {
		return fmt.Errorf("add %T to %v: %w", c, e, ErrEntityLocked)
	}

	t := typeOfComponent(c)
	e.attach(t, c)
	e.ComponentAdded.Emit(ComponentEvent{Entity: e, Component: c, Type: t})
	return nil
}

// AddAll attaches each component in order, stopping at the first failure.
func (e *Entity) AddAll(components ...Component) error {
	for _, c := range components {
		if err := e.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether a component of type t is attached.
func (e *Entity) Has(t ComponentType) bool {
	return e.counts[t] > 0
}

// Component returns the first attached component of type t, or nil.
// Lookups are cached per type until the cached component is detached.
func (e *Entity) Component(t ComponentType) Component {
	if c, ok := e.cache[t]; ok {
		return c
	}
	if e.counts[t] == 0 {
		return nil
	}
	for i, ct := range e.types {
		if ct == t {
			c := e.components[i]
			e.cache[t] = c
			return c
		}
	}
	return nil
}

// Replace swaps the component cached for type t with c and returns the previous holder.
// The previous holder is detached and disabled; c is enabled if the entity is.
func (e *Entity) Replace(t ComponentType, c Component) (Component, error) {
	if c == nil {
		return nil, fmt.Errorf("replace %v on %v: %w", t, e, ErrComponentNotFound)
	}
	if c.componentBase().owner != 0 {
		return nil, fmt.Errorf("replace %v on %v: %w", t, e, ErrComponentAttached)
	}
	if ct := typeOfComponent(c); ct != t {
		return nil, fmt.Errorf("replace %v on %v with %v: %w", t, e, ct, ErrTypeMismatch)
	}

	old := e.Component(t)
	if old != nil {
		e.detach(t, old)
		disableComponent(old)
		e.ComponentRemoved.Emit(ComponentEvent{Entity: e, Component: old, Type: t})
	}

	e.attach(t, c)
	if e.enabled {
		enableComponent(c)
	}
	e.ComponentAdded.Emit(ComponentEvent{Entity: e, Component: c, Type: t})

	e.changed()
	return old, nil
}

// Remove detaches and returns the component of type t.
func (e *Entity) Remove(t ComponentType) (Component, error) {
	c := e.Component(t)
	if c == nil {
		return nil, fmt.Errorf("remove %v from %v: %w", t, e, ErrComponentNotFound)
	}

	e.detach(t, c)
	if e.enabled {
		disableComponent(c)
	}
	e.ComponentRemoved.Emit(ComponentEvent{Entity: e, Component: c, Type: t})

	e.changed()
	return c, nil
}

func (e *Entity) attach(t ComponentType, c Component) {
	e.components = append(e.components, c)
	e.types = append(e.types, t)
	c.componentBase().owner = e.id

	if e.counts[t] == 0 {
		e.mask.Mark(uint32(t))
	}
	e.counts[t]++
}

func (e *Entity) detach(t ComponentType, c Component) {
	i := slices.Index(e.components, c)
	if i < 0 {
		return
	}
	e.components = slices.Delete(e.components, i, i+1)
	e.types = slices.Delete(e.types, i, i+1)
	c.componentBase().owner = 0

	if cached, ok := e.cache[t]; ok && cached == c {
		delete(e.cache, t)
	}
	e.counts[t]--
	if e.counts[t] == 0 {
		delete(e.counts, t)
		e.mask.Unmark(uint32(t))
	}
}

// changed tells the owning registry that the entity's shape changed.
func (e *Entity) changed() {
	if e.registry != nil {
		e.registry.entityChanged(e)
	}
}

func (e *Entity) enable() {
	if e.enabled {
		return
	}
	for _, c := range e.components {
		enableComponent(c)
	}
	e.enabled = true
}

func (e *Entity) disable() {
	if !e.enabled {
		return
	}
	for _, c := range e.components {
		disableComponent(c)
	}
	e.enabled = false
}

// flush disables and detaches every component. Used when the entity is destroyed.
func (e *Entity) flush() {
	for _, c := range e.components {
		c.componentBase().owner = 0
		disableComponent(c)
	}
	e.components = nil
	e.types = nil
	clear(e.counts)
	clear(e.cache)
	e.mask = mask.Mask{}
}

// Get returns the component of type T attached to e, or nil.
func Get[T any](e *Entity) *T {
	c := e.Component(TypeOf[T]())
	if c == nil {
		return nil
	}
	return any(c).(*T)
}

// HasComponent reports whether e holds a component of type T.
func HasComponent[T any](e *Entity) bool {
	return e.Has(TypeOf[T]())
}

// RemoveComponent detaches and returns the component of type T.
func RemoveComponent[T any](e *Entity) (*T, error) {
	c, err := e.Remove(TypeOf[T]())
	if err != nil {
		return nil, err
	}
	return any(c).(*T), nil
}
