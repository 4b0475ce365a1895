package ecs

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/TheBitDrifter/mask"
	"github.com/google/uuid"
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// Registry owns entities, keeps a live member list per requested Family, dispatches
// listeners and runs bound systems. A Registry is not safe for concurrent use; it is
// driven from a single goroutine.
//
// While Update is running, Add, Destroy, Release, DestroyAll and ReleaseAll are queued
// as Commands and applied in request order once every system has run.
type Registry struct {
	id  uuid.UUID
	log *zap.Logger

	capacity int
	entities []*Entity
	lookup   *intmap.Map[EntityID, *Entity]

	groups     map[mask.Mask]*Group
	groupOrder []*Group

	// listener slices are replaced, never mutated in place, so dispatch loops can
	// keep iterating while callbacks register or unregister.
	listeners []EntityListener
	filtered  []filteredListener

	commands commandQueue
	updating bool
	frame    uint64

	systems      []System
	systemsDirty bool
	systemSeq    uint64

	hierarchies map[EntityID]*Hierarchy
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	o := buildOptions(opts)
	r := &Registry{
		id:          uuid.New(),
		capacity:    o.capacity,
		entities:    make([]*Entity, 0, o.capacity),
		lookup:      intmap.New[EntityID, *Entity](o.capacity),
		groups:      make(map[mask.Mask]*Group),
		hierarchies: make(map[EntityID]*Hierarchy),
	}
	r.log = o.logger.With(zap.Stringer("registry", r.id))
	return r
}

// ID returns the identity of the registry.
func (r *Registry) ID() uuid.UUID {
	return r.id
}

// Updating reports whether an Update call is in progress.
func (r *Registry) Updating() bool {
	return r.updating
}

// Frame returns the number of Update calls that have started.
func (r *Registry) Frame() uint64 {
	return r.frame
}

// PendingCommands returns a copy of the commands queued during the current update.
func (r *Registry) PendingCommands() []Command {
	return r.commands.snapshot()
}

// Add takes ownership of e and enables it.
func (r *Registry) Add(e *Entity) error {
	if e == nil {
		return fmt.Errorf("add: %w", ErrEntityNotFound)
	}
	if r.updating {
		r.commands.push(CommandAdd, e)
		return nil
	}
	return r.add(e)
}

// AddAll adds each entity in order and returns the joined errors.
func (r *Registry) AddAll(entities ...*Entity) error {
	var errs []error
	for _, e := range entities {
		if err := r.Add(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emplace creates an entity from components and adds it. While updating, the
// returned entity is owned once the queued add is applied.
func (r *Registry) Emplace(components ...Component) (*Entity, error) {
	e, err := NewEntity(components...)
	if err != nil {
		return nil, err
	}
	if err := r.Add(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Destroy removes e and flushes its components. Listeners are notified while e is
// still enabled. Destroying an entity owned by another registry, or none, is a no-op.
func (r *Registry) Destroy(e *Entity) error {
	if e == nil {
		return nil
	}
	if r.updating {
		r.commands.push(CommandDestroy, e)
		return nil
	}
	return r.destroy(e)
}

// Release removes e without touching its components, so it can be added again.
// Listeners are notified after e has been disabled.
func (r *Registry) Release(e *Entity) error {
	if e == nil {
		return fmt.Errorf("release: %w", ErrNotOwned)
	}
	if r.updating {
		r.commands.push(CommandRelease, e)
		return nil
	}
	return r.release(e)
}

// DestroyAll destroys every entity, first to last.
func (r *Registry) DestroyAll() error {
	if r.updating {
		r.commands.push(CommandDestroyAll, nil)
		return nil
	}
	return r.destroyAll()
}

// ReleaseAll releases every entity, first to last.
func (r *Registry) ReleaseAll() error {
	if r.updating {
		r.commands.push(CommandReleaseAll, nil)
		return nil
	}
	return r.releaseAll()
}

func (r *Registry) add(e *Entity) error {
	if e.registry != nil {
		return fmt.Errorf("add %v: %w", e, ErrEntityOwned)
	}
	if e.enabled {
		return fmt.Errorf("add %v: %w", e, ErrEntityEnabled)
	}

	r.entities = append(r.entities, e)
	r.lookup.Put(e.id, e)
	e.registry = r
	e.enable()

	for _, g := range r.groupOrder {
		if g.family.IsMember(e) {
			g.add(e)
		}
	}

	matched := r.matchingFiltered(e)
	for _, l := range r.listeners {
		l.OnEntityAdded(e)
	}
	for _, l := range matched {
		l.OnEntityAdded(e)
	}
	return nil
}

func (r *Registry) destroy(e *Entity) error {
	if e.registry != r {
		return nil
	}
	if !e.enabled {
		return fmt.Errorf("destroy %v: %w", e, ErrEntityNotEnabled)
	}
	if _, ok := r.lookup.Get(e.id); !ok {
		return fmt.Errorf("destroy %v: %w", e, ErrEntityNotFound)
	}

	matched := r.matchingFiltered(e)
	for _, l := range r.listeners {
		l.OnEntityRemoved(e)
	}
	for _, l := range matched {
		l.OnEntityRemoved(e)
	}

	// a listener may have released or destroyed e already
	if e.registry != r {
		return nil
	}

	e.disable()
	e.registry = nil
	r.unlink(e)
	e.flush()
	return nil
}

func (r *Registry) release(e *Entity) error {
	if e.registry != r {
		return fmt.Errorf("release %v: %w", e, ErrNotOwned)
	}
	if !e.enabled {
		return fmt.Errorf("release %v: %w", e, ErrEntityNotEnabled)
	}
	if _, ok := r.lookup.Get(e.id); !ok {
		return fmt.Errorf("release %v: %w", e, ErrEntityNotFound)
	}

	matched := r.matchingFiltered(e)

	e.disable()
	e.registry = nil
	r.unlink(e)

	for _, l := range r.listeners {
		l.OnEntityRemoved(e)
	}
	for _, l := range matched {
		l.OnEntityRemoved(e)
	}
	return nil
}

func (r *Registry) destroyAll() error {
	var errs []error
	for len(r.entities) > 0 {
		e := r.entities[0]
		if err := r.destroy(e); err != nil {
			errs = append(errs, err)
			// keep the loop finite even if the entity could not be torn down
			if len(r.entities) > 0 && r.entities[0] == e {
				r.unlink(e)
				e.registry = nil
			}
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) releaseAll() error {
	var errs []error
	for len(r.entities) > 0 {
		e := r.entities[0]
		if err := r.release(e); err != nil {
			errs = append(errs, err)
			if len(r.entities) > 0 && r.entities[0] == e {
				r.unlink(e)
				e.registry = nil
			}
		}
	}
	return errors.Join(errs...)
}

// unlink removes e from the entity list, the id lookup, every group and every hierarchy.
func (r *Registry) unlink(e *Entity) {
	if i := slices.Index(r.entities, e); i >= 0 {
		r.entities = slices.Delete(r.entities, i, i+1)
	}
	r.lookup.Del(e.id)
	for _, g := range r.groupOrder {
		g.remove(e)
	}
	r.pruneHierarchies(e)
}

// entityChanged is called by an owned entity after Replace or Remove.
func (r *Registry) entityChanged(e *Entity) {
	if r.updating {
		r.commands.push(CommandSync, e)
		return
	}
	r.sync(e)
}

// sync re-evaluates the group membership of e and notifies filtered listeners whose
// Family e entered or left.
func (r *Registry) sync(e *Entity) {
	if e.registry != r {
		return
	}

	var entered, left []*Group
	for _, g := range r.groupOrder {
		if g.family.IsMember(e) {
			if g.add(e) {
				entered = append(entered, g)
			}
		} else if g.remove(e) {
			left = append(left, g)
		}
	}
	if len(entered) == 0 && len(left) == 0 {
		return
	}

	for _, fl := range r.filtered {
		g := r.groups[fl.family.key()]
		switch {
		case slices.Contains(entered, g):
			fl.listener.OnEntityAdded(e)
		case slices.Contains(left, g):
			fl.listener.OnEntityRemoved(e)
		}
	}
}

func (r *Registry) matchingFiltered(e *Entity) []EntityListener {
	var out []EntityListener
	for _, fl := range r.filtered {
		if r.groupFor(fl.family).Contains(e) {
			out = append(out, fl.listener)
		}
	}
	return out
}

// View returns a snapshot of the entities matching f. It panics on the zero Family.
func (r *Registry) View(f Family) *View {
	g := r.groupFor(f)
	return newView(f, g.members)
}

// ViewOf is View for a Family built from types.
func (r *Registry) ViewOf(types ...ComponentType) *View {
	return r.View(MustDefine(types...))
}

// Group returns the live member list for f. It panics on the zero Family.
func (r *Registry) Group(f Family) *Group {
	return r.groupFor(f)
}

// GroupOf is Group for a Family built from types.
func (r *Registry) GroupOf(types ...ComponentType) *Group {
	return r.Group(MustDefine(types...))
}

// Families returns every Family that has a live group, in first-request order.
func (r *Registry) Families() []Family {
	out := make([]Family, len(r.groupOrder))
	for i, g := range r.groupOrder {
		out[i] = g.family
	}
	return out
}

func (r *Registry) groupFor(f Family) *Group {
	if f.IsZero() {
		panic("ecs: query with zero Family")
	}
	if g, ok := r.groups[f.key()]; ok {
		return g
	}

	g := newGroup(f, r.capacity)
	for _, e := range r.entities {
		if f.IsMember(e) {
			g.add(e)
		}
	}
	r.groups[f.key()] = g
	r.groupOrder = append(r.groupOrder, g)
	return g
}

// Len returns the number of owned entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// At returns the entity at index i in insertion order.
func (r *Registry) At(i int) *Entity {
	return r.entities[i]
}

// Has reports whether e is owned by r.
func (r *Registry) Has(e *Entity) bool {
	return e != nil && e.registry == r
}

// Lookup returns the owned entity with the given id.
func (r *Registry) Lookup(id EntityID) (*Entity, bool) {
	return r.lookup.Get(id)
}

// All returns an iterator over (index, entity) pairs. The registry must not be
// changed while iterating; use Entities for a stable copy.
func (r *Registry) All() iter.Seq2[int, *Entity] {
	return slices.All(r.entities)
}

// Entities returns a copy of the owned entities in insertion order.
func (r *Registry) Entities() []*Entity {
	return slices.Clone(r.entities)
}

// Sort orders entities by the value of a component type. It is not available yet
// and always returns an error wrapping errors.ErrUnsupported.
func (r *Registry) Sort(t ComponentType, compare func(a, b Component) int) error {
	return fmt.Errorf("sort entities by %v: %w", t, errors.ErrUnsupported)
}

// Register adds a listener notified for every entity. Registering a listener that
// is already registered has no effect.
func (r *Registry) Register(l EntityListener) {
	if slices.Contains(r.listeners, l) {
		return
	}
	r.listeners = append(slices.Clip(r.listeners), l)
}

// Unregister removes a listener added with Register.
func (r *Registry) Unregister(l EntityListener) bool {
	i := slices.Index(r.listeners, l)
	if i < 0 {
		return false
	}
	r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
	return true
}

// RegisterFiltered adds a listener notified only for entities that are members of f.
// The listener is also notified when an entity's components change so that it
// enters or leaves f. A listener is registered at most once per Family.
func (r *Registry) RegisterFiltered(f Family, l EntityListener) {
	r.groupFor(f)
	if slices.ContainsFunc(r.filtered, func(fl filteredListener) bool {
		return fl.listener == l && fl.family.Equal(f)
	}) {
		return
	}
	r.filtered = append(slices.Clip(r.filtered), filteredListener{family: f, listener: l})
}

// UnregisterFiltered removes a listener added with RegisterFiltered for f.
func (r *Registry) UnregisterFiltered(f Family, l EntityListener) bool {
	i := slices.IndexFunc(r.filtered, func(fl filteredListener) bool {
		return fl.listener == l && fl.family.Equal(f)
	})
	if i < 0 {
		return false
	}
	r.filtered = append(r.filtered[:i:i], r.filtered[i+1:]...)
	return true
}

// Dispose destroys every entity, drops all groups and hierarchies, then disables
// and unbinds every system in reverse bind order.
func (r *Registry) Dispose() error {
	if r.updating {
		return fmt.Errorf("dispose: %w", ErrUpdating)
	}

	err := r.destroyAll()

	for _, g := range r.groupOrder {
		g.clear()
	}
	r.groups = make(map[mask.Mask]*Group)
	r.groupOrder = nil
	clear(r.hierarchies)
	r.entities = r.entities[:0]
	r.lookup.Clear()

	bound := slices.Clone(r.systems)
	slices.SortFunc(bound, func(a, b System) int {
		return cmp.Compare(b.systemBase().seq, a.systemBase().seq)
	})
	for _, s := range bound {
		s.systemBase().disabled = true
		r.detachSystem(s)
	}
	r.systems = nil

	r.log.Debug("registry disposed", zap.Int("systems", len(bound)), zap.Error(err))
	return err
}
