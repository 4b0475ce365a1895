package ecs

// EntityListener observes entities entering and leaving a Registry.
// Callbacks run synchronously on the goroutine that drives the Registry.
type EntityListener interface {
	OnEntityAdded(e *Entity)
	OnEntityRemoved(e *Entity)
}

// ListenerFuncs adapts plain functions to EntityListener. Nil fields are skipped.
// Use a pointer so the same value can later be passed to Unregister.
type ListenerFuncs struct {
	Added   func(e *Entity)
	Removed func(e *Entity)
}

func (l *ListenerFuncs) OnEntityAdded(e *Entity) {
	if l.Added != nil {
		l.Added(e)
	}
}

func (l *ListenerFuncs) OnEntityRemoved(e *Entity) {
	if l.Removed != nil {
		l.Removed(e)
	}
}

type filteredListener struct {
	family   Family
	listener EntityListener
}
