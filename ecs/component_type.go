package ecs

import (
	"fmt"
	"reflect"
	"sync"
)

// MaxComponentTypes is the number of distinct component types a process can register.
// Every type occupies one bit of a Family mask.
const MaxComponentTypes = 256

// ComponentType is a stable, process-wide identifier for a Go component type.
// Identifiers are allocated lazily the first time a type is seen.
type ComponentType uint32

type componentTypeTable struct {
	mu    sync.RWMutex
	ids   map[reflect.Type]ComponentType
	types []reflect.Type
}

var componentTypes = &componentTypeTable{
	ids: make(map[reflect.Type]ComponentType),
}

// TypeOf returns the ComponentType for T. TypeOf[Position]() and TypeOf[*Position]()
// return the same identifier.
func TypeOf[T any]() ComponentType {
	return TypeFor(reflect.TypeFor[T]())
}

// TypeFor returns the ComponentType for the given reflect.Type, allocating one if needed.
func TypeFor(t reflect.Type) ComponentType {
	if t == nil {
		panic("ecs: nil component type")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	componentTypes.mu.RLock()
	id, ok := componentTypes.ids[t]
	componentTypes.mu.RUnlock()
	if ok {
		return id
	}

	componentTypes.mu.Lock()
	defer componentTypes.mu.Unlock()

	if id, ok := componentTypes.ids[t]; ok {
		return id
	}
	if len(componentTypes.types) >= MaxComponentTypes {
		panic(fmt.Sprintf("ecs: cannot register %s, limit of %d component types reached", t, MaxComponentTypes))
	}

	id = ComponentType(len(componentTypes.types))
	componentTypes.ids[t] = id
	componentTypes.types = append(componentTypes.types, t)
	return id
}

// RegisteredTypes returns every ComponentType allocated so far, in allocation order.
func RegisteredTypes() []ComponentType {
	componentTypes.mu.RLock()
	defer componentTypes.mu.RUnlock()

	out := make([]ComponentType, len(componentTypes.types))
	for i := range out {
		out[i] = ComponentType(i)
	}
	return out
}

// Type returns the Go type behind the identifier, or nil if it was never allocated.
func (t ComponentType) Type() reflect.Type {
	componentTypes.mu.RLock()
	defer componentTypes.mu.RUnlock()

	if int(t) >= len(componentTypes.types) {
		return nil
	}
	return componentTypes.types[t]
}

func (t ComponentType) String() string {
	if rt := t.Type(); rt != nil {
		return rt.String()
	}
	return fmt.Sprintf("ComponentType(%d)", uint32(t))
}

func typeOfComponent(c Component) ComponentType {
	return TypeFor(reflect.TypeOf(c))
}
