package ecs

import (
	"iter"
	"reflect"
)

// Query1 is a typed query over the live group of entities holding an A.
// Query fields of a system are initialized automatically when the system is bound.
type Query1[A any] struct {
	group *Group
}

// NewQuery1 creates a query bound to r.
func NewQuery1[A any](r *Registry) *Query1[A] {
	q := &Query1[A]{}
	q.Init(r)
	return q
}

// Init binds the query to r. Called by Registry.Bind for system fields.
func (q *Query1[A]) Init(r *Registry) {
	q.group = r.GroupOf(TypeOf[A]())
}

// Group returns the live group behind the query.
func (q *Query1[A]) Group() *Group {
	return q.group
}

// Len returns the number of matching entities.
func (q *Query1[A]) Len() int {
	return q.group.Len()
}

// Iter returns an iterator over matching entities and their component. Members
// that lost the component earlier in the current update are skipped.
func (q *Query1[A]) Iter() iter.Seq2[*Entity, *A] {
	return func(yield func(*Entity, *A) bool) {
		for _, e := range q.group.members {
			a := Get[A](e)
			if a == nil {
				continue
			}
			if !yield(e, a) {
				return
			}
		}
	}
}

// Values returns an iterator over the matched components.
func (q *Query1[A]) Values() iter.Seq[*A] {
	return func(yield func(*A) bool) {
		for _, e := range q.group.members {
			a := Get[A](e)
			if a == nil {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

// Each calls fn for every match.
func (q *Query1[A]) Each(fn func(e *Entity, a *A)) {
	Each1(q.group.Values(), fn)
}

// Query2 is a typed query over entities holding an A and a B.
type Query2[A, B any] struct {
	group *Group
}

// NewQuery2 creates a query bound to r.
func NewQuery2[A, B any](r *Registry) *Query2[A, B] {
	q := &Query2[A, B]{}
	q.Init(r)
	return q
}

// Init binds the query to r.
func (q *Query2[A, B]) Init(r *Registry) {
	q.group = r.GroupOf(TypeOf[A](), TypeOf[B]())
}

// Group returns the live group behind the query.
func (q *Query2[A, B]) Group() *Group {
	return q.group
}

// Len returns the number of matching entities.
func (q *Query2[A, B]) Len() int {
	return q.group.Len()
}

// Each calls fn for every match.
func (q *Query2[A, B]) Each(fn func(e *Entity, a *A, b *B)) {
	Each2(q.group.Values(), fn)
}

// Query3 is a typed query over entities holding an A, a B and a C.
type Query3[A, B, C any] struct {
	group *Group
}

// NewQuery3 creates a query bound to r.
func NewQuery3[A, B, C any](r *Registry) *Query3[A, B, C] {
	q := &Query3[A, B, C]{}
	q.Init(r)
	return q
}

// Init binds the query to r.
func (q *Query3[A, B, C]) Init(r *Registry) {
	q.group = r.GroupOf(TypeOf[A](), TypeOf[B](), TypeOf[C]())
}

// Group returns the live group behind the query.
func (q *Query3[A, B, C]) Group() *Group {
	return q.group
}

// Len returns the number of matching entities.
func (q *Query3[A, B, C]) Len() int {
	return q.group.Len()
}

// Each calls fn for every match.
func (q *Query3[A, B, C]) Each(fn func(e *Entity, a *A, b *B, c *C)) {
	Each3(q.group.Values(), fn)
}

// Each1 calls fn for each entity of seq that holds an A.
func Each1[A any](seq iter.Seq[*Entity], fn func(e *Entity, a *A)) {
	for e := range seq {
		if a := Get[A](e); a != nil {
			fn(e, a)
		}
	}
}

// Each2 calls fn for each entity of seq that holds an A and a B.
func Each2[A, B any](seq iter.Seq[*Entity], fn func(e *Entity, a *A, b *B)) {
	for e := range seq {
		a := Get[A](e)
		if a == nil {
			continue
		}
		b := Get[B](e)
		if b == nil {
			continue
		}
		fn(e, a, b)
	}
}

// Each3 calls fn for each entity of seq that holds an A, a B and a C.
func Each3[A, B, C any](seq iter.Seq[*Entity], fn func(e *Entity, a *A, b *B, c *C)) {
	for e := range seq {
		a := Get[A](e)
		if a == nil {
			continue
		}
		b := Get[B](e)
		if b == nil {
			continue
		}
		c := Get[C](e)
		if c == nil {
			continue
		}
		fn(e, a, b, c)
	}
}

type queryInitializer interface {
	Init(r *Registry)
}

var queryInitializerType = reflect.TypeFor[queryInitializer]()

// initializeQueries binds every exported query field of a system struct to r.
func (r *Registry) initializeQueries(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() {
			continue
		}

		switch {
		case field.Kind() == reflect.Struct && field.Addr().Type().Implements(queryInitializerType):
			field.Addr().Interface().(queryInitializer).Init(r)
		case field.Kind() == reflect.Ptr && field.Type().Implements(queryInitializerType):
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			field.Interface().(queryInitializer).Init(r)
		}
	}
}
