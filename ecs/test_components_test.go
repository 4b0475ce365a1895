package ecs_test

import "github.com/plus3/hearth/ecs"

// Common test component types
type Position struct {
	ecs.ComponentBase
	X, Y float32
}

type Velocity struct {
	ecs.ComponentBase
	DX, DY float32
}

type Name struct {
	ecs.ComponentBase
	Value string
}

type Health struct {
	ecs.ComponentBase
	Current int
	Max     int
}

type PlayerController struct {
	ecs.ComponentBase
}

// Hooked counts enable and disable dispatches.
type Hooked struct {
	ecs.ComponentBase
	Enables  int
	Disables int
}

func (h *Hooked) OnEnable()  { h.Enables++ }
func (h *Hooked) OnDisable() { h.Disables++ }

var (
	positionType = ecs.TypeOf[Position]()
	velocityType = ecs.TypeOf[Velocity]()
	nameType     = ecs.TypeOf[Name]()
	healthType   = ecs.TypeOf[Health]()
	playerType   = ecs.TypeOf[PlayerController]()
	hookedType   = ecs.TypeOf[Hooked]()
)

// recorder captures listener callbacks and the enabled state observed at that time.
type recorder struct {
	added   []*ecs.Entity
	removed []*ecs.Entity
	enabled []bool
}

func (r *recorder) OnEntityAdded(e *ecs.Entity) {
	r.added = append(r.added, e)
}

func (r *recorder) OnEntityRemoved(e *ecs.Entity) {
	r.removed = append(r.removed, e)
	r.enabled = append(r.enabled, e.Enabled())
}

func mustEntity(components ...ecs.Component) *ecs.Entity {
	e, err := ecs.NewEntity(components...)
	if err != nil {
		panic(err)
	}
	return e
}
