package ecs

// Component is a typed payload attached to an Entity. Types become components by
// embedding ComponentBase and are attached by pointer:
//
//	type Position struct {
//		ecs.ComponentBase
//		X, Y float64
//	}
//
//	entity.Add(&Position{X: 1})
type Component interface {
	componentBase() *ComponentBase
}

// Enabler is implemented by components that react to being enabled.
type Enabler interface {
	OnEnable()
}

// Disabler is implemented by components that react to being disabled.
type Disabler interface {
	OnDisable()
}

// ComponentBase holds the attachment state every component carries.
type ComponentBase struct {
	owner   EntityID
	enabled bool
}

func (b *ComponentBase) componentBase() *ComponentBase {
	return b
}

// Owner returns the handle of the entity this component is attached to, or 0.
func (b *ComponentBase) Owner() EntityID {
	return b.owner
}

// Attached reports whether the component currently belongs to an entity.
func (b *ComponentBase) Attached() bool {
	return b.owner != 0
}

// Enabled reports whether the component is enabled.
func (b *ComponentBase) Enabled() bool {
	return b.enabled
}

func enableComponent(c Component) {
	b := c.componentBase()
	if b.enabled {
		return
	}
	b.enabled = true
	if h, ok := c.(Enabler); ok {
		h.OnEnable()
	}
}

func disableComponent(c Component) {
	b := c.componentBase()
	if !b.enabled {
		return
	}
	b.enabled = false
	if h, ok := c.(Disabler); ok {
		h.OnDisable()
	}
}
