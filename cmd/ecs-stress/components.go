package main

import "github.com/plus3/hearth/ecs"

type Position struct {
	ecs.ComponentBase
	X, Y float64
}

type Velocity struct {
	ecs.ComponentBase
	DX, DY float64
}

// Lifetime counts down in seconds; the entity is destroyed when it reaches zero.
type Lifetime struct {
	ecs.ComponentBase
	Remaining float64
}

// Boost is toggled on and off by the churn system.
type Boost struct {
	ecs.ComponentBase
	Factor float64
}

var (
	positionType = ecs.TypeOf[Position]()
	velocityType = ecs.TypeOf[Velocity]()
	lifetimeType = ecs.TypeOf[Lifetime]()
	boostType    = ecs.TypeOf[Boost]()

	bodyFamily    = ecs.MustDefine(positionType, velocityType)
	boostedFamily = ecs.Extend(bodyFamily, boostType)
)
