package main

import (
	"math/rand/v2"

	"github.com/plus3/hearth/ecs"
	"go.uber.org/zap"
)

const (
	priorityMovement = iota * 10
	priorityBoost
	priorityDecay
	prioritySpawn
	priorityChurn
	priorityCensus
)

// MovementSystem integrates velocity into position.
type MovementSystem struct {
	ecs.SystemBase
	Bodies ecs.Query2[Position, Velocity]
}

func (s *MovementSystem) Update(frame *ecs.UpdateFrame) {
	dt := frame.DeltaTime
	s.Bodies.Each(func(e *ecs.Entity, p *Position, v *Velocity) {
		p.X += v.DX * dt
		p.Y += v.DY * dt
	})
}

// boostProcessor applies the extra displacement of boosted bodies.
type boostProcessor struct{}

func (boostProcessor) Process(frame *ecs.UpdateFrame, e *ecs.Entity) {
	p := ecs.Get[Position](e)
	v := ecs.Get[Velocity](e)
	b := ecs.Get[Boost](e)
	p.X += v.DX * (b.Factor - 1) * frame.DeltaTime
	p.Y += v.DY * (b.Factor - 1) * frame.DeltaTime
}

// DecaySystem counts lifetimes down and destroys expired entities. Destruction is
// deferred by the registry until the end of the update.
type DecaySystem struct {
	ecs.SystemBase
	Lifetimes *ecs.Query1[Lifetime]

	log     *zap.Logger
	expired int
}

func (s *DecaySystem) Update(frame *ecs.UpdateFrame) {
	for e, l := range s.Lifetimes.Iter() {
		l.Remaining -= frame.DeltaTime
		if l.Remaining > 0 {
			continue
		}
		if err := frame.Registry.Destroy(e); err != nil {
			s.log.Warn("destroy expired entity", zap.Stringer("entity", e), zap.Error(err))
			continue
		}
		s.expired++
	}
}

// SpawnerSystem adds new entities every frame. Additions are deferred.
type SpawnerSystem struct {
	ecs.SystemBase

	rng      *rand.Rand
	perFrame int
	cfg      WorldConfig
	spawned  int
}

func (s *SpawnerSystem) Update(frame *ecs.UpdateFrame) {
	for range s.perFrame {
		if _, err := frame.Registry.Emplace(newBody(s.rng, s.cfg)...); err != nil {
			continue
		}
		s.spawned++
	}
}

// ChurnSystem toggles Boost on random live entities, which changes their group
// membership while the registry is updating.
type ChurnSystem struct {
	ecs.SystemBase

	rng      *rand.Rand
	perFrame int
	churned  int
}

func (s *ChurnSystem) Update(frame *ecs.UpdateFrame) {
	r := frame.Registry
	if r.Len() == 0 {
		return
	}
	for range s.perFrame {
		e := r.At(s.rng.IntN(r.Len()))
		var err error
		if e.Has(boostType) {
			_, err = e.Remove(boostType)
		} else {
			_, err = e.Replace(boostType, &Boost{Factor: 1 + s.rng.Float64()})
		}
		if err == nil {
			s.churned++
		}
	}
}

// censusProcessor samples the number of moving bodies once per interval.
type censusProcessor struct {
	count   int
	samples []int
}

func (c *censusProcessor) Begin(*ecs.UpdateFrame) { c.count = 0 }

func (c *censusProcessor) Process(*ecs.UpdateFrame, *ecs.Entity) { c.count++ }

func (c *censusProcessor) End(*ecs.UpdateFrame) {
	c.samples = append(c.samples, c.count)
}

func newBody(rng *rand.Rand, cfg WorldConfig) []ecs.Component {
	lifetime := cfg.MinLifetime + rng.Float64()*(cfg.MaxLifetime-cfg.MinLifetime)
	return []ecs.Component{
		&Position{X: rng.Float64() * 1000, Y: rng.Float64() * 1000},
		&Velocity{DX: rng.NormFloat64() * 10, DY: rng.NormFloat64() * 10},
		&Lifetime{Remaining: lifetime},
	}
}
