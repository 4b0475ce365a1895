package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/ecs/systems"
	"go.uber.org/zap"
)

// World is one independent registry with the stress systems bound to it.
// A World is driven by a single goroutine.
type World struct {
	ID       int
	Registry *ecs.Registry

	log     *zap.Logger
	rng     *rand.Rand
	decay   *DecaySystem
	spawner *SpawnerSystem
	churn   *ChurnSystem
	census  *systems.Interval[*censusProcessor]
}

// WorldResult summarizes one world's run.
type WorldResult struct {
	ID            int
	Updates       int64
	UpdateTime    Stats
	CommandErrors int
	Spawned       int
	Expired       int
	Churned       int
	Census        []int
	Registry      *ecs.RegistryStats
}

func NewWorld(id int, cfg WorldConfig, seed uint64, log *zap.Logger) (*World, error) {
	log = log.With(zap.Int("world", id))
	w := &World{
		ID:       id,
		Registry: ecs.NewRegistry(ecs.WithInitialCapacity(cfg.Entities), ecs.WithLogger(log)),
		log:      log,
		rng:      rand.New(rand.NewPCG(seed, uint64(id))),
	}

	for range cfg.Entities {
		if _, err := w.Registry.Emplace(newBody(w.rng, cfg)...); err != nil {
			return nil, fmt.Errorf("populate world %d: %w", id, err)
		}
	}

	movement := &MovementSystem{}
	movement.SetPriority(priorityMovement)

	boost := systems.NewIterative(boostedFamily, boostProcessor{})
	boost.SetPriority(priorityBoost)

	w.decay = &DecaySystem{log: log}
	w.decay.SetPriority(priorityDecay)

	w.spawner = &SpawnerSystem{rng: w.rng, perFrame: cfg.SpawnPerFrame, cfg: cfg}
	w.spawner.SetPriority(prioritySpawn)

	w.churn = &ChurnSystem{rng: w.rng, perFrame: cfg.ChurnPerFrame}
	w.churn.SetPriority(priorityChurn)

	w.census = systems.NewInterval(bodyFamily, cfg.CensusEvery, &censusProcessor{})
	w.census.SetPriority(priorityCensus)

	for _, s := range []ecs.System{movement, boost, w.decay, w.spawner, w.churn, w.census} {
		if err := w.Registry.Bind(s); err != nil {
			return nil, fmt.Errorf("bind systems for world %d: %w", id, err)
		}
	}

	log.Debug("world ready", zap.Int("entities", w.Registry.Len()))
	return w, nil
}

// Run updates the world as fast as possible until ctx is done.
func (w *World) Run(ctx context.Context) (*WorldResult, error) {
	result := &WorldResult{ID: w.ID}
	lastFrameTime := time.Now()

	for ctx.Err() == nil {
		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()

		updateStart := time.Now()
		if err := w.Registry.Update(deltaTime.Seconds()); err != nil {
			result.CommandErrors++
		}
		result.UpdateTime.Samples = append(result.UpdateTime.Samples, time.Since(updateStart))
		result.Updates++
	}

	result.UpdateTime.Finalize()
	result.Spawned = w.spawner.spawned
	result.Expired = w.decay.expired
	result.Churned = w.churn.churned
	result.Census = w.census.Processor.samples
	result.Registry = w.Registry.CollectStats()

	w.log.Info("world finished",
		zap.Int64("updates", result.Updates),
		zap.Int("entities", w.Registry.Len()),
		zap.Int("command_errors", result.CommandErrors),
	)

	if err := w.Registry.Dispose(); err != nil {
		return result, fmt.Errorf("dispose world %d: %w", w.ID, err)
	}
	return result, nil
}
