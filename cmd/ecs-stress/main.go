package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ecs-stress: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Optional TOML or YAML config file.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create per world.")
	worlds := flag.Int("worlds", 1, "The number of independent registries to run concurrently.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := defaults()
	if *configPath != "" {
		loaded, err := Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags given explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Run.Duration = *duration
		case "entities":
			cfg.World.Entities = *entityCount
		case "worlds":
			cfg.Run.Worlds = *worlds
		case "gc-pause-metrics":
			cfg.Run.GCPauseMetrics = *gcPauseMetrics
		}
	})
	if err := cfg.validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting ECS stress test",
		zap.Duration("duration", cfg.Run.Duration),
		zap.Int("worlds", cfg.Run.Worlds),
		zap.Int("entities", cfg.World.Entities),
	)

	report := &Report{
		Config:         *cfg,
		GCPauseMetrics: cfg.Run.GCPauseMetrics,
		Results:        make([]*WorldResult, cfg.Run.Worlds),
	}

	worldList := make([]*World, cfg.Run.Worlds)
	for i := range worldList {
		w, err := NewWorld(i, cfg.World, cfg.Run.Seed, log)
		if err != nil {
			return err
		}
		worldList[i] = w
	}
	log.Info("population complete")

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Run.Duration)
	defer cancel()

	startTime := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i, w := range worldList {
		g.Go(func() error {
			result, err := w.Run(ctx)
			report.Results[i] = result
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	report.TotalTime = time.Since(startTime)
	report.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("simulation finished", zap.Int64("updates", report.TotalUpdates))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}

func newLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
