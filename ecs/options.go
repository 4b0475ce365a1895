package ecs

import "go.uber.org/zap"

const defaultInitialCapacity = 16

type options struct {
	capacity int
	logger   *zap.Logger
}

// Option configures a Registry.
type Option func(*options)

// WithInitialCapacity presizes the entity list and lookup tables.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithLogger sets the logger used for bind, unbind, dispose and failed deferred commands.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		capacity: defaultInitialCapacity,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
