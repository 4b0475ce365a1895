package ecs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Bind attaches s to the registry. A previously bound system of the same concrete
// type is unbound first. Binding a system that is already bound here unbinds and
// rebinds it, which moves it behind systems of equal priority. Systems cannot be
// bound while an update is running.
func (r *Registry) Bind(s System) error {
	name := systemName(s)
	if r.updating {
		return fmt.Errorf("bind %s: %w", name, ErrUpdating)
	}

	base := s.systemBase()
	switch base.registry {
	case r:
		r.detachSystem(s)
	case nil:
	default:
		return fmt.Errorf("bind %s: %w", name, ErrSystemBound)
	}

	kind := reflect.TypeOf(s)
	if i := slices.IndexFunc(r.systems, func(bound System) bool {
		return reflect.TypeOf(bound) == kind
	}); i >= 0 {
		r.detachSystem(r.systems[i])
	}

	r.systemSeq++
	base.seq = r.systemSeq
	base.registry = r
	base.stats = systemStatsInternal{name: name}

	r.initializeQueries(s)
	r.systems = append(r.systems, s)
	r.sortSystems()

	if b, ok := s.(Binder); ok {
		b.OnBind(r)
	}

	r.log.Debug("system bound",
		zap.String("system", name),
		zap.Int("priority", base.priority),
		zap.Int("systems", len(r.systems)),
	)
	return nil
}

// Unbind detaches s. Systems cannot be unbound while an update is running.
func (r *Registry) Unbind(s System) error {
	name := systemName(s)
	if r.updating {
		return fmt.Errorf("unbind %s: %w", name, ErrUpdating)
	}
	if s.systemBase().registry != r || !slices.Contains(r.systems, s) {
		return fmt.Errorf("unbind %s: %w", name, ErrSystemNotBound)
	}

	r.detachSystem(s)
	return nil
}

func (r *Registry) detachSystem(s System) {
	if u, ok := s.(Unbinder); ok {
		u.OnUnbind(r)
	}
	base := s.systemBase()
	base.registry = nil

	if i := slices.Index(r.systems, s); i >= 0 {
		r.systems = slices.Delete(r.systems, i, i+1)
	}

	r.log.Debug("system unbound", zap.String("system", systemName(s)))
}

func (r *Registry) sortSystems() {
	slices.SortStableFunc(r.systems, func(a, b System) int {
		ab, bb := a.systemBase(), b.systemBase()
		return cmp.Or(
			cmp.Compare(ab.priority, bb.priority),
			cmp.Compare(ab.seq, bb.seq),
		)
	})
	r.systemsDirty = false
}

// HasSystem reports whether s is bound to r.
func (r *Registry) HasSystem(s System) bool {
	return s.systemBase().registry == r
}

// Systems returns the bound systems in execution order.
func (r *Registry) Systems() []System {
	if r.systemsDirty && !r.updating {
		r.sortSystems()
	}
	return slices.Clone(r.systems)
}

// SystemCount returns the number of bound systems.
func (r *Registry) SystemCount() int {
	return len(r.systems)
}

// SystemOf returns the bound system of type T.
func SystemOf[T System](r *Registry) (T, bool) {
	for _, s := range r.systems {
		if t, ok := s.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Update runs every enabled system once in priority order, then applies the commands
// they queued. Calling Update while an update is running does nothing. The returned
// error joins the failures of the applied commands.
func (r *Registry) Update(dt float64) error {
	if r.updating {
		return nil
	}
	r.updating = true
	defer func() {
		r.updating = false
	}()

	r.frame++
	if r.systemsDirty {
		r.sortSystems()
	}

	frame := &UpdateFrame{
		DeltaTime: dt,
		Number:    r.frame,
		Registry:  r,
	}

	for _, system := range r.systems {
		base := system.systemBase()
		if base.disabled {
			continue
		}

		start := time.Now()
		system.Update(frame)
		base.stats.record(time.Since(start))
	}

	return r.drain()
}

// drain applies queued commands in FIFO order. Commands queued by listeners while
// draining are applied in the same pass.
func (r *Registry) drain() error {
	var errs []error
	for {
		cmd, ok := r.commands.pop()
		if !ok {
			break
		}
		if err := r.apply(cmd); err != nil {
			r.log.Warn("deferred command failed",
				zap.Uint64("frame", r.frame),
				zap.Stringer("command", cmd),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) apply(cmd Command) error {
	switch cmd.Kind {
	case CommandAdd:
		return r.add(cmd.Entity)
	case CommandDestroy:
		return r.destroy(cmd.Entity)
	case CommandRelease:
		return r.release(cmd.Entity)
	case CommandDestroyAll:
		return r.destroyAll()
	case CommandReleaseAll:
		return r.releaseAll()
	case CommandSync:
		r.sync(cmd.Entity)
		return nil
	default:
		return fmt.Errorf("apply %v: unknown command", cmd.Kind)
	}
}

// Run calls Update repeatedly at the given interval until the context is cancelled.
// Command failures are logged and do not stop the loop.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			_ = r.Update(dt)
		}
	}
}
