package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/hearth/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSystem struct {
	ecs.SystemBase
	name string
	log  *[]string
}

func (s *recordingSystem) Update(frame *ecs.UpdateFrame) {
	*s.log = append(*s.log, s.name)
}

func (s *recordingSystem) OnBind(r *ecs.Registry) {
	*s.log = append(*s.log, "bind "+s.name)
}

func (s *recordingSystem) OnUnbind(r *ecs.Registry) {
	*s.log = append(*s.log, "unbind "+s.name)
}

type otherRecordingSystem struct {
	recordingSystem
}

type MovementSystem struct {
	ecs.SystemBase
	Entities     ecs.Query2[Position, Velocity]
	ExecuteCount int
}

func (s *MovementSystem) Update(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.Entities.Each(func(e *ecs.Entity, pos *Position, vel *Velocity) {
		pos.X += vel.DX * float32(frame.DeltaTime)
		pos.Y += vel.DY * float32(frame.DeltaTime)
	})
}

type HealthSystem struct {
	ecs.SystemBase
	Entities     *ecs.Query1[Health]
	ExecuteCount int
	TotalHealth  float64
}

func (s *HealthSystem) Update(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.TotalHealth = 0
	for h := range s.Entities.Values() {
		s.TotalHealth += float64(h.Current)
	}
}

type funcSystem struct {
	ecs.SystemBase
	fn func(frame *ecs.UpdateFrame)
}

func (s *funcSystem) Update(frame *ecs.UpdateFrame) {
	s.fn(frame)
}

func TestScheduler(t *testing.T) {
	t.Run("system execution and query initialization", func(t *testing.T) {
		r := ecs.NewRegistry()
		movement := &MovementSystem{}
		health := &HealthSystem{}

		require.NoError(t, r.Bind(movement))
		require.NoError(t, r.Bind(health))

		pos := &Position{}
		_, err := r.Emplace(pos, &Velocity{DX: 1, DY: 2})
		require.NoError(t, err)
		_, err = r.Emplace(&Health{Current: 100, Max: 100})
		require.NoError(t, err)

		require.NoError(t, r.Update(1.0))

		if movement.ExecuteCount != 1 {
			t.Errorf("expected MovementSystem to execute once, got %d", movement.ExecuteCount)
		}
		if health.ExecuteCount != 1 {
			t.Errorf("expected HealthSystem to execute once, got %d", health.ExecuteCount)
		}
		if health.TotalHealth != 100 {
			t.Errorf("expected total health 100, got %f", health.TotalHealth)
		}

		require.NoError(t, r.Update(0.5))

		if pos.X != 1.5 || pos.Y != 3 {
			t.Errorf("expected position (1.5, 3), got (%f, %f)", pos.X, pos.Y)
		}
		if r.Frame() != 2 {
			t.Errorf("expected frame 2, got %d", r.Frame())
		}
	})

	t.Run("priority order with ties in bind order", func(t *testing.T) {
		r := ecs.NewRegistry()
		var order []string

		late := &recordingSystem{name: "late", log: &order}
		late.SetPriority(5)
		early := &otherRecordingSystem{recordingSystem{name: "early", log: &order}}
		tie := &funcSystem{fn: func(*ecs.UpdateFrame) { order = append(order, "tie") }}

		require.NoError(t, r.Bind(late))
		require.NoError(t, r.Bind(early))
		require.NoError(t, r.Bind(tie))
		order = order[:0]

		require.NoError(t, r.Update(0))
		require.NoError(t, r.Update(0))
		assert.Equal(t, []string{"early", "tie", "late", "early", "tie", "late"}, order)
	})

	t.Run("set priority reorders before the next update", func(t *testing.T) {
		r := ecs.NewRegistry()
		var order []string
		a := &recordingSystem{name: "a", log: &order}
		b := &otherRecordingSystem{recordingSystem{name: "b", log: &order}}
		require.NoError(t, r.Bind(a))
		require.NoError(t, r.Bind(b))

		a.SetPriority(10)
		order = order[:0]
		require.NoError(t, r.Update(0))
		assert.Equal(t, []string{"b", "a"}, order)
		assert.Same(t, b, r.Systems()[0])
	})

	t.Run("binding the same type replaces the previous system", func(t *testing.T) {
		r := ecs.NewRegistry()
		var order []string
		first := &recordingSystem{name: "first", log: &order}
		second := &recordingSystem{name: "second", log: &order}

		require.NoError(t, r.Bind(first))
		require.NoError(t, r.Bind(second))

		assert.Equal(t, 1, r.SystemCount())
		assert.False(t, r.HasSystem(first))
		assert.True(t, r.HasSystem(second))
		assert.Equal(t, []string{"bind first", "unbind first", "bind second"}, order)

		got, ok := ecs.SystemOf[*recordingSystem](r)
		require.True(t, ok)
		assert.Same(t, second, got)
	})

	t.Run("bound elsewhere", func(t *testing.T) {
		a, b := ecs.NewRegistry(), ecs.NewRegistry()
		s := &funcSystem{fn: func(*ecs.UpdateFrame) {}}
		require.NoError(t, a.Bind(s))
		assert.ErrorIs(t, b.Bind(s), ecs.ErrSystemBound)
		assert.NoError(t, a.Bind(s))
		assert.Equal(t, 1, a.SystemCount())
	})

	t.Run("rebinding moves the system behind equal priorities", func(t *testing.T) {
		r := ecs.NewRegistry()
		var order []string
		a := &recordingSystem{name: "a", log: &order}
		b := &otherRecordingSystem{recordingSystem{name: "b", log: &order}}
		require.NoError(t, r.Bind(a))
		require.NoError(t, r.Bind(b))

		order = order[:0]
		require.NoError(t, r.Bind(a))
		assert.Equal(t, []string{"unbind a", "bind a"}, order)
		assert.Equal(t, 2, r.SystemCount())
		assert.True(t, r.HasSystem(a))

		order = order[:0]
		require.NoError(t, r.Update(0))
		assert.Equal(t, []string{"b", "a"}, order)
	})

	t.Run("unbind", func(t *testing.T) {
		r := ecs.NewRegistry()
		var order []string
		s := &recordingSystem{name: "s", log: &order}

		assert.ErrorIs(t, r.Unbind(s), ecs.ErrSystemNotBound)
		require.NoError(t, r.Bind(s))
		require.NoError(t, r.Unbind(s))
		assert.Zero(t, r.SystemCount())
		assert.Nil(t, s.Registry())

		require.NoError(t, r.Update(0))
		assert.Equal(t, []string{"bind s", "unbind s"}, order)
	})

	t.Run("disabled systems are skipped", func(t *testing.T) {
		r := ecs.NewRegistry()
		calls := 0
		s := &funcSystem{fn: func(*ecs.UpdateFrame) { calls++ }}
		require.NoError(t, r.Bind(s))

		s.SetEnabled(false)
		require.NoError(t, r.Update(0))
		assert.Zero(t, calls)

		s.SetEnabled(true)
		require.NoError(t, r.Update(0))
		assert.Equal(t, 1, calls)
	})

	t.Run("topology changes are rejected while updating", func(t *testing.T) {
		r := ecs.NewRegistry()
		other := &recordingSystem{name: "other", log: new([]string)}
		var bindErr, unbindErr, disposeErr error

		var self *funcSystem
		self = &funcSystem{fn: func(frame *ecs.UpdateFrame) {
			bindErr = frame.Registry.Bind(other)
			unbindErr = frame.Registry.Unbind(self)
			disposeErr = frame.Registry.Dispose()
		}}
		require.NoError(t, r.Bind(self))
		require.NoError(t, r.Update(0))

		assert.ErrorIs(t, bindErr, ecs.ErrUpdating)
		assert.ErrorIs(t, unbindErr, ecs.ErrUpdating)
		assert.ErrorIs(t, disposeErr, ecs.ErrUpdating)
		assert.Equal(t, 1, r.SystemCount())
	})

	t.Run("update is not reentrant", func(t *testing.T) {
		r := ecs.NewRegistry()
		calls := 0
		require.NoError(t, r.Bind(&funcSystem{fn: func(frame *ecs.UpdateFrame) {
			calls++
			assert.True(t, frame.Registry.Updating())
			assert.NoError(t, frame.Registry.Update(frame.DeltaTime))
		}}))

		require.NoError(t, r.Update(0.016))
		assert.Equal(t, 1, calls)
		assert.Equal(t, uint64(1), r.Frame())
		assert.False(t, r.Updating())
	})

	t.Run("stats", func(t *testing.T) {
		r := ecs.NewRegistry()
		s := &funcSystem{fn: func(*ecs.UpdateFrame) { time.Sleep(time.Millisecond) }}
		s.SetPriority(3)
		require.NoError(t, r.Bind(s))

		for i := 0; i < 3; i++ {
			require.NoError(t, r.Update(0))
		}

		st := s.Stats()
		assert.Equal(t, "funcSystem", st.Name)
		assert.Equal(t, 3, st.Priority)
		assert.True(t, st.Enabled)
		assert.Equal(t, int64(3), st.ExecutionCount)
		assert.GreaterOrEqual(t, st.MinDuration, time.Millisecond)
		assert.GreaterOrEqual(t, st.MaxDuration, st.MinDuration)
		assert.Equal(t, st.TotalDuration/3, st.AvgDuration)
	})
}

func TestSchedulerRun(t *testing.T) {
	r := ecs.NewRegistry()
	var frames []float64
	require.NoError(t, r.Bind(&funcSystem{fn: func(frame *ecs.UpdateFrame) {
		frames = append(frames, frame.DeltaTime)
	}}))

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	r.Run(ctx, 10*time.Millisecond)

	if len(frames) < 3 {
		t.Fatalf("expected at least 3 frames, got %d", len(frames))
	}
	for _, dt := range frames {
		if dt <= 0 {
			t.Errorf("expected positive delta time, got %f", dt)
		}
	}
}
