package ecs_test

import (
	"errors"
	"testing"

	"github.com/plus3/hearth/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertGroupsConsistent checks that every live group holds exactly the owned
// entities matching its Family.
func assertGroupsConsistent(t *testing.T, r *ecs.Registry) {
	t.Helper()
	for _, f := range r.Families() {
		var want []*ecs.Entity
		for _, e := range r.All() {
			if f.IsMember(e) {
				want = append(want, e)
			}
		}
		assert.ElementsMatch(t, want, r.Group(f).Entities(), "group %v", f)
	}
}

func TestRegistryAdd(t *testing.T) {
	t.Run("owns and enables the entity", func(t *testing.T) {
		r := ecs.NewRegistry()
		pos := &Position{}
		e := mustEntity(pos)

		require.NoError(t, r.Add(e))
		assert.Same(t, r, e.Registry())
		assert.True(t, e.Enabled())
		assert.True(t, pos.Enabled())
		assert.True(t, r.Has(e))
		assert.Equal(t, 1, r.Len())
		assert.Same(t, e, r.At(0))

		found, ok := r.Lookup(e.ID())
		assert.True(t, ok)
		assert.Same(t, e, found)
	})

	t.Run("rejects an entity owned elsewhere", func(t *testing.T) {
		a, b := ecs.NewRegistry(), ecs.NewRegistry()
		e := mustEntity()
		require.NoError(t, a.Add(e))

		assert.ErrorIs(t, b.Add(e), ecs.ErrEntityOwned)
		assert.ErrorIs(t, a.Add(e), ecs.ErrEntityOwned)
		assert.Zero(t, b.Len())
	})

	t.Run("add all joins errors", func(t *testing.T) {
		r := ecs.NewRegistry()
		owned := mustEntity()
		require.NoError(t, r.Add(owned))

		fresh := mustEntity()
		err := r.AddAll(fresh, owned)
		assert.ErrorIs(t, err, ecs.ErrEntityOwned)
		assert.True(t, r.Has(fresh))
	})

	t.Run("emplace", func(t *testing.T) {
		r := ecs.NewRegistry()
		e, err := r.Emplace(&Position{X: 4}, &Velocity{})
		require.NoError(t, err)
		assert.True(t, r.Has(e))
		assert.Equal(t, float32(4), ecs.Get[Position](e).X)
	})
}

func TestRegistryDestroy(t *testing.T) {
	t.Run("flushes components", func(t *testing.T) {
		r := ecs.NewRegistry()
		pos := &Position{}
		e, err := r.Emplace(pos)
		require.NoError(t, err)

		require.NoError(t, r.Destroy(e))
		assert.False(t, r.Has(e))
		assert.Nil(t, e.Registry())
		assert.False(t, e.Enabled())
		assert.Zero(t, e.Len())
		assert.False(t, pos.Attached())
		assert.False(t, pos.Enabled())

		_, ok := r.Lookup(e.ID())
		assert.False(t, ok)
	})

	t.Run("foreign entity is ignored", func(t *testing.T) {
		a, b := ecs.NewRegistry(), ecs.NewRegistry()
		e, err := a.Emplace(&Position{})
		require.NoError(t, err)

		assert.NoError(t, b.Destroy(e))
		assert.True(t, a.Has(e))

		require.NoError(t, a.Destroy(e))
		assert.NoError(t, a.Destroy(e))
	})

	t.Run("round trip leaves the registry unchanged", func(t *testing.T) {
		r := ecs.NewRegistry()
		_, err := r.Emplace(&Position{})
		require.NoError(t, err)

		both := ecs.MustDefine(positionType, velocityType)
		pos := ecs.MustDefine(positionType)
		before := []int{r.Len(), r.Group(both).Len(), r.Group(pos).Len()}

		e := mustEntity(&Position{}, &Velocity{})
		require.NoError(t, r.Add(e))
		assert.Equal(t, 1, r.Group(both).Len())

		require.NoError(t, r.Destroy(e))
		after := []int{r.Len(), r.Group(both).Len(), r.Group(pos).Len()}
		assert.Equal(t, before, after)
		assertGroupsConsistent(t, r)
	})
}

func TestRegistryRelease(t *testing.T) {
	t.Run("keeps components", func(t *testing.T) {
		r := ecs.NewRegistry()
		pos := &Position{X: 7}
		e, err := r.Emplace(pos)
		require.NoError(t, err)

		require.NoError(t, r.Release(e))
		assert.False(t, r.Has(e))
		assert.False(t, e.Enabled())
		assert.Same(t, pos, ecs.Get[Position](e))
		assert.Equal(t, e.ID(), pos.Owner())
		assert.False(t, pos.Enabled())

		other := ecs.NewRegistry()
		require.NoError(t, other.Add(e))
		assert.True(t, pos.Enabled())
	})

	t.Run("foreign entity is an error", func(t *testing.T) {
		a, b := ecs.NewRegistry(), ecs.NewRegistry()
		e, err := a.Emplace()
		require.NoError(t, err)

		assert.ErrorIs(t, b.Release(e), ecs.ErrNotOwned)
		assert.ErrorIs(t, b.Release(mustEntity()), ecs.ErrNotOwned)
	})
}

func TestListenerOrdering(t *testing.T) {
	t.Run("destroy notifies before teardown", func(t *testing.T) {
		r := ecs.NewRegistry()
		rec := &recorder{}
		r.Register(rec)

		e, err := r.Emplace(&Position{})
		require.NoError(t, err)
		require.NoError(t, r.Destroy(e))

		require.Len(t, rec.removed, 1)
		assert.Equal(t, []bool{true}, rec.enabled)
	})

	t.Run("release notifies after teardown", func(t *testing.T) {
		r := ecs.NewRegistry()
		rec := &recorder{}
		r.Register(rec)

		e, err := r.Emplace(&Position{})
		require.NoError(t, err)
		require.NoError(t, r.Release(e))

		require.Len(t, rec.removed, 1)
		assert.Equal(t, []bool{false}, rec.enabled)
	})

	t.Run("global listeners run before filtered listeners", func(t *testing.T) {
		r := ecs.NewRegistry()
		var calls []string

		r.RegisterFiltered(ecs.MustDefine(positionType), &ecs.ListenerFuncs{
			Added: func(*ecs.Entity) { calls = append(calls, "filtered") },
		})
		r.Register(&ecs.ListenerFuncs{
			Added: func(*ecs.Entity) { calls = append(calls, "global-1") },
		})
		r.Register(&ecs.ListenerFuncs{
			Added: func(*ecs.Entity) { calls = append(calls, "global-2") },
		})

		_, err := r.Emplace(&Position{})
		require.NoError(t, err)
		assert.Equal(t, []string{"global-1", "global-2", "filtered"}, calls)
	})

	t.Run("filtered listeners only see members", func(t *testing.T) {
		r := ecs.NewRegistry()
		rec := &recorder{}
		f := ecs.MustDefine(positionType, velocityType)
		r.RegisterFiltered(f, rec)

		_, err := r.Emplace(&Position{})
		require.NoError(t, err)
		mover, err := r.Emplace(&Position{}, &Velocity{})
		require.NoError(t, err)

		assert.Equal(t, []*ecs.Entity{mover}, rec.added)

		assert.True(t, r.UnregisterFiltered(f, rec))
		assert.False(t, r.UnregisterFiltered(f, rec))
		require.NoError(t, r.Destroy(mover))
		assert.Empty(t, rec.removed)
	})

	t.Run("registering twice notifies once", func(t *testing.T) {
		r := ecs.NewRegistry()
		rec := &recorder{}
		r.Register(rec)
		r.Register(rec)

		filtered := &recorder{}
		f := ecs.MustDefine(positionType)
		r.RegisterFiltered(f, filtered)
		r.RegisterFiltered(ecs.MustDefine(positionType), filtered)

		e, err := r.Emplace(&Position{})
		require.NoError(t, err)
		require.NoError(t, r.Destroy(e))

		assert.Len(t, rec.added, 1)
		assert.Len(t, rec.removed, 1)
		assert.Len(t, filtered.added, 1)
		assert.Len(t, filtered.removed, 1)

		assert.True(t, r.Unregister(rec))
		assert.False(t, r.Unregister(rec))
		assert.True(t, r.UnregisterFiltered(f, filtered))
		assert.False(t, r.UnregisterFiltered(f, filtered))
	})

	t.Run("unregister stops notifications", func(t *testing.T) {
		r := ecs.NewRegistry()
		rec := &recorder{}
		r.Register(rec)
		assert.True(t, r.Unregister(rec))
		assert.False(t, r.Unregister(rec))

		_, err := r.Emplace()
		require.NoError(t, err)
		assert.Empty(t, rec.added)
	})

	t.Run("listener may unregister itself", func(t *testing.T) {
		r := ecs.NewRegistry()
		count := 0
		var self *ecs.ListenerFuncs
		self = &ecs.ListenerFuncs{Added: func(*ecs.Entity) {
			count++
			r.Unregister(self)
		}}
		rec := &recorder{}
		r.Register(self)
		r.Register(rec)

		_, err := r.Emplace()
		require.NoError(t, err)
		_, err = r.Emplace()
		require.NoError(t, err)

		assert.Equal(t, 1, count)
		assert.Len(t, rec.added, 2)
	})
}

func TestGroupSynchronization(t *testing.T) {
	t.Run("removing a component leaves the group", func(t *testing.T) {
		r := ecs.NewRegistry()
		e, err := r.Emplace(&Position{}, &Velocity{})
		require.NoError(t, err)

		moving := ecs.MustDefine(positionType, velocityType)
		view := r.View(moving)
		require.True(t, view.Contains(e))

		_, err = e.Remove(velocityType)
		require.NoError(t, err)

		assert.False(t, r.Group(moving).Contains(e))
		assert.True(t, view.Contains(e), "views are snapshots")
		assertGroupsConsistent(t, r)
	})

	t.Run("replace can join a group", func(t *testing.T) {
		r := ecs.NewRegistry()
		e, err := r.Emplace(&Position{})
		require.NoError(t, err)

		named := r.GroupOf(nameType)
		assert.Zero(t, named.Len())

		_, err = e.Replace(nameType, &Name{Value: "late"})
		require.NoError(t, err)
		assert.True(t, named.Contains(e))
		assertGroupsConsistent(t, r)
	})

	t.Run("filtered listeners see membership transitions", func(t *testing.T) {
		r := ecs.NewRegistry()
		rec := &recorder{}
		r.RegisterFiltered(ecs.MustDefine(positionType, velocityType), rec)

		e, err := r.Emplace(&Position{}, &Velocity{})
		require.NoError(t, err)
		_, err = e.Remove(velocityType)
		require.NoError(t, err)
		_, err = e.Replace(velocityType, &Velocity{})
		require.NoError(t, err)

		assert.Equal(t, []*ecs.Entity{e, e}, rec.added)
		assert.Equal(t, []*ecs.Entity{e}, rec.removed)
	})

	t.Run("first request seeds from existing entities", func(t *testing.T) {
		r := ecs.NewRegistry()
		for i := 0; i < 5; i++ {
			_, err := r.Emplace(&Position{X: float32(i)})
			require.NoError(t, err)
		}
		_, err := r.Emplace(&Name{})
		require.NoError(t, err)

		assert.Equal(t, 5, r.GroupOf(positionType).Len())
		assert.Equal(t, 1, r.GroupOf(nameType).Len())
		assert.Len(t, r.Families(), 2)
	})

	t.Run("zero family panics", func(t *testing.T) {
		r := ecs.NewRegistry()
		assert.Panics(t, func() { r.View(ecs.Family{}) })
		assert.Panics(t, func() { r.Group(ecs.Family{}) })
	})
}

func TestRegistryAllOperations(t *testing.T) {
	t.Run("destroy all", func(t *testing.T) {
		r := ecs.NewRegistry()
		rec := &recorder{}
		r.Register(rec)
		for i := 0; i < 4; i++ {
			_, err := r.Emplace(&Position{})
			require.NoError(t, err)
		}
		first := r.At(0)

		require.NoError(t, r.DestroyAll())
		assert.Zero(t, r.Len())
		assert.Zero(t, r.GroupOf(positionType).Len())
		require.Len(t, rec.removed, 4)
		assert.Same(t, first, rec.removed[0])
	})

	t.Run("release all keeps data", func(t *testing.T) {
		r := ecs.NewRegistry()
		e, err := r.Emplace(&Position{}, &Name{})
		require.NoError(t, err)

		require.NoError(t, r.ReleaseAll())
		assert.Zero(t, r.Len())
		assert.Equal(t, 2, e.Len())
	})

	t.Run("entities is a copy", func(t *testing.T) {
		r := ecs.NewRegistry()
		_, err := r.Emplace()
		require.NoError(t, err)

		list := r.Entities()
		list[0] = nil
		assert.NotNil(t, r.At(0))
	})
}

func TestRegistrySort(t *testing.T) {
	r := ecs.NewRegistry()
	err := r.Sort(positionType, func(a, b ecs.Component) int { return 0 })
	assert.True(t, errors.Is(err, errors.ErrUnsupported))
}

func TestRegistryDispose(t *testing.T) {
	r := ecs.NewRegistry()
	var order []string
	first := &recordingSystem{name: "first", log: &order}
	second := &otherRecordingSystem{recordingSystem{name: "second", log: &order}}
	require.NoError(t, r.Bind(first))
	require.NoError(t, r.Bind(second))
	order = order[:0]

	pos := &Position{}
	_, err := r.Emplace(pos)
	require.NoError(t, err)
	r.GroupOf(positionType)

	require.NoError(t, r.Dispose())
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Families())
	assert.Zero(t, r.SystemCount())
	assert.False(t, pos.Attached())
	assert.Equal(t, []string{"unbind second", "unbind first"}, order)
	assert.False(t, first.Enabled())
	assert.Nil(t, first.Registry())
}

func TestRegistryStats(t *testing.T) {
	r := ecs.NewRegistry()
	_, err := r.Emplace(&Position{}, &Velocity{})
	require.NoError(t, err)
	_, err = r.Emplace(&Position{})
	require.NoError(t, err)
	r.GroupOf(positionType, velocityType)

	var order []string
	require.NoError(t, r.Bind(&recordingSystem{name: "s", log: &order}))
	require.NoError(t, r.Update(0.1))
	require.NoError(t, r.Update(0.1))

	stats := r.CollectStats()
	assert.Equal(t, r.ID(), stats.ID)
	assert.Equal(t, uint64(2), stats.Frame)
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 1, stats.GroupCount)
	assert.Equal(t, 1, stats.GroupBreakdown[0].EntityCount)
	assert.Equal(t, 1, stats.SystemCount)
	assert.Equal(t, int64(2), stats.TotalExecutions)
	assert.Equal(t, "recordingSystem", stats.Systems[0].Name)
	assert.Contains(t, stats.ComponentCounts, ecs.ComponentCount{Type: positionType, Count: 2})
	assert.Contains(t, stats.ComponentCounts, ecs.ComponentCount{Type: velocityType, Count: 1})
}
