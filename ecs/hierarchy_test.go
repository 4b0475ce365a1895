package ecs_test

import (
	"slices"
	"testing"

	"github.com/plus3/hearth/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T) (*ecs.Registry, *ecs.Hierarchy, []*ecs.Entity) {
	t.Helper()
	r := ecs.NewRegistry()
	nodes := make([]*ecs.Entity, 6)
	for i := range nodes {
		e, err := r.Emplace(&Name{Value: string(rune('a' + i))})
		require.NoError(t, err)
		nodes[i] = e
	}

	// a
	// ├── b
	// │   ├── d
	// │   └── e
	// └── c
	//     └── f
	h, err := r.CreateHierarchy(nodes[0], nodes[1], nodes[2])
	require.NoError(t, err)
	for _, pair := range [][2]int{{1, 3}, {1, 4}, {2, 5}} {
		_, err := h.AddChild(nodes[pair[0]], nodes[pair[1]])
		require.NoError(t, err)
	}
	return r, h, nodes
}

func namesOf(entities []*ecs.Entity) string {
	out := ""
	for _, e := range entities {
		out += ecs.Get[Name](e).Value
	}
	return out
}

func TestHierarchy(t *testing.T) {
	t.Run("shape", func(t *testing.T) {
		r, h, n := newTree(t)

		got, ok := r.Hierarchy(n[0])
		require.True(t, ok)
		assert.Same(t, h, got)
		assert.Same(t, n[0], h.Root())

		assert.Equal(t, 6, h.Size())
		assert.Equal(t, 3, h.Height())
		assert.Equal(t, 2, h.HeightOf(n[1]))
		assert.Equal(t, 0, h.Depth(n[0]))
		assert.Equal(t, 2, h.Depth(n[5]))
		assert.Equal(t, 3, h.DescendantCount(n[1]))

		parent, ok := h.Parent(n[4])
		require.True(t, ok)
		assert.Same(t, n[1], parent)
		_, ok = h.Parent(n[0])
		assert.False(t, ok)

		assert.Equal(t, "bc", namesOf(h.Children(n[0])))
		assert.Equal(t, "bdecf", namesOf(h.Descendants(n[0])))
	})

	t.Run("traversal", func(t *testing.T) {
		_, h, _ := newTree(t)
		assert.Equal(t, "abdecf", namesOf(slices.Collect(h.PreOrder())))
		assert.Equal(t, "debfca", namesOf(slices.Collect(h.PostOrder())))
	})

	t.Run("membership errors", func(t *testing.T) {
		r, h, n := newTree(t)
		stranger, err := r.Emplace()
		require.NoError(t, err)

		assert.False(t, h.Has(stranger))
		assert.Equal(t, -1, h.Depth(stranger))
		assert.Zero(t, h.DescendantCount(stranger))

		_, err = h.AddChild(stranger, n[1])
		assert.ErrorIs(t, err, ecs.ErrNotInHierarchy)
		_, err = h.AddChild(n[0], n[3])
		assert.ErrorIs(t, err, ecs.ErrInHierarchy)
		_, err = h.AddChild(n[0], mustEntity())
		assert.ErrorIs(t, err, ecs.ErrNotOwned)

		_, err = r.CreateHierarchy(mustEntity())
		assert.ErrorIs(t, err, ecs.ErrNotOwned)
	})

	t.Run("remove prunes the subtree", func(t *testing.T) {
		r, h, n := newTree(t)
		require.NoError(t, h.Remove(n[1]))

		assert.Equal(t, "acf", namesOf(slices.Collect(h.PreOrder())))
		assert.False(t, h.Has(n[3]))
		assert.True(t, r.Has(n[3]), "entities stay in the registry")

		_, err := h.AddChild(n[5], n[1])
		require.NoError(t, err)
		assert.Equal(t, 3, h.Depth(n[1]))
	})

	t.Run("destroying a member prunes it", func(t *testing.T) {
		r, h, n := newTree(t)
		require.NoError(t, r.Destroy(n[2]))

		assert.Equal(t, 4, h.Size())
		assert.False(t, h.Has(n[5]))
	})

	t.Run("destroying the root drops the hierarchy", func(t *testing.T) {
		r, h, n := newTree(t)
		require.NoError(t, r.Destroy(n[0]))

		_, ok := r.Hierarchy(n[0])
		assert.False(t, ok)
		assert.Zero(t, r.Hierarchies())
		assert.True(t, h.IsEmpty())
		assert.Zero(t, h.Size())
		assert.Nil(t, h.Root())
	})

	t.Run("remove hierarchy", func(t *testing.T) {
		r, _, n := newTree(t)
		assert.True(t, r.RemoveHierarchy(n[0]))
		assert.False(t, r.RemoveHierarchy(n[0]))
		assert.True(t, r.Has(n[1]))
	})
}
