// Package ropegraph_test exercises the refcounted multigraph with plain
// string hashes and integer group ids.
package ropegraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thetaepsilon-gamedev/libmt-node-network/ropegraph"
)

// TestUpdate_Lifecycle walks one rope through creation, a second edge,
// partial release, and destruction, checking Successors at every step.
func TestUpdate_Lifecycle(t *testing.T) {
	t.Parallel()
	g := ropegraph.New[string, int]()

	// Vertex "a" in group 1 touches "b" in group 2.
	g.Update("a", 1, map[string]int{"b": 2})
	require.Equal(t, []int{2}, g.Successors(1))
	require.Equal(t, []int{1}, g.Successors(2))
	r, ok := g.Rope(1, 2)
	require.True(t, ok)
	require.Equal(t, 1, r.Count())

	// Vertex "c" in group 1 also touches "b": same rope, refcount 2.
	g.Update("c", 1, map[string]int{"b": 2})
	require.Equal(t, []int{2}, g.Successors(1))
	r, ok = g.Rope(1, 2)
	require.True(t, ok)
	require.Equal(t, 2, r.Count())

	// Releasing "a" keeps the rope open through "c"'s edge.
	g.Update("a", 1, nil)
	require.Equal(t, []int{2}, g.Successors(1))
	r, ok = g.Rope(1, 2)
	require.True(t, ok)
	require.Equal(t, 1, r.Count())

	// Releasing "c" drains the refcount; the rope dies with it.
	g.Update("c", 1, nil)
	require.Empty(t, g.Successors(1))
	_, ok = g.Rope(1, 2)
	require.False(t, ok)
	require.Zero(t, g.Ropes())
}

// TestUpdate_Fanout re-registers a vertex with two cross-group
// successors, then removes a whole neighbouring vertex.
func TestUpdate_Fanout(t *testing.T) {
	t.Parallel()
	g := ropegraph.New[string, int]()

	g.Update("a", 1, map[string]int{"b": 2, "c": 3})
	require.Equal(t, []int{2, 3}, g.Successors(1))

	// Removing vertex "b" entirely severs the (1,2) rope only.
	g.Update("b", 2, nil)
	require.Equal(t, []int{3}, g.Successors(1))
	require.Equal(t, []int{1}, g.Successors(3))
	require.Empty(t, g.Successors(2))
}

// TestUpdate_SelfPairsSkipped feeds same-group successors and expects
// them to leave no trace.
func TestUpdate_SelfPairsSkipped(t *testing.T) {
	t.Parallel()
	g := ropegraph.New[string, int]()

	g.Update("a", 1, map[string]int{"b": 1, "c": 1})
	require.Empty(t, g.Successors(1))
	require.Zero(t, g.Ropes())
	require.Zero(t, g.EdgesOf("a"))
}

// TestUpdate_Reregister replaces a vertex's successor set and expects the
// old edges to be fully detached first.
func TestUpdate_Reregister(t *testing.T) {
	t.Parallel()
	g := ropegraph.New[string, int]()

	g.Update("a", 1, map[string]int{"b": 2})
	g.Update("a", 1, map[string]int{"c": 3})

	require.Equal(t, []int{3}, g.Successors(1))
	_, ok := g.Rope(1, 2)
	require.False(t, ok)
	r, ok := g.Rope(1, 3)
	require.True(t, ok)
	require.Equal(t, 1, r.Count())
	// "b" must not retain a stale reciprocal edge.
	require.Zero(t, g.EdgesOf("b"))
}

// TestInvariants cross-checks the refcount bookkeeping on a small mesh:
// every rope's count equals its live edges, adjacency is symmetric, and
// no group neighbours itself.
func TestInvariants(t *testing.T) {
	t.Parallel()
	g := ropegraph.New[string, int]()

	g.Update("a", 1, map[string]int{"x": 2, "y": 2, "z": 3})
	g.Update("b", 2, map[string]int{"z": 3})
	g.Update("c", 3, map[string]int{"a": 1})

	for _, pair := range [][2]int{{1, 2}, {1, 3}, {2, 3}} {
		r, ok := g.Rope(pair[0], pair[1])
		require.True(t, ok, "rope %v", pair)
		require.Positive(t, r.Count(), "rope %v", pair)
	}
	for _, id := range []int{1, 2, 3} {
		for _, peer := range g.Successors(id) {
			require.NotEqual(t, id, peer)
			require.Contains(t, g.Successors(peer), id)
		}
	}
}
