package precedence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rcpsgo/internal/precedence"
	"github.com/vk/rcpsgo/internal/testutil"
)

func TestNew(t *testing.T) {
	t.Run("chain with branch", func(t *testing.T) {
		// 1 -> 2 -> 4, 1 -> 3 -> 4
		in := testutil.Instance(t, "chain.data",
			[]int{1},
			[]int{2, 3, 1, 2},
			[][]int{{0}, {0}, {0}, {0}},
			[][]int{{2, 3}, {4}, {4}, nil},
		)
		g, err := precedence.New(in)
		require.NoError(t, err)

		assert.Equal(t, []int{0, 1, 2, 3}, g.TopologicalOrder())
		// Longest path: 1(2) -> 2(3) -> 4(2) = 7.
		assert.Equal(t, 7, g.CriticalPathLength())
		assert.Equal(t, 7, g.Tail(0))
		assert.Equal(t, 5, g.Tail(1))
		assert.Equal(t, 3, g.Tail(2))
		assert.Equal(t, 2, g.Tail(3))
		assert.Equal(t, []int{1, 2}, g.Predecessors(3))
		assert.Equal(t, 2, g.Indegree(3))
	})

	t.Run("topological order is stable across builds", func(t *testing.T) {
		in := testutil.Instance(t, "wide.data",
			[]int{1},
			[]int{1, 1, 1, 1, 1},
			[][]int{{0}, {0}, {0}, {0}, {0}},
			[][]int{{5}, {5}, {5}, {5}, nil},
		)
		first, err := precedence.New(in)
		require.NoError(t, err)
		second, err := precedence.New(in)
		require.NoError(t, err)
		assert.Equal(t, first.TopologicalOrder(), second.TopologicalOrder())
		// Sources come out in ascending id order.
		assert.Equal(t, []int{0, 1, 2, 3, 4}, first.TopologicalOrder())
	})

	t.Run("cycle is rejected with a witness path", func(t *testing.T) {
		in := testutil.Instance(t, "cycle.data",
			[]int{1},
			[]int{1, 1, 1},
			[][]int{{0}, {0}, {0}},
			[][]int{{2}, {3}, {1}},
		)
		_, err := precedence.New(in)
		require.Error(t, err)
		assert.ErrorIs(t, err, precedence.ErrCycle)

		var cycleErr *precedence.CycleError
		require.ErrorAs(t, err, &cycleErr)
		require.GreaterOrEqual(t, len(cycleErr.Path), 2)
		assert.Equal(t, cycleErr.Path[0], cycleErr.Path[len(cycleErr.Path)-1])
		assert.ErrorContains(t, err, "->")
	})

	t.Run("single task", func(t *testing.T) {
		in := testutil.Instance(t, "one.data", []int{1}, []int{4}, [][]int{{1}}, [][]int{nil})
		g, err := precedence.New(in)
		require.NoError(t, err)
		assert.Equal(t, 4, g.CriticalPathLength())
		assert.Equal(t, []int{0}, g.TopologicalOrder())
	})
}
