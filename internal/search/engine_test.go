package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rcpsgo/internal/rcpsp"
	"github.com/vk/rcpsgo/internal/search"
	"github.com/vk/rcpsgo/internal/sgs"
	"github.com/vk/rcpsgo/internal/testutil"
)

func solve(t *testing.T, in *rcpsp.Instance, opts search.Options) *search.SolutionRecord {
	t.Helper()
	if opts.TimeLimit == 0 {
		opts.TimeLimit = 10 * time.Second
	}
	return search.Solve(context.Background(), in, opts)
}

func TestSolveOptimal(t *testing.T) {
	t.Run("two task chain on a unit resource", func(t *testing.T) {
		in := testutil.Instance(t, "chain2.data",
			[]int{1},
			[]int{3, 2},
			[][]int{{1}, {1}},
			[][]int{{2}, nil},
		)
		rec := solve(t, in, search.Options{})
		require.True(t, rec.HasMakespan)
		assert.Equal(t, 5, rec.Makespan)
		assert.Equal(t, search.StatusOptimal, rec.Status)
		require.NotNil(t, rec.Schedule)
		assert.NoError(t, sgs.Validate(in, rec.Schedule))
	})

	t.Run("three parallel tasks on capacity two need exhaustion for the proof", func(t *testing.T) {
		// Critical path is 4, but capacity forces makespan 8; only the
		// branch-and-bound phase can certify that 8 is optimal.
		in := testutil.Instance(t, "par3.data",
			[]int{2},
			[]int{4, 4, 4},
			[][]int{{1}, {1}, {1}},
			[][]int{nil, nil, nil},
		)
		rec := solve(t, in, search.Options{})
		require.True(t, rec.HasMakespan)
		assert.Equal(t, 8, rec.Makespan)
		assert.Equal(t, search.StatusOptimal, rec.Status)
		assert.NoError(t, sgs.Validate(in, rec.Schedule))
	})

	t.Run("zero resources reaches the critical-path bound", func(t *testing.T) {
		in := testutil.Instance(t, "free.data",
			nil,
			[]int{2, 3, 4, 1},
			[][]int{{}, {}, {}, {}},
			[][]int{{2, 3}, {4}, {4}, nil},
		)
		rec := solve(t, in, search.Options{})
		require.True(t, rec.HasMakespan)
		// Longest path 1 -> 3 -> 4 = 2+4+1.
		assert.Equal(t, 7, rec.Makespan)
		assert.Equal(t, search.StatusOptimal, rec.Status)
	})

	t.Run("forced serialization beyond the bound", func(t *testing.T) {
		// Five independent unit-demand tasks on capacity one: every order
		// gives 5*3 = 15, proven optimal by exhausting the order space.
		in := testutil.Instance(t, "serial5.data",
			[]int{1},
			[]int{3, 3, 3, 3, 3},
			[][]int{{1}, {1}, {1}, {1}, {1}},
			[][]int{nil, nil, nil, nil, nil},
		)
		rec := solve(t, in, search.Options{})
		require.True(t, rec.HasMakespan)
		assert.Equal(t, 15, rec.Makespan)
		assert.Equal(t, search.StatusOptimal, rec.Status)
	})
}

func TestSolveErrors(t *testing.T) {
	t.Run("demand exceeding capacity", func(t *testing.T) {
		in := testutil.Instance(t, "toofat.data",
			[]int{2},
			[]int{1, 4},
			[][]int{{1}, {3}},
			[][]int{nil, nil},
		)
		rec := solve(t, in, search.Options{})
		assert.Equal(t, search.StatusError, rec.Status)
		assert.False(t, rec.HasMakespan)
		assert.Nil(t, rec.Schedule)
		assert.ErrorIs(t, rec.Err, rcpsp.ErrDemandExceedsCapacity)
	})

	t.Run("cyclic precedence", func(t *testing.T) {
		in := testutil.Instance(t, "cycle.data",
			[]int{1},
			[]int{1, 1},
			[][]int{{1}, {1}},
			[][]int{{2}, {1}},
		)
		rec := solve(t, in, search.Options{})
		assert.Equal(t, search.StatusError, rec.Status)
		assert.False(t, rec.HasMakespan)
		require.Error(t, rec.Err)
	})

	t.Run("out of range successor", func(t *testing.T) {
		in := testutil.Instance(t, "badsucc.data",
			[]int{1},
			[]int{1, 1},
			[][]int{{1}, {1}},
			[][]int{{9}, nil},
		)
		rec := solve(t, in, search.Options{})
		assert.Equal(t, search.StatusError, rec.Status)
		assert.ErrorIs(t, rec.Err, rcpsp.ErrInvalidSuccessorID)
	})
}

func TestSolveDeterminism(t *testing.T) {
	in := testutil.Instance(t, "det.data",
		[]int{3, 2},
		[]int{2, 4, 1, 3, 2, 5},
		[][]int{{2, 1}, {1, 0}, {3, 2}, {2, 1}, {1, 2}, {2, 0}},
		[][]int{{3, 4}, {5}, {6}, {6}, nil, nil},
	)

	first := solve(t, in, search.Options{Seed: 42})
	second := solve(t, in, search.Options{Seed: 42})

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.HasMakespan, second.HasMakespan)
	assert.Equal(t, first.Makespan, second.Makespan)
	require.NotNil(t, first.Schedule)
	require.NotNil(t, second.Schedule)
	assert.Equal(t, first.Schedule.Starts, second.Schedule.Starts)
}

func TestSolveBudgetExpiry(t *testing.T) {
	// Ten forced-serial tasks: the incumbent of 30 appears in the rule
	// phase, and an enormous sampling budget guarantees the wall clock
	// expires before exhaustion, so the status stays feasible.
	in := testutil.Instance(t, "slow.data",
		[]int{1},
		[]int{3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		[][]int{{1}, {1}, {1}, {1}, {1}, {1}, {1}, {1}, {1}, {1}},
		[][]int{nil, nil, nil, nil, nil, nil, nil, nil, nil, nil},
	)
	rec := search.Solve(context.Background(), in, search.Options{
		TimeLimit:        200 * time.Millisecond,
		SampleIterations: 1 << 30,
	})
	require.True(t, rec.HasMakespan)
	assert.Equal(t, 30, rec.Makespan)
	assert.Equal(t, search.StatusFeasible, rec.Status)
	assert.NoError(t, sgs.Validate(in, rec.Schedule))
	assert.GreaterOrEqual(t, rec.ElapsedSeconds, 0.2)
}

func TestSolveBudgetMonotonicity(t *testing.T) {
	// A larger budget may only improve the result: the makespan never
	// grows and the status never falls back from optimal or feasible.
	in := testutil.Instance(t, "mono.data",
		[]int{1},
		[]int{3, 3, 3, 3, 3},
		[][]int{{1}, {1}, {1}, {1}, {1}},
		[][]int{nil, nil, nil, nil, nil},
	)

	// The huge sampling budget pins the short solve inside phase 2, so it
	// times out with an incumbent instead of exhausting the order space.
	short := search.Solve(context.Background(), in, search.Options{
		TimeLimit:        200 * time.Millisecond,
		Seed:             7,
		SampleIterations: 1 << 30,
	})
	long := search.Solve(context.Background(), in, search.Options{
		TimeLimit: 10 * time.Second,
		Seed:      7,
	})

	rank := func(s search.Status) int {
		switch s {
		case search.StatusOptimal:
			return 3
		case search.StatusFeasible:
			return 2
		case search.StatusUnknown:
			return 1
		default:
			return 0
		}
	}

	require.True(t, short.HasMakespan)
	require.True(t, long.HasMakespan)
	assert.Equal(t, search.StatusFeasible, short.Status)
	assert.Equal(t, search.StatusOptimal, long.Status)
	assert.LessOrEqual(t, long.Makespan, short.Makespan)
	assert.GreaterOrEqual(t, rank(long.Status), rank(short.Status))
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	in := testutil.Instance(t, "cancel.data",
		[]int{1},
		[]int{3, 3, 3, 3, 3, 3, 3, 3},
		[][]int{{1}, {1}, {1}, {1}, {1}, {1}, {1}, {1}},
		[][]int{nil, nil, nil, nil, nil, nil, nil, nil},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := search.Solve(ctx, in, search.Options{TimeLimit: time.Hour})
	// With the context already cancelled no candidate is ever evaluated.
	assert.Equal(t, search.StatusUnknown, rec.Status)
	assert.False(t, rec.HasMakespan)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "not_started", search.NotStarted.String())
	assert.Equal(t, "running", search.Running.String())
	assert.Equal(t, "exhausted", search.Exhausted.String())
	assert.Equal(t, "timed_out", search.TimedOut.String())
	assert.Equal(t, "infeasible", search.Infeasible.String())
	assert.Equal(t, "errored", search.Errored.String())
}
