// Package search owns the propagate/build/search loop that minimizes the
// project makespan. It explores candidate topological orders under a
// wall-clock budget with three phases: a finite set of priority rules,
// seeded randomized sampling, and an exhaustive branch-and-bound over
// orders whose completion certifies optimality.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/vk/rcpsgo/internal/ctxlog"
	"github.com/vk/rcpsgo/internal/precedence"
	"github.com/vk/rcpsgo/internal/propagate"
	"github.com/vk/rcpsgo/internal/rcpsp"
	"github.com/vk/rcpsgo/internal/sgs"
)

// Options configures one solve. The zero value gets sensible defaults from
// normalize.
type Options struct {
	// TimeLimit is the wall-clock budget. Zero or negative means no limit;
	// the search then runs until the order space is exhausted.
	TimeLimit time.Duration

	// Seed fixes the randomized sampling phase. Two solves of the same
	// instance with equal seed and budget produce identical records.
	Seed int64

	// SampleIterations bounds the randomized sampling phase. Zero means
	// the default.
	SampleIterations int
}

const defaultSampleIterations = 2000

// deadlineCheckInterval is how many branch-and-bound nodes are expanded
// between cooperative budget checks.
const deadlineCheckInterval = 1024

// Solve runs the engine on one instance and returns its solution record.
// The record is only produced once the state machine reaches a terminal
// state; on malformed instances the search never starts and the record
// carries StatusError.
func Solve(ctx context.Context, in *rcpsp.Instance, opts Options) *SolutionRecord {
	startedAt := time.Now()
	logger := ctxlog.FromContext(ctx).With("instance", in.Name)

	e := &engine{
		ctx:   ctx,
		inst:  in,
		opts:  opts,
		state: NotStarted,
	}
	if opts.SampleIterations == 0 {
		e.opts.SampleIterations = defaultSampleIterations
	}
	if opts.TimeLimit > 0 {
		e.deadline = startedAt.Add(opts.TimeLimit)
		e.hasDeadline = true
	}

	// Malformed instances are rejected before search, never mid-search.
	if err := in.Validate(); err != nil {
		logger.Warn("Instance failed validation.", "error", err)
		e.state = Errored
		return e.record(startedAt, StatusError, err)
	}
	graph, err := precedence.New(in)
	if err != nil {
		logger.Warn("Precedence graph construction failed.", "error", err)
		e.state = Errored
		return e.record(startedAt, StatusError, err)
	}
	e.graph = graph
	e.lowerBound = graph.CriticalPathLength()

	windows := propagate.New(graph).Compute(e.lowerBound)
	if task, empty := windows.Empty(); empty {
		// Unreachable for a horizon at the critical-path length; guarded.
		e.state = Infeasible
		return e.record(startedAt, StatusError, fmt.Errorf("empty start window for task %d", task+1))
	}

	e.state = Running
	e.builder = sgs.NewBuilder(in, graph)
	e.gen = newOrderGen(graph)
	e.rng = rand.New(rand.NewSource(e.opts.Seed))
	logger.Debug("Search started.", "tasks", in.NumTasks(), "resources", in.NumResources(), "lower_bound", e.lowerBound)

	exhausted := e.run(logger, windows)

	switch {
	case exhausted:
		e.state = Exhausted
		logger.Debug("Search exhausted.", "makespan", e.bestMakespan, "nodes", e.nodes)
		return e.record(startedAt, StatusOptimal, nil)
	case e.best != nil:
		e.state = TimedOut
		logger.Debug("Time budget expired with incumbent.", "makespan", e.bestMakespan, "nodes", e.nodes)
		return e.record(startedAt, StatusFeasible, nil)
	default:
		// The serial scheme succeeds on any valid instance, so reaching
		// here means the budget expired before even the first build.
		e.state = TimedOut
		return e.record(startedAt, StatusUnknown, nil)
	}
}

type engine struct {
	ctx  context.Context
	inst *rcpsp.Instance
	opts Options

	graph   *precedence.Graph
	builder *sgs.Builder
	gen     *orderGen
	rng     *rand.Rand

	deadline    time.Time
	hasDeadline bool

	state      State
	lowerBound int

	best         *sgs.Schedule
	bestMakespan int

	// Branch-and-bound scratch, allocated once per solve.
	scheduled []bool
	indeg     []int
	starts    []int
	usage     [][]int
	caps      []int
	esBuf     []int
	topo      []int
	nodes     int64
}

// run executes the three search phases and reports whether the engine can
// certify optimality.
func (e *engine) run(logger *slog.Logger, windows *propagate.Windows) bool {
	// Phase 1: deterministic priority rules.
	for _, r := range defaultRules() {
		if e.expired() {
			return false
		}
		order := e.gen.byKeys(r.keys(e.graph, windows))
		if e.improve(e.builder.Build(order)) {
			logger.Debug("Rule improved incumbent.", "rule", r.name, "makespan", e.bestMakespan)
		}
		if e.bestMakespan == e.lowerBound {
			return true
		}
	}

	// Phase 2: seeded randomized sampling.
	for i := 0; i < e.opts.SampleIterations; i++ {
		if e.expired() {
			return false
		}
		order := e.gen.sampled(e.rng)
		if e.improve(e.builder.Build(order)) {
			logger.Debug("Sampling improved incumbent.", "iteration", i, "makespan", e.bestMakespan)
		}
		if e.bestMakespan == e.lowerBound {
			return true
		}
	}

	// Phase 3: exhaustive branch-and-bound over topological orders. The
	// serial scheme over all precedence-feasible orders visits an optimal
	// active schedule, so completing this phase is an optimality proof.
	return e.branchAndBound()
}

// improve installs a strictly better schedule as the incumbent. Equal
// makespans keep the earlier discovery, which keeps the engine
// deterministic for a fixed seed.
func (e *engine) improve(s *sgs.Schedule) bool {
	if e.best != nil && s.Makespan >= e.bestMakespan {
		return false
	}
	e.best = s.Clone()
	e.bestMakespan = s.Makespan
	return true
}

func (e *engine) expired() bool {
	if e.ctx.Err() != nil {
		return true
	}
	return e.hasDeadline && !time.Now().Before(e.deadline)
}

// branchAndBound enumerates precedence-feasible orders depth first,
// placing each chosen task at its earliest resource-feasible start and
// pruning branches whose precedence bound cannot beat the incumbent.
// Returns true when the whole space was covered before the deadline.
func (e *engine) branchAndBound() bool {
	n := e.inst.NumTasks()
	e.scheduled = make([]bool, n)
	e.indeg = make([]int, n)
	e.starts = make([]int, n)
	e.caps = e.inst.Capacities()
	e.usage = make([][]int, e.inst.NumResources())
	e.esBuf = make([]int, n)
	e.topo = e.graph.TopologicalOrder()
	for i := 0; i < n; i++ {
		e.indeg[i] = e.graph.Indegree(i)
	}
	return e.expand(0, 0)
}

func (e *engine) expand(depth, partialMakespan int) bool {
	e.nodes++
	if e.nodes%deadlineCheckInterval == 0 && e.expired() {
		return false
	}

	n := e.inst.NumTasks()
	if depth == n {
		if e.best == nil || partialMakespan < e.bestMakespan {
			e.best = &sgs.Schedule{Starts: append([]int(nil), e.starts...), Makespan: partialMakespan}
			e.bestMakespan = partialMakespan
		}
		return true
	}

	if e.best != nil && e.precedenceBound(partialMakespan) >= e.bestMakespan {
		return true // pruned: cannot strictly improve
	}

	for u := 0; u < n; u++ {
		if e.indeg[u] != 0 || e.scheduled[u] {
			continue
		}
		start := e.place(u)
		e.commit(u, start)
		finish := start + e.inst.Tasks[u].Duration
		next := partialMakespan
		if finish > next {
			next = finish
		}
		done := e.expand(depth+1, next)
		e.uncommit(u, start)
		if !done {
			return false
		}
	}
	return true
}

// precedenceBound relaxes resources away: every unscheduled task starts as
// soon as its predecessors allow and is followed by its longest tail. No
// completion of the current partial schedule can beat this value.
func (e *engine) precedenceBound(partialMakespan int) int {
	bound := partialMakespan
	for _, u := range e.topo {
		if e.scheduled[u] {
			continue
		}
		es := 0
		for _, p := range e.graph.Predecessors(u) {
			var f int
			if e.scheduled[p] {
				f = e.starts[p] + e.inst.Tasks[p].Duration
			} else {
				f = e.esBuf[p] + e.inst.Tasks[p].Duration
			}
			if f > es {
				es = f
			}
		}
		e.esBuf[u] = es
		if b := es + e.graph.Tail(u); b > bound {
			bound = b
		}
	}
	return bound
}

// place finds the earliest start for task u compatible with its scheduled
// predecessors and the committed resource usage.
func (e *engine) place(u int) int {
	task := &e.inst.Tasks[u]
	es := 0
	for _, p := range e.graph.Predecessors(u) {
		if f := e.starts[p] + e.inst.Tasks[p].Duration; f > es {
			es = f
		}
	}
	if task.Duration == 0 {
		return es
	}
	start := es
	for {
		ok := true
	scan:
		for r, d := range task.Demands {
			if d == 0 {
				continue
			}
			for t := start; t < start+task.Duration; t++ {
				if e.used(r, t)+d > e.caps[r] {
					start = t + 1
					ok = false
					break scan
				}
			}
		}
		if ok {
			return start
		}
	}
}

func (e *engine) commit(u, start int) {
	task := &e.inst.Tasks[u]
	e.starts[u] = start
	e.scheduled[u] = true
	for _, v := range e.graph.Successors(u) {
		e.indeg[v]--
	}
	for r, d := range task.Demands {
		if d == 0 {
			continue
		}
		for len(e.usage[r]) < start+task.Duration {
			e.usage[r] = append(e.usage[r], 0)
		}
		for t := start; t < start+task.Duration; t++ {
			e.usage[r][t] += d
		}
	}
}

func (e *engine) uncommit(u, start int) {
	task := &e.inst.Tasks[u]
	e.scheduled[u] = false
	for _, v := range e.graph.Successors(u) {
		e.indeg[v]++
	}
	for r, d := range task.Demands {
		if d == 0 {
			continue
		}
		for t := start; t < start+task.Duration; t++ {
			e.usage[r][t] -= d
		}
	}
}

func (e *engine) used(r, t int) int {
	if t >= len(e.usage[r]) {
		return 0
	}
	return e.usage[r][t]
}

// record assembles the immutable solution record for a terminal state.
func (e *engine) record(startedAt time.Time, status Status, err error) *SolutionRecord {
	rec := &SolutionRecord{
		Instance:       e.inst.Name,
		Status:         status,
		ElapsedSeconds: math.Round(time.Since(startedAt).Seconds()*100) / 100,
		Err:            err,
	}
	if status == StatusOptimal || status == StatusFeasible {
		rec.Makespan = e.bestMakespan
		rec.HasMakespan = true
		rec.Schedule = e.best
	}
	return rec
}
