// Package propagate maintains per-task start-time windows derived from the
// precedence graph: earliest starts by forward relaxation and, against a
// candidate horizon, latest starts by backward relaxation. Windows are
// evaluation-local scratch state; a Propagator must never be shared between
// concurrent evaluations.
package propagate

import "github.com/vk/rcpsgo/internal/precedence"

// Windows holds the start-time window of every task for one horizon. A
// task's window is [EarliestStart[i], LatestStart[i]]; an empty window
// (earliest past latest) proves the horizon infeasible for precedence
// reasons alone.
type Windows struct {
	EarliestStart  []int
	EarliestFinish []int
	LatestStart    []int
	LatestFinish   []int
}

// Slack returns the scheduling freedom of task i: how far its start can
// slip past its earliest start without blowing the horizon.
func (w *Windows) Slack(i int) int { return w.LatestStart[i] - w.EarliestStart[i] }

// Empty reports whether any task's window is empty.
func (w *Windows) Empty() (task int, empty bool) {
	for i := range w.EarliestStart {
		if w.EarliestStart[i] > w.LatestStart[i] {
			return i, true
		}
	}
	return -1, false
}

// Propagator computes windows over one fixed precedence graph. The buffers
// are reused across calls, so one Propagator serves many evaluations of the
// same instance as long as they are sequential.
type Propagator struct {
	graph *precedence.Graph
	w     Windows
}

// New creates a propagator for the given graph.
func New(g *precedence.Graph) *Propagator {
	n := g.NumTasks()
	return &Propagator{
		graph: g,
		w: Windows{
			EarliestStart:  make([]int, n),
			EarliestFinish: make([]int, n),
			LatestStart:    make([]int, n),
			LatestFinish:   make([]int, n),
		},
	}
}

// Compute runs a forward pass for earliest starts and a backward pass
// against the horizon for latest starts, and returns the windows. The
// returned struct aliases the propagator's buffers and is valid until the
// next Compute call.
//
// horizon is the candidate makespan H: every sink must finish by H. Any
// horizon below the critical-path length yields at least one empty window.
func (p *Propagator) Compute(horizon int) *Windows {
	g := p.graph
	order := g.TopologicalOrder()

	for _, u := range order {
		es := 0
		for _, pred := range g.Predecessors(u) {
			if f := p.w.EarliestFinish[pred]; f > es {
				es = f
			}
		}
		p.w.EarliestStart[u] = es
		p.w.EarliestFinish[u] = es + g.Duration(u)
	}

	for i := len(order) - 1; i >= 0; i-- {
		u := order[i]
		lf := horizon
		for _, succ := range g.Successors(u) {
			if s := p.w.LatestStart[succ]; s < lf {
				lf = s
			}
		}
		p.w.LatestFinish[u] = lf
		p.w.LatestStart[u] = lf - g.Duration(u)
	}

	return &p.w
}
