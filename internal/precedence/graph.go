// Package precedence derives a validated directed acyclic graph from an
// RCPSP instance and exposes the orderings and duration bounds the search
// engine builds on: a deterministic topological order, the critical-path
// lower bound, and per-task longest-path tails.
package precedence

import (
	"container/heap"

	"github.com/vk/rcpsgo/internal/rcpsp"
)

// Graph is an immutable precedence DAG over task indices 0..N-1 (task id
// minus one). Safe for concurrent reads.
type Graph struct {
	successors   [][]int
	predecessors [][]int
	indegree     []int
	durations    []int

	topo []int // deterministic topological order
	tail []int // longest duration path starting at the task, inclusive
	lb   int   // critical-path length
}

// New builds and validates the precedence graph for an instance. It fails
// with a CycleError naming a witness path when the successor relation is
// cyclic.
func New(in *rcpsp.Instance) (*Graph, error) {
	n := in.NumTasks()
	g := &Graph{
		successors:   make([][]int, n),
		predecessors: make([][]int, n),
		indegree:     make([]int, n),
		durations:    make([]int, n),
	}
	for i := range in.Tasks {
		g.durations[i] = in.Tasks[i].Duration
		for _, s := range in.Tasks[i].Successors {
			j := s - 1
			g.successors[i] = append(g.successors[i], j)
			g.predecessors[j] = append(g.predecessors[j], i)
			g.indegree[j]++
		}
	}

	g.topo = g.topoOrder()
	if len(g.topo) != n {
		return nil, cycleError(g.findCycle())
	}

	g.tail = make([]int, n)
	g.lb = 0
	for i := len(g.topo) - 1; i >= 0; i-- {
		u := g.topo[i]
		longest := 0
		for _, v := range g.successors[u] {
			if g.tail[v] > longest {
				longest = g.tail[v]
			}
		}
		g.tail[u] = g.durations[u] + longest
		if g.tail[u] > g.lb {
			g.lb = g.tail[u]
		}
	}
	return g, nil
}

// NumTasks returns the number of tasks in the graph.
func (g *Graph) NumTasks() int { return len(g.durations) }

// Successors returns the immediate successors of task u. The slice is
// shared; callers must not mutate it.
func (g *Graph) Successors(u int) []int { return g.successors[u] }

// Predecessors returns the immediate predecessors of task u. The slice is
// shared; callers must not mutate it.
func (g *Graph) Predecessors(u int) []int { return g.predecessors[u] }

// Indegree returns the number of immediate predecessors of task u.
func (g *Graph) Indegree(u int) int { return g.indegree[u] }

// Duration returns the duration of task u.
func (g *Graph) Duration(u int) int { return g.durations[u] }

// TopologicalOrder returns a precedence-feasible ordering of all task
// indices. Ties are broken by ascending task id, so the order is the same
// on every call and every run.
func (g *Graph) TopologicalOrder() []int {
	out := make([]int, len(g.topo))
	copy(out, g.topo)
	return out
}

// Tail returns the length of the longest duration path that starts at task
// u, including u's own duration. Tails never change once the graph is
// built, so they are safe to share across parallel evaluations.
func (g *Graph) Tail(u int) int { return g.tail[u] }

// CriticalPathLength returns the longest duration path through the whole
// graph, ignoring resources. No schedule can finish earlier, which makes
// this the engine's makespan lower bound and its optimality certificate
// when attained.
func (g *Graph) CriticalPathLength() int { return g.lb }

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrder is Kahn's algorithm with the ready set kept as a min-heap on
// task index, which pins down one deterministic order.
func (g *Graph) topoOrder() []int {
	indeg := make([]int, len(g.indegree))
	copy(indeg, g.indegree)

	ready := &intMinHeap{}
	for i, d := range indeg {
		if d == 0 {
			*ready = append(*ready, i)
		}
	}
	heap.Init(ready)

	out := make([]int, 0, len(indeg))
	for ready.Len() > 0 {
		u := heap.Pop(ready).(int)
		out = append(out, u)
		for _, v := range g.successors[u] {
			indeg[v]--
			if indeg[v] == 0 {
				heap.Push(ready, v)
			}
		}
	}
	return out
}

// findCycle extracts one cycle as a witness for error reporting. It runs a
// DFS in ascending index order so the reported path is stable.
func (g *Graph) findCycle() []int {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(g.durations))
	parent := make([]int, len(g.durations))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int
	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range g.successors[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back-edge u -> v closes the cycle v .. u -> v.
				cycle = append(cycle, v)
				for cur := u; cur != -1 && cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := range color {
		if color[i] == white && dfs(i) {
			break
		}
	}

	// The walk above collects the path backwards; report it forward.
	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	return cycle
}
