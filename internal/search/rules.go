package search

import (
	"math/rand"

	"github.com/vk/rcpsgo/internal/precedence"
	"github.com/vk/rcpsgo/internal/propagate"
)

// rule is one priority rule: it assigns every task a static key, and the
// order generator always starts the eligible task with the smallest key,
// ties broken by ascending task id.
type rule struct {
	name string
	keys func(g *precedence.Graph, w *propagate.Windows) []int
}

// defaultRules is the finite candidate set tried before randomized
// sampling. Keys are phrased so that "smaller is more urgent".
func defaultRules() []rule {
	return []rule{
		{name: "earliest_start", keys: func(g *precedence.Graph, w *propagate.Windows) []int {
			keys := make([]int, g.NumTasks())
			copy(keys, w.EarliestStart)
			return keys
		}},
		{name: "min_slack", keys: func(g *precedence.Graph, w *propagate.Windows) []int {
			keys := make([]int, g.NumTasks())
			for i := range keys {
				keys[i] = w.Slack(i)
			}
			return keys
		}},
		{name: "latest_start", keys: func(g *precedence.Graph, w *propagate.Windows) []int {
			keys := make([]int, g.NumTasks())
			copy(keys, w.LatestStart)
			return keys
		}},
		{name: "greatest_rank_weight", keys: func(g *precedence.Graph, w *propagate.Windows) []int {
			// Tail length is the rank positional weight; larger tails go
			// first, hence the negation.
			keys := make([]int, g.NumTasks())
			for i := range keys {
				keys[i] = -g.Tail(i)
			}
			return keys
		}},
		{name: "most_immediate_successors", keys: func(g *precedence.Graph, w *propagate.Windows) []int {
			keys := make([]int, g.NumTasks())
			for i := range keys {
				keys[i] = -len(g.Successors(i))
			}
			return keys
		}},
		{name: "shortest_processing_time", keys: func(g *precedence.Graph, w *propagate.Windows) []int {
			keys := make([]int, g.NumTasks())
			for i := range keys {
				keys[i] = g.Duration(i)
			}
			return keys
		}},
		{name: "longest_processing_time", keys: func(g *precedence.Graph, w *propagate.Windows) []int {
			keys := make([]int, g.NumTasks())
			for i := range keys {
				keys[i] = -g.Duration(i)
			}
			return keys
		}},
	}
}

// orderGen turns priority keys into precedence-feasible orders. The
// eligible-set bookkeeping is reused across calls.
type orderGen struct {
	graph *precedence.Graph
	indeg []int
	order []int
}

func newOrderGen(g *precedence.Graph) *orderGen {
	return &orderGen{
		graph: g,
		indeg: make([]int, g.NumTasks()),
		order: make([]int, 0, g.NumTasks()),
	}
}

// byKeys builds the order that always schedules the eligible task with the
// smallest key, ties by ascending id. The returned slice is reused by the
// next call.
func (og *orderGen) byKeys(keys []int) []int {
	g := og.graph
	n := g.NumTasks()
	og.order = og.order[:0]
	for i := 0; i < n; i++ {
		og.indeg[i] = g.Indegree(i)
	}

	for len(og.order) < n {
		best := -1
		for i := 0; i < n; i++ {
			if og.indeg[i] != 0 {
				continue
			}
			if best == -1 || keys[i] < keys[best] {
				best = i
			}
		}
		og.take(best)
	}
	return og.order
}

// sampled builds a randomized order: among eligible tasks, selection is
// biased toward long tails (regret-based weights), so the sampling stays
// close to good rules while still diversifying.
func (og *orderGen) sampled(rng *rand.Rand) []int {
	g := og.graph
	n := g.NumTasks()
	og.order = og.order[:0]
	for i := 0; i < n; i++ {
		og.indeg[i] = g.Indegree(i)
	}

	eligible := make([]int, 0, n)
	for len(og.order) < n {
		eligible = eligible[:0]
		minTail := -1
		for i := 0; i < n; i++ {
			if og.indeg[i] == 0 {
				eligible = append(eligible, i)
				if minTail == -1 || g.Tail(i) < minTail {
					minTail = g.Tail(i)
				}
			}
		}
		total := 0
		for _, i := range eligible {
			total += g.Tail(i) - minTail + 1
		}
		pick := rng.Intn(total)
		chosen := eligible[len(eligible)-1]
		for _, i := range eligible {
			pick -= g.Tail(i) - minTail + 1
			if pick < 0 {
				chosen = i
				break
			}
		}
		og.take(chosen)
	}
	return og.order
}

// take marks a task scheduled. The task's indegree is set to -1 so it never
// looks eligible again.
func (og *orderGen) take(u int) {
	og.order = append(og.order, u)
	og.indeg[u] = -1
	for _, v := range og.graph.Successors(u) {
		og.indeg[v]--
	}
}
