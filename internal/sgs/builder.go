// Package sgs implements the serial schedule generation scheme: given a
// precedence-feasible task order, each task is started at the earliest time
// where its predecessors have finished and every resource it demands has
// spare capacity for its whole duration. The construction never backtracks
// and is deterministic for a fixed order and instance.
package sgs

import (
	"github.com/vk/rcpsgo/internal/precedence"
	"github.com/vk/rcpsgo/internal/rcpsp"
)

// Schedule is a complete start-time assignment, indexed by task position
// (task id minus one).
type Schedule struct {
	Starts   []int
	Makespan int
}

// Clone returns an independent copy, used when an evaluation result must
// outlive the builder's scratch buffers.
func (s *Schedule) Clone() *Schedule {
	starts := make([]int, len(s.Starts))
	copy(starts, s.Starts)
	return &Schedule{Starts: starts, Makespan: s.Makespan}
}

// Builder constructs schedules for one instance. The usage profile and
// start buffers are reused across builds, so a Builder must not be shared
// between concurrent evaluations; give each worker its own.
type Builder struct {
	inst  *rcpsp.Instance
	graph *precedence.Graph
	caps  []int

	// usage[r] tracks committed demand of resource r per time unit. Grown
	// on demand up to the horizon of the schedule being built.
	usage  [][]int
	starts []int
}

// NewBuilder creates a builder for the given instance and its graph.
func NewBuilder(in *rcpsp.Instance, g *precedence.Graph) *Builder {
	b := &Builder{
		inst:   in,
		graph:  g,
		caps:   in.Capacities(),
		usage:  make([][]int, in.NumResources()),
		starts: make([]int, in.NumTasks()),
	}
	return b
}

// Build runs the serial scheme over the given order and returns the
// resulting schedule. The order must contain every task exactly once and
// respect precedence; Build does not re-check that.
//
// The returned schedule aliases the builder's buffers and is valid until
// the next Build call; Clone it to keep it.
func (b *Builder) Build(order []int) *Schedule {
	for r := range b.usage {
		for t := range b.usage[r] {
			b.usage[r][t] = 0
		}
	}

	makespan := 0
	for _, u := range order {
		es := 0
		for _, pred := range b.graph.Predecessors(u) {
			if f := b.starts[pred] + b.inst.Tasks[pred].Duration; f > es {
				es = f
			}
		}
		start := b.placeAt(u, es)
		b.starts[u] = start
		if end := start + b.inst.Tasks[u].Duration; end > makespan {
			makespan = end
		}
	}
	return &Schedule{Starts: b.starts, Makespan: makespan}
}

// placeAt finds the earliest start >= es with capacity for task u over its
// whole duration, commits the demand, and returns the start.
func (b *Builder) placeAt(u, es int) int {
	task := &b.inst.Tasks[u]
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
				if b.used(r, t)+d > b.caps[r] {
					// Restart just past the conflicting slot.
					start = t + 1
					ok = false
					break scan
				}
			}
		}
		if ok {
			break
		}
	}

	for r, d := range task.Demands {
		if d == 0 {
			continue
		}
		b.grow(r, start+task.Duration)
		for t := start; t < start+task.Duration; t++ {
			b.usage[r][t] += d
		}
	}
	return start
}

func (b *Builder) used(r, t int) int {
	if t >= len(b.usage[r]) {
		return 0
	}
	return b.usage[r][t]
}

func (b *Builder) grow(r, horizon int) {
	for len(b.usage[r]) < horizon {
		b.usage[r] = append(b.usage[r], 0)
	}
}
