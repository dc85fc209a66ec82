// Package rcpsp defines the instance model for the resource-constrained
// project scheduling problem: tasks with fixed durations, precedence
// relations, and renewable-resource demands bounded by fixed capacities.
package rcpsp

import "fmt"

// Task is a single activity of the project. IDs are 1-based and dense:
// task i lives at Instance.Tasks[i-1].
type Task struct {
	ID         int
	Duration   int
	Demands    []int // one entry per resource, indexed like Instance.Resources
	Successors []int // 1-based task ids that must start after this task finishes
}

// Resource is a renewable resource: its full capacity is available again
// at every time unit.
type Resource struct {
	ID       int
	Capacity int
}

// Instance is one parsed RCPSP problem. It is immutable after parsing and
// safe for concurrent reads; solver scratch state lives elsewhere.
type Instance struct {
	Name      string
	Tasks     []Task
	Resources []Resource

	// IgnoredBound holds an optional third header token from the input
	// file. It is recorded for diagnostics only and is never applied as a
	// makespan constraint.
	IgnoredBound *int
}

// NumTasks returns the number of tasks.
func (in *Instance) NumTasks() int { return len(in.Tasks) }

// NumResources returns the number of resources.
func (in *Instance) NumResources() int { return len(in.Resources) }

// Capacities returns the resource capacities indexed by resource position.
func (in *Instance) Capacities() []int {
	caps := make([]int, len(in.Resources))
	for i, r := range in.Resources {
		caps[i] = r.Capacity
	}
	return caps
}

// Validate checks the structural invariants that must hold before any
// solving is attempted: demand vectors sized to the resource count,
// successor ids in range, durations and demands non-negative, and no single
// task demanding more of a resource than its total capacity. Cycle
// detection is not done here; it belongs to precedence graph construction.
func (in *Instance) Validate() error {
	n := len(in.Tasks)
	for i := range in.Tasks {
		t := &in.Tasks[i]
		if t.ID != i+1 {
			return &ValidationError{Task: t.ID, Msg: fmt.Sprintf("task id %d at position %d, want %d", t.ID, i, i+1)}
		}
		if t.Duration < 0 {
			return &ValidationError{Task: t.ID, Msg: fmt.Sprintf("negative duration %d", t.Duration)}
		}
		if len(t.Demands) != len(in.Resources) {
			return &ValidationError{Task: t.ID, Msg: fmt.Sprintf("demand vector has %d entries, want %d", len(t.Demands), len(in.Resources))}
		}
		for r, d := range t.Demands {
			if d < 0 {
				return &ValidationError{Task: t.ID, Msg: fmt.Sprintf("negative demand %d for resource %d", d, r+1)}
			}
			if d > in.Resources[r].Capacity {
				return &DemandExceedsCapacityError{
					Task:     t.ID,
					Resource: in.Resources[r].ID,
					Demand:   d,
					Capacity: in.Resources[r].Capacity,
				}
			}
		}
		for _, s := range t.Successors {
			if s < 1 || s > n {
				return &InvalidSuccessorIDError{Task: t.ID, Successor: s, NumTasks: n}
			}
		}
	}
	for i := range in.Resources {
		if in.Resources[i].Capacity <= 0 {
			return &ValidationError{Msg: fmt.Sprintf("resource %d has non-positive capacity %d", in.Resources[i].ID, in.Resources[i].Capacity)}
		}
	}
	return nil
}
