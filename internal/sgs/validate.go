package sgs

import (
	"fmt"

	"github.com/vk/rcpsgo/internal/rcpsp"
)

// Validate checks a complete schedule against the instance: every
// precedence edge has finish(predecessor) <= start(successor), and no
// resource is over capacity at any integer time instant. It returns nil
// for a valid schedule.
func Validate(in *rcpsp.Instance, s *Schedule) error {
	n := in.NumTasks()
	if len(s.Starts) != n {
		return fmt.Errorf("schedule covers %d tasks, instance has %d", len(s.Starts), n)
	}

	horizon := 0
	for i := range in.Tasks {
		if s.Starts[i] < 0 {
			return fmt.Errorf("task %d starts at %d", i+1, s.Starts[i])
		}
		end := s.Starts[i] + in.Tasks[i].Duration
		if end > horizon {
			horizon = end
		}
		for _, succ := range in.Tasks[i].Successors {
			if end > s.Starts[succ-1] {
				return fmt.Errorf("precedence violated: task %d finishes at %d, successor %d starts at %d", i+1, end, succ, s.Starts[succ-1])
			}
		}
	}
	if horizon != s.Makespan {
		return fmt.Errorf("recorded makespan %d, latest completion %d", s.Makespan, horizon)
	}

	for r := range in.Resources {
		for t := 0; t < horizon; t++ {
			used := 0
			for i := range in.Tasks {
				if s.Starts[i] <= t && t < s.Starts[i]+in.Tasks[i].Duration {
					used += in.Tasks[i].Demands[r]
				}
			}
			if used > in.Resources[r].Capacity {
				return fmt.Errorf("resource %d over capacity at t=%d: used %d, capacity %d", in.Resources[r].ID, t, used, in.Resources[r].Capacity)
			}
		}
	}
	return nil
}
