package search

import (
	"github.com/vk/rcpsgo/internal/sgs"
)

// Status classifies how trustworthy the reported makespan is.
type Status string

const (
	// StatusOptimal means the makespan is provably minimal: either it hits
	// the critical-path lower bound, or the branch-and-bound phase
	// exhausted the order space.
	StatusOptimal Status = "optimal"
	// StatusFeasible means a valid schedule was found but the time budget
	// expired before optimality could be certified.
	StatusFeasible Status = "feasible"
	// StatusUnknown means the budget expired before any schedule was
	// built. Guarded against, since the serial scheme always succeeds on a
	// valid instance.
	StatusUnknown Status = "unknown"
	// StatusError means the instance never reached search: parse or
	// validation failure, or a cyclic precedence relation.
	StatusError Status = "error"
)

// State is the engine's lifecycle position. Terminal states are everything
// past Running.
type State int

const (
	NotStarted State = iota
	Running
	Exhausted
	TimedOut
	Infeasible
	Errored
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Exhausted:
		return "exhausted"
	case TimedOut:
		return "timed_out"
	case Infeasible:
		return "infeasible"
	case Errored:
		return "errored"
	default:
		return "invalid"
	}
}

// SolutionRecord is the engine's one output per instance. It is only
// created once the state machine reaches a terminal state and is immutable
// afterwards.
type SolutionRecord struct {
	Instance string

	// Makespan is the best makespan found; valid only when HasMakespan.
	Makespan    int
	HasMakespan bool

	Status Status

	// ElapsedSeconds is wall-clock solve time, rounded to two decimals.
	ElapsedSeconds float64

	// Schedule is the start-time assignment achieving Makespan, nil when
	// HasMakespan is false.
	Schedule *sgs.Schedule

	// Err carries the failure that produced StatusError, nil otherwise.
	Err error
}
