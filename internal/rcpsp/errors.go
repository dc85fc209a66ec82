package rcpsp

import (
	"errors"
	"fmt"
)

// Sentinel kinds for the per-instance error taxonomy. All of them are fatal
// for the instance they occur in and must never abort a batch.
var (
	ErrParse                 = errors.New("instance parse error")
	ErrInvalidInstance       = errors.New("invalid instance")
	ErrInvalidSuccessorID    = errors.New("successor id out of range")
	ErrDemandExceedsCapacity = errors.New("task demand exceeds resource capacity")
)

// ParseError reports a malformed instance file. Line is 1-based; zero means
// the position is unknown (e.g. truncated input).
type ParseError struct {
	Name string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Name, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// ValidationError reports a structural invariant violation that is not one
// of the more specific cases below. Task is 1-based, zero when the error is
// not tied to a single task.
type ValidationError struct {
	Task int
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Task > 0 {
		return fmt.Sprintf("task %d: %s", e.Task, e.Msg)
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInstance }

// InvalidSuccessorIDError reports a precedence edge pointing outside 1..N.
type InvalidSuccessorIDError struct {
	Task      int
	Successor int
	NumTasks  int
}

func (e *InvalidSuccessorIDError) Error() string {
	return fmt.Sprintf("task %d: successor id %d out of range 1..%d", e.Task, e.Successor, e.NumTasks)
}

func (e *InvalidSuccessorIDError) Unwrap() error { return ErrInvalidSuccessorID }

// DemandExceedsCapacityError reports a task that can never be scheduled
// because one of its demands exceeds the resource's total capacity.
type DemandExceedsCapacityError struct {
	Task     int
	Resource int
	Demand   int
	Capacity int
}

func (e *DemandExceedsCapacityError) Error() string {
	return fmt.Sprintf("task %d demands %d of resource %d, capacity is %d", e.Task, e.Demand, e.Resource, e.Capacity)
}

func (e *DemandExceedsCapacityError) Unwrap() error { return ErrDemandExceedsCapacity }
