package precedence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrCycle is the kind of every cycle detection failure.
var ErrCycle = errors.New("precedence cycle detected")

// CycleError reports a cyclic successor relation together with one witness
// path of 1-based task ids.
type CycleError struct {
	Path []int // task ids, first and last entry are the same task
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("%s: %s", ErrCycle.Error(), strings.Join(parts, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

func cycleError(indices []int) error {
	ids := make([]int, len(indices))
	for i, idx := range indices {
		ids[i] = idx + 1
	}
	return &CycleError{Path: ids}
}
