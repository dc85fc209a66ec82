package rcpsp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vk/rcpsgo/internal/ctxlog"
)

// Parse reads one instance in the plain-text format:
//
//	line 1:             NB_TASKS NB_RESOURCES [bound]
//	line 2:             R_1 ... R_{NB_RESOURCES}
//	next NB_TASKS lines: duration demand_1..demand_R num_successors succ_1..succ_k
//
// The optional bound token is recorded on the instance and logged as
// discarded; it is never applied as a constraint. The returned instance has
// already passed Validate.
func Parse(ctx context.Context, name string, r io.Reader) (*Instance, error) {
	logger := ctxlog.FromContext(ctx)
	sc := bufio.NewScanner(r)

	lineNo := 0
	nextLine := func() ([]string, error) {
		for sc.Scan() {
			lineNo++
			fields := strings.Fields(sc.Text())
			if len(fields) > 0 {
				return fields, nil
			}
		}
		if err := sc.Err(); err != nil {
			return nil, &ParseError{Name: name, Line: lineNo, Msg: err.Error()}
		}
		return nil, &ParseError{Name: name, Line: lineNo, Msg: "unexpected end of input"}
	}
	atoi := func(tok, what string) (int, error) {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, &ParseError{Name: name, Line: lineNo, Msg: fmt.Sprintf("%s: not an integer: %q", what, tok)}
		}
		return v, nil
	}

	header, err := nextLine()
	if err != nil {
		return nil, err
	}
	if len(header) < 2 || len(header) > 3 {
		return nil, &ParseError{Name: name, Line: lineNo, Msg: fmt.Sprintf("header has %d tokens, want 2 or 3", len(header))}
	}
	numTasks, err := atoi(header[0], "task count")
	if err != nil {
		return nil, err
	}
	numResources, err := atoi(header[1], "resource count")
	if err != nil {
		return nil, err
	}
	if numTasks < 1 {
		return nil, &ParseError{Name: name, Line: lineNo, Msg: fmt.Sprintf("task count %d, want at least 1", numTasks)}
	}
	if numResources < 0 {
		return nil, &ParseError{Name: name, Line: lineNo, Msg: fmt.Sprintf("negative resource count %d", numResources)}
	}

	inst := &Instance{Name: name}
	if len(header) == 3 {
		bound, err := atoi(header[2], "bound")
		if err != nil {
			return nil, err
		}
		inst.IgnoredBound = &bound
		logger.Info("Ignoring bound value from instance file, solving without bounds.", "instance", name, "bound", bound)
	}

	if numResources > 0 {
		caps, err := nextLine()
		if err != nil {
			return nil, err
		}
		if len(caps) != numResources {
			return nil, &ParseError{Name: name, Line: lineNo, Msg: fmt.Sprintf("capacity line has %d tokens, want %d", len(caps), numResources)}
		}
		inst.Resources = make([]Resource, numResources)
		for i, tok := range caps {
			c, err := atoi(tok, "capacity")
			if err != nil {
				return nil, err
			}
			inst.Resources[i] = Resource{ID: i + 1, Capacity: c}
		}
	}

	inst.Tasks = make([]Task, numTasks)
	for i := 0; i < numTasks; i++ {
		fields, err := nextLine()
		if err != nil {
			return nil, err
		}
		if len(fields) < numResources+2 {
			return nil, &ParseError{Name: name, Line: lineNo, Msg: fmt.Sprintf("task line has %d tokens, want at least %d", len(fields), numResources+2)}
		}
		t := Task{ID: i + 1, Demands: make([]int, numResources)}
		if t.Duration, err = atoi(fields[0], "duration"); err != nil {
			return nil, err
		}
		for r := 0; r < numResources; r++ {
			if t.Demands[r], err = atoi(fields[1+r], "demand"); err != nil {
				return nil, err
			}
		}
		numSucc, err := atoi(fields[1+numResources], "successor count")
		if err != nil {
			return nil, err
		}
		if numSucc < 0 || len(fields) != numResources+2+numSucc {
			return nil, &ParseError{Name: name, Line: lineNo, Msg: fmt.Sprintf("task line has %d tokens, want %d for %d successors", len(fields), numResources+2+numSucc, numSucc)}
		}
		t.Successors = make([]int, numSucc)
		for s := 0; s < numSucc; s++ {
			if t.Successors[s], err = atoi(fields[numResources+2+s], "successor id"); err != nil {
				return nil, err
			}
		}
		inst.Tasks[i] = t
	}

	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// ParseFile reads and parses a single instance file. The instance name is
// the file's base name, matching how result rows identify instances.
func ParseFile(ctx context.Context, path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Name: filepath.Base(path), Msg: err.Error()}
	}
	defer f.Close()
	return Parse(ctx, filepath.Base(path), f)
}
