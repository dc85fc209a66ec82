// Package testutil holds shared helpers for building and serializing RCPSP
// instance fixtures in tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/rcpsgo/internal/rcpsp"
)

// Instance assembles an instance literal from parallel slices. durations,
// demands and successors must all have one entry per task; demands entries
// must match len(capacities).
func Instance(t *testing.T, name string, capacities []int, durations []int, demands [][]int, successors [][]int) *rcpsp.Instance {
	t.Helper()
	require.Len(t, demands, len(durations))
	require.Len(t, successors, len(durations))

	in := &rcpsp.Instance{Name: name}
	for i, c := range capacities {
		in.Resources = append(in.Resources, rcpsp.Resource{ID: i + 1, Capacity: c})
	}
	for i := range durations {
		require.Len(t, demands[i], len(capacities))
		in.Tasks = append(in.Tasks, rcpsp.Task{
			ID:         i + 1,
			Duration:   durations[i],
			Demands:    demands[i],
			Successors: successors[i],
		})
	}
	return in
}

// Serialize renders an instance in the plain-text input format, suitable
// for parser and batch tests.
func Serialize(in *rcpsp.Instance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %d", len(in.Tasks), len(in.Resources))
	if in.IgnoredBound != nil {
		fmt.Fprintf(&b, " %d", *in.IgnoredBound)
	}
	b.WriteByte('\n')
	if len(in.Resources) > 0 {
		for i, r := range in.Resources {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", r.Capacity)
		}
		b.WriteByte('\n')
	}
	for _, task := range in.Tasks {
		fmt.Fprintf(&b, "%d", task.Duration)
		for _, d := range task.Demands {
			fmt.Fprintf(&b, " %d", d)
		}
		fmt.Fprintf(&b, " %d", len(task.Successors))
		for _, s := range task.Successors {
			fmt.Fprintf(&b, " %d", s)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteInstanceFile serializes an instance into dir using the instance's
// name as the file name and returns the full path.
func WriteInstanceFile(t *testing.T, dir string, in *rcpsp.Instance) string {
	t.Helper()
	path := filepath.Join(dir, in.Name)
	require.NoError(t, os.WriteFile(path, []byte(Serialize(in)), 0o644))
	return path
}
