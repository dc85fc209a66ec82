// Package hclconfig loads batch run configuration from HCL files. A config
// file holds exactly one batch block; expressions in it can reference the
// host facts exposed through the evaluation context (currently num_cpu).
package hclconfig

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/rcpsgo/internal/ctxlog"
)

// fileRoot decodes the top-level blocks of a config file.
type fileRoot struct {
	Batches []*Batch `hcl:"batch,block"`
	Remain  hcl.Body `hcl:",remain"`
}

// evalContext exposes host facts to config expressions, e.g.
// `workers = num_cpu`.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"num_cpu": cty.NumberIntVal(int64(runtime.NumCPU())),
		},
	}
}

// Load parses one HCL config file and returns its batch block.
func Load(ctx context.Context, path string) (*Batch, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL config loader started.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	if len(root.Batches) != 1 {
		return nil, fmt.Errorf("config file %s defines %d batch blocks, want exactly 1", path, len(root.Batches))
	}
	batch := root.Batches[0]
	if batch.DataDir == "" {
		return nil, fmt.Errorf("config file %s: batch %q: data_dir is required", path, batch.Name)
	}

	logger.Debug("HCL config decoded.", "batch", batch.Name, "data_dir", batch.DataDir)
	return batch, nil
}
