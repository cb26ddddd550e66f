package hcl

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/crepl/internal/config"
	"github.com/specialistvlad/crepl/internal/ctxlog"
	"github.com/specialistvlad/crepl/internal/fsutil"
	"github.com/specialistvlad/crepl/internal/session"
)

const fileExtension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL session loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every session file reachable from paths and merges them in
// order. Includes and statements are concatenated; the last input block
// wins.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no session files found")
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext()
	model := &config.Model{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.merge(ctx, model, &root, evalCtx); err != nil {
			return nil, fmt.Errorf("invalid session file %s: %w", file, err)
		}
		model.Files = append(model.Files, file)
	}

	logger.Debug("HCL loading complete.",
		"files", len(model.Files),
		"includes", len(model.Includes),
		"statements", len(model.Statements),
		"has_input", model.Input != nil,
	)
	return model, nil
}

func (l *Loader) merge(ctx context.Context, model *config.Model, root *fileRoot, evalCtx *hcl.EvalContext) error {
	includes, err := decodeStringList(ctx, "includes", root.Includes, evalCtx)
	if err != nil {
		return err
	}
	statements, err := decodeStringList(ctx, "statements", root.Statements, evalCtx)
	if err != nil {
		return err
	}
	model.Includes = append(model.Includes, includes...)
	model.Statements = append(model.Statements, statements...)

	if len(root.Inputs) > 1 {
		return fmt.Errorf("%s: only one input block is allowed per file", root.Inputs[1].DeclRange)
	}
	if len(root.Inputs) == 1 {
		in, err := translateInput(root.Inputs[0])
		if err != nil {
			return err
		}
		model.Input = in
	}
	return nil
}

// translateInput converts an input block into a validated session input.
func translateInput(b *inputBlock) (*session.Input, error) {
	kind, err := session.ParseKind(b.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.DeclRange, err)
	}
	in := session.Input{Kind: kind, Text: b.Text}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", b.DeclRange, err)
	}
	return &in, nil
}

// findAllHCLFiles expands paths into a flat, deduplicated list of session
// files. Unlike directories, explicitly named files need not end in .hcl.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			allFiles = append(allFiles, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, fileExtension)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}
