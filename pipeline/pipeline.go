// Package pipeline runs a complete build:
//
//  1. Load: decode graph documents (loader)
//  2. Normalize: member identities, placeholder resolution (model)
//  3. Filter: restrict to a library contract when one is given (contract)
//  4. Shape: the ordered shape passes (shape)
//  5. Plan: module layout and imports (plan)
//  6. Emit: declarations and JSON documents (emit)
//
// Bad input never stops a build; it is reported as diagnostics. A build
// fails when a pass breaks an invariant, when input files cannot be read,
// or when a diagnostic listed in Diagnostics.FailOn was reported. In the
// last case the output is still returned.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/tsbindgen/contract"
	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/emit"
	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/loader"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/plan"
	"github.com/teranos/tsbindgen/policy"
	"github.com/teranos/tsbindgen/renamer"
	"github.com/teranos/tsbindgen/shape"
	"github.com/teranos/tsbindgen/version"
)

// Options select the inputs of one build.
type Options struct {
	// Inputs are graph document files or directories.
	Inputs []string
	// Policy defaults to policy.Default() when nil.
	Policy *policy.Policy
	// Contract is a contract file (.json or .toml) or the output directory
	// of a previous build. Empty means no filtering.
	Contract string
	// AfterPass is called with the graph after every shape pass. Optional.
	AfterPass func(pass string, g *model.SymbolGraph)
}

// Result is everything a build produced.
type Result struct {
	BuildID     string
	Output      *emit.Output
	Diagnostics []diag.Diagnostic
	Passes      []shape.PassSummary
	Renames     []renamer.Decision
	Types       int
	Duration    time.Duration
}

// Run loads opts.Inputs and generates from them.
func Run(ctx context.Context, opts Options) (*Result, error) {
	p := opts.Policy
	if p == nil {
		p = policy.Default()
	}
	buildID := uuid.NewString()
	ctx = logger.WithBuildID(ctx, buildID)
	diags := diag.NewCollector(p.Diagnostics.WarnOn...)

	paths, err := loader.ExpandInputs(opts.Inputs)
	if err != nil {
		return nil, err
	}
	g, err := loader.LoadFiles(ctx, paths, diags)
	if err != nil {
		return nil, err
	}

	var c *contract.Contract
	if opts.Contract != "" {
		if c, err = LoadContract(opts.Contract); err != nil {
			return nil, err
		}
	}
	return generate(ctx, buildID, g, p, c, diags, opts.AfterPass)
}

// Generate builds from an already loaded graph. c may be nil.
func Generate(ctx context.Context, g *model.SymbolGraph, p *policy.Policy, c *contract.Contract) (*Result, error) {
	if p == nil {
		p = policy.Default()
	}
	buildID := uuid.NewString()
	return generate(logger.WithBuildID(ctx, buildID), buildID, g, p, c, diag.NewCollector(p.Diagnostics.WarnOn...), nil)
}

func generate(ctx context.Context, buildID string, g *model.SymbolGraph, p *policy.Policy, c *contract.Contract, diags *diag.Collector, afterPass func(string, *model.SymbolGraph)) (*Result, error) {
	log := logger.LoggerFromContext(logger.WithComponent(ctx, "pipeline"))
	start := time.Now()

	if err := p.Validate(); err != nil {
		return nil, err
	}

	g = model.Normalize(g, diags)
	if c != nil {
		contract.CheckVersion(c, version.Semver(), diags)
		before := g.TypeCount()
		g = contract.FilterGraph(g, c)
		log.Debugw("applied contract",
			logger.FieldCount, g.TypeCount(),
			logger.FieldTotalCount, before)
	}

	env := shape.NewEnv(p, diags)
	env.AfterPass = afterPass
	shaped, summaries, err := shape.Run(g, env)
	if err != nil {
		return nil, err
	}
	out, err := emit.Emit(shaped, plan.Build(shaped, p, env.Renamer), env)
	if err != nil {
		return nil, err
	}

	res := &Result{
		BuildID:     buildID,
		Output:      out,
		Diagnostics: diags.Sorted(),
		Passes:      summaries,
		Renames:     env.Renamer.Decisions(),
		Types:       shaped.TypeCount(),
		Duration:    time.Since(start),
	}
	log.Infow("build complete",
		logger.FieldCount, res.Types,
		"files", len(out.Files),
		"diagnostics", diag.Summary(diags),
		logger.FieldDurationMS, res.Duration.Milliseconds())

	if err := diags.FailOn(p.Diagnostics.FailOn); err != nil {
		return res, err
	}
	return res, nil
}

// LoadContract reads a contract file, or bootstraps one from the metadata
// documents of a previous output directory.
func LoadContract(path string) (*contract.Contract, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "contract %s", path)
		}
		return nil, errors.Wrapf(err, "failed to stat contract %s", path)
	}
	if !info.IsDir() {
		return contract.Load(path)
	}
	files, err := contract.MetadataFiles(path)
	if err != nil {
		return nil, err
	}
	return contract.FromMetadata(files)
}

// WriteOutput replaces dir with the build output. Existing files that the
// build did not produce are removed so stale modules do not linger. A
// non-empty dir is only cleared when it holds a previous build's index.
func WriteOutput(out *emit.Output, dir string) error {
	entries, err := os.ReadDir(dir)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return errors.Wrapf(err, "failed to read output directory %s", dir)
	case len(entries) > 0:
		if _, err := os.Stat(filepath.Join(dir, emit.IndexFile)); err != nil {
			return errors.WithHint(
				errors.NewInvalidInputf("output directory %s is not empty and holds no previous build", dir),
				"choose an empty directory or remove its contents")
		}
		if err := os.RemoveAll(dir); err != nil {
			return errors.Wrapf(err, "failed to clear output directory %s", dir)
		}
	}
	return out.WriteTo(dir)
}

// Check regenerates into a temporary directory and compares the result with
// existingDir.
func Check(ctx context.Context, opts Options, existingDir string) (*emit.CheckResult, *Result, error) {
	res, err := Run(ctx, opts)
	if err != nil && res == nil {
		return nil, nil, err
	}
	tmp, tmpErr := os.MkdirTemp("", "tsbindgen-check-*")
	if tmpErr != nil {
		return nil, res, errors.Wrap(tmpErr, "failed to create temp directory")
	}
	defer os.RemoveAll(tmp)

	if werr := res.Output.WriteTo(tmp); werr != nil {
		return nil, res, werr
	}
	check, cerr := emit.CompareDirectories(tmp, existingDir)
	if cerr != nil {
		return nil, res, cerr
	}
	return check, res, err
}
