// Package shape turns a normalized symbol graph into one the declaration
// printer can emit verbatim. Each pass is a pure function of the graph and
// the policy; the renamer and the diagnostics collector are the only state
// they share.
package shape

import (
	"time"

	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/policy"
	"github.com/teranos/tsbindgen/renamer"
)

// Env carries the shared services of one build.
type Env struct {
	Policy  *policy.Policy
	Renamer *renamer.Renamer
	Diags   *diag.Collector
	// AfterPass, when set, sees the graph each pass returns. It must not
	// modify it.
	AfterPass func(pass string, g *model.SymbolGraph)
}

// NewEnv builds the renamer from the policy and bundles the services.
func NewEnv(p *policy.Policy, diags *diag.Collector) *Env {
	return &Env{
		Policy: p,
		Renamer: renamer.New(renamer.Options{
			Explicit:        p.Renaming.Explicit(),
			Style:           renamer.Style(p.Emission.NameTransform),
			HiddenNewSuffix: p.HiddenSuffix(),
		}, diags),
		Diags: diags,
	}
}

func (e *Env) check() error {
	switch {
	case e == nil:
		return errors.Wrap(errors.ErrMissingService, "shape environment is nil")
	case e.Policy == nil:
		return errors.Wrap(errors.ErrMissingService, "policy")
	case e.Renamer == nil:
		return errors.Wrap(errors.ErrMissingService, "renamer")
	case e.Diags == nil:
		return errors.Wrap(errors.ErrMissingService, "diagnostics collector")
	}
	return nil
}

// Pass is one graph-to-graph step.
type Pass struct {
	Name string
	Run  func(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph
}

// Passes returns the passes in execution order.
func Passes() []Pass {
	return []Pass{
		{"surfaces", Surfaces},
		{"constraints", ConstraintClosure},
		{"interfaces", InlineInterfaces},
		{"diamond", ResolveDiamonds},
		{"hidden", MarkHiddenMembers},
		{"indexers", PlanIndexers},
		{"overrides", SuppressOverrideConflicts},
		{"extensions", BucketExtensions},
		{"statics", AnalyzeStaticSide},
		{"names", ReserveNames},
	}
}

// PassSummary reports what one pass did.
type PassSummary struct {
	Name        string
	Types       int
	Diagnostics int
	Duration    time.Duration
}

// Run executes every pass in order and validates the result. Irregular input
// only produces diagnostics; an error means a pass broke an invariant or a
// service is missing.
func Run(g *model.SymbolGraph, env *Env) (*model.SymbolGraph, []PassSummary, error) {
	if err := env.check(); err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, errors.Wrap(errors.ErrMissingService, "symbol graph")
	}

	summaries := make([]PassSummary, 0, len(Passes()))
	for _, pass := range Passes() {
		log := logger.ChildLogger(logger.ComponentLogger("shape."+pass.Name), logger.FieldPass, pass.Name)
		before := env.Diags.Len()
		start := time.Now()

		g = pass.Run(g, env, log)

		s := PassSummary{
			Name:        pass.Name,
			Types:       g.TypeCount(),
			Diagnostics: env.Diags.Len() - before,
			Duration:    time.Since(start),
		}
		summaries = append(summaries, s)
		if env.AfterPass != nil {
			env.AfterPass(pass.Name, g)
		}
		log.Debugw("pass complete",
			logger.FieldCount, s.Types,
			"diagnostics", s.Diagnostics,
			logger.FieldDurationMS, s.Duration.Milliseconds())
	}

	if err := g.Validate(); err != nil {
		return nil, summaries, errors.Wrap(err, "shaped graph is not well-formed")
	}
	return g, summaries, nil
}
