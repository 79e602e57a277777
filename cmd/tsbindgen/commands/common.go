// Package commands holds the tsbindgen subcommands.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/pipeline"
	"github.com/teranos/tsbindgen/policy"
)

// ErrOutOfDate is returned by check when the output directory differs from a
// fresh build.
var ErrOutOfDate = errors.New("generated declarations are out of date")

// Exit codes
const (
	ExitOK       = 0
	ExitOutdated = 1
	ExitError    = 2
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrOutOfDate):
		return ExitOutdated
	default:
		return ExitError
	}
}

// buildFlags are shared by generate, check and watch.
type buildFlags struct {
	output   string
	contract string
	mode     string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "types", "Output directory")
	cmd.Flags().StringVar(&f.contract, "contract", "", "Contract file, or the output directory of a previous build")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Override emission.mode (namespaced, facade)")
}

// loadPolicy resolves the effective policy and applies flag overrides.
func loadPolicy(cmd *cobra.Command, f *buildFlags) (*policy.Policy, string, error) {
	explicit, _ := cmd.Flags().GetString("policy")
	p, path, err := policy.Load(explicit)
	if err != nil {
		return nil, "", err
	}
	if f != nil && f.mode != "" {
		p.Emission.Mode = f.mode
		if err := p.Validate(); err != nil {
			return nil, "", err
		}
	}
	return p, path, nil
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

// report prints what a build produced, filtered by verbosity.
func report(res *pipeline.Result, v int) {
	if logger.ShouldOutput(v, logger.OutputPassSummaries) {
		for _, s := range res.Passes {
			line := fmt.Sprintf("%-12s %4d types  %3d diagnostics", s.Name, s.Types, s.Diagnostics)
			if logger.ShouldOutput(v, logger.OutputTiming) {
				line += fmt.Sprintf("  %s", s.Duration.Round(time.Microsecond))
			}
			pterm.Info.Println(line)
		}
	}
	if logger.ShouldOutput(v, logger.OutputRenameDecisions) {
		for _, d := range res.Renames {
			if d.Requested == d.Final {
				continue
			}
			pterm.Println(pterm.Gray(fmt.Sprintf("%s %s -> %s (%s) %s", d.Scope, d.Requested, d.Final, d.Strategy, d.Reason)))
		}
	}
	if len(res.Diagnostics) > 0 && logger.ShouldOutput(v, logger.OutputDiagnostics) {
		fmt.Print(formatDiagnostics(res.Diagnostics, colorOutput()))
	}
}

// colorOutput reports whether stdout is a terminal a human reads. JSON log
// mode counts as machine output.
func colorOutput() bool {
	if logger.JSONOutput {
		return false
	}
	info, err := os.Stdout.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func formatDiagnostics(items []diag.Diagnostic, color bool) string {
	if color {
		return diag.FormatTerminal(items)
	}
	return diag.FormatPlain(items)
}
