package commands

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/pipeline"
	"github.com/teranos/tsbindgen/policy"
)

var (
	generateFlags  buildFlags
	generateDryRun bool
)

// GenerateCmd runs a build and writes the output directory
var GenerateCmd = &cobra.Command{
	Use:   "generate <graph files or directories>...",
	Short: "Generate TypeScript declarations",
	Long: `Load symbol graph documents (.yaml, .yml, .json), shape them under the
generation policy and write declarations plus metadata.json, bindings.json
and renames.json to the output directory.

Examples:
  tsbindgen generate graphs/ -o types
  tsbindgen generate core.yaml app.yaml -o types --mode facade
  tsbindgen generate graphs/ --contract types --dry-run -v`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateFlags.register(GenerateCmd)
	GenerateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Build and report without writing files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	v := verbosity(cmd)
	p, policyPath, err := loadPolicy(cmd, &generateFlags)
	if err != nil {
		return err
	}
	if logger.ShouldOutput(v, logger.OutputPolicy) {
		if policyPath == "" {
			policyPath = "defaults"
		}
		pterm.Info.Printfln("Policy: %s (mode %s, inline %t), verbosity %s",
			policyPath, p.Emission.Mode, p.Interfaces.InlineAll, logger.LevelName(v))
	}

	res, err := build(cmd.Context(), args, generateFlags.contract, p, v)
	if res == nil {
		return err
	}
	if generateDryRun {
		pterm.Info.Printfln("Dry run: %d files would be written to %s", len(res.Output.Files), generateFlags.output)
		return err
	}
	if werr := pipeline.WriteOutput(res.Output, generateFlags.output); werr != nil {
		return werr
	}
	if logger.ShouldOutput(v, logger.OutputResults) {
		pterm.Success.Printfln("Generated %d types into %s (%d files, %s)",
			res.Types, generateFlags.output, len(res.Output.Files), res.Duration.Round(time.Millisecond))
	}
	return err
}

// build runs the pipeline with a spinner and prints the report. A failed
// build that still produced output returns both.
func build(ctx context.Context, inputs []string, contractPath string, p *policy.Policy, v int) (*pipeline.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var spinner *pterm.SpinnerPrinter
	if logger.ShouldOutput(v, logger.OutputProgress) {
		spinner, _ = pterm.DefaultSpinner.Start("Building declarations...")
	}
	res, err := pipeline.Run(ctx, pipeline.Options{
		Inputs:    inputs,
		Policy:    p,
		Contract:  contractPath,
		AfterPass: graphDumper(v),
	})
	if spinner != nil {
		if err != nil {
			spinner.Fail("Build failed")
		} else {
			spinner.Success("Build complete")
		}
	}
	if res != nil {
		report(res, v)
	}
	return res, err
}
