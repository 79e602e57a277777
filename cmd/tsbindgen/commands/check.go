package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tsbindgen/pipeline"
)

var checkFlags buildFlags

// CheckCmd verifies an output directory matches a fresh build
var CheckCmd = &cobra.Command{
	Use:   "check <graph files or directories>...",
	Short: "Check if generated declarations are up to date",
	Long: `Regenerate into a temporary directory and compare with the output
directory. The generator header line is ignored.

Exit codes:
  0 - Declarations are up to date
  1 - Declarations are out of date
  2 - Error during check

Examples:
  tsbindgen check graphs/ -o types`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkFlags.register(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, _, err := loadPolicy(cmd, &checkFlags)
	if err != nil {
		return err
	}
	opts := pipeline.Options{Inputs: args, Policy: p, Contract: checkFlags.contract, AfterPass: graphDumper(verbosity(cmd))}
	result, res, err := pipeline.Check(cmd.Context(), opts, checkFlags.output)
	if res != nil {
		report(res, verbosity(cmd))
	}
	if err != nil {
		return err
	}

	if result.UpToDate {
		pterm.Success.Println("Declarations are up to date")
		return nil
	}
	pterm.Error.Println("Declarations are out of date")
	for _, file := range result.Differences {
		fmt.Printf("  - %s\n", file)
	}
	return ErrOutOfDate
}
