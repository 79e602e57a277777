package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/tsbindgen/cmd/tsbindgen/commands"
	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tsbindgen",
	Short: "tsbindgen - TypeScript declarations for .NET symbol graphs",
	Long: `tsbindgen turns .NET symbol graph documents into TypeScript declaration
files, with the metadata and binding documents a runtime bridge needs.

Available commands:
  generate - Generate declarations into an output directory
  check    - Verify an output directory is up to date
  watch    - Regenerate whenever inputs or the policy change
  policy   - Create or inspect the generation policy
  version  - Show version information

Examples:
  tsbindgen generate graphs/ -o types      # Generate from every document in graphs/
  tsbindgen check graphs/ -o types         # CI check, exits 1 when stale
  tsbindgen policy show --format json      # Show the effective policy`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringP("policy", "p", "", "Policy file (default: tsbindgen.toml found upward)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.PolicyCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	if err != nil && logger.JSONOutput {
		logger.Errorw("command failed", "error", err.Error(), "hints", errors.GetAllHints(err))
	}
	logger.Cleanup()
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(commands.ExitCode(err))
}
