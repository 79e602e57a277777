package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/policy"
)

var (
	policyFormat string
	policyForce  bool
)

// PolicyCmd groups policy file commands
var PolicyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Create or inspect the generation policy",
	Long: `The policy is read from --policy, or from tsbindgen.toml found upward from
the working directory. TSBINDGEN_* environment variables override file values
(TSBINDGEN_EMISSION_MODE=facade).

Examples:
  tsbindgen policy init                  # Write tsbindgen.toml with defaults
  tsbindgen policy show --format yaml    # Show the effective policy
  tsbindgen policy validate              # Validate without building`,
}

var policyInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a policy file with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := policy.FileName
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !policyForce {
			return errors.WithHint(errors.Newf("%s already exists", path),
				"use --force to overwrite (the old file is kept as a backup)")
		}
		if err := policy.Save(policy.Default(), path); err != nil {
			return err
		}
		pterm.Success.Printfln("Wrote %s", path)
		return nil
	},
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective policy",
	RunE:  runPolicyShow,
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, path, err := loadPolicy(cmd, nil)
		if err != nil {
			return err
		}
		if path == "" {
			path = "defaults"
		}
		pterm.Success.Printfln("Policy is valid (%s)", path)
		return nil
	},
}

func init() {
	policyShowCmd.Flags().StringVar(&policyFormat, "format", "toml", "Output format: toml, json, yaml")
	policyInitCmd.Flags().BoolVarP(&policyForce, "force", "f", false, "Overwrite an existing policy file")

	PolicyCmd.AddCommand(policyInitCmd)
	PolicyCmd.AddCommand(policyShowCmd)
	PolicyCmd.AddCommand(policyValidateCmd)
}

func runPolicyShow(cmd *cobra.Command, args []string) error {
	p, path, err := loadPolicy(cmd, nil)
	if err != nil {
		return err
	}
	source := path
	if source == "" {
		source = "defaults"
	}

	switch policyFormat {
	case "json":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal policy to JSON: %w", err)
		}
		fmt.Println(string(data))

	case "yaml":
		data, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal policy to YAML: %w", err)
		}
		fmt.Printf("# tsbindgen policy (%s)\n%s", source, string(data))

	case "toml":
		data, err := toml.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal policy to TOML: %w", err)
		}
		fmt.Printf("# tsbindgen policy (%s)\n%s", source, string(data))

	default:
		return errors.NewInvalidInputf("unsupported format: %s (supported: toml, json, yaml)", policyFormat)
	}
	return nil
}
