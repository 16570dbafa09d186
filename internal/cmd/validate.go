package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/deploy-values/internal/config"
	"github.com/cameronsjo/deploy-values/internal/pipeline"
	"github.com/cameronsjo/deploy-values/internal/ui"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that every value file renders to valid YAML",
	Long: `Render every value file without writing anything.

This command performs validation checks:
  1. Inputs and the event payload can be loaded
  2. Every value file exists and is text
  3. Every template parses and executes
  4. Every rendered file is valid YAML

Use this in a pull request to catch template errors before deploying.

Examples:
  deploy-values validate
  deploy-values validate --event-path event.json`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ui.Header("=== deploy-values validation ===")

	ui.Blue.Println("--- Configuration ---")
	cfg, err := loadConfig(config.Options{DryRun: true, ValidateYAML: true})
	if err != nil {
		ui.Red.Printf("  x %v\n", err)
		return err
	}
	if cfg.EventPath != "" {
		ui.Green.Printf("  * Event: %s (%s)\n", cfg.EventPath, eventLabel(cfg.EventName))
	} else {
		ui.Yellow.Println("  ! No event payload (deployment overrides disabled)")
	}
	ui.Green.Printf("  * Values file: %s\n", cfg.OutputFile)

	ui.Blue.Println("--- Render ---")
	report, err := pipeline.Run(cmd.Context(), cfg)
	if err != nil {
		ui.Red.Printf("  x %v\n", err)
		return fmt.Errorf("validation failed: %w", err)
	}
	for _, f := range report.Files {
		ui.Green.Printf("  * %s\n", f.Path)
	}

	ui.Blue.Println("--- Summary ---")
	ui.Green.Printf("  * %d file(s) render to valid YAML, %d would change\n", len(report.Files), report.Changed())
	return nil
}

func eventLabel(name string) string {
	if name == "" {
		return "unknown event"
	}
	return name
}
