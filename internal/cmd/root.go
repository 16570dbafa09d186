// Package cmd provides the CLI commands for deploy-values.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/deploy-values/internal/config"
	"github.com/cameronsjo/deploy-values/internal/pipeline"
	"github.com/cameronsjo/deploy-values/internal/ui"
)

const version = "0.1.0"

var (
	configFile   string
	envFile      string
	eventPath    string
	outputFile   string
	dryRun       bool
	showDiff     bool
	validateYAML bool
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "deploy-values",
	Short: "Render templated value files for a deployment",
	Long: `deploy-values - render value files for a deployment

Reads the value-files, secrets and values step inputs, merges in the
deployment from the triggering event, writes the values input to
./values.yml and renders every value file plus values.yml in place.

Placeholders use ${{ ... }} tags (Go template syntax, sprig functions):

  image: app:${{ secrets.tag }}
  environment: ${{ deployment.environment }}

Inputs are read from INPUT_* variables the way the runner sets them.
A deployment payload field with the same name (value_files, secrets,
values) overrides the input; deployment.payload.<name> wins over
deployment.<name>.

Examples:
  # On a runner (inputs and event come from the environment)
  deploy-values

  # Locally, against a saved event and a .env file of INPUT_* variables
  deploy-values --env-file .env --event-path event.json --diff

  # Preview without touching files
  deploy-values -c deploy-values.yml --dry-run --diff

  # Check that every file renders to valid YAML
  deploy-values validate -c deploy-values.yml`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// SIGINT and SIGTERM cancel renders that have not started yet.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file with an inputs section")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load missing environment variables from a dotenv file")
	rootCmd.PersistentFlags().StringVar(&eventPath, "event-path", "", "Event payload JSON (defaults to GITHUB_EVENT_PATH)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", config.DefaultOutputFile, "Generated values file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output")

	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Render without writing files")
	rootCmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "Show a diff of every rendered file")
	rootCmd.Flags().BoolVar(&validateYAML, "validate-yaml", false, "Fail when rendered output is not valid YAML")

	rootCmd.SetVersionTemplate("deploy-values version {{.Version}}\n")
}

// loadConfig builds the run configuration from the persistent flags plus the
// command-specific switches.
func loadConfig(opts config.Options) (*config.Config, error) {
	if verbose {
		ui.Verbose = true
	}

	opts.ConfigFile = configFile
	opts.EnvFile = envFile
	opts.EventPath = eventPath
	opts.OutputFile = outputFile

	cfg, err := config.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.Options{
		DryRun:       dryRun,
		Diff:         showDiff,
		ValidateYAML: validateYAML,
	})
	if err != nil {
		return err
	}

	ui.Group("Rendering value files")
	report, err := pipeline.Run(cmd.Context(), cfg)
	ui.EndGroup()
	if err != nil {
		return err
	}

	for _, f := range report.Files {
		state := "unchanged"
		if f.Changed {
			state = "rendered"
		}
		ui.Info("  %s (%s)", f.Path, state)
	}
	if cfg.DryRun {
		ui.Warning("Dry run: %d of %d file(s) would change", report.Changed(), len(report.Files))
		return nil
	}
	ui.Success("Rendered %d file(s)", len(report.Files))
	return nil
}
