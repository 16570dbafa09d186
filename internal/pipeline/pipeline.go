// Package pipeline runs one deployment render: resolve inputs, build the
// render context, write the generated values file and render every value
// file in place.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/cameronsjo/deploy-values/internal/actions"
	"github.com/cameronsjo/deploy-values/internal/config"
	"github.com/cameronsjo/deploy-values/internal/inputs"
	"github.com/cameronsjo/deploy-values/internal/render"
	"github.com/cameronsjo/deploy-values/internal/ui"
)

// Step output names.
const (
	OutputValuesFile = "values-file"
	OutputFiles      = "files"
)

// Report summarizes a successful run.
type Report struct {
	// Event is the triggering event.
	Event *actions.Event
	// ValuesFile is the generated values file.
	ValuesFile string
	// Files lists every rendered file, the values file last.
	Files []render.Result
}

// Changed returns how many files differ from their templates.
func (r *Report) Changed() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}

// Run executes the pipeline against cfg.
func Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	event, err := actions.LoadEvent(cfg.EventName, cfg.EventPath)
	if err != nil {
		return nil, err
	}
	if desc := event.Describe(); desc != "" {
		ui.Info("Rendering for %s", desc)
	}
	deployment := event.Deployment

	files := inputs.FileList(inputs.Resolve(inputs.ValueFilesInput, cfg.Inputs, deployment))
	blob := inputs.Values(inputs.Resolve(inputs.ValuesInput, cfg.Inputs, deployment))
	rc := render.BuildContext(cfg.Inputs, deployment)

	// Secrets must be masked before the context shows up in debug output.
	for _, secret := range rc.SecretStrings() {
		ui.Mask(secret)
	}

	engine, err := render.NewEngine(cfg.OpenTag, cfg.CloseTag)
	if err != nil {
		return nil, err
	}
	renderer := render.NewRenderer(engine, render.Options{
		DryRun:       cfg.DryRun,
		Diff:         cfg.Diff,
		ValidateYAML: cfg.ValidateYAML,
	})

	if err := renderer.WriteValues(cfg.OutputFile, blob); err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(files)+1)
	targets = append(targets, files...)
	targets = append(targets, cfg.OutputFile)

	results, err := renderer.RenderFiles(ctx, targets, rc)
	if err != nil {
		return nil, err
	}

	outputs := actions.NewOutputs(cfg.GitHubOutput)
	if err := outputs.Set(OutputValuesFile, cfg.OutputFile); err != nil {
		return nil, fmt.Errorf("set outputs: %w", err)
	}
	if err := outputs.Set(OutputFiles, strings.Join(targets, "\n")); err != nil {
		return nil, fmt.Errorf("set outputs: %w", err)
	}

	return &Report{Event: event, ValuesFile: cfg.OutputFile, Files: results}, nil
}
