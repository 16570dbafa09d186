package render

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/deploy-values/internal/fileutil"
	"github.com/cameronsjo/deploy-values/internal/ui"
)

// Options tune how files are rendered.
type Options struct {
	// DryRun renders without writing anything back.
	DryRun bool
	// Diff logs a unified diff of every file that changes.
	Diff bool
	// ValidateYAML fails a file whose rendered output is not valid YAML.
	ValidateYAML bool
}

// Result describes one rendered file.
type Result struct {
	Path    string
	Changed bool
}

// Renderer renders value files in place.
type Renderer struct {
	engine *Engine
	opts   Options

	// staged holds content written during a dry run, keyed by path.
	staged map[string]string
}

// NewRenderer creates a Renderer.
func NewRenderer(engine *Engine, opts Options) *Renderer {
	return &Renderer{engine: engine, opts: opts, staged: make(map[string]string)}
}

// WriteValues writes the generated values blob to path.
// It must complete before path is rendered. In a dry run the blob is only
// staged in memory.
func (r *Renderer) WriteValues(path, blob string) error {
	if r.opts.DryRun {
		r.staged[path] = blob
		return nil
	}
	if err := fileutil.WriteFile(path, []byte(blob)); err != nil {
		return fmt.Errorf("write values file %s: %w", path, err)
	}
	return nil
}

// RenderFiles renders every path against rc and overwrites it in place.
//
// Files are rendered concurrently. The first failure is returned once every
// task has finished; files rendered before it stay rendered. A failure does
// not stop the other tasks; only cancelling ctx keeps unstarted ones from
// touching their files.
func (r *Renderer) RenderFiles(ctx context.Context, paths []string, rc Context) ([]Result, error) {
	ui.Debug("rendering value files [%s] with: %s", strings.Join(paths, ","), rc)

	data := rc.Data()
	results := make([]Result, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed, err := r.renderFile(path, data)
			if err != nil {
				return err
			}
			results[i] = Result{Path: path, Changed: changed}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// renderFile reads, renders and writes back a single file.
func (r *Renderer) renderFile(path string, data map[string]any) (bool, error) {
	content, ok := r.staged[path]
	if !ok {
		var err error
		if content, err = fileutil.ReadText(path); err != nil {
			return false, fmt.Errorf("read %s: %w", path, err)
		}
	}

	rendered, err := r.engine.Render(path, content, data)
	if err != nil {
		return false, fmt.Errorf("render %s: %w", path, err)
	}

	if r.opts.ValidateYAML {
		var doc any
		if err := yaml.Unmarshal([]byte(rendered), &doc); err != nil {
			return false, fmt.Errorf("render %s: output is not valid YAML: %w", path, err)
		}
	}

	changed := rendered != content
	if r.opts.Diff && changed {
		ui.Info("%s", UnifiedDiff(path, content, rendered))
	}
	if r.opts.DryRun {
		return changed, nil
	}

	if err := fileutil.WriteFile(path, []byte(rendered)); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return changed, nil
}
