package actions

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Outputs appends step outputs to the runner's GITHUB_OUTPUT file.
type Outputs struct {
	path string

	// newDelimiter is swapped in tests.
	newDelimiter func() string
}

// NewOutputs creates Outputs writing to path. An empty path discards outputs,
// which is what happens when running outside a runner.
func NewOutputs(path string) *Outputs {
	return &Outputs{
		path: path,
		newDelimiter: func() string {
			return "ghadelimiter_" + uuid.NewString()
		},
	}
}

// Set records a single output. Multi-line values use the heredoc form with a
// random delimiter so no value can terminate the block early.
func (o *Outputs) Set(name, value string) error {
	if o == nil || o.path == "" {
		return nil
	}

	delimiter := o.newDelimiter()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("output %q: value contains delimiter %s", name, delimiter)
	}

	f, err := os.OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}

	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}
