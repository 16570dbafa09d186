package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/pflag"
)

// resetRootCmd resets the root command state for test isolation.
// This must be called at the beginning of each test to ensure
// cobra command state doesn't leak between tests.
func resetRootCmd(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	// Reset args to empty slice (not nil, which would use os.Args)
	rootCmd.SetArgs([]string{})
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetContext(context.TODO())
	// Flag values are bound to package variables and survive between runs.
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	rootCmd.Flags().VisitAll(reset)
	validateCmd.Flags().VisitAll(reset)
	return buf
}

// executeCmd executes the root command with the given args and returns the output.
// This handles proper state reset between test executions.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := resetRootCmd(t)
	// Important: Set args BEFORE executing
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
