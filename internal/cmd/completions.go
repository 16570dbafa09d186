package cmd

import (
	"github.com/spf13/cobra"
)

// completeFileExt returns a completion function that completes files with one of exts.
func completeFileExt(exts ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// registerCompletions registers flag completions once all commands are defined.
func registerCompletions() {
	completions := map[string]func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective){
		"config":     completeFileExt("yml", "yaml"),
		"event-path": completeFileExt("json"),
		"output":     completeFileExt("yml", "yaml"),
	}
	for name, fn := range completions {
		// Already registered on a repeated Execute; completions are optional.
		_ = rootCmd.RegisterFlagCompletionFunc(name, fn)
	}
}

func init() {
	cobra.OnInitialize(registerCompletions)
}
