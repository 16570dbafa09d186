// Package ui provides console output for the action.
//
// On GitHub Actions runners (GITHUB_ACTIONS=true) messages are emitted as
// workflow commands so the runner can annotate, group and mask them. Anywhere
// else they are printed as colored lines.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// Colors
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Blue   = color.New(color.FgBlue)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Faint  = color.New(color.Faint)
)

var (
	// Actions switches output to workflow commands.
	Actions = os.Getenv("GITHUB_ACTIONS") == "true"

	// Verbose enables Debug output outside of Actions. On a runner debug
	// lines are always sent and the runner decides whether to show them.
	Verbose = os.Getenv("RUNNER_DEBUG") == "1"
)

// Success prints a green success message with checkmark.
func Success(format string, args ...any) {
	Green.Fprintf(color.Output, "✓ "+format+"\n", args...)
}

// Error prints an error message. On a runner it becomes an error annotation.
func Error(format string, args ...any) {
	if Actions {
		command("error", fmt.Sprintf(format, args...))
		return
	}
	Red.Fprintf(color.Output, "✗ "+format+"\n", args...)
}

// Warning prints a yellow warning message.
func Warning(format string, args ...any) {
	if Actions {
		command("warning", fmt.Sprintf(format, args...))
		return
	}
	Yellow.Fprintf(color.Output, "⚠ "+format+"\n", args...)
}

// Notice prints an informational annotation.
func Notice(format string, args ...any) {
	if Actions {
		command("notice", fmt.Sprintf(format, args...))
		return
	}
	Cyan.Fprintf(color.Output, format+"\n", args...)
}

// Info prints a blue info message.
func Info(format string, args ...any) {
	Blue.Fprintf(color.Output, format+"\n", args...)
}

// Debug prints a diagnostic message.
func Debug(format string, args ...any) {
	if Actions {
		command("debug", fmt.Sprintf(format, args...))
		return
	}
	if Verbose {
		Faint.Fprintf(color.Output, "· "+format+"\n", args...)
	}
}

// Header prints a bold header.
func Header(format string, args ...any) {
	Bold.Fprintf(color.Output, format+"\n", args...)
}

// Group starts a collapsible log group. Close it with EndGroup.
func Group(format string, args ...any) {
	if Actions {
		command("group", fmt.Sprintf(format, args...))
		return
	}
	Header(format, args...)
}

// EndGroup closes the group opened by Group.
func EndGroup() {
	if Actions {
		command("endgroup", "")
	}
}

// Mask registers a value the runner must redact from every later log line.
// Outside of Actions it is a no-op.
func Mask(value string) {
	if !Actions || value == "" {
		return
	}
	for _, line := range strings.Split(value, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			command("add-mask", line)
		}
	}
}

// Fatal prints an error to stderr and exits.
func Fatal(format string, args ...any) {
	if Actions {
		fmt.Fprintf(os.Stderr, "::error::%s\n", EscapeData(fmt.Sprintf(format, args...)))
	} else {
		Red.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
	}
	os.Exit(1)
}

// command writes a workflow command line.
func command(name, message string) {
	fmt.Fprintf(color.Output, "::%s::%s\n", name, EscapeData(message))
}

// EscapeData escapes a workflow command payload so multi-line messages stay
// on a single command line.
func EscapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
