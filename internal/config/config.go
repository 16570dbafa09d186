// Package config gathers the run configuration from flags, the runner
// environment and an optional config file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/deploy-values/internal/actions"
)

// DefaultOutputFile is the generated values file, rendered with the others.
const DefaultOutputFile = "./values.yml"

// ErrInvalidConfig indicates a malformed config file.
var ErrInvalidConfig = errors.New("invalid config file")

// Config holds everything a run needs.
type Config struct {
	// Inputs resolves step inputs: runner environment first, then the
	// config file.
	Inputs actions.Source

	// EventName is the triggering event, e.g. "deployment".
	EventName string

	// EventPath is the event payload file. Empty when not on a runner.
	EventPath string

	// OutputFile is the generated values file.
	OutputFile string

	// OpenTag and CloseTag delimit template placeholders. Empty means default.
	OpenTag  string
	CloseTag string

	// GitHubOutput is the step output file. Empty discards outputs.
	GitHubOutput string

	DryRun       bool
	Diff         bool
	ValidateYAML bool
}

// Options are the command-line settings Load starts from.
type Options struct {
	ConfigFile string
	EnvFile    string
	EventPath  string
	OutputFile string

	DryRun       bool
	Diff         bool
	ValidateYAML bool

	// Lookup reads the environment. Nil means the process environment.
	Lookup actions.LookupFunc
}

// File is the config file layout:
//
//	inputs:
//	  value_files: [./.github/config/pr.yml]
//	  secrets: {token: abc}
//	  values: |
//	    replicas: 2
type File struct {
	Inputs map[string]any `yaml:"inputs"`
}

// Load builds a Config. Flags win over input variables, which win over the
// config file.
func Load(opts Options) (*Config, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if opts.EnvFile != "" {
		vars, err := godotenv.Read(opts.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("read env file: %w", err)
		}
		lookup = withFallback(lookup, vars)
	}

	sources := actions.Chain{actions.NewEnvSource(lookup)}
	if opts.ConfigFile != "" {
		fileInputs, err := LoadFile(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fileInputs)
	}

	cfg := &Config{
		Inputs:       sources,
		EventName:    env(lookup, "GITHUB_EVENT_NAME"),
		EventPath:    firstNonEmpty(opts.EventPath, env(lookup, "GITHUB_EVENT_PATH")),
		OutputFile:   firstNonEmpty(opts.OutputFile, DefaultOutputFile),
		GitHubOutput: env(lookup, "GITHUB_OUTPUT"),
		DryRun:       opts.DryRun,
		Diff:         opts.Diff,
		ValidateYAML: opts.ValidateYAML,
	}

	cfg.OpenTag, _ = sources.Lookup("open-tag")
	cfg.CloseTag, _ = sources.Lookup("close-tag")

	for name, flag := range map[string]*bool{
		"dry-run":       &cfg.DryRun,
		"diff":          &cfg.Diff,
		"validate-yaml": &cfg.ValidateYAML,
	} {
		if *flag {
			continue
		}
		value, err := boolInput(sources, name)
		if err != nil {
			return nil, err
		}
		*flag = value
	}

	return cfg, nil
}

// LoadFile reads the inputs section of a config file. Keys may use
// underscores or hyphens; list and map values are stored as JSON text, the
// same form the runner would pass them in.
func LoadFile(path string) (actions.MapSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	src := make(actions.MapSource, len(file.Inputs))
	for key, value := range file.Inputs {
		text, err := inputText(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: input %q: %v", ErrInvalidConfig, path, key, err)
		}
		src[actions.InputName(key)] = text
	}
	return src, nil
}

// inputText renders a config value the way a runner input would carry it.
func inputText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool, int, int64, float64:
		return fmt.Sprint(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// boolInput parses a boolean input using the YAML 1.2 core schema words the
// runner accepts.
func boolInput(src actions.Source, name string) (bool, error) {
	value, ok := src.Lookup(name)
	if !ok || value == "" {
		return false, nil
	}
	switch value {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("input %q: %q is not a boolean (use true or false)", name, value)
}

func withFallback(lookup actions.LookupFunc, vars map[string]string) actions.LookupFunc {
	return func(key string) (string, bool) {
		if value, ok := lookup(key); ok {
			return value, true
		}
		value, ok := vars[key]
		return value, ok
	}
}

func env(lookup actions.LookupFunc, key string) string {
	value, _ := lookup(key)
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
