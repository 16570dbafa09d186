package inputs

import (
	"github.com/cameronsjo/deploy-values/internal/actions"
)

// Input names a recognized step input.
type Input struct {
	// Name is the canonical key, as used in deployment payloads.
	Name string
	// Aliases are alternative payload keys, checked after Name.
	Aliases []string
}

// Recognized inputs.
var (
	ValueFilesInput = Input{Name: "value_files", Aliases: []string{"valueFiles"}}
	SecretsInput    = Input{Name: "secrets"}
	ValuesInput     = Input{Name: "values"}
)

func (in Input) keys() []string {
	return append([]string{in.Name}, in.Aliases...)
}

// Resolve returns the effective value of an input.
//
// Precedence, lowest to highest:
//
//  1. the step input, looked up under its hyphenated name (value-files)
//  2. the deployment's top-level field
//  3. the deployment's payload field
//
// Only truthy fields override; see Truthy.
func Resolve(in Input, src actions.Source, deployment map[string]any) Raw {
	raw := Absent()
	if src != nil {
		for _, key := range in.keys() {
			if value, ok := src.Lookup(actions.InputName(key)); ok {
				raw = Text(value)
				break
			}
		}
	}

	if deployment == nil {
		return raw
	}
	if v, ok := lookupTruthy(deployment, in.keys()); ok {
		raw = FromValue(v)
	}
	if v, ok := lookupTruthy(Payload(deployment), in.keys()); ok {
		raw = FromValue(v)
	}
	return raw
}

// Payload returns the deployment's nested payload object. GitHub delivers it
// either as an object or as a JSON-encoded string; strings that do not decode
// to an object yield nil.
func Payload(deployment map[string]any) map[string]any {
	switch p := deployment["payload"].(type) {
	case map[string]any:
		return p
	case string:
		var decoded map[string]any
		if err := actions.DecodeJSON([]byte(p), &decoded); err == nil {
			return decoded
		}
	}
	return nil
}

func lookupTruthy(fields map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if v := fields[key]; Truthy(v) {
			return v, true
		}
	}
	return nil, false
}
