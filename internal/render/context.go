package render

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/cameronsjo/deploy-values/internal/actions"
	"github.com/cameronsjo/deploy-values/internal/inputs"
)

// Context is the data every template is rendered against.
type Context struct {
	Secrets    any            `json:"secrets"`
	Deployment map[string]any `json:"deployment,omitempty"`
}

// BuildContext assembles the render context from the resolved secrets input
// and the triggering event's deployment, which is passed through untouched.
func BuildContext(src actions.Source, deployment map[string]any) Context {
	raw := inputs.Resolve(inputs.SecretsInput, src, deployment)
	return Context{
		Secrets:    inputs.Secrets(raw),
		Deployment: deployment,
	}
}

// Data returns the context as template data. An absent deployment is nil,
// not an empty map, so it renders empty and tests false.
func (c Context) Data() map[string]any {
	var deployment any
	if c.Deployment != nil {
		deployment = c.Deployment
	}
	return map[string]any{
		"secrets":    c.Secrets,
		"deployment": deployment,
	}
}

// String serializes the context for diagnostics.
func (c Context) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "<unserializable context>"
	}
	return string(data)
}

// SecretStrings returns every string and number leaf of the secrets, sorted,
// so they can be masked before the context is logged. Booleans are left out:
// masking "true" would blank every true in the log.
func (c Context) SecretStrings() []string {
	seen := make(map[string]bool)
	collectStrings(c.Secrets, seen)

	result := make([]string, 0, len(seen))
	for s := range seen {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

func collectStrings(value any, seen map[string]bool) {
	switch v := value.(type) {
	case string:
		if v != "" {
			seen[v] = true
		}
	case json.Number:
		seen[v.String()] = true
	case float64:
		seen[strconv.FormatFloat(v, 'f', -1, 64)] = true
	case int:
		seen[strconv.Itoa(v)] = true
	case int64:
		seen[strconv.FormatInt(v, 10)] = true
	case map[string]any:
		for _, item := range v {
			collectStrings(item, seen)
		}
	case []any:
		for _, item := range v {
			collectStrings(item, seen)
		}
	}
}
