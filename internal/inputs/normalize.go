package inputs

import (
	"encoding/json"
	"fmt"

	"github.com/cameronsjo/deploy-values/internal/actions"
)

// EmptyValues is written to the generated values file when no values are given.
const EmptyValues = "{}"

// FileList normalizes the value-files input to a list of paths.
//
// Text holding a JSON array is used as the list; any other text, including
// malformed JSON, is a single path. Structured non-array values yield an
// empty list. Falsy entries are dropped.
func FileList(raw Raw) []string {
	var items []any

	switch raw.Kind {
	case KindText:
		var parsed any
		if err := actions.DecodeJSON([]byte(raw.Text), &parsed); err == nil {
			if list, ok := parsed.([]any); ok {
				items = list
				break
			}
		}
		items = []any{raw.Text}
	case KindStructured:
		switch list := raw.Value.(type) {
		case []any:
			items = list
		case []string:
			for _, s := range list {
				items = append(items, s)
			}
		}
	}

	files := make([]string, 0, len(items))
	for _, item := range items {
		if !Truthy(item) {
			continue
		}
		if s, ok := item.(string); ok {
			files = append(files, s)
			continue
		}
		files = append(files, fmt.Sprint(item))
	}
	return files
}

// Secrets normalizes the secrets input. Text that parses as JSON becomes the
// parsed value, otherwise the text itself is used.
func Secrets(raw Raw) any {
	switch raw.Kind {
	case KindText:
		var parsed any
		if err := actions.DecodeJSON([]byte(raw.Text), &parsed); err == nil {
			return parsed
		}
		return raw.Text
	case KindStructured:
		return raw.Value
	default:
		return ""
	}
}

// Values normalizes the values input to the content of the generated values
// file. Text is used verbatim, structured values are serialized as JSON.
func Values(raw Raw) string {
	switch raw.Kind {
	case KindText:
		if raw.Text == "" {
			return EmptyValues
		}
		return raw.Text
	case KindStructured:
		data, err := json.Marshal(raw.Value)
		if err != nil {
			return EmptyValues
		}
		return string(data)
	default:
		return EmptyValues
	}
}
