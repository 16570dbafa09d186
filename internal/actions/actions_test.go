package actions

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestInputEnvKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"secrets", "INPUT_SECRETS"},
		{"value-files", "INPUT_VALUE-FILES"},
		{"open tag", "INPUT_OPEN_TAG"},
		{"valueFiles", "INPUT_VALUEFILES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InputEnvKey(tt.name))
		})
	}
}

func TestInputName(t *testing.T) {
	assert.Equal(t, "value-files", InputName("value_files"))
	assert.Equal(t, "secrets", InputName("secrets"))
	assert.Equal(t, "valueFiles", InputName("valueFiles"))
}

func TestEnvSource_Lookup(t *testing.T) {
	src := NewEnvSource(fakeEnv(map[string]string{
		"INPUT_SECRETS":     "  {\"a\":1}\n",
		"INPUT_VALUE-FILES": "",
	}))

	t.Run("trims value", func(t *testing.T) {
		v, ok := src.Lookup("secrets")
		assert.True(t, ok)
		assert.Equal(t, `{"a":1}`, v)
	})

	t.Run("empty but supplied", func(t *testing.T) {
		v, ok := src.Lookup("value-files")
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := src.Lookup("values")
		assert.False(t, ok)
	})
}

func TestChain_Lookup(t *testing.T) {
	chain := Chain{
		MapSource{"secrets": "from-env"},
		nil,
		MapSource{"secrets": "from-file", "values": "a: 1"},
	}

	v, ok := chain.Lookup("secrets")
	assert.True(t, ok)
	assert.Equal(t, "from-env", v)

	v, ok = chain.Lookup("values")
	assert.True(t, ok)
	assert.Equal(t, "a: 1", v)

	_, ok = chain.Lookup("value-files")
	assert.False(t, ok)
}

func TestLoadEvent(t *testing.T) {
	t.Run("no payload path", func(t *testing.T) {
		event, err := LoadEvent("workflow_dispatch", "")
		require.NoError(t, err)
		assert.Equal(t, "workflow_dispatch", event.Name)
		assert.Nil(t, event.Deployment)
		assert.Empty(t, event.Describe())
	})

	t.Run("deployment event", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.json")
		payload := `{
			"action": "created",
			"deployment": {
				"id": 1234567890123,
				"sha": "0123456789abcdef",
				"ref": "main",
				"task": "deploy",
				"environment": "staging",
				"payload": {"values": "replicas: 2"}
			}
		}`
		require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

		event, err := LoadEvent("deployment", path)
		require.NoError(t, err)
		require.NotNil(t, event.Deployment)

		assert.Equal(t, "staging", event.Deployment["environment"])
		assert.Equal(t, json.Number("1234567890123"), event.Deployment["id"])
		assert.Equal(t, map[string]any{"values": "replicas: 2"}, event.Deployment["payload"])
		assert.Equal(t, "deployment 1234567890123 of main (0123456) to staging, task deploy", event.Describe())
	})

	t.Run("event without deployment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"ref":"refs/heads/main"}`), 0644))

		event, err := LoadEvent("push", path)
		require.NoError(t, err)
		assert.Nil(t, event.Deployment)
		assert.Nil(t, event.Summary)
	})

	t.Run("deployment the typed view cannot decode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.json")
		payload := `{"deployment":{"id":"not-a-number","environment":"staging"}}`
		require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

		event, err := LoadEvent("deployment", path)
		require.NoError(t, err)
		assert.Equal(t, "staging", event.Deployment["environment"])
		assert.Nil(t, event.Summary)
		assert.Empty(t, event.Describe())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadEvent("deployment", filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed payload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"deployment":`), 0644))

		_, err := LoadEvent("deployment", path)
		assert.Error(t, err)
	})
}

func TestDecodeJSON(t *testing.T) {
	var v any
	require.NoError(t, DecodeJSON([]byte(`{"port": 8080}`), &v))
	assert.Equal(t, map[string]any{"port": json.Number("8080")}, v)

	assert.Error(t, DecodeJSON([]byte(`{"a":1} trailing`), &v))
	assert.Error(t, DecodeJSON([]byte(`not json`), &v))
}

func TestOutputs_Set(t *testing.T) {
	t.Run("writes heredoc block", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "github_output")
		out := NewOutputs(path)
		out.newDelimiter = func() string { return "EOF_TEST" }

		require.NoError(t, out.Set("values-file", "./values.yml"))
		require.NoError(t, out.Set("files", "a.yml\nb.yml"))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t,
			"values-file<<EOF_TEST\n./values.yml\nEOF_TEST\n"+
				"files<<EOF_TEST\na.yml\nb.yml\nEOF_TEST\n",
			string(got))
	})

	t.Run("uses random delimiter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "github_output")
		require.NoError(t, NewOutputs(path).Set("files", "a.yml"))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(got), "files<<ghadelimiter_")
	})

	t.Run("rejects value containing delimiter", func(t *testing.T) {
		out := NewOutputs(filepath.Join(t.TempDir(), "github_output"))
		out.newDelimiter = func() string { return "EOF_TEST" }

		assert.Error(t, out.Set("files", "EOF_TEST"))
	})

	t.Run("appends across calls", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "github_output")
		require.NoError(t, os.WriteFile(path, []byte("existing=1\n"), 0644))

		out := NewOutputs(path)
		out.newDelimiter = func() string { return "EOF_TEST" }
		for i := 0; i < 3; i++ {
			require.NoError(t, out.Set("files", "a.yml"))
		}

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "existing=1\n"+strings.Repeat("files<<EOF_TEST\na.yml\nEOF_TEST\n", 3), string(got))
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := NewOutputs(t.TempDir()).Set("files", "a.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open output file")
	})

	t.Run("no path discards", func(t *testing.T) {
		assert.NoError(t, NewOutputs("").Set("files", "a.yml"))
	})
}
