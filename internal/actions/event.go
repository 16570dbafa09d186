package actions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/go-github/v68/github"

	"github.com/cameronsjo/deploy-values/internal/ui"
)

// Event is the payload of the workflow run's triggering event.
type Event struct {
	// Name is the event name (GITHUB_EVENT_NAME), e.g. "deployment".
	Name string

	// Deployment is the event's "deployment" object exactly as delivered,
	// or nil when the event carries none.
	Deployment map[string]any

	// Summary is a typed view of the same deployment for logging.
	// Nil when the event carries no deployment.
	Summary *github.Deployment
}

// LoadEvent reads the event payload at path.
// An empty path yields an empty event: not every run has a payload file.
func LoadEvent(name, path string) (*Event, error) {
	event := &Event{Name: name}
	if path == "" {
		return event, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event payload: %w", err)
	}
	if err := event.decode(data); err != nil {
		return nil, fmt.Errorf("parse event payload %s: %w", path, err)
	}
	return event, nil
}

func (e *Event) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var raw struct {
		Deployment map[string]any `json:"deployment"`
	}
	if err := DecodeJSON(data, &raw); err != nil {
		return err
	}
	if raw.Deployment == nil {
		return nil
	}
	e.Deployment = raw.Deployment

	// deployment and deployment_status events share the "deployment" key.
	// The typed view only feeds Describe, so a shape it cannot decode is not
	// fatal.
	var typed github.DeploymentEvent
	if err := json.Unmarshal(data, &typed); err != nil {
		ui.Warning("Could not summarize deployment: %v", err)
		return nil
	}
	e.Summary = typed.GetDeployment()
	return nil
}

// Describe returns a one-line description of the deployment, or "" if the
// event has none.
func (e *Event) Describe() string {
	if e == nil || e.Summary == nil {
		return ""
	}
	d := e.Summary
	sha := d.GetSHA()
	if len(sha) > 7 {
		sha = sha[:7]
	}
	return fmt.Sprintf("deployment %d of %s (%s) to %s, task %s",
		d.GetID(), d.GetRef(), sha, d.GetEnvironment(), d.GetTask())
}

// DecodeJSON decodes data into v keeping numbers as json.Number, so values
// such as ports and IDs render with their original digits.
func DecodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
