// Package render fills templated value files in place.
//
// Templates use Go template syntax with sprig functions, but with custom
// delimiters (${{ and }} by default) so they do not collide with the CI
// platform's own {{ }} expressions. Top-level context keys are also callable
// without a leading dot:
//
//	image: app:${{ secrets.tag }}
//	env: ${{ .deployment.environment | default "preview" }}
//	${{ if deployment }}deployed: true${{ end }}
//
// A placeholder whose data is missing renders empty, so the same file works
// for triggers that carry no deployment.
package render

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/Masterminds/sprig/v3"
)

// Default template tags.
const (
	DefaultOpenTag  = "${{"
	DefaultCloseTag = "}}"
)

// ErrInvalidTags is returned for empty or identical template tags.
var ErrInvalidTags = errors.New("invalid template tags")

// Engine renders template text against a data map.
type Engine struct {
	openTag  string
	closeTag string
}

// NewEngine creates an Engine with the given tags. Empty tags fall back to
// the defaults.
func NewEngine(openTag, closeTag string) (*Engine, error) {
	if openTag == "" {
		openTag = DefaultOpenTag
	}
	if closeTag == "" {
		closeTag = DefaultCloseTag
	}
	if openTag == closeTag {
		return nil, fmt.Errorf("%w: open and close tag are both %q", ErrInvalidTags, openTag)
	}
	if strings.ContainsAny(openTag+closeTag, " \t\r\n") {
		return nil, fmt.Errorf("%w: tags must not contain whitespace", ErrInvalidTags)
	}
	return &Engine{openTag: openTag, closeTag: closeTag}, nil
}

// Tags returns the open and close tags.
func (e *Engine) Tags() (string, string) {
	return e.openTag, e.closeTag
}

// Render executes text as a template named name against data.
//
// Missing data renders as an empty string rather than failing.
func (e *Engine) Render(name, text string, data map[string]any) (string, error) {
	tree := parse.New(name)
	tree.Mode = parse.SkipFuncCheck
	trees := make(map[string]*parse.Tree)
	if _, err := tree.Parse(text, e.openTag, e.closeTag, trees); err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	funcs := e.funcs(data)
	rw := rewriter{known: func(name string) bool {
		_, ok := funcs[name]
		return ok || builtins[name]
	}}

	tmpl := template.New(name).Funcs(funcs)
	for treeName, t := range trees {
		rw.list(t.Root)
		if _, err := tmpl.AddParseTree(treeName, t); err != nil {
			return "", fmt.Errorf("parse error: %w", err)
		}
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render error: %w", err)
	}
	return out.String(), nil
}

// funcs returns sprig, the lookup helpers and one niladic function per
// top-level key of data, which lets templates write secrets.token for
// .secrets.token.
func (e *Engine) funcs(data map[string]any) template.FuncMap {
	funcs := sprig.TxtFuncMap()
	for key, fn := range helperFuncs() {
		funcs[key] = fn
	}
	for key, value := range data {
		funcs[key] = func() any { return orEmpty(value) }
	}
	return funcs
}
