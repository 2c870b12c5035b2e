// Package prompt renders parameterized instruction templates. A template
// holds a string with {identifier} placeholders, a set of required input
// variables (auto-derived from the placeholders unless supplied explicitly)
// and optional partial bindings that act as defaults at render time.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderRE = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// MissingVariablesError reports every required variable absent from the
// merged variable set at render time, in template-declaration order.
type MissingVariablesError struct {
	Missing []string
}

// Error implements error. The message names all missing variables,
// comma-joined, not just the first.
func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("prompt: missing variables: %s", strings.Join(e.Missing, ", "))
}

// Options configures template construction.
type Options struct {
	// InputVariables overrides placeholder auto-detection when non-nil.
	InputVariables []string

	// Partials are default bindings merged under supplied variables.
	Partials map[string]any
}

// Template is a reusable, stateless prompt template. Construct once, render
// many times.
type Template struct {
	text      string
	inputVars []string
	partials  map[string]any
}

// New constructs a Template. Required variables are scanned from the
// template once, deduplicated in first-occurrence order, unless the caller
// supplies an explicit list via Options.InputVariables.
func New(text string, optFns ...func(o *Options)) *Template {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	inputVars := opts.InputVariables
	if inputVars == nil {
		inputVars = detectVariables(text)
	}

	partials := make(map[string]any, len(opts.Partials))
	for k, v := range opts.Partials {
		partials[k] = v
	}

	return &Template{text: text, inputVars: inputVars, partials: partials}
}

// WithInputVariables returns an option replacing placeholder auto-detection
// with an explicit required-variable list.
func WithInputVariables(names ...string) func(o *Options) {
	return func(o *Options) {
		o.InputVariables = names
	}
}

// WithPartials returns an option supplying default bindings.
func WithPartials(partials map[string]any) func(o *Options) {
	return func(o *Options) {
		o.Partials = partials
	}
}

// Text returns the raw template string.
func (t *Template) Text() string { return t.text }

// InputVariables returns a copy of the required variable names in
// template-declaration order.
func (t *Template) InputVariables() []string {
	vars := make([]string, len(t.inputVars))
	copy(vars, t.inputVars)
	return vars
}

// Render merges partial bindings with the supplied variables (supplied wins),
// validates that every required variable is bound, then substitutes every
// occurrence of each bound {name} placeholder with the stringified value.
// Non-string values render via plain %v stringification.
func (t *Template) Render(vars map[string]any) (string, error) {
	merged := make(map[string]any, len(t.partials)+len(vars))
	for k, v := range t.partials {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}

	var missing []string
	for _, name := range t.inputVars {
		if _, ok := merged[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &MissingVariablesError{Missing: missing}
	}

	out := t.text
	for name, value := range merged {
		out = strings.ReplaceAll(out, "{"+name+"}", fmt.Sprintf("%v", value))
	}

	return out, nil
}

// detectVariables scans the template for {identifier} tokens, preserving
// first-occurrence order and dropping duplicates.
func detectVariables(text string) []string {
	seen := map[string]struct{}{}
	var vars []string
	for _, m := range placeholderRE.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		vars = append(vars, name)
	}
	return vars
}
