package outputparser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Kind names the expected JSON kind of a schema field.
type Kind string

const (
	// KindString expects a JSON string.
	KindString Kind = "string"
	// KindNumber expects a JSON number.
	KindNumber Kind = "number"
	// KindBoolean expects a JSON boolean.
	KindBoolean Kind = "boolean"
	// KindObject expects a JSON object.
	KindObject Kind = "object"
	// KindArray expects a JSON array.
	KindArray Kind = "array"
)

var (
	fenceRE  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	objectRE = regexp.MustCompile(`(?s)\{.*\}`)
	arrayRE  = regexp.MustCompile(`(?s)\[.*\]`)
)

// JSONOptions configures the JSON parser.
type JSONOptions struct {
	// Schema maps required field names to their expected kinds. Every
	// schema field must be present in the parsed object with a matching
	// kind, otherwise parsing fails naming the offending field.
	Schema map[string]Kind
}

// JSON parses model output into a JSON value, tolerating the malformations
// models commonly produce: surrounding prose, code fences, trailing commas
// and unbalanced braces. Empty or all-whitespace input parses to an empty
// object rather than failing.
type JSON struct {
	schema map[string]Kind
}

var _ Parser = (*JSON)(nil)

// NewJSON constructs a JSON parser.
func NewJSON(optFns ...func(o *JSONOptions)) *JSON {
	opts := JSONOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	schema := make(map[string]Kind, len(opts.Schema))
	for k, v := range opts.Schema {
		schema[k] = v
	}

	return &JSON{schema: schema}
}

// WithSchema returns an option setting the expected field schema.
func WithSchema(schema map[string]Kind) func(o *JSONOptions) {
	return func(o *JSONOptions) {
		o.Schema = schema
	}
}

// Parse extracts, repairs and structurally parses the raw text, then
// validates it against the schema when one is configured. Input that is
// already valid JSON is parsed as-is; extraction and repair never touch it.
// Failures carry the original raw text and the underlying cause.
func (p *JSON) Parse(text string) (any, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return p.validate(map[string]any{}, text)
	}

	candidate := trimmed
	if !json.Valid([]byte(trimmed)) {
		candidate = repair(extract(trimmed))
	}

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, &ParseError{Raw: text, Cause: err}
	}

	return p.validate(value, text)
}

// FormatInstructions describes the expected output shape. With a schema the
// fields and kinds are enumerated so the instruction can be embedded into a
// prompt.
func (p *JSON) FormatInstructions() string {
	if len(p.schema) == 0 {
		return "Respond with a single valid JSON value and nothing else."
	}

	fields := make([]string, 0, len(p.schema))
	for name := range p.schema {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("Respond with a JSON object containing exactly these fields:\n")
	for _, name := range fields {
		fmt.Fprintf(&b, "- %q (%s)\n", name, p.schema[name])
	}
	b.WriteString("Do not include any text outside the JSON object.")
	return b.String()
}

// extract locates the most plausible JSON payload inside raw model text.
// The input is already whitespace-trimmed and known not to parse as-is.
func extract(trimmed string) string {
	if m := fenceRE.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := objectRE.FindString(trimmed); m != "" {
		return m
	}

	if m := arrayRE.FindString(trimmed); m != "" {
		return m
	}

	// Truncated payload with no closer at all; repair appends the deficit.
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return trimmed
	}

	// Bare key: value pairs without enclosing braces.
	if strings.Contains(trimmed, ":") {
		return "{" + trimmed + "}"
	}

	return "{}"
}

// repair applies purely textual fixes: trailing commas before a closer are
// dropped and unbalanced opening braces/brackets are closed at the end.
// String contents (including escaped quotes) are skipped, but nesting is not
// tracked, so deeply malformed input can repair into structurally wrong but
// syntactically valid JSON; the goal is recovery of near-valid output, not a
// general JSON fixer.
func repair(s string) string {
	var (
		b        strings.Builder
		inString bool
		escaped  bool
		braces   int
		brackets int
	)
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			brackets++
		case ']':
			brackets--
		case ',':
			if closerFollows(s, i+1) {
				continue
			}
		}
		b.WriteByte(c)
	}

	for ; braces > 0; braces-- {
		b.WriteByte('}')
	}
	for ; brackets > 0; brackets-- {
		b.WriteByte(']')
	}

	return b.String()
}

// closerFollows reports whether the next non-whitespace byte is a closing
// brace or bracket.
func closerFollows(s string, i int) bool {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		case '}', ']':
			return true
		default:
			return false
		}
	}
	return false
}

func (p *JSON) validate(value any, raw string) (any, error) {
	if len(p.schema) == 0 {
		return value, nil
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &ParseError{Raw: raw, Cause: fmt.Errorf("schema validation requires a JSON object, got %s", kindOf(value))}
	}

	fields := make([]string, 0, len(p.schema))
	for name := range p.schema {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	for _, name := range fields {
		want := p.schema[name]
		val, present := obj[name]
		if !present {
			return nil, &ParseError{Raw: raw, Cause: fmt.Errorf("missing required field %q", name)}
		}
		if got := kindOf(val); got != want {
			return nil, &ParseError{Raw: raw, Cause: fmt.Errorf("field %q: expected kind %s, got %s", name, want, got)}
		}
	}

	return value, nil
}

// kindOf reports the JSON kind of an unmarshaled value. Arrays report kind
// array even though they are object-typed in some representations.
func kindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case float64:
		return KindNumber
	case bool:
		return KindBoolean
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return Kind("null")
	}
}
