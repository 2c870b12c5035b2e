package outputparser

import (
	"regexp"
	"strings"
)

var textFenceRE = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\\n?(.*?)```")

// TextOptions configures the Text parser.
type TextOptions struct {
	// KeepFences disables code-fence stripping so fenced blocks pass
	// through untouched.
	KeepFences bool
}

// Text cleans raw model output into a plain string: surrounding whitespace
// is trimmed and, unless disabled, fenced code blocks are unwrapped in
// place (fences removed, inner content kept), however many occur.
type Text struct {
	keepFences bool
}

var _ Parser = (*Text)(nil)

// NewText constructs a Text parser.
func NewText(optFns ...func(o *TextOptions)) *Text {
	opts := TextOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Text{keepFences: opts.KeepFences}
}

// WithKeepFences returns an option disabling fence stripping.
func WithKeepFences() func(o *TextOptions) {
	return func(o *TextOptions) {
		o.KeepFences = true
	}
}

// Parse returns the cleaned text. It never fails.
func (p *Text) Parse(text string) (any, error) {
	return p.ParseText(text), nil
}

// ParseText is the string-typed convenience form of Parse.
func (p *Text) ParseText(text string) string {
	if !p.keepFences {
		text = textFenceRE.ReplaceAllStringFunc(text, func(block string) string {
			inner := textFenceRE.FindStringSubmatch(block)[1]
			return strings.TrimSpace(inner)
		})
	}
	return strings.TrimSpace(text)
}

// FormatInstructions implements Parser.
func (p *Text) FormatInstructions() string {
	return "Respond in plain text without code fences."
}
