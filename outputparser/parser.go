// Package outputparser converts raw model output into structured or cleaned
// data. The JSON parser applies a two-phase best-effort recovery (extraction
// then textual repair) before structural parsing, so near-valid model output
// still parses; the Text parser trims and strips code fences.
package outputparser

import "fmt"

// Parser turns raw generated text into a usable value.
type Parser interface {
	// Parse converts raw backend text into the parser's output value.
	Parse(text string) (any, error)

	// FormatInstructions returns a prompt fragment describing the output
	// shape this parser expects, suitable for embedding into instructions.
	FormatInstructions() string
}

// ParseError reports a structured-output parse failure. It always carries
// the original raw text and the underlying cause so no diagnostic
// information is lost on the way up.
type ParseError struct {
	// Raw is the unmodified backend text that failed to parse.
	Raw string

	// Cause is the underlying structural or schema error.
	Cause error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("outputparser: %v (raw output: %q)", e.Cause, e.Raw)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ParseError) Unwrap() error { return e.Cause }
