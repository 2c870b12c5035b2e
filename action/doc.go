// Package action provides the concrete execution units built on the core
// contract: LLM binds a prompt template, a backend model and an output
// parser into a single step; Func wraps a plain function; Retry and
// RateLimit are decorator units that add cross-cutting behavior by wrapping
// an inner action rather than modifying it.
package action
