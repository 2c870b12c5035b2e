// Package model defines the backend adapter contract an execution unit
// delegates text generation to, the normalized Request/Response structures
// and the generation configuration. Concrete adapters for hosted providers
// live in the openai and anthropic subpackages; Mock provides a canned
// in-memory model for tests and examples.
package model
