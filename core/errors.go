package core

import "errors"

var (
	// ErrNilAction is returned when an entrypoint is handed a nil Action.
	// This is a programmer error, not a runtime condition.
	ErrNilAction = errors.New("core: nil action")

	// ErrEmptyPipeline is returned when a pipeline is constructed without
	// at least one step.
	ErrEmptyPipeline = errors.New("core: pipeline requires at least one action")
)
