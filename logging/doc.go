// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer AgentLogger with contextual
// helpers (component, run) and domain specific logging helpers for model
// calls, action runs and pipelines.
package logging
