// Package observer provides ready-made core.Observer implementations:
// structured logging of run lifecycles and Prometheus metrics. The core
// never logs or emits metrics itself; attach these through the run context
// where that behavior is wanted.
package observer
