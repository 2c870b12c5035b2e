// Package core defines the execution contract shared by every processing step
// in email-agent-core: the Action interface, the lifecycle-observing
// entrypoints (Invoke, Stream, Batch), the flattening Pipeline composition and
// the role-based Message model consumed by backend adapters.
//
// Concrete actions implement Run (and optionally Streamer for incremental
// output); callers go through the package-level entrypoints, which wrap the
// transform with observer notification and uniform error propagation. Actions
// are stateless by default and safe for concurrent invocation.
package core
