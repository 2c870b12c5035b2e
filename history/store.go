// Package history persists conversation messages between model calls so an
// LLM action can carry a running dialogue across invocations. Stores are
// keyed by an opaque session identifier chosen by the caller.
package history

import (
	"errors"

	"github.com/pguso/email-agent-core/core"
)

// ErrSessionNotFound is returned when an operation targets a session with no
// recorded messages.
var ErrSessionNotFound = errors.New("history: session not found")

// Store persists per-session conversation history. Implementations must be
// safe for concurrent use.
type Store interface {
	// Messages returns the session's recorded messages in append order. An
	// unknown session yields an empty slice, not an error.
	Messages(sessionID string) ([]core.Message, error)

	// Append records messages at the end of the session's history, creating
	// the session on first write.
	Append(sessionID string, msgs ...core.Message) error

	// Clear drops all recorded messages for the session.
	Clear(sessionID string) error
}
