package history

import (
	"sync"

	"github.com/pguso/email-agent-core/core"
)

// InMemoryStore is a process-local Store. Suitable for tests, examples and
// single-process assistants; swap for a persistent implementation when
// conversations must survive restarts.
//
// Concurrency: protected by RWMutex. Returned slices are copies, so callers
// cannot mutate recorded history.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]core.Message
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string][]core.Message),
	}
}

// Messages implements Store.
func (s *InMemoryStore) Messages(sessionID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.sessions[sessionID]
	out := make([]core.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Append implements Store.
func (s *InMemoryStore) Append(sessionID string, msgs ...core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = append(s.sessions[sessionID], msgs...)
	return nil
}

// Clear implements Store.
func (s *InMemoryStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}
