// Package store persists accepted contact messages. The in-memory
// implementation is the single-process default; swapping in a durable or
// shared store is the extension point for multi-instance deployments.
package store

import (
	"context"
	"sync"

	"formgate/internal/contact/models"
	dErrors "formgate/pkg/domain-errors"
)

// ErrNotFound is returned when a requested record is not found in the store.
var ErrNotFound = dErrors.New(dErrors.CodePersistenceFailure, "message not found")

// InMemoryMessageStore keeps accepted messages in a mutex-guarded map.
// It intentionally favors clarity over performance.
type InMemoryMessageStore struct {
	mu       sync.RWMutex
	messages map[string]*models.Message
}

// NewInMemoryMessageStore creates an empty message store.
func NewInMemoryMessageStore() *InMemoryMessageStore {
	return &InMemoryMessageStore{
		messages: make(map[string]*models.Message),
	}
}

// Create stores a message keyed by its ID.
func (s *InMemoryMessageStore) Create(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.ID] = msg
	return nil
}

// FindByID returns the stored message with the given ID.
func (s *InMemoryMessageStore) FindByID(_ context.Context, id string) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if msg, ok := s.messages[id]; ok {
		return msg, nil
	}
	return nil, ErrNotFound
}

// Count reports the number of stored messages.
func (s *InMemoryMessageStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
