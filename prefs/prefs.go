// Package prefs keeps small per-user values that the client would have held
// on the device, such as the logged-in display name.
package prefs

import (
	"context"
	"sync"
)

// Store is a per-user key-value store
type Store interface {
	SetDisplayName(ctx context.Context, userID, name string) error
	// DisplayName returns "" when nothing was stored
	DisplayName(ctx context.Context, userID string) (string, error)
	Clear(ctx context.Context, userID string) error
	Close() error
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{names: map[string]string{}}
}

func (s *MemoryStore) SetDisplayName(_ context.Context, userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[userID] = name
	return nil
}

func (s *MemoryStore) DisplayName(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names[userID], nil
}

func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.names, userID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
