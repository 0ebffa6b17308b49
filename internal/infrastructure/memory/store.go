package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-otc-auth/internal/domain"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Store is an in-process TTL namespace for development and tests.
// Expired entries are invisible to reads and dropped lazily.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewStore creates an empty store. A nil clock means time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{entries: make(map[string]entry), now: now}
}

func (s *Store) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", domain.ErrBadRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("key not found: %w", domain.ErrNotFound)
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", fmt.Errorf("key expired: %w", domain.ErrNotFound)
	}
	return e.value, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	keys := make([]string, 0, len(s.entries))
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}
