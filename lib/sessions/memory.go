package sessions

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a single-process Store used when REDIS_URL is not configured
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
}

// get must be called with mu held
func (s *MemoryStore) get(key string) (string, bool) {
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return e.value, true
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.set(revokedPrefix+tokenID, "1", ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.get(revokedPrefix + tokenID)
	return ok, nil
}

func (s *MemoryStore) SaveResetToken(_ context.Context, token, userID string, ttl time.Duration) error {
	s.set(resetPrefix+token, userID, ttl)
	return nil
}

func (s *MemoryStore) ConsumeResetToken(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.get(resetPrefix + token)
	if !ok {
		return "", ErrTokenNotFound
	}
	delete(s.entries, resetPrefix+token)
	return userID, nil
}
