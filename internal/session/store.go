package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging/types"
)

// ErrNotFound is returned when a session has no stored credentials
var ErrNotFound = errors.New("session not found")

// Store keeps session credentials between requests
type Store interface {
	Get(ctx context.Context, id string) (Credentials, error)
	Save(ctx context.Context, id string, creds Credentials) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// NewStore creates the store selected by cfg.Session.Store
func NewStore(cfg *config.Config, logger types.Logger) (Store, error) {
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		return NewMemoryStore(cfg.Session.TTL), nil
	case config.SessionStoreRedis:
		return NewRedisStore(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Session.Store)
	}
}

type memoryEntry struct {
	creds     Credentials
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Entries expire after ttl; a zero ttl keeps them forever.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the credentials stored for id
func (s *MemoryStore) Get(_ context.Context, id string) (Credentials, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return Credentials{}, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return Credentials{}, ErrNotFound
	}
	return entry.creds, nil
}

// Save stores creds for id and restarts its expiry
func (s *MemoryStore) Save(_ context.Context, id string, creds Credentials) error {
	entry := memoryEntry{creds: creds}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()
	return nil
}

// Delete removes id from the store
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }
