// Package store caches analysis results keyed by repository identifier.
package store

import (
	"context"
	"sync"
	"time"

	"repolens/internal/insights"
)

// Store is the result cache contract. Entries expire after the configured
// TTL; unbounded growth is not acceptable, so implementations evict expired
// entries lazily on read.
type Store interface {
	Put(ctx context.Context, key string, analysis *insights.RepositoryAnalysis) error
	Get(ctx context.Context, key string) (*insights.RepositoryAnalysis, bool, error)
	Close() error
}

type memoryEntry struct {
	analysis  *insights.RepositoryAnalysis
	expiresAt time.Time
}

// MemoryStore is an in-process Store backed by a map. Suitable for
// single-process deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Put stores an analysis under key, replacing any previous entry.
func (s *MemoryStore) Put(ctx context.Context, key string, analysis *insights.RepositoryAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		analysis:  analysis,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Get returns the cached analysis for key, or found=false when absent or
// expired. Expired entries are removed on access.
func (s *MemoryStore) Get(ctx context.Context, key string) (*insights.RepositoryAnalysis, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}

	return entry.analysis, true, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
