package cache

import (
	"context"
	"sync"
	"time"

	"github.com/oceanerp/backend/internal/domain/integration"
)

// InMemorySyncStateStore implements SyncStateStore with process-local state.
// Suitable for single-instance deployments and tests. Locks held here are not
// visible to other processes.
type InMemorySyncStateStore struct {
	mu      sync.Mutex
	cursors map[string]time.Time
	locks   map[string]time.Time // integration key -> lock expiry
}

// NewInMemorySyncStateStore creates a new in-memory sync state store
func NewInMemorySyncStateStore() *InMemorySyncStateStore {
	return &InMemorySyncStateStore{
		cursors: make(map[string]time.Time),
		locks:   make(map[string]time.Time),
	}
}

// GetCursor returns the last pull cursor, or a zero time when none is set
func (s *InMemorySyncStateStore) GetCursor(_ context.Context, integrationKey string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[integrationKey], nil
}

// SetCursor records the pull cursor
func (s *InMemorySyncStateStore) SetCursor(_ context.Context, integrationKey string, cursor time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[integrationKey] = cursor
	return nil
}

// AcquireLock takes the sync lock unless a live holder already owns it
func (s *InMemorySyncStateStore) AcquireLock(_ context.Context, integrationKey string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, held := s.locks[integrationKey]; held && time.Now().Before(expiry) {
		return false, nil
	}
	s.locks[integrationKey] = time.Now().Add(ttl)
	return true, nil
}

// ReleaseLock frees the sync lock
func (s *InMemorySyncStateStore) ReleaseLock(_ context.Context, integrationKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, integrationKey)
	return nil
}

// Ensure InMemorySyncStateStore implements SyncStateStore
var _ integration.SyncStateStore = (*InMemorySyncStateStore)(nil)
