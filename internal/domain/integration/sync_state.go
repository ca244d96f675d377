package integration

import (
	"context"
	"time"
)

// SyncStateStore tracks transient synchronization state shared across
// instances. Cursors record how far an order pull has reached for one
// storefront; locks keep two instances from pulling the same storefront at
// once.
type SyncStateStore interface {
	// GetCursor returns the last pull cursor for an integration key. A zero
	// time means the storefront has never been pulled.
	GetCursor(ctx context.Context, integrationKey string) (time.Time, error)

	// SetCursor records the pull cursor for an integration key.
	SetCursor(ctx context.Context, integrationKey string, cursor time.Time) error

	// AcquireLock attempts to take the sync lock for an integration key.
	// Returns false when another holder already owns it.
	AcquireLock(ctx context.Context, integrationKey string, ttl time.Duration) (bool, error)

	// ReleaseLock frees the sync lock for an integration key.
	ReleaseLock(ctx context.Context, integrationKey string) error
}
