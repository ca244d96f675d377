package integration

import (
	"context"
	"fmt"
	"time"
)

// IntegrationKey encodes a (platform, storefront) pair as the
// "{platform}_{storefrontID}" string persisted on mappings and sync logs.
func IntegrationKey(platform PlatformCode, storefrontID int64) string {
	return fmt.Sprintf("%s_%d", platform, storefrontID)
}

// ---------------------------------------------------------------------------
// Mapping Entity
// ---------------------------------------------------------------------------

// Mapping ties one ERP entity to one external entity for one storefront.
// It is the only place external identifiers are persisted; all platform
// operations on an existing entity resolve through a mapping first.
//
// Invariant: at most one mapping exists per (storefront, entity type,
// internal ID). Writes go through Upsert so repeated syncs are idempotent.
type Mapping struct {
	// ID is the surrogate row identifier
	ID int64
	// StorefrontID is the owning storefront
	StorefrontID int64
	// Platform duplicates the storefront's platform for query convenience
	Platform PlatformCode
	// EntityType is what kind of ERP entity this maps (product or order)
	EntityType EntityType
	// InternalID is the ERP entity identifier
	InternalID int64
	// ExternalID is the platform-side identifier (string, platform-specific)
	ExternalID string
	// LastSyncedAt is when this mapping last participated in a sync
	LastSyncedAt *time.Time
	// CreatedAt is when the mapping was first established
	CreatedAt time.Time
	// UpdatedAt is when the mapping was last written
	UpdatedAt time.Time
}

// NewMapping creates a validated mapping.
func NewMapping(storefrontID int64, platform PlatformCode, entityType EntityType, internalID int64, externalID string) (*Mapping, error) {
	if storefrontID <= 0 {
		return nil, ErrMappingInvalidStorefront
	}
	if !platform.IsValid() {
		return nil, ErrMappingInvalidPlatform
	}
	if !entityType.IsValid() {
		return nil, ErrMappingInvalidEntityType
	}
	if internalID <= 0 {
		return nil, ErrMappingInvalidInternalID
	}
	if externalID == "" {
		return nil, ErrMappingInvalidExternalID
	}

	now := time.Now()
	return &Mapping{
		StorefrontID: storefrontID,
		Platform:     platform,
		EntityType:   entityType,
		InternalID:   internalID,
		ExternalID:   externalID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IntegrationKey returns the "{platform}_{storefrontID}" scope key.
func (m *Mapping) IntegrationKey() string {
	return IntegrationKey(m.Platform, m.StorefrontID)
}

// TouchSynced records sync participation.
func (m *Mapping) TouchSynced() {
	now := time.Now()
	m.LastSyncedAt = &now
	m.UpdatedAt = now
}

// ---------------------------------------------------------------------------
// MappingRepository Interface
// ---------------------------------------------------------------------------

// MappingRepository defines persistence for integration mappings. All writes
// are upserts keyed by the natural key so re-running a sync never duplicates
// a mapping.
type MappingRepository interface {
	// FindByInternal resolves the mapping for an ERP entity on one storefront
	FindByInternal(ctx context.Context, storefrontID int64, entityType EntityType, internalID int64) (*Mapping, error)

	// FindByExternal resolves the mapping for a platform entity on one storefront
	FindByExternal(ctx context.Context, storefrontID int64, entityType EntityType, externalID string) (*Mapping, error)

	// FindProductMappings returns every product mapping for an ERP product
	// across all storefronts (the stock sync fan-out set)
	FindProductMappings(ctx context.Context, productID int64) ([]Mapping, error)

	// CountByType counts mappings of one entity type on a storefront
	CountByType(ctx context.Context, storefrontID int64, entityType EntityType) (int64, error)

	// Upsert inserts the mapping or, on natural-key conflict, refreshes the
	// external ID and last-synced timestamp
	Upsert(ctx context.Context, mapping *Mapping) error

	// DeleteByInternal removes the mapping for an ERP entity on one storefront
	DeleteByInternal(ctx context.Context, storefrontID int64, entityType EntityType, internalID int64) error

	// DeleteByStorefront removes all mappings owned by a storefront
	DeleteByStorefront(ctx context.Context, storefrontID int64) error
}

// ---------------------------------------------------------------------------
// Sync audit log
// ---------------------------------------------------------------------------

// SyncLog is an append-only audit record of a sync action against a
// storefront. Details is a free-form JSON payload.
type SyncLog struct {
	// ID is the log record identifier (UUID string)
	ID string
	// IntegrationKey scopes the record to a (platform, storefront) pair
	IntegrationKey string
	// Action names the operation (order_sync, order_status_update, ...)
	Action string
	// Status is "success" or "error"
	Status string
	// Details is the JSON-encoded payload
	Details string
	// CreatedAt is when the record was written
	CreatedAt time.Time
}

// SyncLogRepository persists sync audit records.
type SyncLogRepository interface {
	// Append writes one log record
	Append(ctx context.Context, log *SyncLog) error

	// FindRecent returns the most recent records for a storefront scope
	FindRecent(ctx context.Context, integrationKey string, limit int) ([]SyncLog, error)
}
