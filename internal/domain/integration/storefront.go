package integration

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Storefront Entity
// ---------------------------------------------------------------------------

// Storefront is a configured connection to one marketplace account. It is
// the single place credentials are persisted; every sync operation resolves
// the owning storefront to rebuild platform-specific credentials.
type Storefront struct {
	// ID is the storefront identifier
	ID int64
	// Platform identifies which marketplace this storefront connects to
	Platform PlatformCode
	// Name is the administrator-chosen display name
	Name string
	// APIKey is the platform app/partner/client key
	APIKey string
	// APISecret is the platform app/partner/client secret
	APISecret string
	// APIToken is the OAuth access token, where the platform uses one
	APIToken string
	// Config holds the free-form per-platform settings blob
	Config StorefrontConfig
	// IsActive indicates whether sync operations should use this storefront
	IsActive bool
	// CreatedAt is when the storefront was configured
	CreatedAt time.Time
	// UpdatedAt is when the storefront was last edited
	UpdatedAt time.Time
}

// StorefrontConfig is the generic JSON config blob attached to a storefront.
// Each platform adapter extracts only the fields it needs; see the typed
// constructors in infrastructure/marketplace.
type StorefrontConfig struct {
	Region             string `json:"region,omitempty"`
	ShopID             string `json:"shopId,omitempty"`
	WarehouseID        string `json:"warehouseId,omitempty"`
	FsID               string `json:"fsId,omitempty"`
	ShippingProviderID string `json:"shippingProviderId,omitempty"`
	Sandbox            bool   `json:"sandbox,omitempty"`
}

// Validate checks the storefront holds enough information to build a client.
func (s *Storefront) Validate() error {
	if !s.Platform.IsValid() {
		return ErrMappingInvalidPlatform
	}
	if s.APIKey == "" || s.APISecret == "" {
		return ErrPlatformAuthFailed
	}
	return nil
}

// IntegrationKey returns the "{platform}_{storefrontID}" key used to scope
// mappings and sync logs to this storefront.
func (s *Storefront) IntegrationKey() string {
	return IntegrationKey(s.Platform, s.ID)
}

// ---------------------------------------------------------------------------
// StorefrontRepository Interface
// ---------------------------------------------------------------------------

// StorefrontRepository defines persistence for storefronts. Storefront rows
// are created and edited by the (out of scope) admin UI; the sync layer only
// reads them.
type StorefrontRepository interface {
	// FindByID finds a storefront by ID
	FindByID(ctx context.Context, id int64) (*Storefront, error)

	// FindActive returns all storefronts with the active flag set
	FindActive(ctx context.Context) ([]Storefront, error)

	// FindActiveByPlatform returns active storefronts for one platform
	FindActiveByPlatform(ctx context.Context, platform PlatformCode) ([]Storefront, error)

	// Save creates or updates a storefront
	Save(ctx context.Context, storefront *Storefront) error
}
