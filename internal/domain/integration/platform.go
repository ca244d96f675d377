package integration

import "errors"

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// ErrOrderNotSynced indicates an order operation was attempted before the
	// order has a mapping for the requested storefront. This is a caller
	// error and is never retried. The message is surfaced verbatim to API
	// consumers, so it intentionally reads like a user-facing string.
	ErrOrderNotSynced = errors.New("Order not synced")

	// ErrProductNotSynced is the product counterpart of ErrOrderNotSynced.
	ErrProductNotSynced = errors.New("Product not synced")

	// ErrCapabilityNotSupported indicates the platform has no API for the
	// requested capability (e.g. Tokopedia has no shipping-label endpoint).
	// Callers decide whether a capability gap is an error; for labels and
	// analytics it is not.
	ErrCapabilityNotSupported = errors.New("integration: capability not supported by platform")

	// Platform call failures
	ErrPlatformAuthFailed      = errors.New("integration: platform authentication failed")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")

	// Storefront errors
	ErrStorefrontNotFound = errors.New("integration: storefront not found")
	ErrStorefrontDisabled = errors.New("integration: storefront is disabled")

	// ErrInvalidPullWindow indicates a malformed order pull time window.
	ErrInvalidPullWindow = errors.New("integration: invalid order pull window")

	// Mapping errors
	ErrMappingNotFound          = errors.New("integration: mapping not found")
	ErrMappingInvalidStorefront = errors.New("integration: invalid storefront ID")
	ErrMappingInvalidInternalID = errors.New("integration: invalid internal ID")
	ErrMappingInvalidExternalID = errors.New("integration: invalid external ID")
	ErrMappingInvalidEntityType = errors.New("integration: invalid entity type")
	ErrMappingInvalidPlatform   = errors.New("integration: invalid platform code")
)

// IsRetryable reports whether a platform call failure is transient and worth
// retrying with backoff. Rate limits and availability blips are retryable;
// auth failures and validation errors are not.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPlatformRateLimited) || errors.Is(err, ErrPlatformUnavailable)
}

// ---------------------------------------------------------------------------
// PlatformCode
// ---------------------------------------------------------------------------

// PlatformCode identifies a supported marketplace.
type PlatformCode string

const (
	// PlatformShopee represents Shopee
	PlatformShopee PlatformCode = "shopee"
	// PlatformTikTok represents TikTok Shop
	PlatformTikTok PlatformCode = "tiktok"
	// PlatformTokopedia represents Tokopedia
	PlatformTokopedia PlatformCode = "tokopedia"
)

// IsValid returns true if the platform code is valid
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformShopee, PlatformTikTok, PlatformTokopedia:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the platform
func (c PlatformCode) DisplayName() string {
	switch c {
	case PlatformShopee:
		return "Shopee"
	case PlatformTikTok:
		return "TikTok Shop"
	case PlatformTokopedia:
		return "Tokopedia"
	default:
		return string(c)
	}
}

// ---------------------------------------------------------------------------
// EntityType
// ---------------------------------------------------------------------------

// EntityType identifies which kind of ERP entity a mapping refers to.
type EntityType string

const (
	// EntityTypeProduct maps an ERP product to a platform listing
	EntityTypeProduct EntityType = "product"
	// EntityTypeOrder maps an ERP sales order to a platform order
	EntityTypeOrder EntityType = "order"
)

// IsValid returns true if the entity type is valid
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeProduct, EntityTypeOrder:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// OrderStatus (unified)
// ---------------------------------------------------------------------------

// OrderStatus is the unified order lifecycle state shared by all platforms.
// Platform-native statuses are translated into this set by the adapters'
// callers (see application/ordersync).
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCompleted,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsFinal returns true if the status is a terminal state: orders in a final
// state are no longer updated by polling.
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}
