package integration

// ---------------------------------------------------------------------------
// Sync result value objects
// ---------------------------------------------------------------------------
//
// Fan-out operations never abort on the first platform failure: every
// storefront is attempted and failures are collected per-platform. These
// result objects are what the application services return; an expected
// per-platform failure is data, not a Go error.

// SyncError records one platform's failure inside a fan-out.
type SyncError struct {
	// Platform is the marketplace that failed
	Platform PlatformCode `json:"platform"`
	// StorefrontID is the storefront that failed
	StorefrontID int64 `json:"storefrontId"`
	// Message is the failure description
	Message string `json:"message"`
}

// StockSyncResult is the outcome of pushing one product's stock to every
// mapped storefront. Success means zero platform errors; the ERP write is
// unconditional and does not affect Success.
type StockSyncResult struct {
	// ProductID is the ERP product that was synced
	ProductID int64 `json:"productId"`
	// Quantity is the absolute quantity that was pushed
	Quantity int `json:"quantity"`
	// Synced lists the platforms that accepted the update
	Synced []PlatformCode `json:"synced"`
	// Errors lists the per-platform failures
	Errors []SyncError `json:"errors"`
	// Success is true when no platform failed
	Success bool `json:"success"`
}

// FulfillmentResult is the outcome of a single-order fulfillment action
// (accept, ship, cancel).
type FulfillmentResult struct {
	// OrderID is the ERP sales order
	OrderID int64 `json:"orderId"`
	// Platform is the marketplace the order belongs to
	Platform PlatformCode `json:"platform"`
	// Action names the fulfillment step that was performed
	Action string `json:"action"`
	// Success is true when the platform accepted the action
	Success bool `json:"success"`
	// Message carries the failure description when Success is false
	Message string `json:"message,omitempty"`
}

// LabelResult is the outcome of a shipping-label fetch. A platform without a
// label API yields Success=true with an empty URL.
type LabelResult struct {
	// OrderID is the ERP sales order
	OrderID int64 `json:"orderId"`
	// Platform is the marketplace the order belongs to
	Platform PlatformCode `json:"platform"`
	// LabelURL is the printable document URL, empty when unavailable
	LabelURL string `json:"labelUrl,omitempty"`
	// Success is true unless the platform call itself failed
	Success bool `json:"success"`
	// Message carries the failure description when Success is false
	Message string `json:"message,omitempty"`
}

// BulkFulfillResult aggregates a sequential bulk fulfillment run. Every order
// is attempted regardless of earlier failures.
type BulkFulfillResult struct {
	// Results holds one entry per requested order, in request order
	Results []FulfillmentResult `json:"results"`
	// Succeeded counts successful entries
	Succeeded int `json:"succeeded"`
	// Failed counts failed entries
	Failed int `json:"failed"`
}

// OrderSyncResult is the outcome of pulling orders from one storefront.
type OrderSyncResult struct {
	// StorefrontID is the storefront that was pulled
	StorefrontID int64 `json:"storefrontId"`
	// Platform is the storefront's marketplace
	Platform PlatformCode `json:"platform"`
	// Created counts orders imported for the first time
	Created int `json:"created"`
	// Updated counts orders whose status changed
	Updated int `json:"updated"`
	// Skipped counts orders already up to date
	Skipped int `json:"skipped"`
	// Errors lists per-order failures; one bad order never aborts the pull
	Errors []SyncError `json:"errors"`
}
