package integration

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// MarketplaceClient Port
// ---------------------------------------------------------------------------

// MarketplaceClient is the port every platform adapter implements. Adapters
// translate these calls into the platform's HTTP API and map the platform's
// failure modes onto the ErrPlatform* sentinels.
//
// Methods that a platform has no API for return ErrCapabilityNotSupported;
// callers decide per-operation whether that gap is an error.
type MarketplaceClient interface {
	// PlatformCode identifies which marketplace this client talks to
	PlatformCode() PlatformCode

	// UpdateStock pushes an absolute stock quantity to the listing identified
	// by externalID. Platform-specific indirection (TikTok's SKU lookup) is
	// the adapter's concern.
	UpdateStock(ctx context.Context, externalID string, quantity int) error

	// AcceptOrder acknowledges a new order. Platforms that auto-accept
	// (Shopee, TikTok Shop) implement this as a no-op.
	AcceptOrder(ctx context.Context, externalOrderID string) error

	// ShipOrder marks the order shipped, passing tracking details where the
	// platform requires them.
	ShipOrder(ctx context.Context, externalOrderID string, req ShipmentRequest) error

	// CancelOrder cancels the order with a platform-specific reason code.
	CancelOrder(ctx context.Context, externalOrderID string, reason string) error

	// GetShippingLabel fetches the printable shipping document URL, where the
	// platform exposes one.
	GetShippingLabel(ctx context.Context, externalOrderID string) (string, error)

	// PullOrders lists orders created or updated inside the requested window.
	PullOrders(ctx context.Context, req OrderPullRequest) ([]PlatformOrder, error)

	// GetOrder fetches one order with items.
	GetOrder(ctx context.Context, externalOrderID string) (*PlatformOrder, error)

	// GetShopMetrics fetches platform-native shop analytics for a reporting
	// window, where available. Adapters substitute their default window for
	// zero bounds.
	GetShopMetrics(ctx context.Context, from, to time.Time) (*ShopMetricsReport, error)

	// CountProducts returns the number of live listings on the storefront,
	// where the platform exposes a listing count.
	CountProducts(ctx context.Context) (int64, error)
}

// ShipmentRequest carries the tracking details a platform may require when
// marking an order shipped.
type ShipmentRequest struct {
	// TrackingNumber is the carrier tracking number
	TrackingNumber string
	// ShippingProviderID is the platform's identifier for the carrier,
	// required by TikTok Shop and ignored elsewhere
	ShippingProviderID string
}

// OrderPullRequest bounds an order listing call.
type OrderPullRequest struct {
	// Since is the inclusive lower bound on order update time
	Since time.Time
	// Until is the exclusive upper bound; zero means "now"
	Until time.Time
	// PageSize caps results per page; zero means the platform default
	PageSize int
}

// Validate checks the pull window is well-formed.
func (r OrderPullRequest) Validate() error {
	if r.Since.IsZero() {
		return ErrInvalidPullWindow
	}
	if !r.Until.IsZero() && r.Until.Before(r.Since) {
		return ErrInvalidPullWindow
	}
	return nil
}

// ---------------------------------------------------------------------------
// Platform order snapshot
// ---------------------------------------------------------------------------

// PlatformOrder is a platform-agnostic snapshot of one marketplace order as
// returned by PullOrders/GetOrder. Status is already translated into the
// unified set by the adapter.
type PlatformOrder struct {
	// ExternalID is the platform's order identifier
	ExternalID string
	// OrderNumber is the human-facing order number shown to the buyer
	OrderNumber string
	// Status is the unified order status
	Status OrderStatus
	// PlatformStatus is the raw platform-native status string, kept for audit
	PlatformStatus string
	// Total is the order grand total in the storefront currency
	Total decimal.Decimal
	// Currency is the ISO currency code
	Currency string
	// CustomerName is the buyer display name
	CustomerName string
	// CustomerPhone is the buyer contact number, where the platform shares it
	CustomerPhone string
	// ShippingAddress is the flattened delivery address
	ShippingAddress string
	// TrackingNumber is the carrier tracking number, once assigned
	TrackingNumber string
	// Items are the order lines
	Items []PlatformOrderItem
	// CreatedAt is when the order was placed on the platform
	CreatedAt time.Time
	// UpdatedAt is when the platform last changed the order
	UpdatedAt time.Time
}

// PlatformOrderItem is one line of a platform order.
type PlatformOrderItem struct {
	// ExternalProductID is the platform listing identifier
	ExternalProductID string
	// SKU is the seller SKU string, where the platform exposes one
	SKU string
	// Name is the listing title at purchase time
	Name string
	// Quantity is the ordered quantity
	Quantity int
	// UnitPrice is the per-unit sale price
	UnitPrice decimal.Decimal
}

// ---------------------------------------------------------------------------
// Shop analytics
// ---------------------------------------------------------------------------

// ShopMetricsReport is a platform-native shop performance snapshot. Only
// TikTok Shop currently serves one; other platforms fall back to ERP-side
// aggregation.
type ShopMetricsReport struct {
	// TotalOrders is the order count in the platform's reporting window
	TotalOrders int64
	// TotalRevenue is the gross revenue in the platform's reporting window
	TotalRevenue decimal.Decimal
	// Currency is the ISO currency code of TotalRevenue
	Currency string
}

// ---------------------------------------------------------------------------
// ChatClient Port
// ---------------------------------------------------------------------------

// ChatClient is the port for platform buyer-chat APIs. Separate from
// MarketplaceClient because not every adapter supports chat and the chat
// service fans out only over clients that do.
type ChatClient interface {
	// ListConversations pages through the storefront's conversations,
	// newest first. unreadOnly restricts to conversations with unread
	// buyer messages.
	ListConversations(ctx context.Context, page int, unreadOnly bool) ([]Conversation, error)

	// GetMessages pages through one conversation's messages, newest first.
	GetMessages(ctx context.Context, conversationID string, page int) ([]ChatMessage, error)

	// SendMessage sends a text reply into a conversation.
	SendMessage(ctx context.Context, conversationID string, text string) (*ChatMessage, error)

	// MarkRead marks the conversation read up to its latest message.
	MarkRead(ctx context.Context, conversationID string) error
}

// Conversation is one buyer chat thread on a platform.
type Conversation struct {
	// ID is the platform conversation identifier
	ID string
	// Platform identifies the owning marketplace
	Platform PlatformCode
	// StorefrontID is the owning storefront
	StorefrontID int64
	// BuyerName is the buyer display name
	BuyerName string
	// LastMessage is the text of the most recent message
	LastMessage string
	// LastMessageAt is when the most recent message was sent
	LastMessageAt time.Time
	// UnreadCount is the number of unread buyer messages
	UnreadCount int
}

// ChatMessage is one message inside a conversation.
type ChatMessage struct {
	// ID is the platform message identifier
	ID string
	// ConversationID is the owning conversation
	ConversationID string
	// FromBuyer is true when the buyer sent the message
	FromBuyer bool
	// Text is the message body
	Text string
	// SentAt is when the message was sent
	SentAt time.Time
}

// ---------------------------------------------------------------------------
// ClientFactory Port
// ---------------------------------------------------------------------------

// ClientFactory builds platform clients from storefront credentials. The
// concrete factory lives in infrastructure/marketplace.
type ClientFactory interface {
	// ClientFor returns a MarketplaceClient bound to the storefront's
	// credentials. Returns ErrStorefrontDisabled for inactive storefronts.
	ClientFor(storefront *Storefront) (MarketplaceClient, error)

	// ChatClientFor returns a ChatClient bound to the storefront's
	// credentials, or ErrCapabilityNotSupported if the platform has no
	// chat API.
	ChatClientFor(storefront *Storefront) (ChatClient, error)
}
