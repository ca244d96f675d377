// Package trade holds the ERP-side order model that marketplace orders are
// imported into.
package trade

import (
	"context"
	"time"

	"github.com/oceanerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// OrderStatus
// ---------------------------------------------------------------------------

// OrderStatus is the ERP order lifecycle state. The values match the unified
// marketplace statuses one-to-one so imported orders carry their state
// without translation loss.
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

// IsFinal returns true if the status is terminal
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// SalesOrder Aggregate
// ---------------------------------------------------------------------------

// SalesOrder is an ERP sales order. Marketplace-imported orders carry the
// source platform code and the buyer snapshot the platform shared at import
// time; manually created orders have an empty SourcePlatform.
type SalesOrder struct {
	// ID is the order identifier
	ID int64
	// OrderNumber is the human-facing order number
	OrderNumber string
	// SourcePlatform is the marketplace code the order was imported from,
	// empty for orders created inside the ERP
	SourcePlatform string
	// Status is the current lifecycle state
	Status OrderStatus
	// Total is the order grand total
	Total decimal.Decimal
	// Currency is the ISO currency code
	Currency string
	// CustomerName is the buyer display name
	CustomerName string
	// CustomerPhone is the buyer contact number
	CustomerPhone string
	// ShippingAddress is the flattened delivery address
	ShippingAddress string
	// TrackingNumber is the carrier tracking number, once shipped
	TrackingNumber string
	// ShippingStatus mirrors the shipment state onto the order row for list
	// views ("", "shipped", "delivered")
	ShippingStatus string
	// Items are the order lines
	Items []SalesOrderItem
	// PlacedAt is when the buyer placed the order
	PlacedAt time.Time
	// CreatedAt is when the row was imported or created
	CreatedAt time.Time
	// UpdatedAt is when the row was last written
	UpdatedAt time.Time
}

// SalesOrderItem is one line of a sales order.
type SalesOrderItem struct {
	// ID is the line identifier
	ID int64
	// OrderID is the owning order
	OrderID int64
	// ProductID is the ERP product, zero when the line could not be matched
	// to a catalog product at import time
	ProductID int64
	// SKU is the seller SKU string
	SKU string
	// Name is the product name at purchase time
	Name string
	// Quantity is the ordered quantity
	Quantity int
	// UnitPrice is the per-unit sale price
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity times unit price.
func (i SalesOrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// statusRank orders the lifecycle so polling never moves an order backwards.
var statusRank = map[OrderStatus]int{
	OrderStatusNew:        0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
	OrderStatusCompleted:  5,
	OrderStatusCancelled:  5,
}

// TransitionTo moves the order to a new status. Forward moves and
// cancellation are allowed; a stale poll result that would move the order
// backwards is rejected.
func (o *SalesOrder) TransitionTo(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if o.Status.IsFinal() {
		return shared.ErrInvalidState
	}
	if status != OrderStatusCancelled && statusRank[status] < statusRank[o.Status] {
		return shared.ErrInvalidState
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

// AssignTracking records the carrier tracking number.
func (o *SalesOrder) AssignTracking(trackingNumber string) {
	o.TrackingNumber = trackingNumber
	o.UpdatedAt = time.Now()
}

// ---------------------------------------------------------------------------
// ShippingOrder Entity
// ---------------------------------------------------------------------------

// ShippingStatus is the shipment lifecycle state.
type ShippingStatus string

const (
	ShippingStatusPending   ShippingStatus = "PENDING"
	ShippingStatusShipped   ShippingStatus = "SHIPPED"
	ShippingStatusDelivered ShippingStatus = "DELIVERED"
)

// ShippingStatusFor maps an order status onto the shipment state it implies.
// ok is false for statuses that say nothing about the shipment; callers must
// leave the shipping status untouched for those.
func ShippingStatusFor(status OrderStatus) (ShippingStatus, bool) {
	switch status {
	case OrderStatusShipped:
		return ShippingStatusShipped, true
	case OrderStatusDelivered, OrderStatusCompleted:
		return ShippingStatusDelivered, true
	default:
		return "", false
	}
}

// ShippingOrder is the shipment record for a sales order. At most one
// shipping order exists per sales order; repeated ship calls refresh the
// existing row.
type ShippingOrder struct {
	// ID is the row identifier
	ID int64
	// OrderID is the shipped sales order (unique)
	OrderID int64
	// TrackingNumber is the carrier tracking number
	TrackingNumber string
	// Carrier is the carrier or platform shipping-provider name
	Carrier string
	// Status is the shipment state
	Status ShippingStatus
	// ShippedAt is when the shipment was registered
	ShippedAt time.Time
	// CreatedAt is when the row was first written
	CreatedAt time.Time
	// UpdatedAt is when the row was last written
	UpdatedAt time.Time
}

// ---------------------------------------------------------------------------
// Repository Interfaces
// ---------------------------------------------------------------------------

// SalesOrderRepository defines persistence for sales orders.
type SalesOrderRepository interface {
	// FindByID finds an order by ID, with items
	FindByID(ctx context.Context, id int64) (*SalesOrder, error)

	// FindByOrderNumber finds an order by its human-facing number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)

	// Create inserts a new order with its items and returns the assigned ID
	Create(ctx context.Context, order *SalesOrder) error

	// UpdateStatus writes the order status
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error

	// UpdateTracking writes the tracking number
	UpdateTracking(ctx context.Context, id int64, trackingNumber string) error

	// CountBySourcePlatform counts imported orders for one platform inside a
	// date range; used by analytics fallback
	CountBySourcePlatform(ctx context.Context, platform string, from, to time.Time) (int64, error)

	// SumTotalBySourcePlatform sums order totals for one platform inside a
	// date range; used by analytics fallback
	SumTotalBySourcePlatform(ctx context.Context, platform string, from, to time.Time) (decimal.Decimal, error)
}

// ShippingOrderRepository defines persistence for shipping orders.
type ShippingOrderRepository interface {
	// FindByOrderID finds the shipment for a sales order
	FindByOrderID(ctx context.Context, orderID int64) (*ShippingOrder, error)

	// Upsert inserts the shipment or, on order-ID conflict, refreshes the
	// tracking number, carrier, and status
	Upsert(ctx context.Context, shipping *ShippingOrder) error
}
