// Package inventory holds the ERP-side stock model the marketplace sync
// layer reads from and writes back to.
package inventory

import (
	"context"
	"time"

	"github.com/oceanerp/backend/internal/domain/shared"
)

// StockLevel is the ERP's view of one product's stock: the sellable quantity
// and the portion reserved for unshipped orders. One row per product.
type StockLevel struct {
	// ID is the row identifier
	ID int64
	// ProductID is the ERP product this row tracks
	ProductID int64
	// Quantity is the sellable quantity. This is the figure pushed to
	// marketplaces; reservations decrement it immediately.
	Quantity int
	// Reserved is the quantity held for accepted but unshipped orders
	Reserved int
	// UpdatedAt is when the row was last written
	UpdatedAt time.Time
}

// NewStockLevel creates a stock row for a product.
func NewStockLevel(productID int64, quantity int) (*StockLevel, error) {
	if productID <= 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID must be positive")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	return &StockLevel{
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}, nil
}

// CanReserve reports whether the sellable quantity covers the request.
func (s *StockLevel) CanReserve(quantity int) bool {
	return quantity > 0 && s.Quantity >= quantity
}

// TotalOnHand is sellable plus reserved stock.
func (s *StockLevel) TotalOnHand() int {
	return s.Quantity + s.Reserved
}

// ---------------------------------------------------------------------------
// StockRepository Interface
// ---------------------------------------------------------------------------

// StockRepository defines persistence for stock levels.
//
// Reserve is the concurrency-critical operation: implementations must perform
// the decrement as a single guarded UPDATE (quantity >= requested) and report
// whether a row was affected, so two concurrent reservations can never
// oversell the same units.
type StockRepository interface {
	// FindByProduct finds the stock row for a product
	FindByProduct(ctx context.Context, productID int64) (*StockLevel, error)

	// SetQuantity overwrites the sellable quantity, creating the row if the
	// product has none yet
	SetQuantity(ctx context.Context, productID int64, quantity int) error

	// Reserve atomically moves quantity from sellable to reserved. Returns
	// false with a nil error when stock is insufficient; the caller treats
	// that as an expected business outcome, not a failure.
	Reserve(ctx context.Context, productID int64, quantity int) (bool, error)

	// Release moves quantity from reserved back to sellable. Release is
	// unconditional: callers only release what they previously reserved.
	Release(ctx context.Context, productID int64, quantity int) error

	// ConsumeReserved burns reserved quantity on shipment without returning
	// it to sellable stock
	ConsumeReserved(ctx context.Context, productID int64, quantity int) error
}
