// Package analytics holds the cross-platform sales reporting model: the
// daily sales facts synced into the reporting store and the metric shapes
// the analytics service assembles per platform.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Metric value objects
// ---------------------------------------------------------------------------

// PlatformMetrics is the per-platform analytics snapshot for a reporting
// window. Sourced from the platform's native analytics API where one exists,
// otherwise aggregated from imported orders.
type PlatformMetrics struct {
	// Platform is the marketplace code
	Platform string `json:"platform"`
	// TotalOrders is the order count inside the window
	TotalOrders int64 `json:"totalOrders"`
	// TotalRevenue is the gross revenue inside the window
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	// TotalProducts is the live listing count on the platform
	TotalProducts int64 `json:"totalProducts"`
	// AverageOrderValue is TotalRevenue / TotalOrders, zero when no orders
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	// Native is true when the platform's own analytics API served the numbers
	Native bool `json:"native"`
}

// ComputeAverage fills AverageOrderValue from the totals.
func (m *PlatformMetrics) ComputeAverage() {
	if m.TotalOrders == 0 {
		m.AverageOrderValue = decimal.Zero
		return
	}
	m.AverageOrderValue = m.TotalRevenue.Div(decimal.NewFromInt(m.TotalOrders)).Round(2)
}

// SalesTrendPoint is one day of one platform's sales.
type SalesTrendPoint struct {
	// Date is the sales day (midnight, UTC)
	Date time.Time `json:"date"`
	// Platform is the marketplace code
	Platform string `json:"platform"`
	// Orders is the order count on that day
	Orders int64 `json:"orders"`
	// Revenue is the gross revenue on that day
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProduct is one row of the best-sellers ranking.
type TopProduct struct {
	// ProductID is the ERP product
	ProductID int64 `json:"productId"`
	// Name is the product name
	Name string `json:"name"`
	// UnitsSold is the total quantity sold inside the window
	UnitsSold int64 `json:"unitsSold"`
	// Revenue is the gross revenue attributed to the product
	Revenue decimal.Decimal `json:"revenue"`
}

// InventoryAnalytics summarizes the stock position across all products.
type InventoryAnalytics struct {
	// TotalProducts is the number of products with a stock row
	TotalProducts int64 `json:"totalProducts"`
	// TotalUnits is the sum of sellable quantities
	TotalUnits int64 `json:"totalUnits"`
	// TotalReserved is the sum of reserved quantities
	TotalReserved int64 `json:"totalReserved"`
	// OutOfStock is the number of products with zero sellable quantity
	OutOfStock int64 `json:"outOfStock"`
	// LowStock is the number of products at or below the low-stock threshold
	LowStock int64 `json:"lowStock"`
}

// ---------------------------------------------------------------------------
// DailySalesFact
// ---------------------------------------------------------------------------

// DailySalesFact is one row of the reporting store: one platform's sales for
// one day. Facts are rebuilt from imported orders on every warehouse sync, so
// writes overwrite rather than increment.
//
// Invariant: at most one fact exists per (date, platform).
type DailySalesFact struct {
	// ID is the row identifier
	ID int64
	// Date is the sales day (midnight, UTC)
	Date time.Time
	// Platform is the marketplace code
	Platform string
	// Orders is the order count on that day
	Orders int64
	// Revenue is the gross revenue on that day
	Revenue decimal.Decimal
	// AvgOrderValue is Revenue / Orders, zero when no orders
	AvgOrderValue decimal.Decimal
	// UpdatedAt is when the fact was last rebuilt
	UpdatedAt time.Time
}

// averageOrderValue computes Revenue / Orders rounded to cents.
func averageOrderValue(revenue decimal.Decimal, orders int64) decimal.Decimal {
	if orders == 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(orders)).Round(2)
}

// NewDailySalesFact builds a fact from one aggregated sales row, deriving the
// average order value from the totals.
func NewDailySalesFact(row SalesTrendPoint) *DailySalesFact {
	return &DailySalesFact{
		Date:          row.Date,
		Platform:      row.Platform,
		Orders:        row.Orders,
		Revenue:       row.Revenue,
		AvgOrderValue: averageOrderValue(row.Revenue, row.Orders),
	}
}

// ---------------------------------------------------------------------------
// Repository Interfaces
// ---------------------------------------------------------------------------

// WarehouseRepository is the reporting store port.
type WarehouseRepository interface {
	// UpsertDailyFact writes a fact, overwriting any existing (date, platform)
	// row with the freshly aggregated numbers
	UpsertDailyFact(ctx context.Context, fact *DailySalesFact) error

	// FindTrend returns the facts inside a window, ordered by date then
	// platform
	FindTrend(ctx context.Context, from, to time.Time) ([]SalesTrendPoint, error)
}

// ReportCache is a short-lived cache for assembled platform metrics. Native
// analytics APIs are slow and rate limited, so comparative reports reuse a
// recent snapshot instead of calling out on every request. Snapshots are
// keyed per reporting window: two requests with different bounds never share
// an entry.
type ReportCache interface {
	// GetPlatformMetrics returns the cached snapshot for one platform and
	// window, or shared.ErrNotFound when the cache holds none
	GetPlatformMetrics(ctx context.Context, platform string, from, to time.Time) (*PlatformMetrics, error)

	// SetPlatformMetrics caches the snapshot for one platform and window
	SetPlatformMetrics(ctx context.Context, metrics *PlatformMetrics, from, to time.Time, ttl time.Duration) error
}

// StatsReader aggregates operational tables for platforms without a native
// analytics API and for the warehouse sync.
type StatsReader interface {
	// AggregateSalesByDay groups imported orders into per-day, per-platform
	// sales rows inside the window
	AggregateSalesByDay(ctx context.Context, from, to time.Time) ([]SalesTrendPoint, error)

	// TopProducts ranks products by units sold inside the window
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)

	// InventorySummary computes the stock position snapshot. lowStockBelow is
	// the low-stock threshold (exclusive).
	InventorySummary(ctx context.Context, lowStockBelow int) (*InventoryAnalytics, error)
}
