package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oceanerp/backend/internal/domain/analytics"
	"github.com/oceanerp/backend/internal/infrastructure/persistence/models"
)

// GormWarehouseRepository implements the reporting-store port using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// UpsertDailyFact writes a fact, overwriting any existing (date, platform)
// row. Overwrite, not increment: facts are rebuilt from source orders on
// every sync, so re-running a window must converge, not double.
func (r *GormWarehouseRepository) UpsertDailyFact(ctx context.Context, fact *analytics.DailySalesFact) error {
	model := models.DailySalesFactModelFromDomain(fact)
	model.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"order_count", "revenue", "avg_order_value", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	fact.ID = model.ID
	return nil
}

// FindTrend returns the facts inside a window, ordered by date then platform
func (r *GormWarehouseRepository) FindTrend(ctx context.Context, from, to time.Time) ([]analytics.SalesTrendPoint, error) {
	var factModels []models.DailySalesFactModel
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC, platform ASC").
		Find(&factModels).Error; err != nil {
		return nil, err
	}

	points := make([]analytics.SalesTrendPoint, len(factModels))
	for i, model := range factModels {
		points[i] = analytics.SalesTrendPoint{
			Date:     model.Date,
			Platform: model.Platform,
			Orders:   model.OrderCount,
			Revenue:  model.Revenue,
		}
	}
	return points, nil
}

// Ensure GormWarehouseRepository implements WarehouseRepository
var _ analytics.WarehouseRepository = (*GormWarehouseRepository)(nil)

// ---------------------------------------------------------------------------
// Stats reader
// ---------------------------------------------------------------------------

// GormStatsReader aggregates the operational tables for the analytics
// fallback path and the warehouse sync
type GormStatsReader struct {
	db *gorm.DB
}

// NewGormStatsReader creates a new GormStatsReader
func NewGormStatsReader(db *gorm.DB) *GormStatsReader {
	return &GormStatsReader{db: db}
}

// dailySalesRow is the scan target for the per-day aggregation
type dailySalesRow struct {
	Day      string
	Platform string
	Orders   int64
	Revenue  decimal.Decimal
}

// AggregateSalesByDay groups imported orders into per-day, per-platform
// sales rows inside the window
func (r *GormStatsReader) AggregateSalesByDay(ctx context.Context, from, to time.Time) ([]analytics.SalesTrendPoint, error) {
	var rows []dailySalesRow
	if err := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Select("DATE(placed_at) AS day, source_platform AS platform, COUNT(*) AS orders, SUM(total_amount) AS revenue").
		Where("source_platform <> '' AND placed_at >= ? AND placed_at < ? AND status <> ?", from, to, "CANCELLED").
		Group("DATE(placed_at), source_platform").
		Order("day ASC, platform ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]analytics.SalesTrendPoint, 0, len(rows))
	for _, row := range rows {
		day, err := time.ParseInLocation("2006-01-02", row.Day, time.UTC)
		if err != nil {
			continue
		}
		points = append(points, analytics.SalesTrendPoint{
			Date:     day,
			Platform: row.Platform,
			Orders:   row.Orders,
			Revenue:  row.Revenue,
		})
	}
	return points, nil
}

// topProductRow is the scan target for the best-sellers ranking
type topProductRow struct {
	ProductID int64
	Name      string
	Units     int64
	Revenue   decimal.Decimal
}

// TopProducts ranks products by units sold inside the window
func (r *GormStatsReader) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]analytics.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []topProductRow
	if err := r.db.WithContext(ctx).
		Model(&models.SalesOrderItemModel{}).
		Select("sales_order_items.product_id AS product_id, sales_order_items.name AS name, "+
			"SUM(sales_order_items.quantity) AS units, "+
			"SUM(sales_order_items.quantity * sales_order_items.unit_price) AS revenue").
		Joins("JOIN sales_orders ON sales_orders.id = sales_order_items.order_id").
		Where("sales_orders.placed_at >= ? AND sales_orders.placed_at < ? AND sales_orders.status <> ?", from, to, "CANCELLED").
		Group("sales_order_items.product_id, sales_order_items.name").
		Order("units DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]analytics.TopProduct, len(rows))
	for i, row := range rows {
		products[i] = analytics.TopProduct{
			ProductID: row.ProductID,
			Name:      row.Name,
			UnitsSold: row.Units,
			Revenue:   row.Revenue,
		}
	}
	return products, nil
}

// InventorySummary computes the stock position snapshot
func (r *GormStatsReader) InventorySummary(ctx context.Context, lowStockBelow int) (*analytics.InventoryAnalytics, error) {
	type summaryRow struct {
		TotalProducts int64
		TotalUnits    int64
		TotalReserved int64
	}
	var summary summaryRow
	if err := r.db.WithContext(ctx).
		Model(&models.StockLevelModel{}).
		Select("COUNT(*) AS total_products, COALESCE(SUM(quantity),0) AS total_units, COALESCE(SUM(reserved),0) AS total_reserved").
		Scan(&summary).Error; err != nil {
		return nil, err
	}

	var outOfStock int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockLevelModel{}).
		Where("quantity = 0").
		Count(&outOfStock).Error; err != nil {
		return nil, err
	}

	var lowStock int64
	if lowStockBelow > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.StockLevelModel{}).
			Where("quantity > 0 AND quantity <= ?", lowStockBelow).
			Count(&lowStock).Error; err != nil {
			return nil, err
		}
	}

	return &analytics.InventoryAnalytics{
		TotalProducts: summary.TotalProducts,
		TotalUnits:    summary.TotalUnits,
		TotalReserved: summary.TotalReserved,
		OutOfStock:    outOfStock,
		LowStock:      lowStock,
	}, nil
}

// Ensure GormStatsReader implements StatsReader
var _ analytics.StatsReader = (*GormStatsReader)(nil)
