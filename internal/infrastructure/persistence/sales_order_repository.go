package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oceanerp/backend/internal/domain/shared"
	"github.com/oceanerp/backend/internal/domain/trade"
	"github.com/oceanerp/backend/internal/infrastructure/persistence/models"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds an order by ID, with items
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id int64) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by its human-facing number
func (r *GormSalesOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a new order with its items and backfills the assigned ID
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	model := models.SalesOrderModelFromDomain(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	order.ID = model.ID
	for i := range model.Items {
		if i < len(order.Items) {
			order.Items[i].ID = model.Items[i].ID
			order.Items[i].OrderID = model.ID
		}
	}
	return nil
}

// UpdateStatus writes the order status. Statuses that imply shipment
// movement also advance the mirrored shipping status on the row.
func (r *GormSalesOrderRepository) UpdateStatus(ctx context.Context, id int64, status trade.OrderStatus) error {
	updates := map[string]any{
		"status":     status.String(),
		"updated_at": time.Now(),
	}
	if shipping, ok := trade.ShippingStatusFor(status); ok {
		updates["shipping_status"] = string(shipping)
	}
	result := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateTracking writes the tracking number. The shipping status is driven
// by the order status, not by tracking writes.
func (r *GormSalesOrderRepository) UpdateTracking(ctx context.Context, id int64, trackingNumber string) error {
	result := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"tracking_number": trackingNumber,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountBySourcePlatform counts imported orders for one platform inside a
// date range
func (r *GormSalesOrderRepository) CountBySourcePlatform(ctx context.Context, platform string, from, to time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Where("source_platform = ? AND placed_at >= ? AND placed_at < ?", platform, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumTotalBySourcePlatform sums order totals for one platform inside a date
// range
func (r *GormSalesOrderRepository) SumTotalBySourcePlatform(ctx context.Context, platform string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Select("SUM(total_amount)").
		Where("source_platform = ? AND placed_at >= ? AND placed_at < ?", platform, from, to).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Ensure GormSalesOrderRepository implements SalesOrderRepository
var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)

// ---------------------------------------------------------------------------
// Shipping order repository
// ---------------------------------------------------------------------------

// GormShippingOrderRepository implements ShippingOrderRepository using GORM
type GormShippingOrderRepository struct {
	db *gorm.DB
}

// NewGormShippingOrderRepository creates a new GormShippingOrderRepository
func NewGormShippingOrderRepository(db *gorm.DB) *GormShippingOrderRepository {
	return &GormShippingOrderRepository{db: db}
}

// FindByOrderID finds the shipment for a sales order
func (r *GormShippingOrderRepository) FindByOrderID(ctx context.Context, orderID int64) (*trade.ShippingOrder, error) {
	var model models.ShippingOrderModel
	if err := r.db.WithContext(ctx).First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts the shipment or refreshes the existing row on order-ID
// conflict
func (r *GormShippingOrderRepository) Upsert(ctx context.Context, shipping *trade.ShippingOrder) error {
	model := models.ShippingOrderModelFromDomain(shipping)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tracking_number", "carrier", "status", "shipped_at", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	shipping.ID = model.ID
	return nil
}

// Ensure GormShippingOrderRepository implements ShippingOrderRepository
var _ trade.ShippingOrderRepository = (*GormShippingOrderRepository)(nil)
