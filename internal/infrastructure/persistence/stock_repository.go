package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oceanerp/backend/internal/domain/inventory"
	"github.com/oceanerp/backend/internal/domain/shared"
	"github.com/oceanerp/backend/internal/infrastructure/persistence/models"
)

// GormStockRepository implements StockRepository using GORM. Reserve is the
// concurrency-critical path: the decrement happens as one guarded UPDATE so
// the database, not application code, arbitrates between concurrent
// reservations.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByProduct finds the stock row for a product
func (r *GormStockRepository) FindByProduct(ctx context.Context, productID int64) (*inventory.StockLevel, error) {
	var model models.StockLevelModel
	if err := r.db.WithContext(ctx).First(&model, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SetQuantity overwrites the sellable quantity, creating the row if the
// product has none yet
func (r *GormStockRepository) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	model := &models.StockLevelModel{
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(model).Error
}

// Reserve atomically moves quantity from sellable to reserved. The WHERE
// clause carries the stock guard; zero rows affected means insufficient
// stock, which is an expected outcome rather than an error.
func (r *GormStockRepository) Reserve(ctx context.Context, productID int64, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, shared.ErrInvalidInput
	}

	result := r.db.WithContext(ctx).
		Model(&models.StockLevelModel{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"reserved":   gorm.Expr("reserved + ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Release moves quantity from reserved back to sellable. Unconditional:
// callers only release what they previously reserved.
func (r *GormStockRepository) Release(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidInput
	}

	result := r.db.WithContext(ctx).
		Model(&models.StockLevelModel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"reserved":   gorm.Expr("reserved - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ConsumeReserved burns reserved quantity on shipment
func (r *GormStockRepository) ConsumeReserved(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidInput
	}

	result := r.db.WithContext(ctx).
		Model(&models.StockLevelModel{}).
		Where("product_id = ? AND reserved >= ?", productID, quantity).
		Updates(map[string]any{
			"reserved":   gorm.Expr("reserved - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInvalidState
	}
	return nil
}

// Ensure GormStockRepository implements StockRepository
var _ inventory.StockRepository = (*GormStockRepository)(nil)
