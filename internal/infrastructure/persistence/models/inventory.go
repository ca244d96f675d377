package models

import (
	"time"

	"github.com/oceanerp/backend/internal/domain/inventory"
)

// StockLevelModel is the GORM model for per-product stock. quantity is the
// sellable figure pushed to marketplaces; reserved is held for unshipped
// orders.
type StockLevelModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ProductID int64 `gorm:"not null;uniqueIndex"`
	Quantity  int   `gorm:"not null;default:0"`
	Reserved  int   `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (StockLevelModel) TableName() string {
	return "inventory"
}

// ToDomain converts the model to a domain entity
func (m *StockLevelModel) ToDomain() *inventory.StockLevel {
	return &inventory.StockLevel{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Reserved:  m.Reserved,
		UpdatedAt: m.UpdatedAt,
	}
}

// StockLevelModelFromDomain converts a domain entity to the model
func StockLevelModelFromDomain(level *inventory.StockLevel) *StockLevelModel {
	return &StockLevelModel{
		ID:        level.ID,
		ProductID: level.ProductID,
		Quantity:  level.Quantity,
		Reserved:  level.Reserved,
		UpdatedAt: level.UpdatedAt,
	}
}
