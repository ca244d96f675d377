package models

import (
	"time"

	"github.com/oceanerp/backend/internal/domain/analytics"
	"github.com/shopspring/decimal"
)

// DailySalesFactModel is the GORM model for the reporting fact table. The
// (date, platform) pair is unique; warehouse syncs upsert onto it.
type DailySalesFactModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Date          time.Time       `gorm:"type:date;not null;uniqueIndex:idx_daily_fact,priority:1"`
	Platform      string          `gorm:"size:20;not null;uniqueIndex:idx_daily_fact,priority:2"`
	OrderCount    int64           `gorm:"not null;default:0"`
	Revenue       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AvgOrderValue decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (DailySalesFactModel) TableName() string {
	return "agg_daily_sales"
}

// ToDomain converts the model to a domain entity
func (m *DailySalesFactModel) ToDomain() *analytics.DailySalesFact {
	return &analytics.DailySalesFact{
		ID:            m.ID,
		Date:          m.Date,
		Platform:      m.Platform,
		Orders:        m.OrderCount,
		Revenue:       m.Revenue,
		AvgOrderValue: m.AvgOrderValue,
		UpdatedAt:     m.UpdatedAt,
	}
}

// DailySalesFactModelFromDomain converts a domain entity to the model
func DailySalesFactModelFromDomain(fact *analytics.DailySalesFact) *DailySalesFactModel {
	return &DailySalesFactModel{
		ID:            fact.ID,
		Date:          fact.Date,
		Platform:      fact.Platform,
		OrderCount:    fact.Orders,
		Revenue:       fact.Revenue,
		AvgOrderValue: fact.AvgOrderValue,
		UpdatedAt:     fact.UpdatedAt,
	}
}
