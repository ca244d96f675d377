package models

import (
	"time"

	"github.com/oceanerp/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SalesOrderModel is the GORM model for sales orders
type SalesOrderModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	OrderNumber     string          `gorm:"size:64;not null;uniqueIndex"`
	SourcePlatform  string          `gorm:"size:20;index"`
	Status          string          `gorm:"size:20;not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency        string          `gorm:"size:8;not null;default:'IDR'"`
	CustomerName    string          `gorm:"size:255"`
	CustomerPhone   string          `gorm:"size:32"`
	ShippingAddress string          `gorm:"size:1024"`
	TrackingNumber  string          `gorm:"size:64"`
	ShippingStatus  string          `gorm:"size:20"`
	PlacedAt        time.Time       `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []SalesOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// SalesOrderItemModel is the GORM model for sales order lines
type SalesOrderItemModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"not null;index"`
	ProductID int64           `gorm:"index"`
	SKU       string          `gorm:"size:64"`
	Name      string          `gorm:"size:255;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the model to a domain entity
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	order := &trade.SalesOrder{
		ID:              m.ID,
		OrderNumber:     m.OrderNumber,
		SourcePlatform:  m.SourcePlatform,
		Status:          trade.OrderStatus(m.Status),
		Total:           m.TotalAmount,
		Currency:        m.Currency,
		CustomerName:    m.CustomerName,
		CustomerPhone:   m.CustomerPhone,
		ShippingAddress: m.ShippingAddress,
		TrackingNumber:  m.TrackingNumber,
		ShippingStatus:  m.ShippingStatus,
		PlacedAt:        m.PlacedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Items:           make([]trade.SalesOrderItem, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		order.Items = append(order.Items, trade.SalesOrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order
}

// SalesOrderModelFromDomain converts a domain entity to the model
func SalesOrderModelFromDomain(order *trade.SalesOrder) *SalesOrderModel {
	model := &SalesOrderModel{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		SourcePlatform:  order.SourcePlatform,
		Status:          order.Status.String(),
		TotalAmount:     order.Total,
		Currency:        order.Currency,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		TrackingNumber:  order.TrackingNumber,
		ShippingStatus:  order.ShippingStatus,
		PlacedAt:        order.PlacedAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		Items:           make([]SalesOrderItemModel, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		model.Items = append(model.Items, SalesOrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return model
}

// ShippingOrderModel is the GORM model for shipping orders. order_id is
// unique; ship retries upsert onto the existing row.
type ShippingOrderModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	OrderID        int64  `gorm:"not null;uniqueIndex"`
	TrackingNumber string `gorm:"size:64;not null"`
	Carrier        string `gorm:"size:64"`
	Status         string `gorm:"size:20;not null"`
	ShippedAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (ShippingOrderModel) TableName() string {
	return "shipping_orders"
}

// ToDomain converts the model to a domain entity
func (m *ShippingOrderModel) ToDomain() *trade.ShippingOrder {
	return &trade.ShippingOrder{
		ID:             m.ID,
		OrderID:        m.OrderID,
		TrackingNumber: m.TrackingNumber,
		Carrier:        m.Carrier,
		Status:         trade.ShippingStatus(m.Status),
		ShippedAt:      m.ShippedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ShippingOrderModelFromDomain converts a domain entity to the model
func ShippingOrderModelFromDomain(shipping *trade.ShippingOrder) *ShippingOrderModel {
	return &ShippingOrderModel{
		ID:             shipping.ID,
		OrderID:        shipping.OrderID,
		TrackingNumber: shipping.TrackingNumber,
		Carrier:        shipping.Carrier,
		Status:         string(shipping.Status),
		ShippedAt:      shipping.ShippedAt,
		CreatedAt:      shipping.CreatedAt,
		UpdatedAt:      shipping.UpdatedAt,
	}
}
