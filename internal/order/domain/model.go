package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCanceled   Status = "canceled"
)

var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCanceled,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Order struct {
	ID             int64           `gorm:"primaryKey"`
	CustomerID     int64           `gorm:"not null;index:idx_orders_customer"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PointsRedeemed int64           `gorm:"not null;default:0"`
	PointsEarned   int64           `gorm:"not null;default:0"`
	Status         Status          `gorm:"type:varchar(20);not null;default:'pending';index:idx_orders_status"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_orders_created_at"`
	UpdatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots the unit price at checkout time.
type OrderItem struct {
	ID        int64           `gorm:"primaryKey"`
	OrderID   int64           `gorm:"not null;index:idx_order_items_order"`
	ProductID int64           `gorm:"not null;index:idx_order_items_product"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderSummary is an order joined with its customer.
type OrderSummary struct {
	Order
	CustomerName  string
	CustomerEmail string
}

type OrderItemDetail struct {
	OrderItem
	ProductName string
}

type OrderDetail struct {
	OrderSummary
	Items []OrderItemDetail
}
