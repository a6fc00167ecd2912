package domain

import (
	"context"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status     Status
	CustomerID int64
	Page       pagination.Page
}

type Repository interface {
	InsertOrder(ctx context.Context, db *gorm.DB, order *Order) error
	InsertItems(ctx context.Context, db *gorm.DB, items []OrderItem) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Order, error)
	FindSummary(ctx context.Context, db *gorm.DB, id int64) (*OrderSummary, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]OrderSummary, int64, error)
	ItemsForOrders(ctx context.Context, db *gorm.DB, orderIDs []int64) ([]OrderItemDetail, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status Status, at time.Time) (bool, error)
}
