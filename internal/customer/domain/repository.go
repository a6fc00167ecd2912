package domain

import (
	"context"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListCustomerFilter struct {
	Search string
	Sort   string
	Page   pagination.Page
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Customer, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter) ([]Customer, int64, error)
	// ApplyPointsDelta subtracts redeemed and adds earned in one statement,
	// guarded by points_balance >= redeemed. It reports whether a row changed.
	ApplyPointsDelta(ctx context.Context, db *gorm.DB, id, redeemed, earned int64, at time.Time) (bool, error)
}
