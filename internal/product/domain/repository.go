package domain

import (
	"context"

	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Category string
	Search   string
	Page     pagination.Page
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindActiveByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Product, int64, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	// Update writes only the given columns and reports whether the row exists.
	Update(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) (bool, error)
	// DecrementStock removes quantity units only while the product is active
	// and has at least quantity in stock. It reports whether a row changed.
	DecrementStock(ctx context.Context, db *gorm.DB, id int64, quantity int) (bool, error)
	CountActive(ctx context.Context, db *gorm.DB) (int64, error)
}
