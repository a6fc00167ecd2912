package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	Create(ctx context.Context, db *gorm.DB, admin *Admin) error
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*Admin, error)
	List(ctx context.Context, db *gorm.DB) ([]Admin, error)
	UpdatePassword(ctx context.Context, db *gorm.DB, id int64, name, role, hash string, updatedAt time.Time) error
	TouchLastAccess(ctx context.Context, db *gorm.DB, id int64, at time.Time) error
}
