package repository

import (
	"context"
	"errors"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Admin{}).Count(&count).Error
	return count, err
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, admin *domain.Admin) error {
	return db.WithContext(ctx).Create(admin).Error
}

func (r *repo) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.Admin, error) {
	var admin domain.Admin
	err := db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Admin, error) {
	var admins []domain.Admin
	err := db.WithContext(ctx).Order("username ASC").Find(&admins).Error
	return admins, err
}

func (r *repo) UpdatePassword(ctx context.Context, db *gorm.DB, id int64, name, role, hash string, updatedAt time.Time) error {
	tx := db.WithContext(ctx).Model(&domain.Admin{}).Where("id = ?", id).Updates(map[string]any{
		"name":          name,
		"role":          role,
		"password_hash": hash,
		"updated_at":    updatedAt,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (r *repo) TouchLastAccess(ctx context.Context, db *gorm.DB, id int64, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE admins SET last_access_at = ? WHERE id = ?`,
		at,
		id,
	).Error
}
