package repository

import (
	"context"
	"errors"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/product/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/option"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const productColumns = `id, name, description, price, category, stock, image_url, active, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Stock,
		product.ImageURL,
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT `+productColumns+` FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindActiveByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT `+productColumns+` FROM products WHERE id = ? AND active = ?`,
		id,
		true,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Product, int64, error) {
	filters := []option.QueryOption{
		option.ContainsFold(filter.Category, "category"),
		option.ContainsFold(filter.Search, "name", "description"),
	}
	query := func() *gorm.DB {
		stmt := db.WithContext(ctx).
			Model(&domain.Product{}).
			Where("active = ?", true)
		return option.Apply(stmt, filters...)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Product
	stmt := option.Apply(query(),
		option.WithSortBy(option.QuerySortBy{Default: "created_at", OrderBy: "desc", Tiebreak: []string{"id DESC"}}),
		option.ApplyPagination(filter.Page),
	)
	if err := stmt.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return false, gorm.ErrInvalidData
	}
	res := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) DecrementStock(ctx context.Context, db *gorm.DB, id int64, quantity int) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE products SET stock = stock - ? WHERE id = ? AND active = ? AND stock >= ?`,
		quantity,
		id,
		true,
		quantity,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) CountActive(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("active = ?", true).
		Count(&total).Error
	return total, err
}
