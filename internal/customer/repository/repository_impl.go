package repository

import (
	"context"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/customer/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/option"
	"gorm.io/gorm"
)

const customerColumns = `id, name, email, phone, points_balance, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (`+customerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.PointsBalance,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT `+customerColumns+` FROM customers WHERE email = ?`,
		email,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

var sortColumns = map[string]option.QuerySortBy{
	domain.SortPointsDesc: {Default: "points_balance", OrderBy: "desc", Tiebreak: []string{"name ASC", "id ASC"}},
	domain.SortPointsAsc:  {Default: "points_balance", OrderBy: "asc", Tiebreak: []string{"name ASC", "id ASC"}},
	domain.SortNameAsc:    {Default: "name", OrderBy: "asc", Tiebreak: []string{"id ASC"}},
	domain.SortNameDesc:   {Default: "name", OrderBy: "desc", Tiebreak: []string{"id ASC"}},
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter) ([]domain.Customer, int64, error) {
	query := func() *gorm.DB {
		stmt := db.WithContext(ctx).Model(&domain.Customer{})
		return option.ContainsFold(filter.Search, "name", "email").Apply(stmt)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy, ok := sortColumns[filter.Sort]
	if !ok {
		sortBy = sortColumns[domain.SortPointsDesc]
	}

	var customers []domain.Customer
	err := option.Apply(query(),
		option.WithSortBy(sortBy),
		option.ApplyPagination(filter.Page),
	).Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *repo) ApplyPointsDelta(ctx context.Context, db *gorm.DB, id, redeemed, earned int64, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET points_balance = points_balance - ? + ?, updated_at = ?
		 WHERE id = ? AND points_balance >= ?`,
		redeemed,
		earned,
		at,
		id,
		redeemed,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
