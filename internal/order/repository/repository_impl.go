package repository

import (
	"context"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/option"
	"gorm.io/gorm"
)

const summaryColumns = `o.id, o.customer_id, o.total, o.points_redeemed, o.points_earned, o.status, o.created_at, o.updated_at,
	COALESCE(c.name, '') AS customer_name, COALESCE(c.email, '') AS customer_email`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertOrder(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (id, customer_id, total, points_redeemed, points_earned, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.CustomerID,
		order.Total,
		order.PointsRedeemed,
		order.PointsEarned,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.OrderItem) error {
	for _, item := range items {
		err := db.WithContext(ctx).Exec(
			`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, total, points_redeemed, points_earned, status, created_at, updated_at
		 FROM orders WHERE id = ?`,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) FindSummary(ctx context.Context, db *gorm.DB, id int64) (*domain.OrderSummary, error) {
	var summary domain.OrderSummary
	err := db.WithContext(ctx).Raw(
		`SELECT `+summaryColumns+`
		 FROM orders o
		 LEFT JOIN customers c ON c.id = o.customer_id
		 WHERE o.id = ?`,
		id,
	).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	if summary.ID == 0 {
		return nil, nil
	}
	return &summary, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.OrderSummary, int64, error) {
	query := func() *gorm.DB {
		stmt := db.WithContext(ctx).Table("orders AS o")
		if filter.Status != "" {
			stmt = stmt.Where("o.status = ?", filter.Status)
		}
		if filter.CustomerID != 0 {
			stmt = stmt.Where("o.customer_id = ?", filter.CustomerID)
		}
		return stmt
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.OrderSummary
	stmt := query().
		Select(summaryColumns).
		Joins("LEFT JOIN customers c ON c.id = o.customer_id")
	err := option.Apply(stmt,
		option.WithSortBy(option.QuerySortBy{Default: "o.created_at", OrderBy: "desc", Tiebreak: []string{"o.id DESC"}}),
		option.ApplyPagination(filter.Page),
	).Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) ItemsForOrders(ctx context.Context, db *gorm.DB, orderIDs []int64) ([]domain.OrderItemDetail, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var items []domain.OrderItemDetail
	err := db.WithContext(ctx).Raw(
		`SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.subtotal,
		        COALESCE(p.name, '') AS product_name
		 FROM order_items oi
		 LEFT JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id IN ?
		 ORDER BY oi.order_id, oi.id`,
		orderIDs,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status domain.Status, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		at,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
