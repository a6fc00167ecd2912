package service

import (
	"context"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	orderdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	productdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/product/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/reporting/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const revenueMonths = 12

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Products productdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	products productdomain.Repository
}

func NewService(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("reporting.service"),
		clock:    clk,
		products: p.Products,
	}
}

type orderAggregate struct {
	Customers int64
	Revenue   decimal.Decimal
	Orders    int64
}

func (s *Service) DashboardStats(ctx context.Context, req domain.DashboardRequest) (domain.DashboardStats, error) {
	if req.Start != nil && req.End != nil && req.Start.After(*req.End) {
		return domain.DashboardStats{}, domain.ErrInvalidRange
	}

	activeProducts, err := s.products.CountActive(ctx, s.db)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	stmt := s.db.WithContext(ctx).
		Table("orders").
		Select("COUNT(DISTINCT customer_id) AS customers, COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS orders").
		Where("status <> ?", orderdomain.StatusCanceled)
	if req.Start != nil {
		stmt = stmt.Where("created_at >= ?", req.Start.UTC())
	}
	if req.End != nil {
		stmt = stmt.Where("created_at <= ?", req.End.UTC())
	}

	var agg orderAggregate
	if err := stmt.Scan(&agg).Error; err != nil {
		return domain.DashboardStats{}, err
	}

	return domain.DashboardStats{
		TotalProducts:  activeProducts,
		TotalCustomers: agg.Customers,
		TotalRevenue:   agg.Revenue.StringFixed(2),
		TotalOrders:    agg.Orders,
	}, nil
}

type monthRow struct {
	MonthKey string
	Revenue  decimal.Decimal
}

func (s *Service) MonthlyRevenue(ctx context.Context) ([]domain.MonthlyRevenue, error) {
	buckets := trailingMonths(s.clock.Now(), revenueMonths)
	from := buckets[0]
	to := buckets[len(buckets)-1].AddDate(0, 1, 0)

	monthExpr := monthKeyExpression(s.db.Dialector.Name())

	var rows []monthRow
	err := s.db.WithContext(ctx).
		Table("orders").
		Select(monthExpr+" AS month_key, COALESCE(SUM(total), 0) AS revenue").
		Where("status <> ?", orderdomain.StatusCanceled).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("month_key").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		byMonth[row.MonthKey] = row.Revenue
	}

	out := make([]domain.MonthlyRevenue, 0, len(buckets))
	for _, month := range buckets {
		key := month.Format("2006-01")
		revenue, ok := byMonth[key]
		if !ok {
			revenue = decimal.Zero
		}
		out = append(out, domain.MonthlyRevenue{
			MonthKey:   key,
			MonthLabel: month.Month().String()[:3],
			Revenue:    revenue.StringFixed(2),
		})
	}
	return out, nil
}

// trailingMonths returns the first instant (UTC) of the n months ending with now's month, ascending.
func trailingMonths(now time.Time, n int) []time.Time {
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = current.AddDate(0, i-(n-1), 0)
	}
	return out
}

func monthKeyExpression(dialect string) string {
	switch dialect {
	case "postgres":
		return "to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM')"
	case "mysql":
		return "DATE_FORMAT(created_at, '%Y-%m')"
	default:
		return "strftime('%Y-%m', created_at)"
	}
}
