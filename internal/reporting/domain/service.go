package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	DashboardStats(ctx context.Context, req DashboardRequest) (DashboardStats, error)
	MonthlyRevenue(ctx context.Context) ([]MonthlyRevenue, error)
}

// DashboardRequest bounds are inclusive; either may be nil.
type DashboardRequest struct {
	Start *time.Time
	End   *time.Time
}

type DashboardStats struct {
	TotalProducts  int64  `json:"totalProducts"`
	TotalCustomers int64  `json:"totalCustomers"`
	TotalRevenue   string `json:"totalRevenue"`
	TotalOrders    int64  `json:"totalOrders"`
}

type MonthlyRevenue struct {
	MonthKey   string `json:"month_key"`
	MonthLabel string `json:"month_label"`
	Revenue    string `json:"revenue"`
}

var ErrInvalidRange = errors.New("invalid_range")
