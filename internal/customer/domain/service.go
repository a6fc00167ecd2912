package domain

import (
	"context"
	"errors"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
)

const (
	SortPointsDesc = "pontos_desc"
	SortPointsAsc  = "pontos_asc"
	SortNameAsc    = "nome_asc"
	SortNameDesc   = "nome_desc"
)

type ListCustomerRequest struct {
	Search string
	Sort   string
	Page   int
	Limit  int
}

type ListCustomerResponse struct {
	Customers  []Response      `json:"usuarios"`
	Pagination pagination.Info `json:"pagination"`
}

type CreateCustomerRequest struct {
	Name  string  `json:"nome"`
	Email string  `json:"email"`
	Phone *string `json:"telefone"`
}

type Response struct {
	ID            string    `json:"id"`
	Name          string    `json:"nome"`
	Email         string    `json:"email"`
	Phone         *string   `json:"telefone"`
	PointsBalance int64     `json:"pontos_cashback"`
	CreatedAt     time.Time `json:"created_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (*Response, error)
	List(ctx context.Context, req ListCustomerRequest) (*ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Points(ctx context.Context, id string) (int64, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidPhone = errors.New("invalid_phone")
	ErrEmailTaken   = errors.New("email_taken")
	ErrNotFound     = errors.New("customer_not_found")
)
