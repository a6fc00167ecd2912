package domain

import (
	"context"
	"errors"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Deactivate(ctx context.Context, id string) error
}

type ListRequest struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

type ListResponse struct {
	Items      []Response      `json:"produtos"`
	Pagination pagination.Info `json:"pagination"`
}

type CreateRequest struct {
	Name        string           `json:"nome"`
	Description *string          `json:"descricao"`
	Price       *decimal.Decimal `json:"preco"`
	Category    string           `json:"categoria"`
	Stock       *int             `json:"estoque"`
	ImageURL    *string          `json:"imagem_url"`
}

// UpdateRequest changes only the fields that are non-nil.
type UpdateRequest struct {
	ID          string           `json:"-"`
	Name        *string          `json:"nome"`
	Description *string          `json:"descricao"`
	Price       *decimal.Decimal `json:"preco"`
	Category    *string          `json:"categoria"`
	Stock       *int             `json:"estoque"`
	ImageURL    *string          `json:"imagem_url"`
	Active      *bool            `json:"ativo"`
}

type Response struct {
	ID          string    `json:"id"`
	Name        string    `json:"nome"`
	Description *string   `json:"descricao"`
	Price       string    `json:"preco"`
	Category    string    `json:"categoria"`
	Stock       int       `json:"estoque"`
	ImageURL    *string   `json:"imagem_url"`
	Active      bool      `json:"ativo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidStock    = errors.New("invalid_stock")
	ErrNotFound        = errors.New("not_found")
)
