package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
)

type Service interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error)
	GetOrder(ctx context.Context, id string) (*OrderDetailResponse, error)
	ListOrders(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*OrderResponse, error)
	ListCustomerOrders(ctx context.Context, req ListCustomerOrdersRequest) (*CustomerOrdersResponse, error)
	Receipt(ctx context.Context, id string) ([]byte, error)
}

// Ref is an id accepted either as a JSON number or a JSON string.
type Ref string

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = Ref(n.String())
	return nil
}

// Int64 parses the reference; ok is false for anything but a positive integer.
func (r Ref) Int64() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(string(r)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type PlaceOrderItem struct {
	ProductID Ref `json:"produto_id"`
	Quantity  int `json:"quantidade"`
}

type PlaceOrderRequest struct {
	CustomerID     Ref              `json:"usuario_id"`
	Items          []PlaceOrderItem `json:"itens"`
	PointsToRedeem *int64           `json:"pontos_utilizados"`
}

type OrderResponse struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"usuario_id"`
	Total          string    `json:"total"`
	PointsRedeemed int64     `json:"pontos_utilizados"`
	PointsEarned   int64     `json:"pontos_gerados"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"produto_id"`
	ProductName string `json:"produto_nome"`
	Quantity    int    `json:"quantidade"`
	UnitPrice   string `json:"preco_unitario"`
	Subtotal    string `json:"subtotal"`
}

type PlaceOrderResult struct {
	OrderResponse
	Items            []OrderItemResponse `json:"itens"`
	DiscountApplied  string              `json:"desconto_aplicado"`
	OriginalTotal    string              `json:"total_original"`
	NewPointsBalance int64               `json:"novos_pontos_usuario"`
}

type OrderSummaryResponse struct {
	OrderResponse
	CustomerName  string `json:"usuario_nome"`
	CustomerEmail string `json:"usuario_email"`
}

type OrderDetailResponse struct {
	OrderSummaryResponse
	Items []OrderItemResponse `json:"itens"`
}

type ListOrdersRequest struct {
	Status string
	Page   int
	Limit  int
}

type ListOrdersResponse struct {
	Orders     []OrderSummaryResponse `json:"pedidos"`
	Pagination pagination.Info        `json:"pagination"`
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

type ListCustomerOrdersRequest struct {
	CustomerID string
	Page       int
	Limit      int
}

type CustomerOrdersResponse struct {
	Orders     []OrderDetailResponse `json:"pedidos"`
	Pagination pagination.Info       `json:"pagination"`
}

// EventPublisher emits order lifecycle events after the state is committed.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *OrderDetailResponse) error
	PublishOrderStatusChanged(ctx context.Context, order *OrderResponse, previous Status) error
	Close() error
}

// Cache is a read-through cache of order details.
type Cache interface {
	Get(ctx context.Context, id string) (*OrderDetailResponse, error)
	Set(ctx context.Context, order *OrderDetailResponse) error
	Delete(ctx context.Context, id string) error
}
