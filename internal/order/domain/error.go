package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidCustomer    = errors.New("invalid_customer_id")
	ErrInvalidItems       = errors.New("invalid_items")
	ErrInvalidProduct     = errors.New("invalid_product_id")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidPoints      = errors.New("invalid_points")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInsufficientPoints = errors.New("insufficient_points")
	ErrNotFound           = errors.New("order_not_found")
)

// InsufficientStockError reports the stock seen when the line was rejected.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient_stock: product %d has %d available", e.ProductID, e.Available)
}

// ProductNotFoundError is returned when a line references a missing or inactive product.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product_not_found: %d", e.ProductID)
}
