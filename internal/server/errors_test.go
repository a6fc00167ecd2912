package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	customerdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/customer/domain"
	orderdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorFlattensJoinedValidation(t *testing.T) {
	err := errors.Join(customerdomain.ErrInvalidEmail, errors.Join(customerdomain.ErrInvalidPhone))

	status, payload := mapError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, payload.Errors, 2)
	assert.Equal(t, ValidationError{Field: "email", Code: "invalid_email", Message: "Email inválido"}, payload.Errors[0])
	assert.Equal(t, "telefone", payload.Errors[1].Field)
}

func TestMapErrorMixedJoinIsInternal(t *testing.T) {
	err := errors.Join(orderdomain.ErrInvalidQuantity, errors.New("boom"))

	status, payload := mapError(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Erro interno do servidor", payload.Message)
	assert.Empty(t, payload.Errors)
}

func TestMapErrorUnwrapsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("place order: %w", &orderdomain.InsufficientStockError{ProductID: 1, Name: "Copo", Available: 0})

	status, payload := mapError(wrapped)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Estoque insuficiente para o produto Copo (disponível: 0)", payload.Message)
}

func TestClassifyErrorForLog(t *testing.T) {
	kind, code := classifyErrorForLog(errors.Join(orderdomain.ErrInvalidPoints))
	assert.Equal(t, "validation_error", kind)
	assert.Equal(t, "invalid_points", code)

	kind, code = classifyErrorForLog(&orderdomain.ProductNotFoundError{ProductID: 9})
	assert.Equal(t, "not_found", kind)
	assert.Equal(t, "product_not_found", code)

	kind, _ = classifyErrorForLog(errors.New("db down"))
	assert.Equal(t, "internal_error", kind)
}
