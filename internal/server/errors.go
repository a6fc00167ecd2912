package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/authorization"
	customerdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/customer/domain"
	orderdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	productdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/product/domain"
	reportingdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/reporting/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrRouteNotFound  = errors.New("route_not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
	ErrInternal       = errors.New("internal_error")
)

const (
	msgInvalidData = "Dados inválidos"
	msgInternal    = "Erro interno do servidor"
)

// fieldMessages maps a validation code to the request field and the message
// shown to the storefront.
var fieldMessages = map[string]ValidationError{
	"invalid_request":     {Field: "request", Message: "Requisição inválida"},
	"invalid_id":          {Field: "id", Message: "ID inválido"},
	"invalid_name":        {Field: "nome", Message: "Nome é obrigatório"},
	"invalid_price":       {Field: "preco", Message: "Preço deve ser maior que 0"},
	"invalid_category":    {Field: "categoria", Message: "Categoria é obrigatória"},
	"invalid_stock":       {Field: "estoque", Message: "Estoque deve ser um número inteiro positivo"},
	"invalid_email":       {Field: "email", Message: "Email inválido"},
	"invalid_phone":       {Field: "telefone", Message: "Telefone inválido"},
	"invalid_customer_id": {Field: "usuario_id", Message: "ID de usuário inválido"},
	"invalid_items":       {Field: "itens", Message: "Pelo menos um item é obrigatorio"},
	"invalid_product_id":  {Field: "produto_id", Message: "ID de produto inválido"},
	"invalid_quantity":    {Field: "quantidade", Message: "Quantidade deve ser maior que 0"},
	"invalid_points":      {Field: "pontos_utilizados", Message: "Pontos utilizados inválidos"},
	"invalid_status":      {Field: "status", Message: "Status inválido"},
	"invalid_range":       {Field: "startDate", Message: "Período inválido"},
	"invalid_username":    {Field: "usuario", Message: "Campo obrigatório"},
	"invalid_password":    {Field: "senha", Message: "Senha deve ter pelo menos 6 caracteres"},
	"invalid_role":        {Field: "tipo", Message: "Tipo inválido"},
}

var validationSentinels = []error{
	ErrInvalidRequest,
	productdomain.ErrInvalidID,
	productdomain.ErrInvalidName,
	productdomain.ErrInvalidPrice,
	productdomain.ErrInvalidCategory,
	productdomain.ErrInvalidStock,
	customerdomain.ErrInvalidID,
	customerdomain.ErrInvalidName,
	customerdomain.ErrInvalidEmail,
	customerdomain.ErrInvalidPhone,
	orderdomain.ErrInvalidID,
	orderdomain.ErrInvalidCustomer,
	orderdomain.ErrInvalidItems,
	orderdomain.ErrInvalidProduct,
	orderdomain.ErrInvalidQuantity,
	orderdomain.ErrInvalidPoints,
	orderdomain.ErrInvalidStatus,
	reportingdomain.ErrInvalidRange,
	authdomain.ErrInvalidUsername,
	authdomain.ErrInvalidPassword,
	authdomain.ErrInvalidRole,
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "Requisição inválida")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{{Field: field, Code: code, Message: message}},
	}
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Message: msgInternal}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorResponse{Message: msgInvalidData, Errors: vErr.Errors}
	}
	if fields := validationFields(err); len(fields) > 0 {
		return http.StatusBadRequest, errorResponse{Message: msgInvalidData, Errors: fields}
	}

	var stockErr *orderdomain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return http.StatusBadRequest, errorResponse{
			Message: fmt.Sprintf("Estoque insuficiente para o produto %s (disponível: %d)", stockErr.Name, stockErr.Available),
		}
	}
	var missingErr *orderdomain.ProductNotFoundError
	if errors.As(err, &missingErr) {
		return http.StatusNotFound, errorResponse{
			Message: fmt.Sprintf("Produto com ID %d não encontrado ou inativo", missingErr.ProductID),
		}
	}

	switch {
	case errors.Is(err, orderdomain.ErrInsufficientPoints):
		return http.StatusBadRequest, errorResponse{Message: "Pontos insuficientes"}
	case errors.Is(err, customerdomain.ErrEmailTaken):
		return http.StatusBadRequest, errorResponse{Message: "Email já cadastrado"}
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Message: "Credenciais inválidas"}
	case errors.Is(err, authdomain.ErrMissingToken):
		return http.StatusUnauthorized, errorResponse{Message: "Token de acesso requerido"}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Message: "Token inválido"}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorResponse{Message: "Acesso negado. Apenas administradores."}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorResponse{Message: "Muitas requisições, tente novamente mais tarde"}
	case errors.Is(err, customerdomain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: "Usuário nao encontrado"}
	case errors.Is(err, productdomain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: "Produto não encontrado"}
	case errors.Is(err, orderdomain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: "Pedido nao encontrado"}
	case errors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound, errorResponse{Message: "Rota não encontrada"}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorResponse{Message: "Recurso não encontrado"}
	default:
		return http.StatusInternalServerError, errorResponse{Message: msgInternal}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// validationFields flattens err, including errors.Join trees, into one entry
// per failing field. It returns nil when any leaf is not a validation error.
func validationFields(err error) []ValidationError {
	leaves := flatten(err)
	out := make([]ValidationError, 0, len(leaves))
	for _, leaf := range leaves {
		if !isValidationError(leaf) {
			return nil
		}
		out = append(out, describeValidation(leaf.Error()))
	}
	return out
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, inner := range joined.Unwrap() {
			if inner != nil {
				out = append(out, flatten(inner)...)
			}
		}
		return out
	}
	return []error{err}
}

func isValidationError(err error) bool {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func describeValidation(code string) ValidationError {
	if known, ok := fieldMessages[code]; ok {
		known.Code = code
		return known
	}
	return ValidationError{
		Field:   strings.TrimPrefix(code, "invalid_"),
		Code:    code,
		Message: "Valor inválido",
	}
}

// classifyErrorForLog feeds the request logger's error_type and error_code fields.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	status, _ := mapError(err)
	switch {
	case status == http.StatusBadRequest:
		return "validation_error", errorCode(err)
	case status == http.StatusUnauthorized:
		return "unauthorized", errorCode(err)
	case status == http.StatusForbidden:
		return "forbidden", errorCode(err)
	case status == http.StatusNotFound:
		return "not_found", errorCode(err)
	case status == http.StatusTooManyRequests:
		return "rate_limited", errorCode(err)
	default:
		return "internal_error", "internal_error"
	}
}

func errorCode(err error) string {
	if vErr := asValidationErrors(err); vErr != nil && len(vErr.Errors) > 0 {
		return vErr.Errors[0].Code
	}
	code := flatten(err)[0].Error()
	if idx := strings.Index(code, ":"); idx > 0 {
		code = code[:idx]
	}
	return code
}
