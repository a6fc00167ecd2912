package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/authorization"
	customerdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/customer/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability"
	orderdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	productdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/product/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/ratelimit"
	reportingdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/reporting/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthService struct{}

func (fakeAuthService) Login(_ context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	if req.Username != "gerente" || req.Password != "segredo1" {
		return nil, authdomain.ErrInvalidCredentials
	}
	return &authdomain.LoginResult{
		Token: "admin-token",
		Admin: authdomain.AdminView{ID: "1", Username: "gerente", Role: authdomain.RoleAdmin},
	}, nil
}

func (fakeAuthService) Verify(_ context.Context, raw string) (*authdomain.Claims, error) {
	switch raw {
	case "admin-token":
		return &authdomain.Claims{ID: "1", Username: "gerente", Role: authdomain.RoleAdmin}, nil
	case "viewer-token":
		return &authdomain.Claims{ID: "2", Username: "caixa", Role: authdomain.RoleViewer}, nil
	default:
		return nil, authdomain.ErrInvalidToken
	}
}

func (fakeAuthService) EnsureAdmin(context.Context, authdomain.EnsureAdminRequest) (*authdomain.AdminView, bool, error) {
	return nil, false, errors.New("not implemented")
}

func (fakeAuthService) ListAdmins(context.Context) ([]authdomain.AdminView, error) {
	return nil, nil
}

type fakeProductService struct {
	created []productdomain.CreateRequest
	err     error
}

func (f *fakeProductService) List(_ context.Context, req productdomain.ListRequest) (*productdomain.ListResponse, error) {
	return &productdomain.ListResponse{
		Items:      []productdomain.Response{{ID: "10", Name: "Panela", Price: "89.90", Category: req.Category}},
		Pagination: pagination.Info{Page: 1, Limit: 12, Total: 1, Pages: 1},
	}, nil
}

func (f *fakeProductService) Get(_ context.Context, id string) (*productdomain.Response, error) {
	if id != "10" {
		return nil, productdomain.ErrNotFound
	}
	return &productdomain.Response{ID: "10", Name: "Panela", Price: "89.90"}, nil
}

func (f *fakeProductService) Create(_ context.Context, req productdomain.CreateRequest) (*productdomain.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &productdomain.Response{ID: "11", Name: req.Name, Price: req.Price.StringFixed(2)}, nil
}

func (f *fakeProductService) Update(_ context.Context, req productdomain.UpdateRequest) (*productdomain.Response, error) {
	return &productdomain.Response{ID: req.ID}, nil
}

func (f *fakeProductService) Deactivate(context.Context, string) error { return nil }

type fakeCustomerService struct{}

func (fakeCustomerService) Create(_ context.Context, req customerdomain.CreateCustomerRequest) (*customerdomain.Response, error) {
	if req.Email == "dup@casaelar.com.br" {
		return nil, customerdomain.ErrEmailTaken
	}
	return &customerdomain.Response{ID: "20", Name: req.Name, Email: req.Email}, nil
}

func (fakeCustomerService) List(context.Context, customerdomain.ListCustomerRequest) (*customerdomain.ListCustomerResponse, error) {
	return &customerdomain.ListCustomerResponse{Pagination: pagination.Info{Page: 1, Limit: 20}}, nil
}

func (fakeCustomerService) GetByID(_ context.Context, id string) (*customerdomain.Response, error) {
	if id != "20" {
		return nil, customerdomain.ErrNotFound
	}
	return &customerdomain.Response{ID: "20", Name: "Ana"}, nil
}

func (fakeCustomerService) Points(_ context.Context, id string) (int64, error) {
	if id != "20" {
		return 0, customerdomain.ErrNotFound
	}
	return 42, nil
}

type fakeOrderService struct {
	placeErr error
}

func (f *fakeOrderService) PlaceOrder(_ context.Context, req orderdomain.PlaceOrderRequest) (*orderdomain.PlaceOrderResult, error) {
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	return &orderdomain.PlaceOrderResult{
		OrderResponse:    orderdomain.OrderResponse{ID: "30", CustomerID: string(req.CustomerID), Total: "60.00", Status: orderdomain.StatusPending},
		DiscountApplied:  "0.00",
		OriginalTotal:    "60.00",
		NewPointsBalance: 1,
	}, nil
}

func (f *fakeOrderService) GetOrder(_ context.Context, id string) (*orderdomain.OrderDetailResponse, error) {
	if id != "30" {
		return nil, orderdomain.ErrNotFound
	}
	return &orderdomain.OrderDetailResponse{}, nil
}

func (f *fakeOrderService) ListOrders(context.Context, orderdomain.ListOrdersRequest) (*orderdomain.ListOrdersResponse, error) {
	return &orderdomain.ListOrdersResponse{}, nil
}

func (f *fakeOrderService) UpdateStatus(_ context.Context, req orderdomain.UpdateStatusRequest) (*orderdomain.OrderResponse, error) {
	if !orderdomain.Status(req.Status).Valid() {
		return nil, orderdomain.ErrInvalidStatus
	}
	return &orderdomain.OrderResponse{ID: req.ID, Status: orderdomain.Status(req.Status)}, nil
}

func (f *fakeOrderService) ListCustomerOrders(context.Context, orderdomain.ListCustomerOrdersRequest) (*orderdomain.CustomerOrdersResponse, error) {
	return &orderdomain.CustomerOrdersResponse{}, nil
}

func (f *fakeOrderService) Receipt(_ context.Context, id string) ([]byte, error) {
	if id != "30" {
		return nil, orderdomain.ErrNotFound
	}
	return []byte("%PDF-1.3 fake"), nil
}

type fakeStatsService struct {
	lastRequest reportingdomain.DashboardRequest
}

func (f *fakeStatsService) DashboardStats(_ context.Context, req reportingdomain.DashboardRequest) (reportingdomain.DashboardStats, error) {
	f.lastRequest = req
	return reportingdomain.DashboardStats{TotalProducts: 3, TotalRevenue: "150.00"}, nil
}

func (f *fakeStatsService) MonthlyRevenue(context.Context) ([]reportingdomain.MonthlyRevenue, error) {
	return []reportingdomain.MonthlyRevenue{{MonthKey: "2026-03", MonthLabel: "Mar", Revenue: "0.00"}}, nil
}

type testServer struct {
	router   *gin.Engine
	products *fakeProductService
	orders   *fakeOrderService
	stats    *fakeStatsService
}

func newTestServer(t *testing.T, limiter ratelimit.Limiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enforcer, err := authorization.NewMemoryEnforcer()
	require.NoError(t, err)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())

	ts := &testServer{
		router:   router,
		products: &fakeProductService{},
		orders:   &fakeOrderService{},
		stats:    &fakeStatsService{},
	}
	NewServer(ServerParams{
		Gin:         router,
		Authsvc:     fakeAuthService{},
		AuthzSvc:    authorization.NewService(authorization.Params{Log: zap.NewNop(), Enforcer: enforcer}),
		ProductSvc:  ts.products,
		CustomerSvc: fakeCustomerService{},
		OrderSvc:    ts.orders,
		StatsSvc:    ts.stats,
		Limiter:     limiter,
	})
	return ts
}

func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	ts.router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestPublicCatalogRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodGet, "/api/produtos?categoria=cozinha&page=1", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "public, max-age=300", resp.Header().Get("Cache-Control"))
	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["produtos"], 1)
	assert.Contains(t, body, "pagination")

	resp = ts.do(http.MethodGet, "/api/produtos/999", "", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Produto não encontrado", decode(t, resp)["message"])

	resp = ts.do(http.MethodGet, "/api/produtos?page=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t, nil)
	payload := `{"nome":"Jarra","preco":"25.50","categoria":"cozinha","estoque":4}`

	resp := ts.do(http.MethodPost, "/api/produtos", "", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Token de acesso requerido", decode(t, resp)["message"])

	resp = ts.do(http.MethodPost, "/api/produtos", "forged", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Token inválido", decode(t, resp)["message"])

	resp = ts.do(http.MethodPost, "/api/produtos", "viewer-token", payload)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Empty(t, ts.products.created)

	resp = ts.do(http.MethodPost, "/api/produtos", "admin-token", payload)
	require.Equal(t, http.StatusCreated, resp.Code)
	body := decode(t, resp)
	assert.Equal(t, "Produto criado com sucesso", body["message"])
	require.Len(t, ts.products.created, 1)
	assert.Equal(t, "25.50", ts.products.created[0].Price.StringFixed(2))
}

func TestViewerCanReadStats(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodGet, "/api/stats/dashboard?startDate=2026-01-01&endDate=2026-01-31", "viewer-token", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "private, max-age=600", resp.Header().Get("Cache-Control"))

	require.NotNil(t, ts.stats.lastRequest.Start)
	require.NotNil(t, ts.stats.lastRequest.End)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *ts.stats.lastRequest.Start)
	assert.Equal(t, 23, ts.stats.lastRequest.End.Hour())

	resp = ts.do(http.MethodGet, "/api/stats/dashboard?startDate=ontem", "viewer-token", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.do(http.MethodGet, "/api/stats/revenue-monthly", "viewer-token", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode(t, resp)["data"], 1)
}

func TestDashboardDateOnlyBoundsCoverWholeDays(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodGet, "/api/stats/dashboard?startDate=2026-03-31&endDate=2026-03-31", "viewer-token", "")
	require.Equal(t, http.StatusOK, resp.Code)

	require.NotNil(t, ts.stats.lastRequest.Start)
	require.NotNil(t, ts.stats.lastRequest.End)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *ts.stats.lastRequest.Start)
	assert.Equal(t, time.Date(2026, 3, 31, 23, 59, 59, 999999999, time.UTC), *ts.stats.lastRequest.End)

	resp = ts.do(http.MethodGet, "/api/stats/dashboard?endDate=2026-03-31T10:30:00-03:00", "viewer-token", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, ts.stats.lastRequest.Start)
	require.NotNil(t, ts.stats.lastRequest.End)
	assert.Equal(t, time.Date(2026, 3, 31, 13, 30, 0, 0, time.UTC), *ts.stats.lastRequest.End)
}

func TestForwardedForHonouredOnlyFromTrustedProxies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obsCfg := observability.Config{LogLevel: "debug"}

	clientIP := func(trusted []string) string {
		engine, err := NewEngine(obsCfg, nil, trusted)
		require.NoError(t, err)
		engine.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		resp := httptest.NewRecorder()
		engine.ServeHTTP(resp, req)
		require.Equal(t, http.StatusOK, resp.Code)
		return resp.Body.String()
	}

	assert.Equal(t, "10.1.2.3", clientIP(nil))
	assert.Equal(t, "203.0.113.9", clientIP([]string{"10.0.0.0/8"}))

	_, err := NewEngine(obsCfg, nil, []string{"not-a-cidr"})
	assert.Error(t, err)
}

func TestValidationErrorsListEveryField(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.products.err = errors.Join(productdomain.ErrInvalidName, productdomain.ErrInvalidPrice, productdomain.ErrInvalidStock)

	resp := ts.do(http.MethodPost, "/api/produtos", "admin-token", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	body := decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Dados inválidos", body["message"])
	fields := body["errors"].([]any)
	require.Len(t, fields, 3)
	first := fields[0].(map[string]any)
	assert.Equal(t, "nome", first["field"])
	assert.Equal(t, "Nome é obrigatório", first["message"])
	assert.Equal(t, "estoque", fields[2].(map[string]any)["field"])
}

func TestPlaceOrderErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "insufficient stock",
			err:     &orderdomain.InsufficientStockError{ProductID: 10, Name: "Panela", Available: 2},
			status:  http.StatusBadRequest,
			message: "Estoque insuficiente para o produto Panela (disponível: 2)",
		},
		{
			name:    "missing product",
			err:     &orderdomain.ProductNotFoundError{ProductID: 77},
			status:  http.StatusNotFound,
			message: "Produto com ID 77 não encontrado ou inativo",
		},
		{
			name:    "insufficient points",
			err:     orderdomain.ErrInsufficientPoints,
			status:  http.StatusBadRequest,
			message: "Pontos insuficientes",
		},
		{
			name:    "unknown customer",
			err:     customerdomain.ErrNotFound,
			status:  http.StatusNotFound,
			message: "Usuário nao encontrado",
		},
		{
			name:    "database failure",
			err:     errors.New("connection reset"),
			status:  http.StatusInternalServerError,
			message: "Erro interno do servidor",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.orders.placeErr = tc.err

			resp := ts.do(http.MethodPost, "/api/pedidos", "", `{"usuario_id":20,"itens":[{"produto_id":"10","quantidade":1}]}`)
			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.message, decode(t, resp)["message"])
		})
	}
}

func TestPlaceOrderCreated(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodPost, "/api/pedidos", "", `{"usuario_id":20,"itens":[{"produto_id":10,"quantidade":2}],"pontos_utilizados":0}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header().Get("Cache-Control"))

	body := decode(t, resp)
	assert.Equal(t, "Pedido criado com sucesso", body["message"])
	order := body["pedido"].(map[string]any)
	assert.Equal(t, "20", order["usuario_id"])
	assert.Equal(t, "60.00", order["total"])

	resp = ts.do(http.MethodPost, "/api/pedidos", "", `{"usuario_id":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestOrderReceiptAndStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodGet, "/api/pedidos/30/recibo", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "recibo-30.pdf")

	resp = ts.do(http.MethodGet, "/api/pedidos/31/recibo", "", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Pedido nao encontrado", decode(t, resp)["message"])

	resp = ts.do(http.MethodPatch, "/api/pedidos/30/status", "viewer-token", `{"status":"shipped"}`)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.do(http.MethodPatch, "/api/pedidos/30/status", "admin-token", `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.do(http.MethodPatch, "/api/pedidos/30/status", "admin-token", `{"status":"shipped"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "shipped", decode(t, resp)["pedido"].(map[string]any)["status"])
}

func TestCustomerRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodPost, "/api/usuarios", "", `{"nome":"Ana","email":"ana@casaelar.com.br"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "Usuário cadastrado com sucesso", decode(t, resp)["message"])

	resp = ts.do(http.MethodPost, "/api/usuarios", "", `{"nome":"Ana","email":"dup@casaelar.com.br"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Email já cadastrado", decode(t, resp)["message"])

	resp = ts.do(http.MethodGet, "/api/usuarios/20/pontos", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(42), decode(t, resp)["pontos"])

	resp = ts.do(http.MethodGet, "/api/usuarios", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.do(http.MethodGet, "/api/usuarios", "viewer-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAuthRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodPost, "/api/auth/login", "", `{"usuario":"gerente","senha":"errada1"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Credenciais inválidas", decode(t, resp)["message"])

	resp = ts.do(http.MethodPost, "/api/auth/login", "", `{"usuario":"gerente","senha":"segredo1"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "admin-token", decode(t, resp)["token"])

	resp = ts.do(http.MethodGet, "/api/auth/verify", "admin-token", "")
	require.Equal(t, http.StatusOK, resp.Code)
	user := decode(t, resp)["user"].(map[string]any)
	assert.Equal(t, "admin", user["tipo"])

	resp = ts.do(http.MethodPost, "/api/auth/logout", "admin-token", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRateLimitRejectsWithRetryAfter(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	limiter, err := ratelimit.NewMemoryLimiter(ratelimit.Policy{Max: 2, Window: time.Minute}, 100, func() time.Time { return now })
	require.NoError(t, err)
	ts := newTestServer(t, limiter)

	for i := 0; i < 2; i++ {
		resp := ts.do(http.MethodGet, "/api/health", "", "")
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "60", resp.Header().Get("Retry-After"))
	assert.Equal(t, false, decode(t, resp)["success"])
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(http.MethodGet, "/api/nada", "", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Rota não encontrada", decode(t, resp)["message"])
}
