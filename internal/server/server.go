package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth"
	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/authorization"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/cache"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/customer"
	customerdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/customer/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability"
	obslogger "github.com/brjatoba92/loja-materiais-utilidades/internal/observability/logger"
	obsmetrics "github.com/brjatoba92/loja-materiais-utilidades/internal/observability/metrics"
	obstracing "github.com/brjatoba92/loja-materiais-utilidades/internal/observability/tracing"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/order"
	orderdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/product"
	productdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/product/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/providers"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/ratelimit"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/reporting"
	reportingdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/reporting/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	cache.Module,
	authorization.Module,
	auth.Module,
	providers.Module,
	product.Module,
	customer.Module,
	order.Module,
	reporting.Module,
	ratelimit.Module,
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

// NewEngine builds the router. Only peers inside trustedProxies may set the
// client address through forwarding headers, since rate limiting keys on it.
func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, trustedProxies []string) (*gin.Engine, error) {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r, nil
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) (*gin.Engine, error) {
	return NewEngine(obsCfg, httpMetrics, cfg.TrustedProxies)
}

func RunHTTP(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	authsvc     authdomain.Service
	authzSvc    authorization.Service
	productSvc  productdomain.Service
	customerSvc customerdomain.Service
	orderSvc    orderdomain.Service
	statsSvc    reportingdomain.Service
	limiter     ratelimit.Limiter
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Authsvc     authdomain.Service
	AuthzSvc    authorization.Service
	ProductSvc  productdomain.Service
	CustomerSvc customerdomain.Service
	OrderSvc    orderdomain.Service
	StatsSvc    reportingdomain.Service
	Limiter     ratelimit.Limiter   `optional:"true"`
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		authsvc:     p.Authsvc,
		authzSvc:    p.AuthzSvc,
		productSvc:  p.ProductSvc,
		customerSvc: p.CustomerSvc,
		orderSvc:    p.OrderSvc,
		statsSvc:    p.StatsSvc,
		limiter:     p.Limiter,
		obsMetrics:  p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.RateLimit())

	api.GET("/health", Health)

	// -------- Auth --------
	authGroup := api.Group("/auth", NoStore())
	authGroup.POST("/login", s.Login)
	authGroup.GET("/verify", s.AuthRequired(), s.Verify)
	authGroup.POST("/logout", s.AuthRequired(), s.Logout)

	// -------- Products --------
	products := api.Group("/produtos")
	products.GET("", CacheControl(cachePublicCatalog), s.ListProducts)
	products.GET("/:id", CacheControl(cachePublicCatalog), s.GetProductByID)
	products.POST("", s.AuthRequired(), s.authorize(authorization.ObjectProduct, authorization.ActionProductCreate), s.CreateProduct)
	products.PUT("/:id", s.AuthRequired(), s.authorize(authorization.ObjectProduct, authorization.ActionProductUpdate), s.UpdateProduct)
	products.DELETE("/:id", s.AuthRequired(), s.authorize(authorization.ObjectProduct, authorization.ActionProductDelete), s.DeleteProduct)

	// -------- Customers --------
	customers := api.Group("/usuarios")
	customers.GET("", s.AuthRequired(), s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.ListCustomers)
	customers.POST("", s.CreateCustomer)
	customers.GET("/:id", s.GetCustomerByID)
	customers.GET("/:id/pontos", s.GetCustomerPoints)
	customers.GET("/:id/pedidos", NoStore(), s.ListCustomerOrders)

	// -------- Orders --------
	orders := api.Group("/pedidos", NoStore())
	orders.POST("", s.PlaceOrder)
	orders.GET("", s.AuthRequired(), s.authorize(authorization.ObjectOrder, authorization.ActionOrderView), s.ListOrders)
	orders.GET("/:id", s.GetOrderByID)
	orders.GET("/:id/recibo", s.GetOrderReceipt)
	orders.PATCH("/:id/status", s.AuthRequired(), s.authorize(authorization.ObjectOrder, authorization.ActionOrderUpdateStatus), s.UpdateOrderStatus)

	// -------- Stats --------
	stats := api.Group("/stats",
		s.AuthRequired(),
		s.authorize(authorization.ObjectStats, authorization.ActionStatsView),
		CacheControl(cachePrivateStats),
	)
	stats.GET("/dashboard", s.GetDashboardStats)
	stats.GET("/revenue-monthly", s.GetMonthlyRevenue)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrRouteNotFound)
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    "OK",
		"message":   "API da Loja de Utilidades Funcionando !!!",
		"timestamp": time.Now().UTC(),
	})
}
