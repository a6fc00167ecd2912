package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	customerdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/customer/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability/logger"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability/metrics"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	productdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/product/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/providers/email"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/providers/pdf"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultListLimit         = 20
	defaultCustomerListLimit = 10
	maxListLimit             = 100

	sideEffectTimeout = 5 * time.Second
	storeName         = "Casa & Lar"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Products  productdomain.Repository
	Customers customerdomain.Repository
	Loyalty   *config.LoyaltyConfigHolder
	Events    domain.EventPublisher
	Cache     domain.Cache
	Email     email.Provider
	PDF       pdf.Provider
	Clock     clock.Clock
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	products  productdomain.Repository
	customers customerdomain.Repository
	loyalty   *config.LoyaltyConfigHolder
	events    domain.EventPublisher
	cache     domain.Cache
	email     email.Provider
	pdf       pdf.Provider
	clock     clock.Clock
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("order.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		products:  p.Products,
		customers: p.Customers,
		loyalty:   p.Loyalty,
		events:    p.Events,
		cache:     p.Cache,
		email:     p.Email,
		pdf:       p.PDF,
		clock:     clk,
		metrics:   p.Metrics,
	}
}

type checkoutLine struct {
	productID int64
	quantity  int
}

// placedOrder is what the checkout transaction hands back after commit.
type placedOrder struct {
	order      domain.Order
	items      []domain.OrderItemDetail
	customer   customerdomain.Customer
	totals     OrderTotal
	newBalance int64
}

func (s *Service) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.PlaceOrderResult, error) {
	start := time.Now()

	customerID, lines, points, err := validatePlaceOrder(req)
	if err != nil {
		s.metrics.RecordCheckoutRejected(ctx, "invalid_input")
		return nil, err
	}

	rules := s.loyalty.Get()
	now := s.clock.Now()

	var placed placedOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.FindByID(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return customerdomain.ErrNotFound
		}
		if points > customer.PointsBalance {
			return domain.ErrInsufficientPoints
		}

		orderID := s.genID.Generate().Int64()
		subtotal := decimal.Zero
		items := make([]domain.OrderItemDetail, 0, len(lines))
		for _, line := range lines {
			product, err := s.products.FindActiveByID(ctx, tx, line.productID)
			if err != nil {
				return err
			}
			if product == nil {
				return &domain.ProductNotFoundError{ProductID: line.productID}
			}
			if product.Stock < line.quantity {
				return &domain.InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Available: product.Stock,
				}
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.quantity))).Round(2)
			subtotal = subtotal.Add(lineTotal)
			items = append(items, domain.OrderItemDetail{
				OrderItem: domain.OrderItem{
					ID:        s.genID.Generate().Int64(),
					OrderID:   orderID,
					ProductID: product.ID,
					Quantity:  line.quantity,
					UnitPrice: product.Price,
					Subtotal:  lineTotal,
				},
				ProductName: product.Name,
			})
		}

		totals := CalculateOrderTotal(subtotal, points, rules)
		order := domain.Order{
			ID:             orderID,
			CustomerID:     customer.ID,
			Total:          totals.Total,
			PointsRedeemed: points,
			PointsEarned:   totals.PointsEarned,
			Status:         domain.StatusConfirmed,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.repo.InsertOrder(ctx, tx, &order); err != nil {
			return err
		}

		rows := make([]domain.OrderItem, 0, len(items))
		for _, item := range items {
			rows = append(rows, item.OrderItem)
		}
		if err := s.repo.InsertItems(ctx, tx, rows); err != nil {
			return err
		}

		for _, item := range items {
			ok, err := s.products.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return s.stockConflict(ctx, tx, item.ProductID)
			}
		}

		ok, err := s.customers.ApplyPointsDelta(ctx, tx, customer.ID, points, totals.PointsEarned, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInsufficientPoints
		}

		// Concurrent checkouts for the same customer may have moved the
		// balance since it was read above.
		updated, err := s.customers.FindByID(ctx, tx, customer.ID)
		if err != nil {
			return err
		}
		if updated == nil {
			return customerdomain.ErrNotFound
		}

		placed = placedOrder{
			order:      order,
			items:      items,
			customer:   *customer,
			totals:     totals,
			newBalance: updated.PointsBalance,
		}
		return nil
	})
	if err != nil {
		s.recordCheckoutFailure(ctx, err, time.Since(start))
		return nil, err
	}

	metrics.Checkout().ObserveDuration(metrics.CheckoutOutcomeCommitted, time.Since(start))
	s.metrics.RecordOrderCreated(ctx, placed.totals.Total.InexactFloat64(), placed.order.PointsRedeemed, placed.order.PointsEarned)

	logger.WithContext(ctx, s.log).Info("order placed",
		zap.Int64("order_id", placed.order.ID),
		zap.Int64("customer_id", placed.customer.ID),
		zap.String("total", placed.totals.Total.StringFixed(2)),
		zap.Int64("points_redeemed", placed.order.PointsRedeemed),
		zap.Int64("points_earned", placed.order.PointsEarned),
	)

	detail := toDetailResponse(&domain.OrderDetail{
		OrderSummary: domain.OrderSummary{
			Order:         placed.order,
			CustomerName:  placed.customer.Name,
			CustomerEmail: placed.customer.Email,
		},
		Items: placed.items,
	})
	s.afterCommit(ctx, detail, placed)

	return &domain.PlaceOrderResult{
		OrderResponse:    detail.OrderResponse,
		Items:            detail.Items,
		DiscountApplied:  placed.totals.Discount.StringFixed(2),
		OriginalTotal:    placed.totals.Subtotal.StringFixed(2),
		NewPointsBalance: placed.newBalance,
	}, nil
}

// stockConflict explains a failed conditional decrement with the stock read
// inside the same transaction.
func (s *Service) stockConflict(ctx context.Context, tx *gorm.DB, productID int64) error {
	fresh, err := s.products.FindByID(ctx, tx, productID)
	if err != nil {
		return err
	}
	if fresh == nil || !fresh.Active {
		return &domain.ProductNotFoundError{ProductID: productID}
	}
	return &domain.InsufficientStockError{
		ProductID: fresh.ID,
		Name:      fresh.Name,
		Available: fresh.Stock,
	}
}

func (s *Service) recordCheckoutFailure(ctx context.Context, err error, elapsed time.Duration) {
	reason := checkoutRejectReason(err)
	if reason == "" {
		metrics.Checkout().ObserveDuration(metrics.CheckoutOutcomeFailed, elapsed)
		metrics.Checkout().RecordDBError(err)
		logger.WithContext(ctx, s.log).Error("checkout failed", zap.Error(err))
		return
	}
	metrics.Checkout().ObserveDuration(metrics.CheckoutOutcomeRejected, elapsed)
	s.metrics.RecordCheckoutRejected(ctx, reason)
}

func checkoutRejectReason(err error) string {
	var stockErr *domain.InsufficientStockError
	var productErr *domain.ProductNotFoundError
	switch {
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	case errors.As(err, &productErr):
		return "product_not_found"
	case errors.Is(err, domain.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, customerdomain.ErrNotFound):
		return "customer_not_found"
	default:
		return ""
	}
}

// afterCommit runs the best-effort side effects; failures are only logged.
func (s *Service) afterCommit(ctx context.Context, detail domain.OrderDetailResponse, placed placedOrder) {
	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	log := logger.WithContext(ctx, s.log).With(zap.Int64("order_id", placed.order.ID))

	if err := s.events.PublishOrderCreated(sideCtx, &detail); err != nil {
		log.Warn("order.created event not published", zap.Error(err))
	}

	data := confirmationData{
		CustomerName:  detail.CustomerName,
		OrderID:       detail.ID,
		PlacedAt:      detail.CreatedAt.Format("02/01/2006 15:04"),
		Total:         detail.Total,
		PointsEarned:  detail.PointsEarned,
		PointsBalance: placed.newBalance,
	}
	if placed.totals.Discount.IsPositive() {
		data.Discount = placed.totals.Discount.StringFixed(2)
	}
	for _, item := range detail.Items {
		data.Items = append(data.Items, confirmationItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	if err := s.email.SendTemplate(sideCtx, []string{detail.CustomerEmail}, email.TemplateOrderConfirmation, data); err != nil {
		log.Warn("order confirmation email not sent", zap.Error(err))
	}
}

type confirmationData struct {
	CustomerName  string
	OrderID       string
	PlacedAt      string
	Items         []confirmationItem
	Discount      string
	Total         string
	PointsEarned  int64
	PointsBalance int64
}

type confirmationItem struct {
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.OrderDetailResponse, error) {
	orderID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrInvalidID
	}
	key := strconv.FormatInt(orderID, 10)

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.WithContext(ctx, s.log).Warn("order cache read failed", zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	detail, err := s.loadDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, detail); err != nil {
		logger.WithContext(ctx, s.log).Warn("order cache write failed", zap.Error(err))
	}
	return detail, nil
}

func (s *Service) loadDetail(ctx context.Context, orderID int64) (*domain.OrderDetailResponse, error) {
	summary, err := s.repo.FindSummary(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.ItemsForOrders(ctx, s.db, []int64{orderID})
	if err != nil {
		return nil, err
	}

	detail := toDetailResponse(&domain.OrderDetail{OrderSummary: *summary, Items: items})
	return &detail, nil
}

func (s *Service) ListOrders(ctx context.Context, req domain.ListOrdersRequest) (*domain.ListOrdersResponse, error) {
	status := domain.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	page := pagination.Normalize(req.Page, req.Limit, defaultListLimit, maxListLimit)

	items, total, err := s.repo.List(ctx, s.db, domain.ListFilter{Status: status, Page: page})
	if err != nil {
		return nil, err
	}

	orders := make([]domain.OrderSummaryResponse, 0, len(items))
	for i := range items {
		orders = append(orders, toSummaryResponse(&items[i]))
	}

	return &domain.ListOrdersResponse{
		Orders:     orders,
		Pagination: pagination.NewInfo(page, total),
	}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (*domain.OrderResponse, error) {
	orderID, ok := parseID(req.ID)
	if !ok {
		return nil, domain.ErrInvalidID
	}
	status := domain.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	previous := order.Status
	now := s.clock.Now()
	updated, err := s.repo.UpdateStatus(ctx, s.db, orderID, status, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = now

	resp := toOrderResponse(order)
	log := logger.WithContext(ctx, s.log).With(zap.Int64("order_id", orderID))
	log.Info("order status changed",
		zap.String("previous_status", string(previous)),
		zap.String("status", string(status)),
	)

	if err := s.cache.Delete(ctx, resp.ID); err != nil {
		log.Warn("order cache invalidation failed", zap.Error(err))
	}

	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.events.PublishOrderStatusChanged(sideCtx, &resp, previous); err != nil {
		log.Warn("order.status_changed event not published", zap.Error(err))
	}

	return &resp, nil
}

func (s *Service) ListCustomerOrders(ctx context.Context, req domain.ListCustomerOrdersRequest) (*domain.CustomerOrdersResponse, error) {
	customerID, ok := parseID(req.CustomerID)
	if !ok {
		return nil, customerdomain.ErrInvalidID
	}

	customer, err := s.customers.FindByID(ctx, s.db, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrNotFound
	}

	page := pagination.Normalize(req.Page, req.Limit, defaultCustomerListLimit, maxListLimit)
	summaries, total, err := s.repo.List(ctx, s.db, domain.ListFilter{CustomerID: customerID, Page: page})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(summaries))
	for _, summary := range summaries {
		ids = append(ids, summary.ID)
	}
	items, err := s.repo.ItemsForOrders(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]domain.OrderItemDetail, len(ids))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]domain.OrderDetailResponse, 0, len(summaries))
	for _, summary := range summaries {
		orders = append(orders, toDetailResponse(&domain.OrderDetail{
			OrderSummary: summary,
			Items:        byOrder[summary.ID],
		}))
	}

	return &domain.CustomerOrdersResponse{
		Orders:     orders,
		Pagination: pagination.NewInfo(page, total),
	}, nil
}

func (s *Service) Receipt(ctx context.Context, id string) ([]byte, error) {
	detail, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	data := pdf.ReceiptData{
		StoreName:      storeName,
		OrderNumber:    detail.ID,
		PlacedAt:       detail.CreatedAt.Format("02/01/2006 15:04"),
		Status:         string(detail.Status),
		CustomerName:   detail.CustomerName,
		CustomerEmail:  detail.CustomerEmail,
		Total:          detail.Total,
		PointsRedeemed: detail.PointsRedeemed,
		PointsEarned:   detail.PointsEarned,
	}

	subtotal := decimal.Zero
	for _, item := range detail.Items {
		amount, err := decimal.NewFromString(item.Subtotal)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(amount)
		data.Items = append(data.Items, pdf.ReceiptItem{
			Description: item.ProductName,
			Qty:         item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Subtotal,
		})
	}
	total, err := decimal.NewFromString(detail.Total)
	if err != nil {
		return nil, err
	}
	discount := subtotal.Sub(total)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	data.Subtotal = subtotal.StringFixed(2)
	data.Discount = discount.StringFixed(2)

	r, err := s.pdf.GenerateReceipt(ctx, data)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func validatePlaceOrder(req domain.PlaceOrderRequest) (int64, []checkoutLine, int64, error) {
	var errs []error

	customerID, ok := req.CustomerID.Int64()
	if !ok {
		errs = append(errs, domain.ErrInvalidCustomer)
	}

	if len(req.Items) == 0 {
		errs = append(errs, domain.ErrInvalidItems)
	}
	lines := make([]checkoutLine, 0, len(req.Items))
	var badProduct, badQuantity bool
	for _, item := range req.Items {
		productID, ok := item.ProductID.Int64()
		if !ok {
			badProduct = true
		}
		if item.Quantity < 1 {
			badQuantity = true
		}
		lines = append(lines, checkoutLine{productID: productID, quantity: item.Quantity})
	}
	if badProduct {
		errs = append(errs, domain.ErrInvalidProduct)
	}
	if badQuantity {
		errs = append(errs, domain.ErrInvalidQuantity)
	}

	var points int64
	if req.PointsToRedeem != nil {
		points = *req.PointsToRedeem
		if points < 0 {
			errs = append(errs, domain.ErrInvalidPoints)
		}
	}

	if len(errs) > 0 {
		return 0, nil, 0, errors.Join(errs...)
	}
	return customerID, lines, points, nil
}

func parseID(raw string) (int64, bool) {
	return domain.Ref(raw).Int64()
}

func toOrderResponse(o *domain.Order) domain.OrderResponse {
	return domain.OrderResponse{
		ID:             snowflake.ID(o.ID).String(),
		CustomerID:     snowflake.ID(o.CustomerID).String(),
		Total:          o.Total.StringFixed(2),
		PointsRedeemed: o.PointsRedeemed,
		PointsEarned:   o.PointsEarned,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toSummaryResponse(o *domain.OrderSummary) domain.OrderSummaryResponse {
	return domain.OrderSummaryResponse{
		OrderResponse: toOrderResponse(&o.Order),
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
	}
}

func toDetailResponse(o *domain.OrderDetail) domain.OrderDetailResponse {
	items := make([]domain.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, domain.OrderItemResponse{
			ID:          snowflake.ID(item.ID).String(),
			ProductID:   snowflake.ID(item.ProductID).String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Subtotal:    item.Subtotal.StringFixed(2),
		})
	}
	return domain.OrderDetailResponse{
		OrderSummaryResponse: toSummaryResponse(&o.OrderSummary),
		Items:                items,
	}
}
