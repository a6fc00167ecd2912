package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/product/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 12
	maxListLimit     = 100
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: clk,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	page := pagination.Normalize(req.Page, req.Limit, defaultListLimit, maxListLimit)

	items, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Category: strings.TrimSpace(req.Category),
		Search:   strings.TrimSpace(req.Search),
		Page:     page,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}

	return &domain.ListResponse{
		Items:      resp,
		Pagination: pagination.NewInfo(page, total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindActiveByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)

	var errs []error
	if name == "" {
		errs = append(errs, domain.ErrInvalidName)
	}
	if req.Price == nil || !req.Price.IsPositive() {
		errs = append(errs, domain.ErrInvalidPrice)
	}
	if category == "" {
		errs = append(errs, domain.ErrInvalidCategory)
	}
	if req.Stock == nil || *req.Stock < 0 {
		errs = append(errs, domain.ErrInvalidStock)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	now := s.clock.Now()
	p := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		Name:        name,
		Description: normalizeOptional(req.Description),
		Price:       req.Price.Round(2),
		Category:    category,
		Stock:       *req.Stock,
		ImageURL:    normalizeOptional(req.ImageURL),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}

	s.log.Info("product created", zap.Int64("product_id", p.ID), zap.String("category", p.Category))

	resp := toResponse(p)
	return &resp, nil
}

// Update writes only the supplied columns so a concurrent checkout's stock
// decrement is never overwritten with a stale value.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	fields, err := updateFields(req)
	if err != nil {
		return nil, err
	}
	fields["updated_at"] = s.clock.Now()

	var item *domain.Product
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Stock != nil {
			locked, err := s.repo.FindByIDForUpdate(ctx, tx, productID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
		}

		ok, err := s.repo.Update(ctx, tx, productID, fields)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}

		item, err = s.repo.FindByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func updateFields(req domain.UpdateRequest) (map[string]any, error) {
	fields := make(map[string]any)

	var errs []error
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			errs = append(errs, domain.ErrInvalidName)
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = normalizeOptional(req.Description)
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			errs = append(errs, domain.ErrInvalidPrice)
		}
		fields["price"] = req.Price.Round(2)
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			errs = append(errs, domain.ErrInvalidCategory)
		}
		fields["category"] = category
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			errs = append(errs, domain.ErrInvalidStock)
		}
		fields["stock"] = *req.Stock
	}
	if req.ImageURL != nil {
		fields["image_url"] = normalizeOptional(req.ImageURL)
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return fields, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return err
	}

	ok, err := s.repo.Update(ctx, s.db, productID, map[string]any{
		"active":     false,
		"updated_at": s.clock.Now(),
	})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}

	s.log.Info("product deactivated", zap.Int64("product_id", productID))
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:          snowflake.ID(p.ID).String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Category:    p.Category,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
