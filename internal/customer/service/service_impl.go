package service

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"unicode"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/customer/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
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
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	email, emailOK := normalizeEmail(req.Email)
	phone, phoneOK := normalizePhone(req.Phone)

	var errs []error
	if name == "" {
		errs = append(errs, domain.ErrInvalidName)
	}
	if !emailOK {
		errs = append(errs, domain.ErrInvalidEmail)
	}
	if !phoneOK {
		errs = append(errs, domain.ErrInvalidPhone)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info("customer registered", zap.Int64("customer_id", customer.ID))

	resp := toResponse(&customer)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (*domain.ListCustomerResponse, error) {
	page := pagination.Normalize(req.Page, req.Limit, defaultListLimit, maxListLimit)

	items, total, err := s.repo.List(ctx, s.db, domain.ListCustomerFilter{
		Search: strings.TrimSpace(req.Search),
		Sort:   strings.ToLower(strings.TrimSpace(req.Sort)),
		Page:   page,
	})
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Response, 0, len(items))
	for i := range items {
		customers = append(customers, toResponse(&items[i]))
	}

	return &domain.ListCustomerResponse{
		Customers:  customers,
		Pagination: pagination.NewInfo(page, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Points(ctx context.Context, id string) (int64, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return 0, err
	}
	return item.PointsBalance, nil
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Customer, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// normalizeEmail accepts a bare address only; display names are rejected.
func normalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", false
	}
	if !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", false
	}
	return email, true
}

// normalizePhone keeps an optional Brazilian number: DDD plus 8 or 9 digits,
// optionally prefixed with the 55 country code.
func normalizePhone(raw *string) (*string, bool) {
	if raw == nil {
		return nil, true
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, true
	}

	digits := make([]rune, 0, len(trimmed))
	for _, r := range trimmed {
		switch {
		case unicode.IsDigit(r):
			digits = append(digits, r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+' || r == '.':
		default:
			return nil, false
		}
	}

	n := string(digits)
	if (len(n) == 12 || len(n) == 13) && strings.HasPrefix(n, "55") {
		n = n[2:]
	}
	if len(n) != 10 && len(n) != 11 {
		return nil, false
	}
	if n[0] == '0' {
		return nil, false
	}
	return &trimmed, true
}

func toResponse(c *domain.Customer) domain.Response {
	return domain.Response{
		ID:            snowflake.ID(c.ID).String(),
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		PointsBalance: c.PointsBalance,
		CreatedAt:     c.CreatedAt,
	}
}
