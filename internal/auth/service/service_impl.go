package service

import (
	"context"
	"errors"
	"strings"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth/password"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth/token"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Tokens *token.Manager
	Clock  clock.Clock
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	tokens *token.Manager
	clock  clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("auth.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		tokens: p.Tokens,
		clock:  p.Clock,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}
	if len(req.Password) < minPasswordLength {
		return nil, domain.ErrInvalidPassword
	}

	admin, err := s.repo.FindByUsername(ctx, s.db, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(req.Password, admin.PasswordHash) {
		s.log.Info("admin login rejected", zap.String("username", username))
		return nil, domain.ErrInvalidCredentials
	}
	if password.NeedsRehash(admin.PasswordHash) {
		s.upgradeHash(ctx, admin, req.Password)
	}

	id := snowflake.ID(admin.ID).String()
	raw, expiresAt, err := s.tokens.Issue(id, admin.Username, admin.Role)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	if err := s.repo.TouchLastAccess(ctx, s.db, admin.ID, now); err != nil {
		s.log.Warn("failed to record admin last access", zap.Int64("admin_id", admin.ID), zap.Error(err))
	} else {
		admin.LastAccessAt = &now
	}

	return &domain.LoginResult{
		Token:     raw,
		ExpiresAt: expiresAt,
		Admin:     toView(admin),
	}, nil
}

// upgradeHash re-encodes a legacy or outdated hash. Failure keeps the old
// hash, which still verifies.
func (s *Service) upgradeHash(ctx context.Context, admin *domain.Admin, plain string) {
	hash, err := password.Hash(plain)
	if err != nil {
		s.log.Warn("admin password rehash failed", zap.Int64("admin_id", admin.ID), zap.Error(err))
		return
	}
	if err := s.repo.UpdatePassword(ctx, s.db, admin.ID, admin.Name, admin.Role, hash, s.clock.Now().UTC()); err != nil {
		s.log.Warn("admin password rehash not stored", zap.Int64("admin_id", admin.ID), zap.Error(err))
		return
	}
	admin.PasswordHash = hash
	s.log.Info("admin password hash upgraded", zap.Int64("admin_id", admin.ID))
}

func (s *Service) Verify(_ context.Context, rawToken string) (*domain.Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, domain.ErrMissingToken
	}
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	out := &domain.Claims{
		ID:       claims.ID,
		Username: claims.Username,
		Role:     claims.Role,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}

// EnsureAdmin creates the admin or, when the username exists, resets its
// password, name and role. The bool reports whether a new row was created.
func (s *Service) EnsureAdmin(ctx context.Context, req domain.EnsureAdminRequest) (*domain.AdminView, bool, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, false, domain.ErrInvalidUsername
	}
	if len(req.Password) < minPasswordLength {
		return nil, false, domain.ErrInvalidPassword
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = username
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = domain.RoleAdmin
	}
	if !domain.ValidRole(role) {
		return nil, false, domain.ErrInvalidRole
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, false, err
	}
	now := s.clock.Now().UTC()

	existing, err := s.repo.FindByUsername(ctx, s.db, username)
	switch {
	case err == nil:
		if err := s.repo.UpdatePassword(ctx, s.db, existing.ID, name, role, hash, now); err != nil {
			return nil, false, err
		}
		existing.Name = name
		existing.Role = role
		existing.UpdatedAt = now
		view := toView(existing)
		return &view, false, nil
	case !errors.Is(err, domain.ErrAdminNotFound):
		return nil, false, err
	}

	admin := &domain.Admin{
		ID:           s.genID.Generate().Int64(),
		Username:     username,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, admin); err != nil {
		return nil, false, err
	}
	s.log.Info("admin created", zap.String("username", username))

	view := toView(admin)
	return &view, true, nil
}

func (s *Service) ListAdmins(ctx context.Context) ([]domain.AdminView, error) {
	admins, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AdminView, 0, len(admins))
	for i := range admins {
		out = append(out, toView(&admins[i]))
	}
	return out, nil
}

func toView(a *domain.Admin) domain.AdminView {
	return domain.AdminView{
		ID:           snowflake.ID(a.ID).String(),
		Username:     a.Username,
		Name:         a.Name,
		Role:         a.Role,
		LastAccessAt: a.LastAccessAt,
		CreatedAt:    a.CreatedAt,
	}
}
