package seed

import (
	"context"
	"errors"
	"strings"

	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureBootstrapAdmin creates the first back-office account from
// configuration. It is a no-op when credentials are not configured or any
// admin already exists, so restarts never reset a changed password.
func EnsureBootstrapAdmin(
	ctx context.Context,
	db *gorm.DB,
	repo authdomain.Repository,
	auth authdomain.Service,
	cfg config.BootstrapAdminConfig,
	log *zap.Logger,
) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if strings.TrimSpace(cfg.Username) == "" || cfg.Password == "" {
		return nil
	}

	count, err := repo.Count(ctx, db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin, _, err := auth.EnsureAdmin(ctx, authdomain.EnsureAdminRequest{
		Username: cfg.Username,
		Password: cfg.Password,
		Name:     cfg.Name,
		Role:     authdomain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	log.Info("bootstrap admin created", zap.String("username", admin.Username))
	return nil
}
