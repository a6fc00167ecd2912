package migration

import (
	"context"

	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(
		conn *gorm.DB,
		cfg config.Config,
		admins authdomain.Repository,
		auth authdomain.Service,
		log *zap.Logger,
	) error {
		if err := Apply(conn, log); err != nil {
			return err
		}
		return seed.EnsureBootstrapAdmin(context.Background(), conn, admins, auth, cfg.BootstrapAdmin, log)
	}),
)

// Apply runs the embedded SQL migrations on PostgreSQL and falls back to
// AutoMigrate for MySQL and SQLite.
func Apply(conn *gorm.DB, log *zap.Logger) error {
	dialect := conn.Dialector.Name()
	if dialect == "postgres" {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
		log.Info("schema migrated", zap.String("dialect", dialect))
		return nil
	}

	if err := conn.AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Info("schema auto-migrated", zap.String("dialect", dialect))
	return nil
}
