package seed

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	authrepository "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/repository"
	authservice "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/service"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth/token"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, authdomain.Repository, authdomain.Service) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&authdomain.Admin{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	tokens, err := token.NewManager("seed-secret", time.Hour, fake.Now)
	require.NoError(t, err)

	repo := authrepository.Provide()
	svc := authservice.New(authservice.Params{
		DB:     conn,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repo,
		Tokens: tokens,
		Clock:  fake,
	})
	return conn, repo, svc
}

func TestEnsureBootstrapAdminCreatesFirstAdmin(t *testing.T) {
	conn, repo, svc := setup(t)
	ctx := context.Background()

	cfg := config.BootstrapAdminConfig{Username: "dono", Password: "segredo1", Name: "Dono da Loja"}
	require.NoError(t, EnsureBootstrapAdmin(ctx, conn, repo, svc, cfg, zap.NewNop()))

	count, err := repo.Count(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	res, err := svc.Login(ctx, authdomain.LoginRequest{Username: "dono", Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleAdmin, res.Admin.Role)
}

func TestEnsureBootstrapAdminKeepsExistingAccounts(t *testing.T) {
	conn, repo, svc := setup(t)
	ctx := context.Background()

	_, _, err := svc.EnsureAdmin(ctx, authdomain.EnsureAdminRequest{Username: "gerente", Password: "original1"})
	require.NoError(t, err)

	cfg := config.BootstrapAdminConfig{Username: "gerente", Password: "trocada99"}
	require.NoError(t, EnsureBootstrapAdmin(ctx, conn, repo, svc, cfg, zap.NewNop()))

	_, err = svc.Login(ctx, authdomain.LoginRequest{Username: "gerente", Password: "original1"})
	assert.NoError(t, err)
}

func TestEnsureBootstrapAdminSkipsWithoutCredentials(t *testing.T) {
	conn, repo, svc := setup(t)
	ctx := context.Background()

	require.NoError(t, EnsureBootstrapAdmin(ctx, conn, repo, svc, config.BootstrapAdminConfig{Name: "x"}, zap.NewNop()))

	count, err := repo.Count(ctx, conn)
	require.NoError(t, err)
	assert.Zero(t, count)
}
