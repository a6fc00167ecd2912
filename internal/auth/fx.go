package auth

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth/repository"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth/service"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth/token"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(provideTokenManager),
	fx.Provide(service.New),
)

func provideTokenManager(cfg config.Config, clk clock.Clock) (*token.Manager, error) {
	return token.NewManager(cfg.AuthJWTSecret, cfg.AuthTokenTTL, clk.Now)
}
