package config

import (
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(func(cfg Config) db.Config { return cfg.DB }),
	fx.Provide(NewLoyaltyConfigHolder),
)
