package customer

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/customer/repository"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
