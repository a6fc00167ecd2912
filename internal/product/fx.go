package product

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/product/repository"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
