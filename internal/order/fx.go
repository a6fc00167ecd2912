package order

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/order/events"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/order/repository"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.NewOrderCache),
	fx.Provide(events.NewPublisher),
	fx.Provide(service.New),
)
