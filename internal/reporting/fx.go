package reporting

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/reporting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reporting.service",
	fx.Provide(service.NewService),
)
