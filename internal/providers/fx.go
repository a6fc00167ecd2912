package providers

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/providers/email"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
)
