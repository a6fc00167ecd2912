package email

import (
	"context"

	"go.uber.org/zap"
)

// Provider delivers the customer-facing messages rendered from templates/.
type Provider interface {
	SendTemplate(ctx context.Context, to []string, templateName string, data any) error
}

// disabled stands in when no SMTP host is configured. Checkout never waits
// on e-mail, so dropping the message is enough.
type disabled struct {
	log *zap.Logger
}

func (d disabled) SendTemplate(_ context.Context, to []string, templateName string, _ any) error {
	d.log.Debug("email skipped", zap.String("template", templateName), zap.Int("recipients", len(to)))
	return nil
}
