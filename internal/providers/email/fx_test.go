package email

import (
	"context"
	"testing"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFromConfigWithoutHostDropsMessages(t *testing.T) {
	p := NewFromConfig(config.Config{}, zap.NewNop())
	_, ok := p.(disabled)
	require.True(t, ok)
	assert.NoError(t, p.SendTemplate(context.Background(), []string{"ana@exemplo.com"}, TemplateOrderConfirmation, nil))
}

func TestNewFromConfigUsesSMTP(t *testing.T) {
	p := NewFromConfig(config.Config{Email: config.EmailConfig{SMTPHost: "smtp.exemplo.com", SMTPPort: 2525, SMTPFrom: "loja@exemplo.com"}}, zap.NewNop())
	smtpProvider, ok := p.(*SMTPProvider)
	require.True(t, ok)
	assert.Equal(t, 2525, smtpProvider.cfg.Port)
	assert.Equal(t, "loja@exemplo.com", smtpProvider.cfg.From)
}
