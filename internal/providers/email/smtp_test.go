package email

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type confirmationData struct {
	CustomerName  string
	OrderID       string
	PlacedAt      string
	Items         []confirmationItem
	Discount      string
	Total         string
	PointsEarned  int64
	PointsBalance int64
}

type confirmationItem struct {
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

func TestSendTemplateRendersOrderConfirmation(t *testing.T) {
	var (
		gotAddr string
		gotAuth smtp.Auth
		gotTo   []string
		gotMsg  string
	)
	p := NewSMTP(Config{Host: "smtp.local", Port: 2525, From: "pedidos@casaelar.com.br"})
	p.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, string(msg)
		return nil
	}

	err := p.SendTemplate(context.Background(), []string{"ana@exemplo.com"}, TemplateOrderConfirmation, confirmationData{
		CustomerName: "Ana",
		OrderID:      "1001",
		PlacedAt:     "04/05/2026",
		Items:        []confirmationItem{{Name: "Panela", Quantity: 2, UnitPrice: "30.00", Subtotal: "60.00"}},
		Total:        "60.00",
		PointsEarned: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.local:2525", gotAddr)
	assert.Nil(t, gotAuth)
	assert.Equal(t, []string{"ana@exemplo.com"}, gotTo)
	assert.Contains(t, gotMsg, "To: ana@exemplo.com\r\n")
	assert.Contains(t, gotMsg, "Olá, Ana!")
	assert.Contains(t, gotMsg, "#1001")
	assert.Contains(t, gotMsg, "<td>Panela</td><td>2</td>")
	assert.NotContains(t, gotMsg, "Desconto com pontos")
	assert.True(t, strings.Contains(gotMsg, "Subject: Casa & Lar: pedido confirmado\r\n"))
}

func TestSendRequiresRecipients(t *testing.T) {
	p := NewSMTP(Config{Host: "smtp.local", Port: 25})
	assert.Error(t, p.Send(context.Background(), nil, "x", "y"))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("missing", nil)
	assert.Error(t, err)
}
