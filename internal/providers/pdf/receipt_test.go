package pdf

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceiptProducesPDF(t *testing.T) {
	p := New()

	r, err := p.GenerateReceipt(context.Background(), ReceiptData{
		StoreName:    "Casa & Lar",
		OrderNumber:  "1001",
		PlacedAt:     "04/05/2026 10:00",
		Status:       "confirmed",
		CustomerName: "Ana",
		Items: []ReceiptItem{
			{Description: "Panela", Qty: 2, UnitPrice: "30.00", Amount: "60.00"},
		},
		Subtotal:       "60.00",
		Discount:       "10.00",
		Total:          "50.00",
		PointsRedeemed: 10,
		PointsEarned:   1,
	})
	require.NoError(t, err)

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestGenerateReceiptHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().GenerateReceipt(ctx, ReceiptData{})
	assert.ErrorIs(t, err, context.Canceled)
}
