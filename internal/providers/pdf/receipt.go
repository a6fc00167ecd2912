package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptData carries preformatted values; money fields are already "0.00" strings.
type ReceiptData struct {
	StoreName     string
	StoreEmail    string
	OrderNumber   string
	PlacedAt      string
	Status        string
	CustomerName  string
	CustomerEmail string

	Items []ReceiptItem

	Subtotal       string
	Discount       string
	Total          string
	PointsRedeemed int64
	PointsEarned   int64
}

type ReceiptItem struct {
	Description string
	Qty         int
	UnitPrice   string
	Amount      string
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, receipt ReceiptData) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Recibo de compra", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, receipt.StoreName, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New("Pedido: #"+receipt.OrderNumber, props.Text{Top: 0}),
			text.New("Data: "+receipt.PlacedAt, props.Text{Top: 5}),
			text.New("Status: "+receipt.Status, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Cliente", props.Text{Style: fontstyle.Bold, Align: align.Right}),
			text.New(receipt.CustomerName, props.Text{Top: 5, Align: align.Right}),
			text.New(receipt.CustomerEmail, props.Text{Top: 10, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Produto", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qtd.", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Preço unit.", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Subtotal", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range receipt.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, "R$ "+item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, "R$ "+item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, "R$ "+receipt.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	if receipt.PointsRedeemed > 0 {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, fmt.Sprintf("Desconto (%d pts)", receipt.PointsRedeemed), props.Text{Size: 9}),
			text.NewCol(2, "- R$ "+receipt.Discount, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(2, "R$ "+receipt.Total, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	m.AddRow(12,
		text.NewCol(12, fmt.Sprintf("Pontos de cashback ganhos nesta compra: %d", receipt.PointsEarned), props.Text{
			Size: 9,
			Top:  4,
		}),
	)
	if receipt.StoreEmail != "" {
		m.AddRow(8,
			text.NewCol(12, "Dúvidas: "+receipt.StoreEmail, props.Text{Size: 8}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
