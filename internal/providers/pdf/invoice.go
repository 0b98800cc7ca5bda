package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) RenderInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Invoice number: "+doc.Code, props.Text{Top: 0}),
			text.New("Start date: "+doc.StartDate, props.Text{Top: 4}),
			text.New("Date due: "+doc.DueDate, props.Text{Top: 8}),
			text.New("VAT rate: "+doc.VATPercentage+"%", props.Text{Top: 12}),
		),
		col.New(6),
	)

	addressCol := col.New(6).Add(
		text.New(doc.BusinessName, props.Text{Style: fontstyle.Bold}),
	)
	for i, line := range doc.AddressLines {
		addressCol.Add(text.New(line, props.Text{Top: float64(5 + i*4)}))
	}
	m.AddRow(30, addressCol, col.New(6))

	m.AddRow(10,
		text.NewCol(8, "Service", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range doc.Items {
		serviceCol := col.New(8).Add(
			text.New(item.Service, props.Text{Size: 9}),
		)
		height := 8.0
		if item.Description != "" {
			serviceCol.Add(text.New(item.Description, props.Text{Size: 7, Top: 4}))
			height = 12
		}
		m.AddRow(height,
			serviceCol,
			text.NewCol(4, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Subtotal", props.Text{Size: 9, Top: 4}),
		text.NewCol(3, doc.Subtotal, props.Text{Size: 9, Top: 4, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "VAT", props.Text{Size: 9}),
		text.NewCol(3, doc.VATAmount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, doc.Total, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	rendered, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(rendered.GetBytes()), nil
}
