// Package pdf renders invoice documents for download.
package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// InvoiceDocument is the display-ready payload for a rendered invoice. All
// monetary fields arrive pre-formatted with the currency symbol applied.
type InvoiceDocument struct {
	Code          string
	BusinessName  string
	AddressLines  []string
	StartDate     string
	DueDate       string
	VATPercentage string

	Items []InvoiceDocumentItem

	Subtotal  string
	VATAmount string
	Total     string
}

// InvoiceDocumentItem is one billed service row.
type InvoiceDocumentItem struct {
	Service     string
	Description string
	Amount      string
}

type Provider interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
