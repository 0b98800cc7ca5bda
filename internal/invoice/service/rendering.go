package service

import (
	"context"
	"io"

	"github.com/smallbiznis/folio/internal/invoice/domain"
	"github.com/smallbiznis/folio/internal/providers/pdf"
	"github.com/smallbiznis/folio/pkg/money"
)

const documentDateLayout = "02 Jan 2006"

// Document renders the invoice as a PDF for download. Amounts are formatted
// with the configured currency symbol and truncated to two decimal places;
// the stored totals are rendered as-is, never recomputed here.
func (s *Service) Document(ctx context.Context, id string) (io.Reader, error) {
	invoice, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	business, err := s.business.GetByID(ctx, invoice.BusinessID.String())
	if err != nil {
		return nil, err
	}

	symbol := s.invoicing.Get().CurrencySymbol

	items := make([]pdf.InvoiceDocumentItem, 0, len(invoice.LineItems))
	for _, item := range invoice.LineItems {
		items = append(items, pdf.InvoiceDocumentItem{
			Service:     item.Service,
			Description: item.Description,
			Amount:      symbol + money.Display(item.Amount),
		})
	}

	doc := pdf.InvoiceDocument{
		Code:          invoice.Code,
		BusinessName:  invoice.BusinessName,
		AddressLines:  business.Address.Lines(),
		StartDate:     invoice.StartDate.Format(documentDateLayout),
		DueDate:       invoice.DueDate.Format(documentDateLayout),
		VATPercentage: invoice.VATPercentage.String(),
		Items:         items,
		Subtotal:      symbol + money.Display(invoice.Subtotal),
		VATAmount:     symbol + money.Display(invoice.VATAmount),
		Total:         symbol + money.Display(invoice.Total),
	}

	return s.pdf.RenderInvoice(ctx, doc)
}
