package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/smallbiznis/folio/pkg/db/pagination"
)

// LineItemInput is one service row as submitted. Amount arrives as text and
// is coerced; malformed amounts count as zero rather than rejecting the row.
type LineItemInput struct {
	Service     string `json:"service"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// CreateInvoiceRequest issues a new invoice. VATPercentage is optional; when
// nil the operator-configured default applies.
type CreateInvoiceRequest struct {
	BusinessID    string          `json:"businessId"`
	StartDate     time.Time       `json:"startDate"`
	DueDate       time.Time       `json:"dueDate"`
	VATPercentage *float64        `json:"vatPercentage"`
	LineItems     []LineItemInput `json:"lineItems"`
}

// UpdateInvoiceRequest replaces the invoice's dates, VAT rate and the full
// line item set. Totals are recomputed from the submitted items.
type UpdateInvoiceRequest struct {
	StartDate     time.Time       `json:"startDate"`
	DueDate       time.Time       `json:"dueDate"`
	VATPercentage *float64        `json:"vatPercentage"`
	LineItems     []LineItemInput `json:"lineItems"`
}

// ListInvoiceRequest narrows the invoice list. Search matches the joined
// service names and the business name; StartDate bounds the invoice start
// date and EndDate bounds the due date, both inclusive.
type ListInvoiceRequest struct {
	pagination.Pagination
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

type ListInvoiceResponse = pagination.Page[Invoice]

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	Update(ctx context.Context, id string, req UpdateInvoiceRequest) (*Invoice, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	ListByBusiness(ctx context.Context, businessID string) ([]Invoice, error)
	Document(ctx context.Context, id string) (io.Reader, error)
}

var (
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrNoLineItems      = errors.New("no_line_items")
	ErrInvalidDates     = errors.New("invalid_dates")
	ErrInvalidVAT       = errors.New("invalid_vat")
)
