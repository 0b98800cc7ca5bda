package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	businessdomain "github.com/smallbiznis/folio/internal/business/domain"
	"github.com/smallbiznis/folio/internal/clock"
	"github.com/smallbiznis/folio/internal/config"
	historydomain "github.com/smallbiznis/folio/internal/history/domain"
	"github.com/smallbiznis/folio/internal/invoice/domain"
	"github.com/smallbiznis/folio/internal/providers/pdf"
	"github.com/smallbiznis/folio/pkg/db/pagination"
	"github.com/smallbiznis/folio/pkg/money"
	"github.com/smallbiznis/folio/pkg/query"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Business  businessdomain.Service
	History   historydomain.Service
	PDF       pdf.Provider
	Invoicing *config.InvoicingConfigHolder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	business  businessdomain.Service
	history   historydomain.Service
	pdf       pdf.Provider
	invoicing *config.InvoicingConfigHolder
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		business:  p.Business,
		history:   p.History,
		pdf:       p.PDF,
		invoicing: p.Invoicing,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	business, err := s.business.GetByID(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}

	vat, err := s.resolveVAT(req.VATPercentage)
	if err != nil {
		return nil, err
	}
	if err := validateDates(req.StartDate, req.DueDate); err != nil {
		return nil, err
	}

	invoiceID := s.genID.Generate()
	items, amounts, err := s.buildLineItems(invoiceID, req.LineItems)
	if err != nil {
		return nil, err
	}

	totals := money.ComputeTotals(amounts, vat)
	now := s.clock.Now()

	invoice := domain.Invoice{
		ID:            invoiceID,
		Code:          s.nextCode(),
		BusinessID:    business.ID,
		BusinessName:  business.Name,
		StartDate:     req.StartDate.UTC(),
		DueDate:       req.DueDate.UTC(),
		VATPercentage: vat,
		Subtotal:      totals.Subtotal,
		VATAmount:     totals.VATAmount,
		Total:         totals.Total,
		LineItems:     items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, s.db, &invoice); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, invoice, fmt.Sprintf("Invoice %s raised for %s", invoice.Code, invoice.BusinessName))

	return &invoice, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateInvoiceRequest) (*domain.Invoice, error) {
	invoice, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vat, err := s.resolveVAT(req.VATPercentage)
	if err != nil {
		return nil, err
	}
	if err := validateDates(req.StartDate, req.DueDate); err != nil {
		return nil, err
	}

	items, amounts, err := s.buildLineItems(invoice.ID, req.LineItems)
	if err != nil {
		return nil, err
	}

	totals := money.ComputeTotals(amounts, vat)

	invoice.StartDate = req.StartDate.UTC()
	invoice.DueDate = req.DueDate.UTC()
	invoice.VATPercentage = vat
	invoice.Subtotal = totals.Subtotal
	invoice.VATAmount = totals.VATAmount
	invoice.Total = totals.Total
	invoice.LineItems = items
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, *invoice, fmt.Sprintf("Invoice %s updated", invoice.Code))

	return invoice, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	invoice, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, invoice.ID); err != nil {
		return err
	}

	s.recordEvent(ctx, *invoice, fmt.Sprintf("Invoice %s deleted", invoice.Code))

	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.findByID(ctx, id)
}

// List loads every invoice and applies search, date range and paging in
// memory. Search covers the joined service names and the business name;
// StartDate bounds the service start date while EndDate bounds the due date.
func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	invoices, err := s.repo.List(ctx, s.db)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	filtered := query.Filter(invoices, query.Query{
		Text: req.Search,
		From: req.StartDate,
		To:   req.EndDate,
	}, query.MatchSpec[domain.Invoice]{
		Fields: func(i domain.Invoice) []string {
			return []string{i.ServiceNames(), i.BusinessName}
		},
		FromDate: func(i domain.Invoice) time.Time { return i.StartDate },
		ToDate:   func(i domain.Invoice) time.Time { return i.DueDate },
	})

	return pagination.Paginate(filtered, req.Pagination), nil
}

func (s *Service) ListByBusiness(ctx context.Context, businessID string) ([]domain.Invoice, error) {
	business, err := s.business.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByBusiness(ctx, s.db, business.ID)
}

func (s *Service) findByID(ctx context.Context, id string) (*domain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidInvoiceID
	}
	return s.repo.FindByID(ctx, s.db, invoiceID)
}

// nextCode issues a sortable invoice code. ULIDs keep codes ordered by issue
// time without a database sequence.
func (s *Service) nextCode() string {
	prefix := s.invoicing.Get().CodePrefix
	return fmt.Sprintf("%s-%s", prefix, ulid.Make().String())
}

func (s *Service) resolveVAT(override *float64) (decimal.Decimal, error) {
	if override == nil {
		return decimal.NewFromFloat(s.invoicing.Get().DefaultVATPercentage), nil
	}
	if *override < 0 {
		return decimal.Decimal{}, domain.ErrInvalidVAT
	}
	return decimal.NewFromFloat(*override), nil
}

// buildLineItems materializes the submitted rows. Rows with a blank service
// name are dropped; malformed amounts coerce to zero.
func (s *Service) buildLineItems(invoiceID snowflake.ID, inputs []domain.LineItemInput) ([]domain.LineItem, []decimal.Decimal, error) {
	items := make([]domain.LineItem, 0, len(inputs))
	amounts := make([]decimal.Decimal, 0, len(inputs))
	for _, input := range inputs {
		name := strings.TrimSpace(input.Service)
		if name == "" {
			continue
		}
		amount := money.ParseAmount(input.Amount)
		items = append(items, domain.LineItem{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			Service:     name,
			Description: strings.TrimSpace(input.Description),
			Amount:      amount,
			Position:    len(items),
		})
		amounts = append(amounts, amount)
	}
	if len(items) == 0 {
		return nil, nil, domain.ErrNoLineItems
	}
	return items, amounts, nil
}

func validateDates(start, due time.Time) error {
	if start.IsZero() || due.IsZero() {
		return domain.ErrInvalidDates
	}
	if due.Before(start) {
		return domain.ErrInvalidDates
	}
	return nil
}

// recordEvent appends to the owning business's history feed. History is best
// effort; a write failure must not roll back the mutation it describes.
func (s *Service) recordEvent(ctx context.Context, invoice domain.Invoice, description string) {
	err := s.history.Record(ctx, historydomain.RecordEventRequest{
		BusinessID:  invoice.BusinessID,
		Source:      historydomain.SourceInvoice,
		Type:        historydomain.EventTypeInvoice,
		Description: description,
		TargetID:    invoice.ID.String(),
		TargetName:  invoice.Code,
		Metadata: map[string]any{
			"invoice_code": invoice.Code,
			"total":        money.Display(invoice.Total),
		},
	})
	if err != nil {
		s.log.Warn("failed to record invoice history event",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	}
}
