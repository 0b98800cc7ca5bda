package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	businessdomain "github.com/smallbiznis/folio/internal/business/domain"
	businessrepository "github.com/smallbiznis/folio/internal/business/repository"
	businessservice "github.com/smallbiznis/folio/internal/business/service"
	"github.com/smallbiznis/folio/internal/clock"
	"github.com/smallbiznis/folio/internal/config"
	historydomain "github.com/smallbiznis/folio/internal/history/domain"
	historyrepository "github.com/smallbiznis/folio/internal/history/repository"
	historyservice "github.com/smallbiznis/folio/internal/history/service"
	"github.com/smallbiznis/folio/internal/invoice/domain"
	"github.com/smallbiznis/folio/internal/invoice/repository"
	"github.com/smallbiznis/folio/internal/providers/pdf"
	"github.com/smallbiznis/folio/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakePDF struct {
	lastDoc pdf.InvoiceDocument
}

func (f *fakePDF) RenderInvoice(_ context.Context, doc pdf.InvoiceDocument) (io.Reader, error) {
	f.lastDoc = doc
	return strings.NewReader("%PDF-1.4"), nil
}

type fixture struct {
	svc      domain.Service
	business *businessdomain.Business
	history  historydomain.Service
	clock    *clock.FakeClock
	pdf      *fakePDF
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&businessdomain.Business{},
		&domain.Invoice{},
		&domain.LineItem{},
		&historydomain.Event{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	history := historyservice.NewService(historyservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  historyrepository.Provide(),
	})

	businessSvc := businessservice.NewService(businessservice.Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Clock:   fake,
		Repo:    businessrepository.Provide(),
		History: history,
	})

	business, err := businessSvc.Create(context.Background(), businessdomain.CreateBusinessRequest{
		Name:    "Acme Widgets",
		Type:    "Limited",
		Address: businessdomain.Address{Building: "1 High Street", City: "London"},
	})
	require.NoError(t, err)

	renderer := &fakePDF{}
	svc := NewService(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     fake,
		Repo:      repository.Provide(),
		Business:  businessSvc,
		History:   history,
		PDF:       renderer,
		Invoicing: config.NewStaticInvoicingConfigHolder(config.DefaultInvoicingConfig()),
	})

	return &fixture{svc: svc, business: business, history: history, clock: fake, pdf: renderer}
}

func (f *fixture) create(t *testing.T, req domain.CreateInvoiceRequest) *domain.Invoice {
	t.Helper()
	if req.BusinessID == "" {
		req.BusinessID = f.business.ID.String()
	}
	if req.StartDate.IsZero() {
		req.StartDate = f.clock.Now()
	}
	if req.DueDate.IsZero() {
		req.DueDate = f.clock.Now().AddDate(0, 1, 0)
	}
	invoice, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	return invoice
}

func TestCreateComputesTotals(t *testing.T) {
	f := newFixture(t)

	invoice := f.create(t, domain.CreateInvoiceRequest{
		LineItems: []domain.LineItemInput{
			{Service: "Accounting", Description: "Monthly bookkeeping", Amount: "50"},
			{Service: "Payroll", Amount: "25"},
		},
	})

	assert.True(t, strings.HasPrefix(invoice.Code, "INV-"))
	assert.Equal(t, "75", invoice.Subtotal.String())
	assert.Equal(t, "13.5", invoice.VATAmount.String())
	assert.Equal(t, "88.5", invoice.Total.String())
	assert.Equal(t, "18", invoice.VATPercentage.String())
	require.Len(t, invoice.LineItems, 2)
	assert.Equal(t, "Monthly bookkeeping", invoice.LineItems[0].Description)
	assert.Equal(t, "Accounting, Payroll", invoice.ServiceNames())
}

func TestCreateVATOverrideAndCoercion(t *testing.T) {
	f := newFixture(t)

	vat := 20.0
	invoice := f.create(t, domain.CreateInvoiceRequest{
		VATPercentage: &vat,
		LineItems: []domain.LineItemInput{
			{Service: "Accounting", Amount: "100"},
			{Service: "Payroll", Amount: "not-a-number"},
		},
	})

	assert.Equal(t, "100", invoice.Subtotal.String())
	assert.Equal(t, "20", invoice.VATAmount.String())

	negative := -1.0
	_, err := f.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		BusinessID:    f.business.ID.String(),
		StartDate:     f.clock.Now(),
		DueDate:       f.clock.Now().AddDate(0, 1, 0),
		VATPercentage: &negative,
		LineItems:     []domain.LineItemInput{{Service: "Accounting", Amount: "10"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVAT)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		BusinessID: "nope",
		StartDate:  f.clock.Now(),
		DueDate:    f.clock.Now(),
		LineItems:  []domain.LineItemInput{{Service: "Accounting", Amount: "10"}},
	})
	assert.ErrorIs(t, err, businessdomain.ErrInvalidBusiness)

	_, err = f.svc.Create(ctx, domain.CreateInvoiceRequest{
		BusinessID: f.business.ID.String(),
		StartDate:  f.clock.Now(),
		DueDate:    f.clock.Now().AddDate(0, 1, 0),
		LineItems:  []domain.LineItemInput{{Service: "   ", Amount: "10"}},
	})
	assert.ErrorIs(t, err, domain.ErrNoLineItems)

	_, err = f.svc.Create(ctx, domain.CreateInvoiceRequest{
		BusinessID: f.business.ID.String(),
		StartDate:  f.clock.Now(),
		DueDate:    f.clock.Now().AddDate(0, -1, 0),
		LineItems:  []domain.LineItemInput{{Service: "Accounting", Amount: "10"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDates)
}

func TestUpdateReplacesLineItems(t *testing.T) {
	f := newFixture(t)

	invoice := f.create(t, domain.CreateInvoiceRequest{
		LineItems: []domain.LineItemInput{
			{Service: "Accounting", Amount: "50"},
			{Service: "Payroll", Amount: "25"},
		},
	})

	updated, err := f.svc.Update(context.Background(), invoice.ID.String(), domain.UpdateInvoiceRequest{
		StartDate: invoice.StartDate,
		DueDate:   invoice.DueDate,
		LineItems: []domain.LineItemInput{{Service: "Consulting", Amount: "200"}},
	})
	require.NoError(t, err)
	require.Len(t, updated.LineItems, 1)
	assert.Equal(t, "Consulting", updated.LineItems[0].Service)
	assert.Equal(t, "200", updated.Subtotal.String())
	assert.Equal(t, invoice.Code, updated.Code)

	reloaded, err := f.svc.GetByID(context.Background(), invoice.ID.String())
	require.NoError(t, err)
	require.Len(t, reloaded.LineItems, 1)
	assert.Equal(t, "Consulting", reloaded.LineItems[0].Service)
}

func TestDeleteRemovesInvoiceAndRecordsHistory(t *testing.T) {
	f := newFixture(t)

	invoice := f.create(t, domain.CreateInvoiceRequest{
		LineItems: []domain.LineItemInput{{Service: "Accounting", Amount: "50"}},
	})

	require.NoError(t, f.svc.Delete(context.Background(), invoice.ID.String()))

	_, err := f.svc.GetByID(context.Background(), invoice.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	res, err := f.history.Timeline(context.Background(), historydomain.TimelineRequest{BusinessID: f.business.ID})
	require.NoError(t, err)

	descriptions := make([]string, 0, len(res.Events))
	for _, event := range res.Events {
		descriptions = append(descriptions, event.Description)
	}
	assert.Contains(t, descriptions, "Invoice "+invoice.Code+" raised for Acme Widgets")
	assert.Contains(t, descriptions, "Invoice "+invoice.Code+" deleted")
}

func TestListFiltersBySearchAndDatePairing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f.create(t, domain.CreateInvoiceRequest{
		StartDate: march,
		DueDate:   march.AddDate(0, 1, 0),
		LineItems: []domain.LineItemInput{{Service: "Accounting", Amount: "50"}},
	})

	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f.create(t, domain.CreateInvoiceRequest{
		StartDate: june,
		DueDate:   june.AddDate(0, 1, 0),
		LineItems: []domain.LineItemInput{{Service: "Payroll", Amount: "25"}},
	})

	res, err := f.svc.List(ctx, domain.ListInvoiceRequest{Search: "payroll"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Payroll", res.Items[0].ServiceNames())

	res, err = f.svc.List(ctx, domain.ListInvoiceRequest{Search: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCount)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	res, err = f.svc.List(ctx, domain.ListInvoiceRequest{StartDate: &from})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, june, res.Items[0].StartDate)

	to := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	res, err = f.svc.List(ctx, domain.ListInvoiceRequest{EndDate: &to})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, march, res.Items[0].StartDate)
}

func TestListPaginates(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 16; i++ {
		f.create(t, domain.CreateInvoiceRequest{
			LineItems: []domain.LineItemInput{{Service: "Accounting", Amount: "10"}},
		})
	}

	res, err := f.svc.List(context.Background(), domain.ListInvoiceRequest{
		Pagination: pagination.Pagination{Page: 2, PageSize: 15},
	})
	require.NoError(t, err)
	assert.Equal(t, 16, res.TotalCount)
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.Items, 1)
}

func TestListByBusiness(t *testing.T) {
	f := newFixture(t)

	f.create(t, domain.CreateInvoiceRequest{
		LineItems: []domain.LineItemInput{{Service: "Accounting", Amount: "10"}},
	})

	invoices, err := f.svc.ListByBusiness(context.Background(), f.business.ID.String())
	require.NoError(t, err)
	assert.Len(t, invoices, 1)

	_, err = f.svc.ListByBusiness(context.Background(), "999999999999")
	assert.ErrorIs(t, err, businessdomain.ErrBusinessNotFound)
}

func TestDocumentFormatsAmounts(t *testing.T) {
	f := newFixture(t)

	invoice := f.create(t, domain.CreateInvoiceRequest{
		LineItems: []domain.LineItemInput{
			{Service: "Accounting", Amount: "50"},
			{Service: "Payroll", Amount: "25"},
		},
	})

	reader, err := f.svc.Document(context.Background(), invoice.ID.String())
	require.NoError(t, err)
	require.NotNil(t, reader)

	doc := f.pdf.lastDoc
	assert.Equal(t, invoice.Code, doc.Code)
	assert.Equal(t, "Acme Widgets", doc.BusinessName)
	assert.Equal(t, []string{"1 High Street", "London"}, doc.AddressLines)
	assert.Equal(t, "£75.00", doc.Subtotal)
	assert.Equal(t, "£13.50", doc.VATAmount)
	assert.Equal(t, "£88.50", doc.Total)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "£50.00", doc.Items[0].Amount)
}
