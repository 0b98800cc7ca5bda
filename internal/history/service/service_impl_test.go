package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/folio/internal/clock"
	"github.com/smallbiznis/folio/internal/history/domain"
	"github.com/smallbiznis/folio/internal/history/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Event{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	svc := &Service{
		db:    db,
		log:   zaptest.NewLogger(t),
		genID: node,
		clock: fake,
		repo:  repository.Provide(),
	}
	return svc, db, fake
}

func record(t *testing.T, svc *Service, req domain.RecordEventRequest) {
	t.Helper()
	require.NoError(t, svc.Record(context.Background(), req))
}

func TestRecordValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Record(ctx, domain.RecordEventRequest{Source: domain.SourceBusiness, Description: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidBusiness)

	err = svc.Record(ctx, domain.RecordEventRequest{BusinessID: 1, Source: domain.SourceBusiness, Description: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)

	err = svc.Record(ctx, domain.RecordEventRequest{BusinessID: 1, Source: "webhook", Description: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidSource)
}

func TestRecordDefaultsTypeAndDate(t *testing.T) {
	svc, db, fake := newTestService(t)
	businessID := svc.genID.Generate()

	record(t, svc, domain.RecordEventRequest{
		BusinessID:  businessID,
		Source:      domain.SourceInvoice,
		Description: "Invoice INV-01 raised",
	})

	var saved domain.Event
	require.NoError(t, db.First(&saved).Error)
	assert.Equal(t, domain.EventTypeInvoice, saved.Type)
	assert.Equal(t, fake.Now(), saved.Date)
}

func TestTimelineMergesBothSources(t *testing.T) {
	svc, _, fake := newTestService(t)
	businessID := svc.genID.Generate()

	record(t, svc, domain.RecordEventRequest{
		BusinessID:  businessID,
		Source:      domain.SourceBusiness,
		Description: "Business registered",
		Date:        fake.Now().AddDate(0, -3, 0),
	})
	record(t, svc, domain.RecordEventRequest{
		BusinessID:  businessID,
		Source:      domain.SourceInvoice,
		Description: "Invoice INV-01 raised",
		Date:        fake.Now(),
	})

	res, err := svc.Timeline(context.Background(), domain.TimelineRequest{BusinessID: businessID})
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Equal(t, "Invoice INV-01 raised", res.Events[0].Description)
	assert.Equal(t, "Business registered", res.Events[1].Description)
}

func TestTimelineSkipsInvoiceSourceWhenMirrored(t *testing.T) {
	svc, _, fake := newTestService(t)
	businessID := svc.genID.Generate()

	// The business source already carries an invoice-typed row, so the
	// dedicated invoice source must be ignored entirely.
	record(t, svc, domain.RecordEventRequest{
		BusinessID:  businessID,
		Source:      domain.SourceBusiness,
		Type:        domain.EventTypeInvoice,
		Description: "Invoice INV-01 raised",
		Date:        fake.Now(),
	})
	record(t, svc, domain.RecordEventRequest{
		BusinessID:  businessID,
		Source:      domain.SourceInvoice,
		Description: "duplicate row",
		Date:        fake.Now(),
	})

	res, err := svc.Timeline(context.Background(), domain.TimelineRequest{BusinessID: businessID})
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Invoice INV-01 raised", res.Events[0].Description)
}

func TestTimelineFilters(t *testing.T) {
	svc, _, _ := newTestService(t)
	businessID := svc.genID.Generate()

	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	record(t, svc, domain.RecordEventRequest{
		BusinessID:  businessID,
		Source:      domain.SourceBusiness,
		Description: "Business registered",
		Date:        jan,
	})
	record(t, svc, domain.RecordEventRequest{
		BusinessID:  businessID,
		Source:      domain.SourceBusiness,
		Description: "Address updated",
		Date:        jun,
	})

	res, err := svc.Timeline(context.Background(), domain.TimelineRequest{
		BusinessID: businessID,
		Search:     "address",
	})
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Address updated", res.Events[0].Description)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err = svc.Timeline(context.Background(), domain.TimelineRequest{
		BusinessID: businessID,
		StartDate:  &from,
	})
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Address updated", res.Events[0].Description)
}

func TestTimelineScopedToBusiness(t *testing.T) {
	svc, _, _ := newTestService(t)
	first := svc.genID.Generate()
	second := svc.genID.Generate()

	record(t, svc, domain.RecordEventRequest{
		BusinessID:  first,
		Source:      domain.SourceBusiness,
		Description: "Business registered",
	})

	res, err := svc.Timeline(context.Background(), domain.TimelineRequest{BusinessID: second})
	require.NoError(t, err)
	assert.Empty(t, res.Events)
}
