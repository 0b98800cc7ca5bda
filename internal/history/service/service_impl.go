package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/folio/internal/clock"
	"github.com/smallbiznis/folio/internal/history/domain"
	obscontext "github.com/smallbiznis/folio/internal/observability/context"
	"github.com/smallbiznis/folio/pkg/query"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("history.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordEventRequest) error {
	if req.BusinessID == 0 {
		return domain.ErrInvalidBusiness
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.ErrInvalidDescription
	}

	source := req.Source
	switch source {
	case domain.SourceBusiness, domain.SourceInvoice:
	default:
		return domain.ErrInvalidSource
	}

	eventType := req.Type
	if eventType == "" {
		eventType = defaultTypeFor(source)
	}

	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	payload := map[string]any{}
	for key, value := range req.Metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}

	actorID, actorName := obscontext.ActorFromContext(ctx)

	event := domain.Event{
		ID:          s.genID.Generate(),
		BusinessID:  req.BusinessID,
		Source:      source,
		Type:        eventType,
		Description: description,
		Date:        date.UTC(),
		TargetID:    strings.TrimSpace(req.TargetID),
		TargetName:  strings.TrimSpace(req.TargetName),
		ActorID:     actorID,
		ActorName:   actorName,
		Metadata:    datatypes.JSONMap(payload),
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &event); err != nil {
		s.log.Error("failed to record history event",
			zap.String("business_id", req.BusinessID.String()),
			zap.String("source", string(source)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Timeline merges the business and invoice sources into one descending feed.
// The invoice source is consulted only when the business source carries no
// invoice-typed rows, so deployments that mirror invoice activity into the
// business source never see duplicates.
func (s *Service) Timeline(ctx context.Context, req domain.TimelineRequest) (domain.TimelineResponse, error) {
	if req.BusinessID == 0 {
		return domain.TimelineResponse{}, domain.ErrInvalidBusiness
	}

	businessEvents, err := s.repo.ListBySource(ctx, s.db, req.BusinessID, domain.SourceBusiness)
	if err != nil {
		return domain.TimelineResponse{}, err
	}

	var invoiceEvents []domain.Event
	if !domain.HasInvoiceEvents(businessEvents) {
		invoiceEvents, err = s.repo.ListBySource(ctx, s.db, req.BusinessID, domain.SourceInvoice)
		if err != nil {
			return domain.TimelineResponse{}, err
		}
	}

	merged := domain.MergeTimeline(businessEvents, invoiceEvents)

	filtered := query.Filter(merged, query.Query{
		Text: req.Search,
		From: req.StartDate,
		To:   req.EndDate,
	}, query.MatchSpec[domain.Event]{
		Fields: func(e domain.Event) []string {
			return []string{e.Description}
		},
		FromDate: func(e domain.Event) time.Time { return e.Date },
		ToDate:   func(e domain.Event) time.Time { return e.Date },
	})

	return domain.TimelineResponse{Events: filtered}, nil
}

func defaultTypeFor(source domain.EventSource) domain.EventType {
	switch source {
	case domain.SourceInvoice:
		return domain.EventTypeInvoice
	case domain.SourceBusiness:
		return domain.EventTypeBusiness
	default:
		return domain.EventTypeUnknown
	}
}
