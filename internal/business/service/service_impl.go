package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/folio/internal/business/domain"
	"github.com/smallbiznis/folio/internal/clock"
	historydomain "github.com/smallbiznis/folio/internal/history/domain"
	"github.com/smallbiznis/folio/pkg/db"
	"github.com/smallbiznis/folio/pkg/db/pagination"
	"github.com/smallbiznis/folio/pkg/query"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	History historydomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	history historydomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("business.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		history: p.History,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBusinessRequest) (*domain.Business, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if strings.TrimSpace(req.Address.Building) == "" {
		return nil, domain.ErrInvalidBuilding
	}

	now := s.clock.Now()
	business := domain.Business{
		ID:          s.genID.Generate(),
		Code:        slug.Make(name),
		Name:        name,
		Type:        domain.ParseBusinessType(req.Type),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		VATNumber:   strings.TrimSpace(req.VATNumber),
		Address: domain.Address{
			Building: strings.TrimSpace(req.Address.Building),
			Street:   strings.TrimSpace(req.Address.Street),
			City:     strings.TrimSpace(req.Address.City),
			Postcode: strings.TrimSpace(req.Address.Postcode),
			Country:  strings.TrimSpace(req.Address.Country),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, s.db, &business); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrBusinessExists
		}
		return nil, err
	}

	s.recordEvent(ctx, business.ID, fmt.Sprintf("Business %s registered", business.Name), business)

	return &business, nil
}

// List loads the registry and applies search, date range and paging in
// memory. The registry is console-scale; the filter semantics match the
// other list views exactly.
func (s *Service) List(ctx context.Context, req domain.ListBusinessRequest) (domain.ListBusinessResponse, error) {
	businesses, err := s.repo.List(ctx, s.db)
	if err != nil {
		return domain.ListBusinessResponse{}, err
	}

	filtered := query.Filter(businesses, query.Query{
		Text: req.Search,
		From: req.StartDate,
		To:   req.EndDate,
	}, query.MatchSpec[domain.Business]{
		Fields: func(b domain.Business) []string {
			return []string{b.Name, b.Code}
		},
		FromDate: func(b domain.Business) time.Time { return b.CreatedAt },
		ToDate:   func(b domain.Business) time.Time { return b.CreatedAt },
	})

	return pagination.Paginate(filtered, req.Pagination), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	businessID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidBusiness
	}
	return s.repo.FindByID(ctx, s.db, businessID)
}

// recordEvent appends to the business history feed. History is best effort;
// a write failure must not roll back the mutation it describes.
func (s *Service) recordEvent(ctx context.Context, businessID snowflake.ID, description string, business domain.Business) {
	err := s.history.Record(ctx, historydomain.RecordEventRequest{
		BusinessID:  businessID,
		Source:      historydomain.SourceBusiness,
		Type:        historydomain.EventTypeBusiness,
		Description: description,
		TargetID:    businessID.String(),
		TargetName:  business.Name,
		Metadata: map[string]any{
			"business_code": business.Code,
			"business_type": string(business.Type),
		},
	})
	if err != nil {
		s.log.Warn("failed to record business history event",
			zap.String("business_id", businessID.String()),
			zap.Error(err),
		)
	}
}
