package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/folio/internal/history/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	if event == nil {
		return nil
	}
	return db.WithContext(ctx).Create(event).Error
}

// ListBySource returns events in append order. Ordering the merged feed is
// the caller's concern.
func (r *repo) ListBySource(ctx context.Context, db *gorm.DB, businessID snowflake.ID, source domain.EventSource) ([]domain.Event, error) {
	var events []domain.Event
	err := db.WithContext(ctx).
		Where("business_id = ? AND source = ?", businessID, source).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
