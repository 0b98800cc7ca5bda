package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// RecordEventRequest captures one history entry to append. Date defaults to
// the current time when zero; Type defaults from Source when empty.
type RecordEventRequest struct {
	BusinessID  snowflake.ID
	Source      EventSource
	Type        EventType
	Description string
	Date        time.Time
	TargetID    string
	TargetName  string
	Metadata    map[string]any
}

// TimelineRequest narrows the merged feed. Search matches the event
// description case-insensitively; the date bounds are inclusive.
type TimelineRequest struct {
	BusinessID snowflake.ID
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
}

type TimelineResponse struct {
	Events []Event `json:"history"`
}

type Service interface {
	Record(ctx context.Context, req RecordEventRequest) error
	Timeline(ctx context.Context, req TimelineRequest) (TimelineResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *Event) error
	ListBySource(ctx context.Context, db *gorm.DB, businessID snowflake.ID, source EventSource) ([]Event, error)
}

var (
	ErrInvalidBusiness    = errors.New("invalid_business")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidSource      = errors.New("invalid_source")
)
