package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EventType labels what kind of record an event describes. The value is
// rendered verbatim in timeline payloads.
type EventType string

const (
	EventTypeBusiness EventType = "Business"
	EventTypeInvoice  EventType = "Invoice"
	EventTypeUnknown  EventType = "Unknown"
)

// ParseEventType normalizes free-form type labels. Anything unrecognized
// collapses to EventTypeUnknown rather than failing the row.
func ParseEventType(s string) EventType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "business":
		return EventTypeBusiness
	case "invoice":
		return EventTypeInvoice
	default:
		return EventTypeUnknown
	}
}

// EventSource identifies which write path produced an event. The timeline
// reads the business source first and consults the invoice source only when
// the business source carries no invoice activity of its own.
type EventSource string

const (
	SourceBusiness EventSource = "business"
	SourceInvoice  EventSource = "invoice"
)

// Event is one append-only history row scoped to a business.
type Event struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	BusinessID  snowflake.ID      `gorm:"index" json:"businessId"`
	Source      EventSource       `gorm:"index" json:"-"`
	Type        EventType         `json:"type"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
	TargetID    string            `json:"targetId,omitempty"`
	TargetName  string            `json:"targetName,omitempty"`
	ActorID     string            `json:"-"`
	ActorName   string            `json:"createdBy,omitempty"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"-"`
}

func (Event) TableName() string {
	return "history_events"
}
