package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMergeTimelineSortsNewestFirst(t *testing.T) {
	merged := MergeTimeline(
		[]Event{{Description: "created", Type: EventTypeBusiness, Date: date("2024-01-01")}},
		[]Event{{Description: "invoice issued", Type: EventTypeInvoice, Date: date("2024-06-01")}},
	)

	require.Len(t, merged, 2)
	assert.Equal(t, "invoice issued", merged[0].Description)
	assert.Equal(t, "created", merged[1].Description)
}

func TestMergeTimelineZeroDatesSink(t *testing.T) {
	merged := MergeTimeline(
		[]Event{
			{Description: "undated", Type: EventTypeBusiness},
			{Description: "old", Type: EventTypeBusiness, Date: date("2020-03-15")},
		},
		nil,
	)

	require.Len(t, merged, 2)
	assert.Equal(t, "old", merged[0].Description)
	assert.Equal(t, "undated", merged[1].Description)
}

func TestMergeTimelineStableOnEqualDates(t *testing.T) {
	day := date("2024-04-10")
	merged := MergeTimeline(
		[]Event{
			{Description: "business first", Date: day},
			{Description: "business second", Date: day},
		},
		[]Event{{Description: "invoice", Date: day}},
	)

	require.Len(t, merged, 3)
	assert.Equal(t, "business first", merged[0].Description)
	assert.Equal(t, "business second", merged[1].Description)
	assert.Equal(t, "invoice", merged[2].Description)
}

func TestMergeTimelineEmptyInputs(t *testing.T) {
	assert.Empty(t, MergeTimeline(nil, nil))

	merged := MergeTimeline(nil, []Event{{Description: "only invoice", Date: date("2024-01-01")}})
	require.Len(t, merged, 1)
	assert.Equal(t, "only invoice", merged[0].Description)
}

func TestHasInvoiceEvents(t *testing.T) {
	assert.False(t, HasInvoiceEvents(nil))
	assert.False(t, HasInvoiceEvents([]Event{{Type: EventTypeBusiness}, {Type: EventTypeUnknown}}))
	assert.True(t, HasInvoiceEvents([]Event{{Type: EventTypeBusiness}, {Type: EventTypeInvoice}}))
}

func TestParseEventType(t *testing.T) {
	assert.Equal(t, EventTypeBusiness, ParseEventType(" Business "))
	assert.Equal(t, EventTypeInvoice, ParseEventType("INVOICE"))
	assert.Equal(t, EventTypeUnknown, ParseEventType("payment"))
	assert.Equal(t, EventTypeUnknown, ParseEventType(""))
}
