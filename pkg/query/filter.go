// Package query implements the in-memory search used by the console list
// views: case-insensitive free-text matching combined with an inclusive date
// range. Filtering is stable and total; it narrows a loaded collection
// without reordering it.
package query

import (
	"strings"
	"time"
)

// Query carries the list-view filter state. Zero values impose no
// constraint: an empty Text matches every record and a nil bound leaves that
// side of the date range open.
type Query struct {
	Text string
	From *time.Time
	To   *time.Time
}

// MatchSpec designates, per record type, which fields participate in text
// search and which dates are checked against each bound. FromDate and ToDate
// may return the same field (businesses, history events) or different ones
// (invoices pair their start date with From and due date with To).
type MatchSpec[T any] struct {
	Fields   func(T) []string
	FromDate func(T) time.Time
	ToDate   func(T) time.Time
}

// Filter returns the records matching q, preserving input order. Text and
// date constraints are conjunctive. Records whose searchable fields are all
// empty do not match a non-empty query, and a zero date fails a bound rather
// than erroring.
func Filter[T any](records []T, q Query, spec MatchSpec[T]) []T {
	out := make([]T, 0, len(records))
	for _, record := range records {
		if Matches(record, q, spec) {
			out = append(out, record)
		}
	}
	return out
}

// Matches reports whether a single record satisfies the query.
func Matches[T any](record T, q Query, spec MatchSpec[T]) bool {
	if !matchesText(record, q.Text, spec.Fields) {
		return false
	}
	if q.From != nil {
		if spec.FromDate == nil {
			return false
		}
		date := spec.FromDate(record)
		if date.IsZero() || date.Before(*q.From) {
			return false
		}
	}
	if q.To != nil {
		if spec.ToDate == nil {
			return false
		}
		date := spec.ToDate(record)
		if date.IsZero() || date.After(*q.To) {
			return false
		}
	}
	return true
}

func matchesText[T any](record T, text string, fields func(T) []string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	if fields == nil {
		return false
	}
	for _, field := range fields(record) {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
