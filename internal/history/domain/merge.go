package domain

import "sort"

// HasInvoiceEvents reports whether events already carries invoice activity.
// When the business source contains invoice-typed rows, the timeline treats
// it as authoritative and skips the invoice source entirely.
func HasInvoiceEvents(events []Event) bool {
	for _, event := range events {
		if event.Type == EventTypeInvoice {
			return true
		}
	}
	return false
}

// MergeTimeline combines business and invoice events into a single feed
// sorted newest first. Events with no date sink to the end. The sort is
// stable, so rows sharing a date keep their input order with business
// events ahead of invoice events.
func MergeTimeline(businessEvents, invoiceEvents []Event) []Event {
	merged := make([]Event, 0, len(businessEvents)+len(invoiceEvents))
	merged = append(merged, businessEvents...)
	merged = append(merged, invoiceEvents...)

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i].Date, merged[j].Date
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})

	return merged
}
