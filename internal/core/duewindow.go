package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDueSoonDays is the forward window for "due soon" classification.
const DefaultDueSoonDays = 60

// DueWindow classifies open documents against "today". Days sets the
// fixed forward window; CalendarMode instead extends the cutoff to the end
// of the next calendar month.
type DueWindow struct {
	Days         int
	CalendarMode bool
}

// PastDue reports whether the document is open, still carries an unpaid
// balance, and was due strictly before today. A document due today is not
// past due. Documents without a parseable due date are never classified.
func (w DueWindow) PastDue(doc Document, now time.Time) bool {
	if !doc.IsOpen() || !doc.DueDate.Valid() {
		return false
	}
	if !doc.Remaining.IsPositive() {
		return false
	}
	return doc.DueDate.Before(StartOfDay(now))
}

// DueSoon reports whether the document is open and due between today and
// the window cutoff, both inclusive.
func (w DueWindow) DueSoon(doc Document, now time.Time) bool {
	if !doc.IsOpen() || !doc.DueDate.Valid() {
		return false
	}
	today := StartOfDay(now)
	due := doc.DueDate.Time
	return !due.Before(today) && !due.After(w.cutoff(today))
}

// cutoff returns the last day still counted as "due soon".
func (w DueWindow) cutoff(today time.Time) time.Time {
	if w.CalendarMode {
		// Last day of next month: day zero of the month after it.
		return time.Date(today.Year(), today.Month()+2, 0, 0, 0, 0, 0, today.Location())
	}
	days := w.Days
	if days <= 0 {
		days = DefaultDueSoonDays
	}
	return today.AddDate(0, 0, days)
}

// PastDueTotal sums the outstanding amount of every past-due document:
// the unpaid remainder for invoices, the full total for orders.
func (w DueWindow) PastDueTotal(docs []Document, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, doc := range docs {
		if w.PastDue(doc, now) {
			total = total.Add(doc.Remaining)
		}
	}
	return total
}

// DueSoonTotal sums the outstanding amount of every due-soon document.
func (w DueWindow) DueSoonTotal(docs []Document, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, doc := range docs {
		if w.DueSoon(doc, now) {
			total = total.Add(doc.Remaining)
		}
	}
	return total
}
