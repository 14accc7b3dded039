package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document statuses as reported by the ERP. The backend sends free text, so
// these are the recognized values rather than a closed enum.
const (
	StatusOpen      = "Open"
	StatusClosed    = "Closed"
	StatusInTransit = "In Transit"
)

const (
	DocTypeOrder   DocType = "order"
	DocTypeInvoice DocType = "invoice"
)

type (
	DocType string

	// Date is a calendar day. The time component is always midnight local
	// time; a zero Date means the backend value was missing or unparseable.
	Date struct {
		time.Time
	}

	// Document is the canonical row shape shared by the orders, invoices
	// and dashboard views. Invoice-only fields stay zero for orders.
	Document struct {
		Type         DocType
		DocEntry     int64 // stable backend key, used for detail lookups
		ID           string
		PONo         string
		Customer     string
		CustomerCode string
		OrderDate    Date
		DueDate      Date
		Total        decimal.Decimal
		Currency     string
		Status       string
		Download     string

		PaidToDate decimal.Decimal
		Remaining  decimal.Decimal
		Discount   decimal.Decimal
		VAT        decimal.Decimal
		BillTo     string
		ShipTo     string
		Items      []LineItem
	}

	// LineItem is one row within an order or invoice detail.
	LineItem struct {
		No          int // 1-based position
		ItemCode    string
		Description string
		Qty         decimal.Decimal
		Price       decimal.Decimal
		Total       decimal.Decimal
	}

	// MonthlyBucket is one point of the 12-month purchase history series.
	MonthlyBucket struct {
		Year   int
		Month  time.Month
		Label  string
		Amount decimal.Decimal
	}

	// BusinessPartner is the ERP customer/vendor account record.
	BusinessPartner struct {
		CardCode string
		CardName string
		Balance  decimal.Decimal
		Currency string
	}

	// Address is one bill-to or ship-to entry of a business partner.
	Address struct {
		Type    string // "bill" or "ship"
		Name    string
		Street  string
		City    string
		Zip     string
		Country string
	}

	// Item is an item-master record (weight lookup for order entry).
	Item struct {
		ItemCode string
		ItemName string
		Weight   decimal.Decimal
		Price    decimal.Decimal
	}
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)

// statusCanon maps raw backend status spellings onto the canonical
// vocabulary. The ERP mixes SAP-style codes with plain words, and one
// upstream view labelled closed documents "Delivered"; the portal shows
// "Closed" for all of them.
var statusCanon = map[string]string{
	"open":       StatusOpen,
	"o":          StatusOpen,
	"bost_open":  StatusOpen,
	"closed":     StatusClosed,
	"c":          StatusClosed,
	"bost_close": StatusClosed,
	"delivered":  StatusClosed,
	"in transit": StatusInTransit,
}

// CanonStatus normalizes a raw backend status. Unrecognized values pass
// through trimmed, preserving the backend's free-text nature.
func CanonStatus(raw string) string {
	s := strings.TrimSpace(raw)
	if canon, ok := statusCanon[strings.ToLower(s)]; ok {
		return canon
	}
	return s
}

// IsOpen reports whether the document counts as open for due-window math.
func (d Document) IsOpen() bool {
	return d.Status == StatusOpen
}

// NewDate builds a Date at midnight local time.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// Valid reports whether the date carries a real calendar day.
func (d Date) Valid() bool {
	return !d.IsZero()
}

// Display renders the date as dd/mm/yyyy, the portal's display format.
// Zero dates render as an empty string.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}
