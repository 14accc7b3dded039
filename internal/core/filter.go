package core

import "strings"

// StatusAll disables the status filter.
const StatusAll = "all"

// Filter holds the user-controlled list filters. Predicates compose with
// logical AND; zero values impose no constraint.
type Filter struct {
	Status string // exact status, or StatusAll / "" for no filter
	Search string // case-insensitive substring over id, PO no, customer

	OrderFrom Date
	OrderTo   Date
	DueFrom   Date
	DueTo     Date
}

// Match reports whether the document passes every active predicate.
func (f Filter) Match(doc Document) bool {
	if f.Status != "" && f.Status != StatusAll && doc.Status != f.Status {
		return false
	}
	if !matchDateRange(doc.OrderDate, f.OrderFrom, f.OrderTo) {
		return false
	}
	if !matchDateRange(doc.DueDate, f.DueFrom, f.DueTo) {
		return false
	}
	if f.Search != "" && !matchSearch(doc, f.Search) {
		return false
	}
	return true
}

// Apply returns the documents passing the filter, in input order. The
// source slice is never mutated; views are recomputed, not cached.
func (f Filter) Apply(docs []Document) []Document {
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if f.Match(doc) {
			out = append(out, doc)
		}
	}
	return out
}

// matchDateRange applies one date-range predicate. With only a start date
// the row must fall on that exact calendar day; with both bounds the match
// is inclusive. A document without a parseable date fails any active
// constraint.
func matchDateRange(d, from, to Date) bool {
	if !from.Valid() && !to.Valid() {
		return true
	}
	if !d.Valid() {
		return false
	}
	if from.Valid() && !to.Valid() {
		return d.SameDay(from)
	}
	if from.Valid() && d.Before(from.Time) {
		return false
	}
	if to.Valid() && d.After(to.Time) {
		return false
	}
	return true
}

func matchSearch(doc Document, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{doc.ID, doc.PONo, doc.Customer} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Page is one paginated slice of a filtered list.
type Page struct {
	Items      []Document
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Paginate slices docs into the requested 1-based page. The page number is
// clamped to [1, totalPages], so stepping past either end is a no-op for
// callers that feed the returned Page.Page back in.
func Paginate(docs []Document, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	totalItems := len(docs)
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return Page{
		Items:      docs[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
