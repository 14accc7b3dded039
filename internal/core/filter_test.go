package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testDocs() []Document {
	return []Document{
		{ID: "1001", PONo: "PO-1", Customer: "Ayam Mas", Status: StatusOpen, OrderDate: ParseDate("2026-08-01"), DueDate: ParseDate("2026-09-01"), Total: decimal.NewFromInt(100)},
		{ID: "1002", PONo: "PO-2", Customer: "Restoran Seri", Status: StatusClosed, OrderDate: ParseDate("2026-08-10"), DueDate: ParseDate("2026-09-10"), Total: decimal.NewFromInt(200)},
		{ID: "1003", PONo: "PO-3", Customer: "Pasar Segar", Status: StatusOpen, OrderDate: ParseDate("2026-08-20"), DueDate: ParseDate("2026-09-20"), Total: decimal.NewFromInt(300)},
	}
}

func ids(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter_Status(t *testing.T) {
	docs := testDocs()

	if got := (Filter{Status: StatusAll}).Apply(docs); !equalIDs(ids(got), []string{"1001", "1002", "1003"}) {
		t.Errorf(`status "all" changed the set: %v`, ids(got))
	}
	if got := (Filter{Status: StatusOpen}).Apply(docs); !equalIDs(ids(got), []string{"1001", "1003"}) {
		t.Errorf("status Open = %v, want [1001 1003]", ids(got))
	}
	if got := (Filter{Status: "In Transit"}).Apply(docs); len(got) != 0 {
		t.Errorf("unmatched status should return empty, got %v", ids(got))
	}
}

func TestFilter_Search(t *testing.T) {
	docs := testDocs()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "document id", query: "1002", want: []string{"1002"}},
		{name: "po number", query: "po-3", want: []string{"1003"}},
		{name: "customer substring case-insensitive", query: "ayam", want: []string{"1001"}},
		{name: "shared prefix matches all", query: "100", want: []string{"1001", "1002", "1003"}},
		{name: "no match", query: "zzz", want: []string{}},
		{name: "blank matches all", query: "  ", want: []string{"1001", "1002", "1003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids((Filter{Search: tt.query}).Apply(docs))
			if !equalIDs(got, tt.want) {
				t.Errorf("search %q = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilter_DateRanges(t *testing.T) {
	docs := testDocs()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "start only means exact day",
			filter: Filter{OrderFrom: ParseDate("2026-08-10")},
			want:   []string{"1002"},
		},
		{
			name:   "inclusive range",
			filter: Filter{OrderFrom: ParseDate("2026-08-01"), OrderTo: ParseDate("2026-08-10")},
			want:   []string{"1001", "1002"},
		},
		{
			name:   "due date range independent of order date",
			filter: Filter{DueFrom: ParseDate("2026-09-05"), DueTo: ParseDate("2026-09-30")},
			want:   []string{"1002", "1003"},
		},
		{
			name:   "no bounds no constraint",
			filter: Filter{},
			want:   []string{"1001", "1002", "1003"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.filter.Apply(docs))
			if !equalIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_MissingDateFailsActiveConstraint(t *testing.T) {
	docs := []Document{{ID: "X", Status: StatusOpen}}
	got := (Filter{DueFrom: ParseDate("2026-01-01"), DueTo: ParseDate("2026-12-31")}).Apply(docs)
	if len(got) != 0 {
		t.Errorf("row without due date matched a due-date range: %v", ids(got))
	}
}

func TestFilter_PredicatesCompose(t *testing.T) {
	docs := testDocs()
	f := Filter{
		Status:    StatusOpen,
		Search:    "pasar",
		OrderFrom: ParseDate("2026-08-01"),
		OrderTo:   ParseDate("2026-08-31"),
	}
	if got := ids(f.Apply(docs)); !equalIDs(got, []string{"1003"}) {
		t.Errorf("combined filter = %v, want [1003]", got)
	}
}

func TestFilter_ApplyDoesNotMutateSource(t *testing.T) {
	docs := testDocs()
	_ = (Filter{Status: StatusOpen}).Apply(docs)
	if !equalIDs(ids(docs), []string{"1001", "1002", "1003"}) {
		t.Errorf("source slice mutated: %v", ids(docs))
	}
}

func TestPaginate(t *testing.T) {
	docs := testDocs()

	tests := []struct {
		name           string
		page, pageSize int
		wantIDs        []string
		wantPage       int
		wantTotalPages int
	}{
		{name: "first page", page: 1, pageSize: 2, wantIDs: []string{"1001", "1002"}, wantPage: 1, wantTotalPages: 2},
		{name: "last partial page", page: 2, pageSize: 2, wantIDs: []string{"1003"}, wantPage: 2, wantTotalPages: 2},
		{name: "past the end clamps", page: 9, pageSize: 2, wantIDs: []string{"1003"}, wantPage: 2, wantTotalPages: 2},
		{name: "before the start clamps", page: 0, pageSize: 2, wantIDs: []string{"1001", "1002"}, wantPage: 1, wantTotalPages: 2},
		{name: "oversized page size", page: 1, pageSize: 50, wantIDs: []string{"1001", "1002", "1003"}, wantPage: 1, wantTotalPages: 1},
		{name: "page size floor of one", page: 2, pageSize: 0, wantIDs: []string{"1002"}, wantPage: 2, wantTotalPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(docs, tt.page, tt.pageSize)
			if !equalIDs(ids(p.Items), tt.wantIDs) {
				t.Errorf("items = %v, want %v", ids(p.Items), tt.wantIDs)
			}
			if p.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.TotalPages != tt.wantTotalPages {
				t.Errorf("totalPages = %d, want %d", p.TotalPages, tt.wantTotalPages)
			}
			if p.TotalItems != len(docs) {
				t.Errorf("totalItems = %d, want %d", p.TotalItems, len(docs))
			}
		})
	}
}

func TestPaginate_EmptyList(t *testing.T) {
	p := Paginate(nil, 1, 10)
	if p.TotalPages != 1 || p.Page != 1 || len(p.Items) != 0 {
		t.Errorf("empty list page = %+v, want page 1 of 1 with no items", p)
	}
}

// Filters must be order-independent: applying them in any sequence yields
// the same final set.
func TestFilter_OrderIndependence(t *testing.T) {
	docs := testDocs()

	combined := Filter{Status: StatusOpen, Search: "100", OrderFrom: ParseDate("2026-08-01"), OrderTo: ParseDate("2026-08-31")}
	sequential := (Filter{OrderFrom: ParseDate("2026-08-01"), OrderTo: ParseDate("2026-08-31")}).
		Apply((Filter{Search: "100"}).
			Apply((Filter{Status: StatusOpen}).Apply(docs)))

	if !equalIDs(ids(combined.Apply(docs)), ids(sequential)) {
		t.Errorf("combined %v != sequential %v", ids(combined.Apply(docs)), ids(sequential))
	}
}
