package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Harith-design/webportal-sub000/internal/auth"
	"github.com/Harith-design/webportal-sub000/internal/core"
	"github.com/Harith-design/webportal-sub000/internal/erp"
	"github.com/Harith-design/webportal-sub000/internal/services"
	"github.com/Harith-design/webportal-sub000/internal/storage"
)

type stubDocuments struct {
	orders     []core.Document
	order      core.Document
	orderErr   error
	invoice    core.Document
	invoiceErr error
}

func (d *stubDocuments) ListOrders(ctx context.Context, cardCode string, filter core.Filter, page, pageSize int) (core.Page, error) {
	return core.Paginate(filter.Apply(d.orders), page, pageSize), nil
}

func (d *stubDocuments) ListInvoices(ctx context.Context, cardCode string, filter core.Filter, page, pageSize int) (core.Page, error) {
	return core.Paginate(filter.Apply(d.orders), page, pageSize), nil
}

func (d *stubDocuments) GetOrder(ctx context.Context, docEntry int64) (core.Document, error) {
	return d.order, d.orderErr
}

func (d *stubDocuments) GetInvoiceDetails(ctx context.Context, docEntry int64) (core.Document, error) {
	return d.invoice, d.invoiceErr
}

func (d *stubDocuments) GetBusinessPartner(ctx context.Context, cardCode string) (core.BusinessPartner, error) {
	return core.BusinessPartner{CardCode: cardCode, CardName: "Acme", Currency: "MYR"}, nil
}

func (d *stubDocuments) GetBusinessPartnerAddresses(ctx context.Context, cardCode string) ([]core.Address, error) {
	return []core.Address{{Type: "bill", City: "Kuala Lumpur"}}, nil
}

func (d *stubDocuments) GetItem(ctx context.Context, itemCode string) (core.Item, error) {
	return core.Item{ItemCode: itemCode}, nil
}

type stubDashboard struct{}

func (stubDashboard) Overview(ctx context.Context, cardCode string) services.Dashboard {
	return services.Dashboard{Currency: "MYR", OpenOrders: 3}
}

type stubOrders struct {
	submitted *erp.SalesOrderDraft
	err       error
}

func (o *stubOrders) Submit(ctx context.Context, session auth.Session, draft erp.SalesOrderDraft) (core.Document, error) {
	if o.err != nil {
		return core.Document{}, o.err
	}
	draft.CardCode = session.CardCode
	o.submitted = &draft
	return core.Document{Type: core.DocTypeOrder, DocEntry: 901, ID: "1100", Status: core.StatusOpen}, nil
}

type stubUsers struct {
	user storage.User
}

func (u *stubUsers) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	if username != u.user.Username {
		return storage.User{}, core.ErrNotFound
	}
	return u.user, nil
}

func (u *stubUsers) GetUser(ctx context.Context, id int64) (storage.User, error) {
	if id != u.user.ID {
		return storage.User{}, core.ErrNotFound
	}
	return u.user, nil
}

func (u *stubUsers) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	u.user.PasswordHash = passwordHash
	return nil
}

func (u *stubUsers) ListCustomers(ctx context.Context) ([]storage.Customer, error) {
	return []storage.Customer{
		{CardCode: "C1", Name: "Acme", Currency: "MYR"},
		{CardCode: "C2", Name: "Globex", Currency: "MYR"},
	}, nil
}

func testServer(t *testing.T) (*Server, *stubDocuments, *stubOrders, string) {
	t.Helper()

	hash, err := auth.HashPassword("secret-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users := &stubUsers{user: storage.User{
		ID:           1,
		Username:     "harith",
		PasswordHash: hash,
		Role:         "customer",
		CardCode:     "C1",
	}}

	docs := &stubDocuments{
		orders: []core.Document{
			{Type: core.DocTypeOrder, DocEntry: 10, ID: "1001", Customer: "Acme", CustomerCode: "C1", Status: core.StatusOpen, Currency: "MYR"},
			{Type: core.DocTypeOrder, DocEntry: 11, ID: "1002", Customer: "Acme", CustomerCode: "C1", Status: core.StatusClosed, Currency: "MYR"},
		},
		invoice: core.Document{
			Type: core.DocTypeInvoice, DocEntry: 555, ID: "9001", CustomerCode: "C1",
			Items: []core.LineItem{{No: 1, ItemCode: "FG-01", Qty: decimal.NewFromInt(2)}},
		},
	}
	orders := &stubOrders{}

	tokens := auth.NewTokenIssuer("test-secret-0123456789", time.Hour)
	s := NewServer(":0", Options{
		Documents:       docs,
		Dashboard:       stubDashboard{},
		Orders:          orders,
		Users:           users,
		Tokens:          tokens,
		DefaultPageSize: 20,
		MaxPageSize:     50,
	})
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	token, err := tokens.Issue(auth.Session{UserID: 1, Username: "harith", Role: "customer", CardCode: "C1"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return s, docs, orders, token
}

func doRequest(s *Server, method, target, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "203.0.113.9:4321"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealthEndpointsArePublic(t *testing.T) {
	s, _, _, _ := testServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(s, http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	s, _, _, token := testServer(t)

	if rec := doRequest(s, http.MethodGet, "/api/sap/orders", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/api/sap/orders", "not-a-token", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/api/sap/orders", token, ""); rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	s, _, _, _ := testServer(t)

	rec := doRequest(s, http.MethodPost, "/api/login", "", `{"username":"harith","password":"secret-password"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp loginResponse
	decodeData(t, rec, &resp)
	if resp.Token == "" {
		t.Error("login response missing token")
	}
	if resp.User.CardCode != "C1" {
		t.Errorf("user card code = %q", resp.User.CardCode)
	}

	// Wrong password and unknown user get the same answer.
	for _, body := range []string{
		`{"username":"harith","password":"wrong"}`,
		`{"username":"nobody","password":"secret-password"}`,
	} {
		rec := doRequest(s, http.MethodPost, "/api/login", "", body)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("bad credentials: status = %d, want 401", rec.Code)
		}
	}
}

func TestListOrders(t *testing.T) {
	s, _, _, token := testServer(t)

	rec := doRequest(s, http.MethodGet, "/api/sap/orders?status=Open&highlight=10", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var page pageView
	decodeData(t, rec, &page)
	if page.TotalItems != 1 || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}
	if page.Items[0].ID != "1001" || !page.Items[0].Highlight {
		t.Errorf("row = %+v, want docEntry 10 highlighted", page.Items[0])
	}
}

func TestHighlightMatchesDocEntryNotDocNum(t *testing.T) {
	s, _, _, token := testServer(t)

	// The human-facing document number is not the row key.
	rec := doRequest(s, http.MethodGet, "/api/sap/orders?highlight=1001", token, "")
	var page pageView
	decodeData(t, rec, &page)
	for _, row := range page.Items {
		if row.Highlight {
			t.Errorf("row %+v highlighted by document number", row)
		}
	}
}

func TestListOrdersClampsPageSize(t *testing.T) {
	s, _, _, token := testServer(t)

	rec := doRequest(s, http.MethodGet, "/api/sap/orders?pageSize=9999", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page pageView
	decodeData(t, rec, &page)
	if page.PageSize != 50 {
		t.Errorf("pageSize = %d, want clamp to 50", page.PageSize)
	}
}

func TestOrderDetailScopedToOwnCustomer(t *testing.T) {
	s, docs, _, token := testServer(t)

	docs.order = core.Document{Type: core.DocTypeOrder, DocEntry: 10, ID: "1001", CustomerCode: "C1"}
	if rec := doRequest(s, http.MethodGet, "/api/sap/orders/10", token, ""); rec.Code != http.StatusOK {
		t.Errorf("own order: status = %d, want 200", rec.Code)
	}

	docs.order = core.Document{Type: core.DocTypeOrder, DocEntry: 12, ID: "2001", CustomerCode: "C9"}
	if rec := doRequest(s, http.MethodGet, "/api/sap/orders/12", token, ""); rec.Code != http.StatusNotFound {
		t.Errorf("foreign order: status = %d, want 404", rec.Code)
	}

	docs.orderErr = core.ErrNotFound
	if rec := doRequest(s, http.MethodGet, "/api/sap/orders/99", token, ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing order: status = %d, want 404", rec.Code)
	}
}

func TestInvoiceDetailsScopedToOwnCustomer(t *testing.T) {
	s, docs, _, token := testServer(t)

	if rec := doRequest(s, http.MethodGet, "/api/sap/invoices/555/details", token, ""); rec.Code != http.StatusOK {
		t.Errorf("own invoice: status = %d, want 200", rec.Code)
	}

	docs.invoice = core.Document{Type: core.DocTypeInvoice, DocEntry: 556, ID: "9002", CustomerCode: "C9",
		Items: []core.LineItem{{No: 1, ItemCode: "FG-02", Qty: decimal.NewFromInt(1)}}}
	rec := doRequest(s, http.MethodGet, "/api/sap/invoices/556/details", token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign invoice: status = %d, want 404", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "FG-02") {
		t.Error("foreign invoice response leaked line items")
	}

	docs.invoiceErr = core.ErrNotFound
	if rec := doRequest(s, http.MethodGet, "/api/sap/invoices/999/details", token, ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing invoice: status = %d, want 404", rec.Code)
	}
}

func TestForeignBusinessPartnerForbidden(t *testing.T) {
	s, _, _, token := testServer(t)

	if rec := doRequest(s, http.MethodGet, "/api/sap/business-partners/C1", token, ""); rec.Code != http.StatusOK {
		t.Errorf("own partner: status = %d, want 200", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/api/sap/business-partners/C9", token, ""); rec.Code != http.StatusForbidden {
		t.Errorf("foreign partner: status = %d, want 403", rec.Code)
	}
}

func TestSubmitSalesOrder(t *testing.T) {
	s, _, orders, token := testServer(t)

	body := `{"docDueDate":"2026-09-30","documentLines":[{"itemCode":"FG-01","quantity":2,"unitPrice":15}]}`
	rec := doRequest(s, http.MethodPost, "/api/sap/sales-orders", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if orders.submitted == nil || orders.submitted.CardCode != "C1" {
		t.Errorf("submitted draft = %+v, want card code C1", orders.submitted)
	}

	rec = doRequest(s, http.MethodPost, "/api/sap/sales-orders", token, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rec.Code)
	}
}

func TestSubmitValidationErrorMapsTo422(t *testing.T) {
	s, _, orders, token := testServer(t)
	orders.err = core.ErrInvalidInput

	rec := doRequest(s, http.MethodPost, "/api/sap/sales-orders", token, `{"documentLines":[]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestChangePassword(t *testing.T) {
	s, _, _, token := testServer(t)

	rec := doRequest(s, http.MethodPut, "/api/users/me/password", token,
		`{"currentPassword":"wrong","newPassword":"longenough123"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong current password: status = %d, want 401", rec.Code)
	}

	rec = doRequest(s, http.MethodPut, "/api/users/me/password", token,
		`{"currentPassword":"secret-password","newPassword":"short"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("short new password: status = %d, want 422", rec.Code)
	}

	rec = doRequest(s, http.MethodPut, "/api/users/me/password", token,
		`{"currentPassword":"secret-password","newPassword":"longenough123"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("change password: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCustomersScopedToOwnEntry(t *testing.T) {
	s, _, _, token := testServer(t)

	rec := doRequest(s, http.MethodGet, "/api/customers", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var customers []customerView
	decodeData(t, rec, &customers)
	if len(customers) != 1 || customers[0].CardCode != "C1" {
		t.Errorf("customers = %+v, want only C1", customers)
	}
}

func TestDashboard(t *testing.T) {
	s, _, _, token := testServer(t)

	rec := doRequest(s, http.MethodGet, "/api/dashboard", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var view dashboardView
	decodeData(t, rec, &view)
	if view.OpenOrders != 3 || view.Currency != "MYR" {
		t.Errorf("dashboard = %+v", view)
	}
}

func TestLoginRateLimited(t *testing.T) {
	s, _, _, _ := testServer(t)

	var last int
	for i := 0; i < 11; i++ {
		rec := doRequest(s, http.MethodPost, "/api/login", "", `{"username":"harith","password":"wrong"}`)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("11th login attempt: status = %d, want 429", last)
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	s, _, _, _ := testServer(t)

	rec := doRequest(s, http.MethodGet, "/healthz", "", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}
