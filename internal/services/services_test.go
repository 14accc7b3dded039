package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Harith-design/webportal-sub000/internal/amqp"
	"github.com/Harith-design/webportal-sub000/internal/auth"
	"github.com/Harith-design/webportal-sub000/internal/core"
	"github.com/Harith-design/webportal-sub000/internal/erp"
)

// fakeGateway is an in-memory ERPGateway for service tests.
type fakeGateway struct {
	orders   []core.Document
	invoices []core.Document
	partner  core.BusinessPartner

	ordersErr   error
	invoicesErr error
	partnerErr  error

	createdDraft *erp.SalesOrderDraft
	createErr    error
}

func (f *fakeGateway) ListOrders(ctx context.Context, cardCode string) ([]core.Document, error) {
	return f.orders, f.ordersErr
}

func (f *fakeGateway) ListInvoices(ctx context.Context, cardCode string) ([]core.Document, error) {
	return f.invoices, f.invoicesErr
}

func (f *fakeGateway) GetOrder(ctx context.Context, docEntry int64) (core.Document, error) {
	for _, d := range f.orders {
		if d.DocEntry == docEntry {
			return d, nil
		}
	}
	return core.Document{}, core.ErrNotFound
}

func (f *fakeGateway) GetInvoiceDetails(ctx context.Context, docEntry int64) (core.Document, error) {
	return core.Document{}, nil
}

func (f *fakeGateway) GetBusinessPartner(ctx context.Context, cardCode string) (core.BusinessPartner, error) {
	return f.partner, f.partnerErr
}

func (f *fakeGateway) GetBusinessPartnerAddresses(ctx context.Context, cardCode string) ([]core.Address, error) {
	return nil, nil
}

func (f *fakeGateway) GetItem(ctx context.Context, itemCode string) (core.Item, error) {
	return core.Item{ItemCode: itemCode}, nil
}

func (f *fakeGateway) CreateSalesOrder(ctx context.Context, draft erp.SalesOrderDraft) (core.Document, error) {
	if f.createErr != nil {
		return core.Document{}, f.createErr
	}
	f.createdDraft = &draft
	return core.Document{DocEntry: 901, ID: "1100", Total: decimal.NewFromInt(42), Status: core.StatusOpen}, nil
}

type fakePublisher struct {
	published []*amqp.OrderSubmittedMessage
	err       error
}

func (f *fakePublisher) PublishOrderSubmitted(ctx context.Context, msg *amqp.OrderSubmittedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func openOrder(id string, total float64, due string) core.Document {
	return core.Document{
		Type:      core.DocTypeOrder,
		ID:        id,
		Status:    core.StatusOpen,
		OrderDate: core.ParseDate(due),
		DueDate:   core.ParseDate(due),
		Total:     decimal.NewFromFloat(total),
		Remaining: decimal.NewFromFloat(total),
	}
}

func TestDocumentService_ListOrdersFiltersAndPaginates(t *testing.T) {
	gw := &fakeGateway{orders: []core.Document{
		openOrder("1001", 10, "2026-08-01"),
		openOrder("1002", 20, "2026-08-02"),
		openOrder("1003", 30, "2026-08-03"),
	}}
	svc := NewDocumentService(gw)

	page, err := svc.ListOrders(context.Background(), "C1", core.Filter{Search: "100"}, 2, 2)
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if page.TotalItems != 3 || page.TotalPages != 2 || page.Page != 2 {
		t.Errorf("page meta = %+v", page)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "1003" {
		t.Errorf("items = %+v", page.Items)
	}
}

func TestDocumentService_ListOrdersErrorSurfaces(t *testing.T) {
	gw := &fakeGateway{ordersErr: errors.New("erp down")}
	svc := NewDocumentService(gw)

	_, err := svc.ListOrders(context.Background(), "C1", core.Filter{}, 1, 10)
	if err == nil {
		t.Fatal("want error when the ERP fetch fails")
	}
}

func TestDashboardService_Overview(t *testing.T) {
	gw := &fakeGateway{
		orders: []core.Document{
			openOrder("1001", 100, "2026-09-05"),
			{Type: core.DocTypeOrder, ID: "1002", Status: core.StatusClosed, Total: decimal.NewFromInt(500)},
		},
		invoices: []core.Document{
			{
				Type: core.DocTypeInvoice, ID: "I-1", Status: core.StatusOpen,
				DueDate:   core.ParseDate("2020-01-01"),
				Total:     decimal.NewFromInt(100),
				Remaining: decimal.NewFromInt(60),
			},
		},
		partner: core.BusinessPartner{CardCode: "C1", Balance: decimal.NewFromInt(777), Currency: "MYR"},
	}
	svc := NewDashboardService(gw, core.DueWindow{Days: 60})

	d := svc.Overview(context.Background(), "C1")

	if d.Balance.String() != "777" {
		t.Errorf("balance = %s", d.Balance)
	}
	if d.OpenOrders != 1 || d.OpenInvoices != 1 {
		t.Errorf("open counts = %d orders, %d invoices", d.OpenOrders, d.OpenInvoices)
	}
	if d.InvoicesPastDue.String() != "60" {
		t.Errorf("past due = %s, want 60", d.InvoicesPastDue)
	}
	if len(d.MonthlyPurchases) != 12 {
		t.Errorf("monthly series length = %d, want 12", len(d.MonthlyPurchases))
	}
}

func TestDashboardService_ToleratesFailedLegs(t *testing.T) {
	gw := &fakeGateway{
		orders:      []core.Document{openOrder("1001", 100, "2026-09-05")},
		invoicesErr: errors.New("invoices endpoint down"),
		partnerErr:  errors.New("bp endpoint down"),
	}
	svc := NewDashboardService(gw, core.DueWindow{Days: 60})

	d := svc.Overview(context.Background(), "C1")

	if d.OpenOrders != 1 {
		t.Errorf("orders leg should still resolve, got %d", d.OpenOrders)
	}
	if d.OpenInvoices != 0 || !d.InvoicesPastDue.IsZero() {
		t.Errorf("failed invoice leg should degrade to empty, got %+v", d)
	}
	if d.Currency != core.DefaultCurrency {
		t.Errorf("currency = %q, want default on failed BP leg", d.Currency)
	}
}

func TestOrderEntryService_Submit(t *testing.T) {
	gw := &fakeGateway{}
	pub := &fakePublisher{}
	svc := NewOrderEntryService(gw, pub)
	session := auth.Session{UserID: 1, Username: "harith", CardCode: "C0012"}

	draft := erp.SalesOrderDraft{
		CardCode: "SPOOFED", // must be overridden by the session
		DueDate:  "2026-09-30",
		Lines:    []erp.SalesOrderLine{{ItemCode: "FG-01", Qty: 2, Price: 15}},
	}

	doc, err := svc.Submit(context.Background(), session, draft)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if doc.DocEntry != 901 {
		t.Errorf("doc = %+v", doc)
	}
	if gw.createdDraft.CardCode != "C0012" {
		t.Errorf("card code = %q, want session's C0012", gw.createdDraft.CardCode)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
	if pub.published[0].SubmittedBy != "harith" || pub.published[0].DocEntry != 901 {
		t.Errorf("event = %+v", pub.published[0])
	}
}

func TestOrderEntryService_SubmitValidation(t *testing.T) {
	svc := NewOrderEntryService(&fakeGateway{}, nil)
	session := auth.Session{CardCode: "C1"}

	tests := []struct {
		name  string
		draft erp.SalesOrderDraft
	}{
		{name: "no lines", draft: erp.SalesOrderDraft{DueDate: "2026-09-30"}},
		{name: "zero quantity", draft: erp.SalesOrderDraft{
			DueDate: "2026-09-30",
			Lines:   []erp.SalesOrderLine{{ItemCode: "FG-01", Qty: 0}},
		}},
		{name: "missing item code", draft: erp.SalesOrderDraft{
			DueDate: "2026-09-30",
			Lines:   []erp.SalesOrderLine{{Qty: 1}},
		}},
		{name: "bad due date", draft: erp.SalesOrderDraft{
			DueDate: "someday",
			Lines:   []erp.SalesOrderLine{{ItemCode: "FG-01", Qty: 1}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), session, tt.draft); !errors.Is(err, core.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestOrderEntryService_PublishFailureIsNotFatal(t *testing.T) {
	gw := &fakeGateway{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewOrderEntryService(gw, pub)

	_, err := svc.Submit(context.Background(), auth.Session{CardCode: "C1"}, erp.SalesOrderDraft{
		DueDate: "2026-09-30",
		Lines:   []erp.SalesOrderLine{{ItemCode: "FG-01", Qty: 1}},
	})
	if err != nil {
		t.Errorf("Submit should succeed despite publish failure, got %v", err)
	}
}

func TestDashboardDerive_UsesProvidedClock(t *testing.T) {
	svc := NewDashboardService(&fakeGateway{}, core.DueWindow{Days: 60})
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local)

	orders := []core.Document{openOrder("1001", 100, "2026-09-05")}
	d := svc.derive(orders, nil, core.BusinessPartner{}, now)

	if d.OrdersDueSoon.String() != "100" {
		t.Errorf("orders due soon = %s, want 100", d.OrdersDueSoon)
	}
	if d.MonthlyPurchases[11].Month != time.August || d.MonthlyPurchases[11].Year != 2026 {
		t.Errorf("last bucket = %v %d, want August 2026", d.MonthlyPurchases[11].Month, d.MonthlyPurchases[11].Year)
	}
}
