package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Harith-design/webportal-sub000/internal/core"
)

// Dashboard is the aggregate view for one customer.
type Dashboard struct {
	Balance  decimal.Decimal
	Currency string

	OpenOrders   int
	OpenInvoices int

	OrdersDueSoon    decimal.Decimal
	InvoicesDueSoon  decimal.Decimal
	InvoicesPastDue  decimal.Decimal
	MonthlyPurchases []core.MonthlyBucket
}

// DashboardService assembles the dashboard with one fan-out over the ERP.
type DashboardService struct {
	gateway ERPGateway
	window  core.DueWindow
}

func NewDashboardService(gateway ERPGateway, window core.DueWindow) *DashboardService {
	return &DashboardService{gateway: gateway, window: window}
}

// Overview fetches orders, invoices and the BP balance concurrently and
// derives the dashboard figures. A failed leg degrades to empty data so
// the dashboard still renders what did resolve; only the error is logged.
func (s *DashboardService) Overview(ctx context.Context, cardCode string) Dashboard {
	var (
		orders   []core.Document
		invoices []core.Document
		partner  core.BusinessPartner
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.gateway.ListOrders(gctx, cardCode)
		if err != nil {
			slog.ErrorContext(gctx, "Dashboard orders fetch failed", "error", err, "card_code", cardCode)
			return nil
		}
		orders = docs
		return nil
	})
	g.Go(func() error {
		docs, err := s.gateway.ListInvoices(gctx, cardCode)
		if err != nil {
			slog.ErrorContext(gctx, "Dashboard invoices fetch failed", "error", err, "card_code", cardCode)
			return nil
		}
		invoices = docs
		return nil
	})
	g.Go(func() error {
		bp, err := s.gateway.GetBusinessPartner(gctx, cardCode)
		if err != nil {
			slog.ErrorContext(gctx, "Dashboard balance fetch failed", "error", err, "card_code", cardCode)
			return nil
		}
		partner = bp
		return nil
	})
	_ = g.Wait() // legs swallow their own errors

	return s.derive(orders, invoices, partner, time.Now())
}

func (s *DashboardService) derive(orders, invoices []core.Document, partner core.BusinessPartner, now time.Time) Dashboard {
	d := Dashboard{
		Balance:          partner.Balance,
		Currency:         partner.Currency,
		OrdersDueSoon:    s.window.DueSoonTotal(orders, now),
		InvoicesDueSoon:  s.window.DueSoonTotal(invoices, now),
		InvoicesPastDue:  s.window.PastDueTotal(invoices, now),
		MonthlyPurchases: core.MonthlySeries(orders, now),
	}
	if d.Currency == "" {
		d.Currency = core.DefaultCurrency
	}
	for _, doc := range orders {
		if doc.IsOpen() {
			d.OpenOrders++
		}
	}
	for _, doc := range invoices {
		if doc.IsOpen() {
			d.OpenInvoices++
		}
	}
	return d
}
