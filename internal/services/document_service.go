// Package services orchestrates the portal's use cases on top of the ERP
// client, local storage and messaging.
package services

import (
	"context"
	"fmt"

	"github.com/Harith-design/webportal-sub000/internal/core"
	"github.com/Harith-design/webportal-sub000/internal/erp"
)

// ERPGateway is the slice of the ERP client the services need. The
// concrete implementation is erp.Client.
type ERPGateway interface {
	ListOrders(ctx context.Context, cardCode string) ([]core.Document, error)
	ListInvoices(ctx context.Context, cardCode string) ([]core.Document, error)
	GetOrder(ctx context.Context, docEntry int64) (core.Document, error)
	GetInvoiceDetails(ctx context.Context, docEntry int64) (core.Document, error)
	GetBusinessPartner(ctx context.Context, cardCode string) (core.BusinessPartner, error)
	GetBusinessPartnerAddresses(ctx context.Context, cardCode string) ([]core.Address, error)
	GetItem(ctx context.Context, itemCode string) (core.Item, error)
	CreateSalesOrder(ctx context.Context, draft erp.SalesOrderDraft) (core.Document, error)
}

// DocumentService serves the orders and invoices views: fetch the full
// list for the customer, run it through the filter engine, paginate.
type DocumentService struct {
	gateway ERPGateway
}

func NewDocumentService(gateway ERPGateway) *DocumentService {
	return &DocumentService{gateway: gateway}
}

// ListOrders returns one page of the customer's orders.
func (s *DocumentService) ListOrders(ctx context.Context, cardCode string, filter core.Filter, page, pageSize int) (core.Page, error) {
	docs, err := s.gateway.ListOrders(ctx, cardCode)
	if err != nil {
		return core.Page{}, fmt.Errorf("list orders for %s: %w", cardCode, err)
	}
	return core.Paginate(filter.Apply(docs), page, pageSize), nil
}

// ListInvoices returns one page of the customer's invoices.
func (s *DocumentService) ListInvoices(ctx context.Context, cardCode string, filter core.Filter, page, pageSize int) (core.Page, error) {
	docs, err := s.gateway.ListInvoices(ctx, cardCode)
	if err != nil {
		return core.Page{}, fmt.Errorf("list invoices for %s: %w", cardCode, err)
	}
	return core.Paginate(filter.Apply(docs), page, pageSize), nil
}

// GetOrder returns one order with line items.
func (s *DocumentService) GetOrder(ctx context.Context, docEntry int64) (core.Document, error) {
	return s.gateway.GetOrder(ctx, docEntry)
}

// GetInvoiceDetails returns one invoice with its line items.
func (s *DocumentService) GetInvoiceDetails(ctx context.Context, docEntry int64) (core.Document, error) {
	return s.gateway.GetInvoiceDetails(ctx, docEntry)
}

// GetBusinessPartner returns the customer's account record.
func (s *DocumentService) GetBusinessPartner(ctx context.Context, cardCode string) (core.BusinessPartner, error) {
	return s.gateway.GetBusinessPartner(ctx, cardCode)
}

// GetBusinessPartnerAddresses returns the bill-to/ship-to lists.
func (s *DocumentService) GetBusinessPartnerAddresses(ctx context.Context, cardCode string) ([]core.Address, error) {
	return s.gateway.GetBusinessPartnerAddresses(ctx, cardCode)
}

// GetItem returns one item-master record.
func (s *DocumentService) GetItem(ctx context.Context, itemCode string) (core.Item, error) {
	return s.gateway.GetItem(ctx, itemCode)
}
