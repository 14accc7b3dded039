package http

import (
	"strconv"

	"github.com/Harith-design/webportal-sub000/internal/core"
	"github.com/Harith-design/webportal-sub000/internal/services"
)

// View models: the JSON shapes the browser consumes. Amounts go out both
// raw (for sorting in the client) and formatted for display.

type documentRow struct {
	DocEntry  int64  `json:"docEntry"`
	ID        string `json:"id"`
	PONo      string `json:"poNo"`
	Customer  string `json:"customer"`
	OrderDate string `json:"orderDate"`
	DueDate   string `json:"dueDate"`
	Total     string `json:"total"`
	TotalFmt  string `json:"totalFormatted"`
	Remaining string `json:"remaining,omitempty"`
	Status    string `json:"status"`
	Download  string `json:"download"`
	Highlight bool   `json:"highlight,omitempty"`
}

type lineItemView struct {
	No          int    `json:"no"`
	ItemCode    string `json:"itemCode"`
	Description string `json:"description"`
	Qty         string `json:"qty"`
	Price       string `json:"price"`
	Total       string `json:"total"`
}

type documentDetail struct {
	documentRow
	PaidToDate string         `json:"paidToDate,omitempty"`
	Discount   string         `json:"discount,omitempty"`
	VAT        string         `json:"vat,omitempty"`
	BillTo     string         `json:"billTo,omitempty"`
	ShipTo     string         `json:"shipTo,omitempty"`
	Items      []lineItemView `json:"items"`
}

type pageView struct {
	Items      []documentRow `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalItems int           `json:"totalItems"`
	TotalPages int           `json:"totalPages"`
}

type dashboardView struct {
	Balance          string              `json:"balance"`
	BalanceFmt       string              `json:"balanceFormatted"`
	Currency         string              `json:"currency"`
	OpenOrders       int                 `json:"openOrders"`
	OpenInvoices     int                 `json:"openInvoices"`
	OrdersDueSoon    string              `json:"ordersDueSoon"`
	InvoicesDueSoon  string              `json:"invoicesDueSoon"`
	InvoicesPastDue  string              `json:"invoicesPastDue"`
	MonthlyPurchases []monthlyBucketView `json:"monthlyPurchases"`
}

type monthlyBucketView struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

type businessPartnerView struct {
	CardCode   string `json:"cardCode"`
	CardName   string `json:"cardName"`
	Balance    string `json:"balance"`
	BalanceFmt string `json:"balanceFormatted"`
	Currency   string `json:"currency"`
}

type addressView struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type itemView struct {
	ItemCode string `json:"itemCode"`
	ItemName string `json:"itemName"`
	Weight   string `json:"weight"`
	Price    string `json:"price"`
}

func toDocumentRow(doc core.Document, highlight string) documentRow {
	row := documentRow{
		DocEntry:  doc.DocEntry,
		ID:        doc.ID,
		PONo:      doc.PONo,
		Customer:  doc.Customer,
		OrderDate: doc.OrderDate.Display(),
		DueDate:   doc.DueDate.Display(),
		Total:     doc.Total.String(),
		TotalFmt:  core.FormatAmount(doc.Total, doc.Currency),
		Status:    doc.Status,
		Download:  doc.Download,
	}
	if doc.Type == core.DocTypeInvoice {
		row.Remaining = doc.Remaining.String()
	}
	if highlight != "" && highlight == strconv.FormatInt(doc.DocEntry, 10) {
		row.Highlight = true
	}
	return row
}

func toPageView(page core.Page, highlight string) pageView {
	view := pageView{
		Items:      make([]documentRow, 0, len(page.Items)),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
	for _, doc := range page.Items {
		view.Items = append(view.Items, toDocumentRow(doc, highlight))
	}
	return view
}

func toDocumentDetail(doc core.Document) documentDetail {
	detail := documentDetail{
		documentRow: toDocumentRow(doc, ""),
		BillTo:      doc.BillTo,
		ShipTo:      doc.ShipTo,
		Items:       toLineItemViews(doc.Items),
	}
	if doc.Type == core.DocTypeInvoice {
		detail.PaidToDate = doc.PaidToDate.String()
		detail.Discount = doc.Discount.String()
		detail.VAT = doc.VAT.String()
	}
	return detail
}

func toLineItemViews(items []core.LineItem) []lineItemView {
	views := make([]lineItemView, 0, len(items))
	for _, it := range items {
		views = append(views, lineItemView{
			No:          it.No,
			ItemCode:    it.ItemCode,
			Description: it.Description,
			Qty:         it.Qty.String(),
			Price:       it.Price.String(),
			Total:       it.Total.String(),
		})
	}
	return views
}

func toDashboardView(d services.Dashboard) dashboardView {
	view := dashboardView{
		Balance:         d.Balance.String(),
		BalanceFmt:      core.FormatAmount(d.Balance, d.Currency),
		Currency:        d.Currency,
		OpenOrders:      d.OpenOrders,
		OpenInvoices:    d.OpenInvoices,
		OrdersDueSoon:   d.OrdersDueSoon.String(),
		InvoicesDueSoon: d.InvoicesDueSoon.String(),
		InvoicesPastDue: d.InvoicesPastDue.String(),
	}
	for _, b := range d.MonthlyPurchases {
		view.MonthlyPurchases = append(view.MonthlyPurchases, monthlyBucketView{
			Year:   b.Year,
			Month:  int(b.Month),
			Label:  b.Label,
			Amount: b.Amount.String(),
		})
	}
	return view
}

func toBusinessPartnerView(bp core.BusinessPartner) businessPartnerView {
	return businessPartnerView{
		CardCode:   bp.CardCode,
		CardName:   bp.CardName,
		Balance:    bp.Balance.String(),
		BalanceFmt: core.FormatAmount(bp.Balance, bp.Currency),
		Currency:   bp.Currency,
	}
}

func toAddressViews(addrs []core.Address) []addressView {
	views := make([]addressView, 0, len(addrs))
	for _, a := range addrs {
		views = append(views, addressView{
			Type:    a.Type,
			Name:    a.Name,
			Street:  a.Street,
			City:    a.City,
			Zip:     a.Zip,
			Country: a.Country,
		})
	}
	return views
}

func toItemView(it core.Item) itemView {
	return itemView{
		ItemCode: it.ItemCode,
		ItemName: it.ItemName,
		Weight:   it.Weight.String(),
		Price:    it.Price.String(),
	}
}
