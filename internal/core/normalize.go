package core

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// The ERP's payload shape is inconsistent across endpoints and versions:
// the same logical value arrives under different field names ("DocTotal"
// on one list endpoint, "total" on another). Each canonical field maps to
// its source-field candidates, resolved in priority order, so everything
// downstream of the normalizer only ever sees the canonical shape.
var docAliases = map[string][]string{
	"docEntry":     {"DocEntry", "docEntry"},
	"id":           {"DocNum", "docNum", "id", "salesNo"},
	"poNo":         {"NumAtCard", "numAtCard", "poNo", "PoNo"},
	"customer":     {"CardName", "cardName", "customer", "customerName"},
	"customerCode": {"CardCode", "cardCode", "customerCode"},
	"orderDate":    {"DocDate", "docDate", "orderDate", "date"},
	"dueDate":      {"DocDueDate", "docDueDate", "dueDate"},
	"total":        {"DocTotal", "docTotal", "total"},
	"currency":     {"DocCurrency", "docCurrency", "currency"},
	"status":       {"DocumentStatus", "documentStatus", "status"},
	"download":     {"AttachmentEntry", "download", "downloadUrl"},
	"paidToDate":   {"PaidToDate", "paidToDate", "paid"},
	"discount":     {"TotalDiscount", "DiscountTotal", "discount"},
	"vat":          {"VatSum", "vatSum", "vat", "tax"},
	"billTo":       {"Address", "billTo", "billToAddress"},
	"shipTo":       {"Address2", "shipTo", "shipToAddress"},
}

var lineAliases = map[string][]string{
	"itemCode":    {"ItemCode", "itemCode"},
	"description": {"ItemDescription", "Dscription", "itemName", "description"},
	"qty":         {"Quantity", "quantity", "qty"},
	"price":       {"Price", "UnitPrice", "price", "unitPrice"},
}

// Record is one loosely-typed row as decoded from an ERP response.
type Record map[string]any

// NormalizeDocument maps one backend record onto the canonical row shape.
// Missing fields fall back to "", zero, or "#" for links; the function
// never fails on malformed input.
func NormalizeDocument(raw Record, docType DocType) Document {
	doc := Document{
		Type:         docType,
		DocEntry:     intField(raw, "docEntry"),
		ID:           stringField(raw, "id"),
		PONo:         stringField(raw, "poNo"),
		Customer:     stringField(raw, "customer"),
		CustomerCode: stringField(raw, "customerCode"),
		OrderDate:    ParseDate(stringField(raw, "orderDate")),
		DueDate:      ParseDate(stringField(raw, "dueDate")),
		Total:        amountField(raw, "total"),
		Currency:     stringField(raw, "currency"),
		Status:       CanonStatus(stringField(raw, "status")),
		Download:     stringField(raw, "download"),
	}
	if doc.Currency == "" {
		doc.Currency = DefaultCurrency
	}
	if doc.Download == "" {
		doc.Download = "#"
	}

	switch docType {
	case DocTypeInvoice:
		doc.PaidToDate = amountField(raw, "paidToDate")
		doc.Remaining = Remaining(doc.Total, doc.PaidToDate)
		doc.Discount = amountField(raw, "discount")
		doc.VAT = amountField(raw, "vat")
		doc.BillTo = stringField(raw, "billTo")
		doc.ShipTo = stringField(raw, "shipTo")
	default:
		// Nothing is ever paid against an open order, so the whole total
		// is outstanding for due-window purposes.
		doc.Remaining = doc.Total
	}

	return doc
}

// NormalizeLineItems maps backend detail rows onto line items. Position is
// 1-based and the line total is always derived from qty and price, never
// trusted from the payload.
func NormalizeLineItems(raws []Record) []LineItem {
	items := make([]LineItem, 0, len(raws))
	for i, raw := range raws {
		qty := amountField(raw, "qty")
		price := amountField(raw, "price")
		items = append(items, LineItem{
			No:          i + 1,
			ItemCode:    stringField(raw, "itemCode"),
			Description: stringField(raw, "description"),
			Qty:         qty,
			Price:       price,
			Total:       qty.Mul(price),
		})
	}
	return items
}

// NormalizeBusinessPartner maps a BP record; balance tolerates the same
// loose typing as document totals.
func NormalizeBusinessPartner(raw Record) BusinessPartner {
	bp := BusinessPartner{
		CardCode: firstString(raw, "CardCode", "cardCode"),
		CardName: firstString(raw, "CardName", "cardName", "name"),
		Balance:  ParseAmount(firstValue(raw, "CurrentAccountBalance", "Balance", "balance")),
		Currency: firstString(raw, "Currency", "currency"),
	}
	if bp.Currency == "" {
		bp.Currency = DefaultCurrency
	}
	return bp
}

// NormalizeItem maps an item-master record.
func NormalizeItem(raw Record) Item {
	return Item{
		ItemCode: firstString(raw, "ItemCode", "itemCode"),
		ItemName: firstString(raw, "ItemName", "itemName", "name"),
		Weight:   ParseAmount(firstValue(raw, "InventoryWeight", "SalesUnitWeight", "weight")),
		Price:    ParseAmount(firstValue(raw, "Price", "price")),
	}
}

func stringField(raw Record, canonical string) string {
	return firstString(raw, docAliasesOrLine(canonical)...)
}

func amountField(raw Record, canonical string) decimal.Decimal {
	return ParseAmount(firstValue(raw, docAliasesOrLine(canonical)...))
}

func intField(raw Record, canonical string) int64 {
	v := firstValue(raw, docAliasesOrLine(canonical)...)
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
	}
	return 0
}

func docAliasesOrLine(canonical string) []string {
	if names, ok := docAliases[canonical]; ok {
		return names
	}
	return lineAliases[canonical]
}

// firstValue returns the first present, non-nil value among the candidate
// field names.
func firstValue(raw Record, names ...string) any {
	for _, name := range names {
		if v, ok := raw[name]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstString is firstValue narrowed to strings; numbers are rendered so a
// numeric document number still becomes a display id.
func firstString(raw Record, names ...string) string {
	switch v := firstValue(raw, names...).(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; document numbers are integral.
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
