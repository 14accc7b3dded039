// Package erp is the outbound client for the remote ERP REST service. It
// decodes the service's loosely-shaped payloads and hands back canonical
// core types, so the rest of the portal never touches raw ERP records.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Harith-design/webportal-sub000/internal/cache"
	"github.com/Harith-design/webportal-sub000/internal/core"
)

const (
	itemCacheSize = 500
	itemCacheTTL  = 10 * time.Minute
)

// Client talks to the ERP service with a bearer token. Detail fetches are
// de-duplicated per (endpoint, id): rapid repeated opens of the same
// document share one in-flight request instead of racing.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client

	details   singleflight.Group
	itemCache *cache.LRUCache[core.Item]
}

// NewClient builds a client for the ERP service at baseURL. The token is
// attached to every request; httpc may be nil for the default client.
func NewClient(baseURL, token string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{
		baseURL:   baseURL,
		token:     token,
		httpc:     httpc,
		itemCache: cache.NewLRUCache[core.Item](itemCacheSize, itemCacheTTL),
	}
}

// ListOrders fetches the sales orders for one customer code.
func (c *Client) ListOrders(ctx context.Context, cardCode string) ([]core.Document, error) {
	raws, err := c.getRecords(ctx, "/api/sap/orders", url.Values{"cardCode": {cardCode}})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return normalizeAll(raws, core.DocTypeOrder), nil
}

// ListInvoices fetches the invoices for one customer code.
func (c *Client) ListInvoices(ctx context.Context, cardCode string) ([]core.Document, error) {
	raws, err := c.getRecords(ctx, "/api/sap/invoices", url.Values{"cardCode": {cardCode}})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return normalizeAll(raws, core.DocTypeInvoice), nil
}

// GetOrder fetches one order with its line items.
func (c *Client) GetOrder(ctx context.Context, docEntry int64) (core.Document, error) {
	key := "order/" + strconv.FormatInt(docEntry, 10)
	v, err, shared := c.details.Do(key, func() (any, error) {
		raw, err := c.getRecord(ctx, "/api/sap/orders/"+strconv.FormatInt(docEntry, 10))
		if err != nil {
			return core.Document{}, err
		}
		doc := core.NormalizeDocument(raw, core.DocTypeOrder)
		doc.Items = core.NormalizeLineItems(lineRecords(raw))
		return doc, nil
	})
	if err != nil {
		return core.Document{}, fmt.Errorf("get order %d: %w", docEntry, err)
	}
	if shared {
		slog.DebugContext(ctx, "Order detail fetch de-duplicated", "doc_entry", docEntry)
	}
	return v.(core.Document), nil
}

// GetInvoiceDetails fetches one invoice with its line items. The full
// document comes back so callers can check who the invoice belongs to.
func (c *Client) GetInvoiceDetails(ctx context.Context, docEntry int64) (core.Document, error) {
	key := "invoice/" + strconv.FormatInt(docEntry, 10)
	v, err, _ := c.details.Do(key, func() (any, error) {
		raw, err := c.getRecord(ctx, "/api/sap/invoices/"+strconv.FormatInt(docEntry, 10)+"/details")
		if err != nil {
			return core.Document{}, err
		}
		doc := core.NormalizeDocument(raw, core.DocTypeInvoice)
		doc.Items = core.NormalizeLineItems(lineRecords(raw))
		return doc, nil
	})
	if err != nil {
		return core.Document{}, fmt.Errorf("get invoice details %d: %w", docEntry, err)
	}
	return v.(core.Document), nil
}

// GetBusinessPartner fetches the customer account record (balance).
func (c *Client) GetBusinessPartner(ctx context.Context, cardCode string) (core.BusinessPartner, error) {
	raw, err := c.getRecord(ctx, "/api/sap/business-partners/"+url.PathEscape(cardCode))
	if err != nil {
		return core.BusinessPartner{}, fmt.Errorf("get business partner %s: %w", cardCode, err)
	}
	return core.NormalizeBusinessPartner(raw), nil
}

// GetBusinessPartnerAddresses fetches the bill-to/ship-to address lists.
func (c *Client) GetBusinessPartnerAddresses(ctx context.Context, cardCode string) ([]core.Address, error) {
	raws, err := c.getRecords(ctx, "/api/sap/business-partners/"+url.PathEscape(cardCode)+"/addresses", nil)
	if err != nil {
		return nil, fmt.Errorf("get business partner addresses %s: %w", cardCode, err)
	}
	addrs := make([]core.Address, 0, len(raws))
	for _, raw := range raws {
		addrs = append(addrs, normalizeAddress(raw))
	}
	return addrs, nil
}

// GetItem fetches one item-master record, cached with a short TTL since
// item weights change rarely and the order form looks items up repeatedly.
func (c *Client) GetItem(ctx context.Context, itemCode string) (core.Item, error) {
	if item, ok := c.itemCache.Get(itemCode); ok {
		return item, nil
	}
	v, err, _ := c.details.Do("item/"+itemCode, func() (any, error) {
		raw, err := c.getRecord(ctx, "/api/sap/items/"+url.PathEscape(itemCode))
		if err != nil {
			return core.Item{}, err
		}
		return core.NormalizeItem(raw), nil
	})
	if err != nil {
		return core.Item{}, fmt.Errorf("get item %s: %w", itemCode, err)
	}
	item := v.(core.Item)
	c.itemCache.Set(itemCode, item)
	return item, nil
}

// CreateSalesOrder posts a new sales order and returns the created
// document as reported back by the ERP.
func (c *Client) CreateSalesOrder(ctx context.Context, draft SalesOrderDraft) (core.Document, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return core.Document{}, fmt.Errorf("marshal sales order: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/sap/sales-orders", nil, bytes.NewReader(body))
	if err != nil {
		return core.Document{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.doRecord(req)
	if err != nil {
		return core.Document{}, fmt.Errorf("create sales order: %w", err)
	}
	return core.NormalizeDocument(raw, core.DocTypeOrder), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) getRecords(ctx context.Context, path string, query url.Values) ([]core.Record, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body)
}

func (c *Client) getRecord(ctx context.Context, path string) (core.Record, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return c.doRecord(req)
}

func (c *Client) doRecord(req *http.Request) (core.Record, error) {
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", req.URL.Path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", req.URL.Path, core.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", req.URL.Path, core.ErrUnauthorized)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}
	return body, nil
}

func normalizeAll(raws []core.Record, docType core.DocType) []core.Document {
	docs := make([]core.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, core.NormalizeDocument(raw, docType))
	}
	return docs
}

// lineRecords pulls the detail lines out of a document record; the ERP
// nests them under different keys depending on the endpoint.
func lineRecords(raw core.Record) []core.Record {
	for _, key := range []string{"DocumentLines", "documentLines", "items", "lines"} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			continue
		}
		records := make([]core.Record, 0, len(list))
		for _, entry := range list {
			if m, ok := entry.(map[string]any); ok {
				records = append(records, core.Record(m))
			}
		}
		return records
	}
	return nil
}

func normalizeAddress(raw core.Record) core.Address {
	addr := core.Address{
		Type:    "ship",
		Name:    stringAt(raw, "AddressName", "addressName", "name"),
		Street:  stringAt(raw, "Street", "street"),
		City:    stringAt(raw, "City", "city"),
		Zip:     stringAt(raw, "ZipCode", "zipCode", "zip"),
		Country: stringAt(raw, "Country", "country"),
	}
	switch stringAt(raw, "AddressType", "addressType", "type") {
	case "bo_BillTo", "bill", "billTo":
		addr.Type = "bill"
	}
	return addr
}

func stringAt(raw core.Record, names ...string) string {
	for _, name := range names {
		if s, ok := raw[name].(string); ok {
			return s
		}
	}
	return ""
}
