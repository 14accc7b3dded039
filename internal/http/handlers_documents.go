package http

import (
	"net/http"
	"strings"

	"github.com/Harith-design/webportal-sub000/internal/auth"
)

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	cardCode, ok := cardCodeFor(r, session, strings.TrimSpace(r.URL.Query().Get("cardCode")))
	if !ok {
		writeError(w, http.StatusForbidden, "customer not accessible")
		return
	}

	page, pageSize := s.parsePaging(r)
	result, err := s.documents.ListOrders(r.Context(), cardCode, parseFilter(r), page, pageSize)
	if err != nil {
		writeServiceError(w, r, err, "failed listing orders")
		return
	}

	writeData(w, toPageView(result, strings.TrimSpace(r.URL.Query().Get("highlight"))))
}

func (s *Server) handleOrderDetail(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	docEntry, ok := pathInt64(r, "docEntry")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document entry")
		return
	}

	doc, err := s.documents.GetOrder(r.Context(), docEntry)
	if err != nil {
		writeServiceError(w, r, err, "failed loading order")
		return
	}
	// A customer may only open their own documents.
	if session.Role != "admin" && doc.CustomerCode != "" && doc.CustomerCode != session.CardCode {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeData(w, toDocumentDetail(doc))
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	cardCode, ok := cardCodeFor(r, session, strings.TrimSpace(r.URL.Query().Get("cardCode")))
	if !ok {
		writeError(w, http.StatusForbidden, "customer not accessible")
		return
	}

	page, pageSize := s.parsePaging(r)
	result, err := s.documents.ListInvoices(r.Context(), cardCode, parseFilter(r), page, pageSize)
	if err != nil {
		writeServiceError(w, r, err, "failed listing invoices")
		return
	}

	writeData(w, toPageView(result, strings.TrimSpace(r.URL.Query().Get("highlight"))))
}

func (s *Server) handleInvoiceDetails(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	docEntry, ok := pathInt64(r, "docEntry")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document entry")
		return
	}

	doc, err := s.documents.GetInvoiceDetails(r.Context(), docEntry)
	if err != nil {
		writeServiceError(w, r, err, "failed loading invoice details")
		return
	}
	// A customer may only open their own documents.
	if session.Role != "admin" && doc.CustomerCode != "" && doc.CustomerCode != session.CardCode {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeData(w, toLineItemViews(doc.Items))
}

func (s *Server) handleBusinessPartner(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	cardCode, ok := cardCodeFor(r, session, r.PathValue("cardCode"))
	if !ok {
		writeError(w, http.StatusForbidden, "customer not accessible")
		return
	}

	bp, err := s.documents.GetBusinessPartner(r.Context(), cardCode)
	if err != nil {
		writeServiceError(w, r, err, "failed loading business partner")
		return
	}

	writeData(w, toBusinessPartnerView(bp))
}

func (s *Server) handleBusinessPartnerAddresses(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	cardCode, ok := cardCodeFor(r, session, r.PathValue("cardCode"))
	if !ok {
		writeError(w, http.StatusForbidden, "customer not accessible")
		return
	}

	addrs, err := s.documents.GetBusinessPartnerAddresses(r.Context(), cardCode)
	if err != nil {
		writeServiceError(w, r, err, "failed loading addresses")
		return
	}

	writeData(w, toAddressViews(addrs))
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	itemCode := strings.TrimSpace(r.PathValue("itemCode"))
	if itemCode == "" {
		writeError(w, http.StatusBadRequest, "invalid item code")
		return
	}

	item, err := s.documents.GetItem(r.Context(), itemCode)
	if err != nil {
		writeServiceError(w, r, err, "failed loading item")
		return
	}

	writeData(w, toItemView(item))
}
