package http

import (
	"encoding/json"
	"net/http"

	"github.com/Harith-design/webportal-sub000/internal/auth"
	"github.com/Harith-design/webportal-sub000/internal/erp"
)

// handleSubmitSalesOrder accepts a sales-order draft and places it with
// the ERP. The created document comes back so the client can jump to the
// orders list with the new row highlighted.
func (s *Server) handleSubmitSalesOrder(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())

	var draft erp.SalesOrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	doc, err := s.orders.Submit(r.Context(), session, draft)
	if err != nil {
		writeServiceError(w, r, err, "failed submitting sales order")
		return
	}

	s.audit.LogOrderSubmitted(r.Context(), doc.DocEntry, session.CardCode, session.Username, doc.Total.String())

	writeDataStatus(w, http.StatusCreated, toDocumentDetail(doc))
}
