package http

import (
	"net/http"
	"strings"

	"github.com/Harith-design/webportal-sub000/internal/auth"
)

// handleDashboard returns the customer's aggregate view. The service
// already tolerates individual ERP fetch failures, so this handler never
// reports an error; a fully failed fan-out just renders empty figures.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	cardCode, ok := cardCodeFor(r, session, strings.TrimSpace(r.URL.Query().Get("cardCode")))
	if !ok {
		writeError(w, http.StatusForbidden, "customer not accessible")
		return
	}

	overview := s.dashboard.Overview(r.Context(), cardCode)
	writeData(w, toDashboardView(overview))
}
