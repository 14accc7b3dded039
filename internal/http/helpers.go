package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Harith-design/webportal-sub000/internal/core"
)

// writeData writes a 200 response with the portal's {"data": ...} envelope.
func writeData(w http.ResponseWriter, v any) {
	writeDataStatus(w, http.StatusOK, v)
}

func writeDataStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": v}); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}

// writeServiceError maps the domain error vocabulary onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrUnauthorized):
		writeError(w, http.StatusBadGateway, "backend rejected the request")
	case errors.Is(err, core.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), msg, "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// parseFilter reads the list filter query parameters. Unparseable dates
// are treated as absent rather than erroring, matching the forgiving
// behavior of the rest of the pipeline.
func parseFilter(r *http.Request) core.Filter {
	q := r.URL.Query()
	return core.Filter{
		Status:    strings.TrimSpace(q.Get("status")),
		Search:    strings.TrimSpace(q.Get("search")),
		OrderFrom: core.ParseDate(q.Get("orderFrom")),
		OrderTo:   core.ParseDate(q.Get("orderTo")),
		DueFrom:   core.ParseDate(q.Get("dueFrom")),
		DueTo:     core.ParseDate(q.Get("dueTo")),
	}
}

// parsePaging reads page and pageSize, clamping pageSize to the
// configured maximum.
func (s *Server) parsePaging(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = s.defaultPageSize

	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(q.Get("pageSize")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return page, pageSize
}

// pathInt64 reads an integer path segment such as {docEntry}.
func pathInt64(r *http.Request, name string) (int64, bool) {
	v := r.PathValue(name)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
