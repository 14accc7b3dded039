// Package http serves the portal's JSON API: the /api/sap/* document
// routes backed by the ERP, the dashboard, and the local auth/customer
// routes. Handlers read the session from the request context; nothing
// below this layer sees a bearer token.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Harith-design/webportal-sub000/internal/auth"
	"github.com/Harith-design/webportal-sub000/internal/core"
	"github.com/Harith-design/webportal-sub000/internal/erp"
	applog "github.com/Harith-design/webportal-sub000/internal/log"
	"github.com/Harith-design/webportal-sub000/internal/middleware/ratelimit"
	"github.com/Harith-design/webportal-sub000/internal/middleware/security"
	"github.com/Harith-design/webportal-sub000/internal/middleware/trace"
	"github.com/Harith-design/webportal-sub000/internal/services"
	"github.com/Harith-design/webportal-sub000/internal/storage"
)

// DocumentProvider lists and resolves ERP documents for one customer.
type DocumentProvider interface {
	ListOrders(ctx context.Context, cardCode string, filter core.Filter, page, pageSize int) (core.Page, error)
	ListInvoices(ctx context.Context, cardCode string, filter core.Filter, page, pageSize int) (core.Page, error)
	GetOrder(ctx context.Context, docEntry int64) (core.Document, error)
	GetInvoiceDetails(ctx context.Context, docEntry int64) (core.Document, error)
	GetBusinessPartner(ctx context.Context, cardCode string) (core.BusinessPartner, error)
	GetBusinessPartnerAddresses(ctx context.Context, cardCode string) ([]core.Address, error)
	GetItem(ctx context.Context, itemCode string) (core.Item, error)
}

// DashboardProvider assembles the per-customer dashboard.
type DashboardProvider interface {
	Overview(ctx context.Context, cardCode string) services.Dashboard
}

// OrderSubmitter validates and submits new sales orders.
type OrderSubmitter interface {
	Submit(ctx context.Context, session auth.Session, draft erp.SalesOrderDraft) (core.Document, error)
}

// UserStore resolves portal accounts and the customer directory.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (storage.User, error)
	GetUser(ctx context.Context, id int64) (storage.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	ListCustomers(ctx context.Context) ([]storage.Customer, error)
}

// Options carries the server's collaborators and tuning knobs.
type Options struct {
	Documents DocumentProvider
	Dashboard DashboardProvider
	Orders    OrderSubmitter
	Users     UserStore
	Tokens    *auth.TokenIssuer

	DefaultPageSize int
	MaxPageSize     int
}

type Server struct {
	http.Server

	documents DocumentProvider
	dashboard DashboardProvider
	orders    OrderSubmitter
	users     UserStore
	tokens    *auth.TokenIssuer

	defaultPageSize int
	maxPageSize     int

	apiLimiter   *ratelimit.Limiter
	loginLimiter *ratelimit.Limiter
	audit        *applog.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		documents:       opts.Documents,
		dashboard:       opts.Dashboard,
		orders:          opts.Orders,
		users:           opts.Users,
		tokens:          opts.Tokens,
		defaultPageSize: opts.DefaultPageSize,
		maxPageSize:     opts.MaxPageSize,
		apiLimiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		loginLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: 10,
			CleanupInterval:   5 * time.Minute,
		}),
		audit: applog.NewStructuredLogger(
			applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)),
	}
	if s.defaultPageSize < 1 {
		s.defaultPageSize = 20
	}
	if s.maxPageSize < s.defaultPageSize {
		s.maxPageSize = s.defaultPageSize
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	loginLimit := s.loginLimiter.Middleware(security.ExtractClientIP, nil)
	mux.Handle("POST /api/login", loginLimit(http.HandlerFunc(s.handleLogin)))

	mux.HandleFunc("GET /api/users/me", s.requireSession(s.handleCurrentUser))
	mux.HandleFunc("PUT /api/users/me/password", s.requireSession(s.handleChangePassword))
	mux.HandleFunc("GET /api/customers", s.requireSession(s.handleListCustomers))
	mux.HandleFunc("GET /api/dashboard", s.requireSession(s.handleDashboard))

	mux.HandleFunc("GET /api/sap/orders", s.requireSession(s.handleListOrders))
	mux.HandleFunc("GET /api/sap/orders/{docEntry}", s.requireSession(s.handleOrderDetail))
	mux.HandleFunc("GET /api/sap/invoices", s.requireSession(s.handleListInvoices))
	mux.HandleFunc("GET /api/sap/invoices/{docEntry}/details", s.requireSession(s.handleInvoiceDetails))
	mux.HandleFunc("GET /api/sap/business-partners/{cardCode}", s.requireSession(s.handleBusinessPartner))
	mux.HandleFunc("GET /api/sap/business-partners/{cardCode}/addresses", s.requireSession(s.handleBusinessPartnerAddresses))
	mux.HandleFunc("GET /api/sap/items/{itemCode}", s.requireSession(s.handleItem))
	mux.HandleFunc("POST /api/sap/sales-orders", s.requireSession(s.handleSubmitSalesOrder))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(security.ExtractClientIP)
	apiLimit := s.apiLimiter.Middleware(security.ExtractClientIP, nil)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           headers.Middleware(tracer.Middleware(apiLimit(mux))),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Shutdown stops the server and the rate limiter cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.apiLimiter.Stop()
		s.loginLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requireSession validates the bearer token and injects the session into
// the request context. Handlers never parse tokens themselves.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		session, err := s.tokens.Parse(token)
		if err != nil {
			slog.WarnContext(r.Context(), "Rejected session token", "error", err, "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next(w, r.WithContext(auth.WithSession(r.Context(), session)))
	}
}

// cardCodeFor resolves which customer code the request may act on. Plain
// users are pinned to their own code; admins may name another one.
func cardCodeFor(r *http.Request, session auth.Session, requested string) (string, bool) {
	if requested == "" || requested == session.CardCode {
		return session.CardCode, true
	}
	return requested, session.Role == "admin"
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
