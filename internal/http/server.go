// Package http serves the account book JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"accountbook/internal/category"
	"accountbook/internal/core"
	applog "accountbook/internal/log"
	"accountbook/internal/middleware/auth"
	"accountbook/internal/middleware/ratelimit"
	"accountbook/internal/middleware/security"
	"accountbook/internal/middleware/trace"
	"accountbook/internal/services"
)

// requestTimeout bounds every API handler.
const requestTimeout = 7 * time.Second

// Dependencies are the services the API is built on. Ready may be nil.
type Dependencies struct {
	Accounts     *services.AccountService
	Transactions *services.TransactionService
	Stats        *services.StatsService
	Exports      *services.ExportService
	Categories   *category.Directory

	Logger  *applog.Logger
	Limiter *ratelimit.Limiter
	IPs     *security.IPResolver
	Ready   func(ctx context.Context) error
	// Now is the clock used for "today". Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server
	deps  Dependencies
	trace *trace.Middleware

	shutdownOnce sync.Once
}

func NewServer(addr string, deps Dependencies) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.Config{Component: applog.ComponentHTTP, Handler: slog.Default().Handler()})
	}
	if deps.IPs == nil {
		deps.IPs, _ = security.NewIPResolver()
	}

	s := &Server{deps: deps}
	s.trace = trace.NewMiddleware(deps.Logger, deps.IPs.ClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	public := func(h http.HandlerFunc) http.Handler {
		return s.limited(http.TimeoutHandler(h, requestTimeout, `{"error":"request timed out"}`))
	}
	mux.Handle("POST /api/register", public(s.handleRegister))
	mux.Handle("POST /api/login", public(s.handleLogin))

	private := func(component string, h http.HandlerFunc) http.Handler {
		var next http.Handler = http.TimeoutHandler(h, requestTimeout, `{"error":"request timed out"}`)
		next = applog.ComponentMiddleware(component)(next)
		next = auth.Require(deps.Accounts, unauthorized)(next)
		return s.limited(next)
	}

	mux.Handle("GET /api/transactions", private(applog.ComponentLedger, s.handleListTransactions))
	mux.Handle("POST /api/transactions", private(applog.ComponentLedger, s.handleCreateTransaction))
	mux.Handle("GET /api/transactions/{id}", private(applog.ComponentLedger, s.handleGetTransaction))
	mux.Handle("PUT /api/transactions/{id}", private(applog.ComponentLedger, s.handleUpdateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", private(applog.ComponentLedger, s.handleDeleteTransaction))

	mux.Handle("GET /api/stats", private(applog.ComponentStats, s.handleStats))
	mux.Handle("GET /api/stats/quick-range", private(applog.ComponentStats, s.handleQuickRange))
	mux.Handle("GET /api/stats/categories/{key}", private(applog.ComponentStats, s.handleCategoryDetail))
	mux.Handle("GET /api/budget", private(applog.ComponentStats, s.handleBudget))

	mux.Handle("GET /api/categories", private(applog.ComponentLedger, s.handleListCategories))
	mux.Handle("POST /api/categories", private(applog.ComponentLedger, s.handleCreateCategory))
	mux.Handle("GET /api/categories/{key}", private(applog.ComponentLedger, s.handleCategoryName))

	mux.Handle("GET /api/profile", private(applog.ComponentAuth, s.handleProfile))
	mux.Handle("PUT /api/profile", private(applog.ComponentAuth, s.handleRename))
	mux.Handle("GET /api/settings", private(applog.ComponentAuth, s.handleGetSettings))
	mux.Handle("PUT /api/settings", private(applog.ComponentAuth, s.handleUpdateSettings))
	mux.Handle("DELETE /api/account", private(applog.ComponentAuth, s.handleDeleteAccount))

	mux.Handle("GET /api/export", private(applog.ComponentExport, s.handleExport))

	var handler http.Handler = mux
	handler = security.Headers(handler)
	handler = applog.Middleware(deps.Logger, trace.RequestIDFromRequest)(handler)
	handler = s.trace.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      requestTimeout + 3*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) limited(next http.Handler) http.Handler {
	if s.deps.Limiter == nil {
		return next
	}
	return s.deps.Limiter.Middleware(s.deps.IPs.ClientIP, tooManyRequests)(next)
}

// Shutdown stops the limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.deps.Limiter != nil {
			s.deps.Limiter.Stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) today() core.Date {
	return core.DateOf(s.deps.Now())
}

// session is set by auth.Require for every private route.
func session(r *http.Request) core.Session {
	sess, _ := auth.FromContext(r.Context())
	return sess
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
