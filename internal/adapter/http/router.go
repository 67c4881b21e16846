package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/adapter/http/handler"
	"github.com/iho/cashflow/internal/adapter/http/middleware"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	TransactionHandler *handler.TransactionHandler
	PartnerHandler     *handler.PartnerHandler
	BudgetHandler      *handler.BudgetHandler
	DashboardHandler   *handler.DashboardHandler
	StateHandler       *handler.StateHandler
	InsightHandler     *handler.InsightHandler
	HealthHandler      *handler.HealthHandler

	Authenticator    *middleware.Authenticator
	IdempotencyStore middleware.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	CORSOrigins      []string
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.NewCORS(cfg.CORSOrigins).Handler)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)
		r.Get("/tools/amount", handler.Amount)

		r.Group(func(r chi.Router) {
			r.Use(cfg.Authenticator.Authenticate)

			// Auth
			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Get("/auth/me", cfg.AuthHandler.Me)
			r.With(middleware.RequirePermission(domain.Role.CanManageState)).Get("/auth/users", cfg.AuthHandler.ListUsers)

			// Transactions
			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Record)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/recent", cfg.TransactionHandler.Recent)
				r.Get("/export.csv", cfg.TransactionHandler.ExportCSV)
				r.Get("/{id}", cfg.TransactionHandler.Get)
			})

			// Customers and vendors
			r.Route("/partners/{kind}", func(r chi.Router) {
				r.Get("/", cfg.PartnerHandler.List)
				r.Post("/", cfg.PartnerHandler.Add)
				r.Delete("/{id}", cfg.PartnerHandler.Delete)
			})

			// Budgets
			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", cfg.BudgetHandler.List)
				r.Get("/{month}", cfg.BudgetHandler.Get)
				r.Put("/{month}", cfg.BudgetHandler.Save)
				r.Get("/{month}/draft", cfg.BudgetHandler.Draft)
				r.Post("/{month}/copy-previous", cfg.BudgetHandler.CopyForward)
			})

			r.Get("/dashboard", cfg.DashboardHandler.Get)
			r.Post("/insights", cfg.InsightHandler.Generate)

			// Whole data set
			r.Route("/state", func(r chi.Router) {
				r.Get("/opening-balance", cfg.StateHandler.GetOpeningBalance)
				r.Put("/opening-balance", cfg.StateHandler.SetOpeningBalance)
				r.Get("/backup", cfg.StateHandler.ExportBackup)
				r.Post("/import", cfg.StateHandler.ImportBackup)
				r.Post("/reset", cfg.StateHandler.Reset)
			})
		})
	})

	return r
}
