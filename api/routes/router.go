package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventocaixa/backend/api/controllers"
	"github.com/eventocaixa/backend/api/middleware"
	internalauth "github.com/eventocaixa/backend/internal/auth"
	"github.com/eventocaixa/backend/internal/cashbox"
	"github.com/eventocaixa/backend/internal/export"
	"github.com/eventocaixa/backend/internal/inventory"
	"github.com/eventocaixa/backend/internal/investments"
	"github.com/eventocaixa/backend/internal/payables"
	"github.com/eventocaixa/backend/internal/reversals"
	"github.com/eventocaixa/backend/internal/totals"
	"github.com/eventocaixa/backend/pkg/auth/session"
	"github.com/eventocaixa/backend/pkg/config"
	"github.com/eventocaixa/backend/pkg/db"
	"github.com/eventocaixa/backend/pkg/logger"
	"github.com/eventocaixa/backend/pkg/metrics"
	"github.com/eventocaixa/backend/pkg/redis"
)

// Deps carries everything the router mounts. Grouped in a struct because the
// service list got long enough to misorder positionally.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             *db.Client
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth      internalauth.Service
	Sessions  cashbox.Service
	Inventory inventory.Service
	Reversals reversals.Service
	Suppliers payables.Service
	Investors investments.Service
	Totals    totals.Service
	Export    export.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	// Operator surface: no authentication, the register box runs on a trusted
	// LAN during the event.
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", controllers.SessionOpen(deps.Sessions, logg))
			r.Get("/", controllers.SessionList(deps.Sessions, logg))
			r.Get("/open", controllers.SessionListOpen(deps.Sessions, logg))
			r.Get("/today", controllers.SessionToday(deps.Sessions, logg))
			r.Get("/{id}", controllers.SessionDetail(deps.Sessions, logg))
			r.Put("/{id}", controllers.SessionEdit(deps.Sessions, logg))
			r.Post("/{id}/close", controllers.SessionClose(deps.Sessions, logg))
			r.Get("/{id}/inventory", controllers.SessionInventory(deps.Inventory, logg))
			r.Get("/{id}/effective", controllers.SessionEffective(deps.Reversals, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", controllers.InventoryAdd(deps.Inventory, logg))
			r.Get("/", controllers.InventoryList(deps.Inventory, logg))
			r.Delete("/", controllers.InventoryClear(deps.Inventory, logg))
			r.Get("/stock", controllers.InventoryStock(deps.Inventory, logg))
			r.Get("/sessions", controllers.InventorySessions(deps.Inventory, logg))
			r.Patch("/{id}", controllers.InventoryUpdate(deps.Inventory, logg))
			r.Delete("/{id}", controllers.InventoryDelete(deps.Inventory, logg))
		})
	})

	// Admin surface: money aggregates, obligations, corrections, exports.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Get("/totals", controllers.Totals(deps.Totals, logg))
		r.Get("/reports/sessions", controllers.SessionReport(deps.Totals, logg))

		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", controllers.SupplierRegister(deps.Suppliers, logg))
			r.Get("/", controllers.SupplierList(deps.Suppliers, logg))
			r.Post("/{id}/payments", controllers.SupplierPayment(deps.Suppliers, logg))
			r.Get("/{id}/payments", controllers.SupplierPayments(deps.Suppliers, logg))
		})

		r.Route("/investors", func(r chi.Router) {
			r.Post("/", controllers.InvestorRegister(deps.Investors, logg))
			r.Get("/", controllers.InvestorList(deps.Investors, logg))
			r.Post("/{id}/returns", controllers.InvestorReturn(deps.Investors, logg))
			r.Get("/{id}/returns", controllers.InvestorReturns(deps.Investors, logg))
		})

		r.Route("/reversals", func(r chi.Router) {
			r.Post("/", controllers.ReversalRecord(deps.Reversals, logg))
			r.Get("/", controllers.ReversalList(deps.Reversals, logg))
		})

		r.Get("/export/{table}", controllers.ExportCSV(deps.Export, logg))
	})

	return r
}
