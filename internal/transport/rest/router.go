package rest

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	"github.com/haingladys/jsdc-accounting/internal/auth"
	"github.com/haingladys/jsdc-accounting/internal/backup"
	"github.com/haingladys/jsdc-accounting/internal/category"
	"github.com/haingladys/jsdc-accounting/internal/dashboard"
	"github.com/haingladys/jsdc-accounting/internal/expense"
	"github.com/haingladys/jsdc-accounting/internal/income"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	"github.com/haingladys/jsdc-accounting/internal/purchase"
	"github.com/haingladys/jsdc-accounting/internal/report"
	"github.com/haingladys/jsdc-accounting/internal/setting"
	"github.com/haingladys/jsdc-accounting/internal/transport"
	"github.com/haingladys/jsdc-accounting/internal/transport/middleware"
	"github.com/haingladys/jsdc-accounting/internal/transport/swagger"
	"github.com/haingladys/jsdc-accounting/internal/transport/ws"
	"github.com/haingladys/jsdc-accounting/internal/user"
)

// Dependencies carries everything the router mounts. Nil handlers are skipped.
type Dependencies struct {
	DB      *sql.DB
	Driver  string
	Version string
	Logger  *slog.Logger
	Base    *transport.BaseHandler

	AllowedOrigins []string
	SpecPath       string
	Validator      func(http.Handler) http.Handler

	Auth       *auth.Handler
	Users      *user.Handler
	Categories *category.Handler
	Settings   *setting.Handler
	Backup     *backup.Handler
	Purchases  *purchase.Handler
	Expenses   *expense.Handler
	Income     *income.Handler
	Payroll    *payroll.Handler
	Attendance *attendance.Handler
	Dashboard  *dashboard.Handler
	Reports    *report.Handler
	Hub        *ws.Hub
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB, deps.Driver, deps.Version)
	if deps.Hub != nil {
		hub := deps.Hub
		healthHandler.Register("websocket", func(context.Context) (map[string]any, error) {
			return map[string]any{"clients": hub.ClientCount()}, nil
		})
	}
	admin := middleware.RequireAdmin(deps.Base)

	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	if deps.Validator != nil {
		router.Use(deps.Validator)
	}

	if deps.SpecPath != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, deps.SpecPath)
		})
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if deps.Auth == nil {
			return
		}
		r.Route("/auth", deps.Auth.Routes)

		r.Group(func(pr chi.Router) {
			pr.Use(deps.Auth.AuthMiddleware)

			if deps.Users != nil {
				pr.Route("/users", func(ur chi.Router) { deps.Users.Routes(ur, admin) })
			}
			if deps.Categories != nil {
				pr.Route("/categories/{kind}", func(cr chi.Router) {
					cr.Use(middleware.AdminForWrites(deps.Base))
					cr.Get("/", deps.Categories.GetCategories)
					cr.Post("/", deps.Categories.AddCategory)
					cr.Put("/{name}", deps.Categories.RenameCategory)
					cr.Delete("/{name}", deps.Categories.DeleteCategory)
				})
			}
			if deps.Settings != nil {
				pr.Route("/settings", func(sr chi.Router) { deps.Settings.Routes(sr, admin) })
			}
			if deps.Backup != nil {
				pr.Route("/backup", func(br chi.Router) { deps.Backup.Routes(br, admin) })
			}
			if deps.Purchases != nil {
				pr.Route("/purchases", deps.Purchases.Routes)
			}
			if deps.Expenses != nil {
				pr.Route("/expenses", deps.Expenses.Routes)
			}
			if deps.Income != nil {
				pr.Route("/income", deps.Income.Routes)
			}
			if deps.Payroll != nil {
				pr.Route("/payroll", deps.Payroll.Routes)
			}
			if deps.Attendance != nil {
				pr.Route("/attendance", deps.Attendance.Routes)
			}
			if deps.Dashboard != nil {
				pr.Get("/dashboard/summary", deps.Dashboard.GetSummary)
			}
		})
	})

	if deps.Auth == nil {
		return
	}

	// Chart, report and live update endpoints keep their historical paths.
	router.Group(func(pr chi.Router) {
		pr.Use(deps.Auth.AuthMiddleware)

		if deps.Dashboard != nil {
			pr.Get("/api/dashboard-charts/", deps.Dashboard.GetCharts)
		}
		if deps.Reports != nil {
			pr.Get("/reports/api/get-report-data/", deps.Reports.GetReportData)
			pr.Get("/reports/api/export/", deps.Reports.ExportReport)
		}
		if deps.Hub != nil {
			pr.Handle("/ws", deps.Hub)
		}
	})
}
