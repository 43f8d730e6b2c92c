package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/haingladys/jsdc-accounting/internal"
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
	"github.com/haingladys/jsdc-accounting/internal/transport/rest"
	"github.com/haingladys/jsdc-accounting/internal/transport/ws"
	"github.com/haingladys/jsdc-accounting/internal/user"
	"github.com/haingladys/jsdc-accounting/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP API, the attendance roll-over scheduler and the websocket hub`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

func startHTTPServer() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.LoggerWrapper()

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer closeDatabase(db, log)

	svc, err := buildServices(cfg, db, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router, hub, err := setupRoutes(ctx, cfg, svc, db, log)
	if err != nil {
		return err
	}

	go hub.Run(ctx)
	go func() {
		if err := svc.Scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("attendance scheduler stopped", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "address", addr, "driver", cfg.Database.Driver, "version", Version)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("received signal, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	svc.Bus.Wait()
	log.Info("server stopped")
	return nil
}

func setupRoutes(ctx context.Context, cfg *internal.Config, svc *services, db *gorm.DB, log *slog.Logger) (*chi.Mux, *ws.Hub, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	base := transport.NewBaseHandler(log)
	origins := cfg.Server.Origins()
	hub := ws.NewHub(log, originChecker(origins))
	hub.Subscribe(svc.Bus)

	deps := rest.Dependencies{
		DB:             sqlDB,
		Driver:         cfg.Database.Driver,
		Version:        Version,
		Logger:         log,
		Base:           base,
		AllowedOrigins: origins,
		SpecPath:       cfg.Server.OpenAPIPath,

		Auth:       auth.NewHandler(base, svc.Auth),
		Users:      user.NewHandler(base, svc.Users),
		Categories: category.NewHandler(base, svc.Categories),
		Settings:   setting.NewHandler(base, svc.Settings),
		Backup:     backup.NewHandler(base, svc.Backup),
		Purchases:  purchase.NewHandler(base, svc.Purchases),
		Expenses:   expense.NewHandler(base, svc.Expenses),
		Income:     income.NewHandler(base, svc.Income),
		Payroll:    payroll.NewHandler(base, svc.Payroll),
		Attendance: attendance.NewHandler(base, svc.Attendance, svc.Scheduler),
		Dashboard:  dashboard.NewHandler(base, svc.Dashboard),
		Reports:    report.NewHandler(base, svc.Reports),
		Hub:        hub,
	}

	if cfg.Server.ValidateRequests {
		doc, err := middleware.LoadOpenAPI(ctx, cfg.Server.OpenAPIPath)
		if err != nil {
			return nil, nil, err
		}
		if deps.Validator, err = middleware.OpenAPIValidator(base, doc); err != nil {
			return nil, nil, err
		}
		log.Info("openapi request validation enabled", "path", cfg.Server.OpenAPIPath)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, deps)
	return router, hub, nil
}

// originChecker applies the CORS allow list to websocket upgrades.
func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
