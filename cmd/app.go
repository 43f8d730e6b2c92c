package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	attendancePostgres "github.com/haingladys/jsdc-accounting/internal/attendance/postgres"
	"github.com/haingladys/jsdc-accounting/internal/auth"
	"github.com/haingladys/jsdc-accounting/internal/backup"
	backupPostgres "github.com/haingladys/jsdc-accounting/internal/backup/postgres"
	"github.com/haingladys/jsdc-accounting/internal/category"
	"github.com/haingladys/jsdc-accounting/internal/core/events"
	"github.com/haingladys/jsdc-accounting/internal/dashboard"
	"github.com/haingladys/jsdc-accounting/internal/database"
	"github.com/haingladys/jsdc-accounting/internal/expense"
	expensePostgres "github.com/haingladys/jsdc-accounting/internal/expense/postgres"
	"github.com/haingladys/jsdc-accounting/internal/income"
	incomePostgres "github.com/haingladys/jsdc-accounting/internal/income/postgres"
	"github.com/haingladys/jsdc-accounting/internal/kvstore"
	kvPostgres "github.com/haingladys/jsdc-accounting/internal/kvstore/postgres"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	payrollPostgres "github.com/haingladys/jsdc-accounting/internal/payroll/postgres"
	"github.com/haingladys/jsdc-accounting/internal/purchase"
	purchasePostgres "github.com/haingladys/jsdc-accounting/internal/purchase/postgres"
	"github.com/haingladys/jsdc-accounting/internal/report"
	reportPostgres "github.com/haingladys/jsdc-accounting/internal/report/postgres"
	"github.com/haingladys/jsdc-accounting/internal/setting"
	"github.com/haingladys/jsdc-accounting/internal/user"
	userPostgres "github.com/haingladys/jsdc-accounting/internal/user/postgres"
	"gorm.io/gorm"
)

// services is the wired service graph shared by the server and the CLI commands.
type services struct {
	Bus        *events.EventBus
	Settings   *setting.Service
	Categories *category.Service
	Users      *user.Service
	Auth       *auth.Service
	Purchases  *purchase.Service
	Expenses   *expense.Service
	Income     *income.Service
	Payroll    *payroll.Service
	Attendance *attendance.Service
	Scheduler  *attendance.Scheduler
	Dashboard  *dashboard.Service
	Reports    *report.Service
	Backup     *backup.Service
}

func buildServices(cfg *internal.Config, db *gorm.DB, logger *slog.Logger) (*services, error) {
	bus := events.NewEventBus(logger)
	loc := cfg.App.Location()
	now := func() time.Time { return time.Now().In(loc) }

	store := kvstore.NewStore(kvPostgres.NewRepository(db), logger)
	settings := setting.NewService(store, setting.Defaults(cfg.App), logger)
	categories := category.NewService(store, logger)

	cost := cfg.Security.BCryptCost
	if cost == 0 {
		cost = 12
	}
	users := user.NewService(userPostgres.NewUserRepository(db), cost, logger)
	authService := auth.NewService(users, auth.NewJWTTokenGenerator(cfg.Security), logger)

	purchases := purchase.NewService(purchasePostgres.NewPurchaseRepository(db), categories, bus, logger)
	expenses := expense.NewService(expensePostgres.NewExpenseRepository(db), categories, bus, logger)
	incomes := income.NewService(incomePostgres.NewIncomeRepository(db), bus, logger)
	payrolls := payroll.NewService(payrollPostgres.NewPayrollRepository(db), bus,
		payroll.Company{Name: cfg.App.CompanyName, Currency: cfg.App.Currency}, logger)
	staff := attendance.NewService(attendancePostgres.NewAttendanceRepository(db), bus, logger,
		attendance.WithClock(now), attendance.WithLocation(loc), attendance.WithSettings(settings))

	sqlxDB, err := database.SQLX(db, cfg.Database.Driver)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap database for reports: %w", err)
	}

	return &services{
		Bus:        bus,
		Settings:   settings,
		Categories: categories,
		Users:      users,
		Auth:       authService,
		Purchases:  purchases,
		Expenses:   expenses,
		Income:     incomes,
		Payroll:    payrolls,
		Attendance: staff,
		Scheduler:  attendance.NewScheduler(staff, bus, logger),
		Dashboard: dashboard.NewService(dashboard.Sources{
			Income:     incomes,
			Expenses:   expenses,
			Purchases:  purchases,
			Attendance: staff,
			Payroll:    payrolls,
		}, now, logger),
		Reports: report.NewService(reportPostgres.NewReportStore(sqlxDB), report.Sources{
			Income:     incomes,
			Expenses:   expenses,
			Purchases:  purchases,
			Attendance: staff,
			Settings:   settings,
		}, now, logger),
		Backup: backup.NewService(backupPostgres.NewBackupRepository(db), settings, categories, bus, logger),
	}, nil
}

// openDatabase connects and, for sqlite, creates the schema in place.
func openDatabase(cfg *internal.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver == internal.DriverSQLite {
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func closeDatabase(db *gorm.DB, logger *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}
}
