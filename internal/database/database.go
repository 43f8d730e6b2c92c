// Package database opens the gorm connection for the configured driver and
// exposes the same pool to sqlx for raw aggregate queries.
package database

import (
	"fmt"
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	attendanceDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/attendance"
	expenseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/expense"
	incomeDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/income"
	kvDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/kv"
	payrollDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/payroll"
	purchaseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/purchase"
	userDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&kvDatamodel.Entry{},
		&userDatamodel.User{},
		&attendanceDatamodel.Employee{},
		&attendanceDatamodel.Record{},
		&payrollDatamodel.Employee{},
		&purchaseDatamodel.Purchase{},
		&expenseDatamodel.Expense{},
		&incomeDatamodel.Income{},
	}
}

// Open connects with the configured driver and applies the pool settings.
func Open(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.Source)
	case internal.DriverSQLite:
		dialector = sqlite.Open(cfg.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if isMemory(cfg.Driver, cfg.Source) {
		// every new connection to :memory: is a fresh empty database
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenInMemory opens a migrated private sqlite database, used by tests and
// the backup command's dry runs.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Open(internal.DatabaseConfig{Driver: internal.DriverSQLite, Source: ":memory:"})
	if err != nil {
		return nil, err
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates the schema from the row structs. Postgres deployments
// use the goose migrations instead.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// SQLX wraps the gorm pool for raw queries with the right bind variables.
func SQLX(db *gorm.DB, driver string) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlx.NewDb(sqlDB, SQLXDriverName(driver)), nil
}

func SQLXDriverName(driver string) string {
	if driver == internal.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

func isMemory(driver, source string) bool {
	return driver == internal.DriverSQLite && strings.Contains(source, ":memory:")
}
