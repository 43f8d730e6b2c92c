package cmd

import (
	"context"
	"fmt"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/database"
	"github.com/haingladys/jsdc-accounting/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
		Long: `Postgres databases are migrated with the goose SQL files under --dir.
SQLite databases are created from the gorm models.`,
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := logger.LoggerWrapper()

	if cfg.Database.Driver == internal.DriverSQLite {
		if migrateRollback {
			return fmt.Errorf("rollback is only supported for postgres")
		}
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer closeDatabase(db, log)
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		log.Info("sqlite schema migrated", "source", cfg.Database.Source)
		return nil
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	log.Info("migrations applied", "command", command, "dir", migrateDir)
	return nil
}
