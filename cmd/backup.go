package cmd

import (
	"fmt"
	"os"

	"github.com/haingladys/jsdc-accounting/internal/backup"
	"github.com/haingladys/jsdc-accounting/pkg/logger"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import the full backup document",
}

var backupExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write every collection to a JSON backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := cliServices()
		if err != nil {
			return err
		}
		defer cleanup()

		doc, err := svc.Backup.Export(cmd.Context())
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create backup file: %w", err)
		}
		defer f.Close()
		if err := backup.Encode(f, doc); err != nil {
			return fmt.Errorf("write backup file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "exported %d users, %d purchases, %d expenses, %d income entries to %s\n",
			len(doc.Users), len(doc.Purchases), len(doc.Expenses), len(doc.Income), args[0])
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace every collection with the contents of a JSON backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open backup file: %w", err)
		}
		defer f.Close()

		doc, err := backup.Decode(f)
		if err != nil {
			return err
		}

		svc, cleanup, err := cliServices()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.Backup.Import(cmd.Context(), doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported backup version %s exported at %s\n", doc.Version, doc.ExportedAt)
		return nil
	},
}

// cliServices opens the configured database and wires the services for a
// one-shot command.
func cliServices() (*services, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	log := logger.LoggerWrapper()

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, err := buildServices(cfg, db, log)
	if err != nil {
		closeDatabase(db, log)
		return nil, nil, err
	}
	return svc, func() { closeDatabase(db, log) }, nil
}

func init() {
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	rootCmd.AddCommand(backupCmd)
}
