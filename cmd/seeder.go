package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/category"
	"github.com/haingladys/jsdc-accounting/internal/user"
	"github.com/spf13/cobra"
)

var (
	seedAdminUsername string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default admin, categories and settings",
	Long: `Creates the admin account when it does not exist yet and persists the default
purchase categories, expense categories and settings. Existing data is left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := cliServices()
		if err != nil {
			return err
		}
		defer cleanup()
		return seed(cmd.Context(), svc, cmd)
	},
}

func seed(ctx context.Context, svc *services, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	_, err := svc.Users.GetByUsername(ctx, seedAdminUsername)
	switch {
	case err == nil:
		fmt.Fprintf(out, "admin user %q already exists\n", seedAdminUsername)
	case errors.Is(err, internal.ErrUserNotFound):
		password := seedAdminPassword
		if password == "" {
			password = os.Getenv("SEED_ADMIN_PASSWORD")
		}
		generated := password == ""
		if generated {
			password = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		}
		if _, err := svc.Users.Create(ctx, user.CreateUserDTO{
			Username: seedAdminUsername,
			Password: password,
			Role:     internal.RoleAdmin,
			FullName: "Administrator",
		}); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		fmt.Fprintf(out, "seeded admin user %q\n", seedAdminUsername)
		if generated {
			fmt.Fprintf(out, "generated password: %s\n", password)
		}
	default:
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	for _, kind := range []category.Kind{category.KindPurchase, category.KindExpense} {
		list, err := svc.Categories.List(ctx, kind)
		if err != nil {
			return err
		}
		if err := svc.Categories.Replace(ctx, kind, list); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s categories: %d\n", kind, len(list))
	}

	settings, err := svc.Settings.Get(ctx)
	if err != nil {
		return err
	}
	if err := svc.Settings.Replace(ctx, settings); err != nil {
		return err
	}
	fmt.Fprintf(out, "settings saved for %q\n", settings.CompanyName)
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminUsername, "admin-username", "admin", "username of the seeded admin")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password of the seeded admin (default $SEED_ADMIN_PASSWORD, else generated)")
}
