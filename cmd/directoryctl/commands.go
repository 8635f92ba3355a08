package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the relational schema when it is missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logger.WithContext(cmd.Context())
		store, cfg, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			return err
		}
		logger.Info().Str("backend", cfg.StoreBackend).Msg("schema up to date")
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import-csv <file>",
	Short: "Upsert businesses from a CSV file",
	Long: `Imports businesses from a CSV file with a header row. The name and address
columns are required; categories are separated by ';' or '|'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
		defer file.Close()

		ctx := logger.WithContext(cmd.Context())
		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := service.NewImportService(store.Businesses, cat).ImportBusinessesCSV(ctx, file)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted=%d updated=%d skipped=%d total=%d\n",
			summary.Inserted, summary.Updated, summary.Skipped, summary.Total)
		return nil
	},
}

var (
	newUserEmail    string
	newUserPassword string
	newUserRole     string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a local account, typically the first administrator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logger.WithContext(cmd.Context())
		store, cfg, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if store.Users == nil {
			return fmt.Errorf("the %s backend keeps no local accounts", cfg.StoreBackend)
		}
		user, err := service.NewUserService(store.Users).CreateUser(ctx, dto.CreateUserRequest{
			Email:    newUserEmail,
			Password: newUserPassword,
			Role:     newUserRole,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with role %s\n", user.Email, user.ID, user.Role)
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the category catalogue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCOLOR")
		for _, c := range cat.All() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Color)
		}
		return w.Flush()
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUserEmail, "email", "", "account email")
	createUserCmd.Flags().StringVar(&newUserPassword, "password", "", "account password, at least 8 characters")
	createUserCmd.Flags().StringVar(&newUserRole, "role", service.RoleAdmin, "account role (user or admin)")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}
