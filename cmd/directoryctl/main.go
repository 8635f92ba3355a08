package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/config"
	"github.com/rainbowlistings/directory/internal/logging"
	"github.com/rainbowlistings/directory/internal/repository"
)

var (
	categoriesFile string
	verbose        bool

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "directoryctl",
	Short: "Operate the community directory store",
	Long: `directoryctl runs maintenance tasks against the configured store backend.

It reads the same environment as the API server (STORE_BACKEND, DATABASE_URL,
FIRESTORE_PROJECT, ...), including values from a local .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if verbose {
			level = "debug"
		}
		logger = logging.New(logging.Config{Level: level, Format: "text", Output: cmd.ErrOrStderr()})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&categoriesFile, "categories", "", "category catalogue YAML (defaults to the built-in list)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd, importCmd, createUserCmd, categoriesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadCatalog() (*catalog.Catalog, error) {
	if categoriesFile == "" {
		return catalog.Default()
	}
	return catalog.Load(categoriesFile)
}

// openStore loads the environment configuration and connects to its backend.
func openStore(ctx context.Context) (*repository.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	return store, cfg, nil
}
