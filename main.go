package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/example/linguist/internal/config"
	"github.com/example/linguist/internal/database"
	"github.com/example/linguist/internal/logger"
)

// app holds what every command needs, filled in before a command runs
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *sqlx.DB
	store *database.Store
}

var (
	dbDriver string
	dbDSN    string
	current  app
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "linguist",
		Short:         "Vocabulary and grammar flashcards",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return current.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			current.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "database driver, sqlite3 or postgres (overrides LINGUIST_DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "database DSN or sqlite path (overrides LINGUIST_DB_DSN)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(bulkCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(askCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		current.close()
		os.Exit(1)
	}
}

func (a *app) open() error {
	a.cfg = config.Load()
	if dbDriver != "" {
		a.cfg.Database.Driver = dbDriver
	}
	if dbDSN != "" {
		a.cfg.Database.DSN = dbDSN
	}

	log, err := logger.New(a.cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.log = log
	for _, w := range a.cfg.Warnings {
		a.log.Warn("configuration value ignored", "reason", w)
	}

	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		return err
	}
	a.db = db
	a.store = database.NewStore(db, a.log)
	a.log.Debug("database ready", "driver", db.DriverName())
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
	if a.log != nil {
		a.log.Sync()
	}
}
