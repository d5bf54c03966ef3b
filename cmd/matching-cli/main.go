// Package main provides the matching engine CLI entrypoint.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/lumiere-aesthetics/matching-engine/internal/cache"
	"github.com/lumiere-aesthetics/matching-engine/internal/config"
	"github.com/lumiere-aesthetics/matching-engine/internal/matching"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
	"github.com/lumiere-aesthetics/matching-engine/internal/storage"
	"github.com/spf13/cobra"
)

// app carries state shared by every command.
type app struct {
	cfgFile    string
	outputJSON bool
	verbose    bool
	noColor    bool

	cfg    *config.Config
	logger *observability.Logger
	ui     *UI
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "matching-cli",
		Short: "Aesthetics matching engine CLI",
		Long: `matching-cli browses candidate photos and suggestion cards against
selection criteria, normalizes treatment tags and answers recommendation
queries from the command line.

All commands support --json for automation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a.cfg, err = config.Load(a.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level := a.cfg.Observability.LogLevel
			if a.verbose {
				level = "debug"
			}
			logFormat := "console"
			if a.outputJSON {
				logFormat = "json"
			}
			a.logger = observability.NewLogger(observability.LogConfig{
				Level:       level,
				Format:      logFormat,
				Output:      cmd.ErrOrStderr(),
				ServiceName: "matching-cli",
			})
			a.ui = NewUI(cmd.OutOrStdout(), cmd.ErrOrStderr(), a.outputJSON, a.noColor)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	root.PersistentFlags().BoolVar(&a.outputJSON, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newBrowseCmd(a),
		newNormalizeCmd(a),
		newRecommendCmd(a),
		newTaxonomyCmd(a),
		newSeedCmd(a),
		newMigrateCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens and migrates the configured record store.
func (a *app) openStore(ctx context.Context) (*sql.DB, *storage.RecordRepository, error) {
	opts := storage.Options{Driver: a.cfg.Database.Driver, DSN: a.cfg.DatabaseDSN()}
	switch a.cfg.Database.Driver {
	case "sqlite":
		opts.MaxOpenConns = a.cfg.Database.SQLite.MaxOpenConns
		opts.JournalMode = a.cfg.Database.SQLite.JournalMode
	case "postgres":
		opts.MaxOpenConns = a.cfg.Database.Postgres.MaxOpenConns
		opts.MaxIdleConns = a.cfg.Database.Postgres.MaxIdleConns
		opts.ConnMaxLifetime = a.cfg.Database.Postgres.ConnMaxLifetime
	}

	db, err := storage.Open(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := storage.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, storage.NewRecordRepository(db), nil
}

// newService builds a matching service over store. The CLI is single-shot,
// so results are memoized in process only; callers close the returned cache.
func (a *app) newService(store matching.RecordStore) (*matching.Service, cache.Client) {
	client := cache.NewMemoryClient(a.cfg.Cache.MaxEntries)
	return matching.NewService(store, client, a.logger, matching.Config{
		HideSurgical: a.cfg.Matching.HideSurgical,
		Locale:       a.cfg.Matching.CollationLocale,
		SessionTTL:   a.cfg.Matching.SessionTTL,
		ResultTTL:    a.cfg.Cache.TTL,
		DeriveRegion: a.cfg.Matching.DeriveRegion,
	}), client
}
