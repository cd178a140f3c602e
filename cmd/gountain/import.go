package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gountain/catalog/internal/storage"
)

var (
	importFile string
	importDB   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Validate a JSON catalog and load it into the SQLite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("file") {
			importFile = cfg.Data.Path
		}
		if !cmd.Flags().Changed("db") {
			importDB = cfg.Data.SQLitePath
		}
		if importDB == "" {
			return errors.New("no database: set --db or data.sqlite_path")
		}

		items, err := storage.LoadDestinationsFromFile(importFile)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(importDB)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		defer store.Close()

		ctx := cmd.Context()
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		before, err := store.CountDestinations(ctx)
		if err != nil {
			return err
		}
		if err := store.UpsertMany(ctx, items); err != nil {
			return fmt.Errorf("import destinations: %w", err)
		}
		after, err := store.CountDestinations(ctx)
		if err != nil {
			return err
		}

		lg.Info("import finished",
			zap.String("file", importFile),
			zap.String("db", importDB),
			zap.Int("read", len(items)),
			zap.Int("inserted", after-before),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d destinations (%d total)\n", after-before, len(items), after)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "data/destinos.json", "JSON catalog to import")
	importCmd.Flags().StringVar(&importDB, "db", "", "SQLite database path")
	rootCmd.AddCommand(importCmd)
}
