package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gountain/catalog/internal/storage"
)

var (
	mergeCatalog string
	mergeNames   string
	mergeDryRun  bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Append new destination names to the JSON catalog, skipping known ones",
	Long: `Append new destination names to the JSON catalog.

The names file is a JSON array of {"nombre": ..., "continente": ...}.
Names are compared ignoring case, accents and extra spaces.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("catalog") {
			mergeCatalog = cfg.Data.Path
		}

		existing, err := storage.LoadDestinationsFromFile(mergeCatalog)
		if err != nil {
			return err
		}

		b, err := os.ReadFile(mergeNames)
		if err != nil {
			return fmt.Errorf("read names file: %w", err)
		}
		var additions []storage.NewEntry
		if err := json.Unmarshal(b, &additions); err != nil {
			return fmt.Errorf("decode names file: %w", err)
		}

		merged, added := storage.MergeNames(existing, additions)
		lg.Info("merge computed",
			zap.String("catalog", mergeCatalog),
			zap.Int("candidates", len(additions)),
			zap.Int("added", added),
			zap.Int("total", len(merged)),
		)

		if !mergeDryRun && added > 0 {
			if err := storage.WriteDestinationsFile(mergeCatalog, merged); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %d destinations, catalog now has %d\n", added, len(merged))
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeCatalog, "catalog", "data/destinos.json", "JSON catalog to update")
	mergeCmd.Flags().StringVar(&mergeNames, "names", "", "JSON file with the names to add")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Report what would be added without writing")
	_ = mergeCmd.MarkFlagRequired("names")
	rootCmd.AddCommand(mergeCmd)
}
