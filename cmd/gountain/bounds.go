package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gountain/catalog/internal/app"
	"github.com/gountain/catalog/internal/catalog"
)

var boundsChips = &chipFlags{}

var boundsCmd = &cobra.Command{
	Use:   "bounds",
	Short: "Print the bounding box of destinations matching the filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := boundsChips.state(cmd)
		engine := catalog.NewEngine(app.Palette(cfg, lg))

		repo, closeRepo, err := app.OpenRepository(cmd.Context(), cfg, engine, lg)
		if err != nil {
			return err
		}
		defer closeRepo()

		list, err := repo.Filter(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("filter destinations: %w", err)
		}
		b := catalog.ComputeBounds(list)
		if b == nil {
			return errors.New("no destinations with coordinates match the filters")
		}
		return printJSON(cmd.OutOrStdout(), b)
	},
}

func init() {
	boundsChips.register(boundsCmd)
	rootCmd.AddCommand(boundsCmd)
}
