package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gountain/catalog/internal/app"
	"github.com/gountain/catalog/internal/catalog"
	"github.com/gountain/catalog/internal/domain"
)

// chipFlags holds one command's filter flags.
type chipFlags struct {
	continents   []string
	difficulties []string
	boots        []string
	types        []string
	seasons      []string
	altMin       float64
	altMax       float64
}

var (
	filterChips   = &chipFlags{}
	filterLimit   int
	filterOffset  int
	filterGeoJSON bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Print destinations matching the given filter chips",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := filterChips.state(cmd)
		engine := catalog.NewEngine(app.Palette(cfg, lg))

		repo, closeRepo, err := app.OpenRepository(cmd.Context(), cfg, engine, lg)
		if err != nil {
			return err
		}
		defer closeRepo()

		if filterGeoJSON {
			list, err := repo.Filter(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("filter destinations: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), engine.BuildGeo(list))
		}

		items, total, err := repo.List(cmd.Context(), f, filterLimit, filterOffset)
		if err != nil {
			return fmt.Errorf("filter destinations: %w", err)
		}
		if items == nil {
			items = []domain.Destination{}
		}
		return printJSON(cmd.OutOrStdout(), domain.ListResult{
			Limit:  filterLimit,
			Offset: filterOffset,
			Total:  total,
			Items:  items,
		})
	},
}

// state builds the filter from the chip flags. Unset altitude flags leave
// that side of the range open.
func (c *chipFlags) state(cmd *cobra.Command) catalog.FilterState {
	f := catalog.FilterState{
		Continent:  catalog.NewSet(c.continents...),
		Difficulty: catalog.NewSet(c.difficulties...),
		BootType:   catalog.NewSet(c.boots...),
		Type:       catalog.NewSet(c.types...),
		Season:     catalog.NewSet(c.seasons...),
	}
	var lo, hi *float64
	if cmd.Flags().Changed("alt-min") {
		lo = &c.altMin
	}
	if cmd.Flags().Changed("alt-max") {
		hi = &c.altMax
	}
	return f.WithAltitude(lo, hi)
}

func (c *chipFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&c.continents, "continent", nil, "Continent to include (repeatable)")
	cmd.Flags().StringSliceVar(&c.difficulties, "difficulty", nil, "Difficulty bucket to include: Trek, F, PD, AD, D")
	cmd.Flags().StringArrayVar(&c.boots, "boot", nil, "Boot model to include (repeatable)")
	cmd.Flags().StringSliceVar(&c.types, "type", nil, "Destination type to include (repeatable)")
	cmd.Flags().StringSliceVar(&c.seasons, "season", nil, "Season to include: Invierno, Primavera, Verano, Otoño")
	cmd.Flags().Float64Var(&c.altMin, "alt-min", 0, "Minimum altitude in metres")
	cmd.Flags().Float64Var(&c.altMax, "alt-max", 0, "Maximum altitude in metres")
}

func init() {
	filterChips.register(filterCmd)
	filterCmd.Flags().IntVar(&filterLimit, "limit", 50, "Maximum number of destinations to print")
	filterCmd.Flags().IntVar(&filterOffset, "offset", 0, "Number of matching destinations to skip")
	filterCmd.Flags().BoolVar(&filterGeoJSON, "geojson", false, "Print a GeoJSON FeatureCollection instead of a list")
	rootCmd.AddCommand(filterCmd)
}
