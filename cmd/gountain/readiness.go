package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gountain/catalog/internal/readiness"
)

var (
	route readiness.RouteAttributes
	user  readiness.UserAttributes
)

type readinessOutput struct {
	readiness.Result
	Color string `json:"color"`
}

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Score how ready a hiker is for a route",
	Long: `Score how ready a hiker is for a route.

Every attribute is on a 0..10 scale; values outside it are clamped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res := readiness.Compute(route, user)
		lg.Debug("readiness computed",
			zap.Float64("demand", route.Demand()),
			zap.Float64("capacity", user.Capacity()),
			zap.Int("score", res.Score),
		)
		return printJSON(cmd.OutOrStdout(), readinessOutput{Result: res, Color: readiness.StateColor(res.State)})
	},
}

func init() {
	f := readinessCmd.Flags()
	f.IntVar(&route.Difficulty, "difficulty", 6, "Route technical difficulty")
	f.IntVar(&route.ElevationLoad, "elevation", 6, "Route elevation load")
	f.IntVar(&route.DistanceLoad, "distance", 5, "Route distance load")
	f.IntVar(&route.Exposure, "exposure", 4, "Route exposure")
	f.IntVar(&route.Weather, "weather", 4, "Route weather severity")
	f.IntVar(&user.Fitness, "fitness", 6, "Hiker fitness")
	f.IntVar(&user.Skill, "skill", 6, "Hiker technical skill")
	f.IntVar(&user.Experience, "experience", 5, "Hiker experience")
	f.IntVar(&user.Gear, "gear", 6, "Hiker gear quality")
	f.IntVar(&user.Recovery, "recovery", 6, "Hiker recovery")
	rootCmd.AddCommand(readinessCmd)
}
