package main

import (
	"fmt"
	"glickoserver/internal/csvfeed"
	"glickoserver/internal/glicko2"
	"glickoserver/internal/report"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	maximumDeviation     float64
	minimumDeviation     float64
	provisionalThreshold float64
	defaultRating        float64
	defaultDeviation     float64
	defaultVolatility    float64
	defaultTau           float64
	defaultTolerance     float64
	filterProvisional    bool
	sortDeviation        bool
	sortVolatility       bool
	sortReverse          bool
	resultLimit          int

	rootCmd = &cobra.Command{
		Use:          "csvglicko <file>",
		Short:        "Calculate Glicko-2 ratings from a CSV of game results",
		Args:         cobra.ExactArgs(1),
		RunE:         run,
		SilenceUsage: true,
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.Float64VarP(&maximumDeviation, "maximum-deviation", "d", 0, "Maximum rating deviation to filter output with.")
	flags.Float64Var(&minimumDeviation, "minimum-deviation", 0, "Minimum rating deviation to filter output with.")
	flags.Float64VarP(&provisionalThreshold, "provisional-threshold", "t", 110.0, "Threshold above which ratings are considered provisional.")
	flags.Float64VarP(&defaultRating, "default-rating", "r", 1500.0, "Default rating to be used for players.")
	flags.Float64Var(&defaultDeviation, "default-deviation", 350.0, "Default rating deviation to be used for players.")
	flags.Float64Var(&defaultVolatility, "default-volatility", 0.06, "Default volatility to be used for players.")
	flags.Float64Var(&defaultTau, "default-tau", 0.5, "Tau value used in the rating configuration.")
	flags.Float64Var(&defaultTolerance, "default-tolerance", 0.000001, "Convergence tolerance used in the rating configuration.")
	flags.BoolVarP(&filterProvisional, "filter-provisional", "p", false, "Filter out provisional ratings.")
	flags.BoolVarP(&sortDeviation, "sort-deviation", "e", false, "Sort ascending by rating deviation.")
	flags.BoolVarP(&sortVolatility, "sort-volatility", "v", false, "Sort descending by volatility.")
	flags.BoolVarP(&sortReverse, "sort-reverse", "i", false, "Reverse sorting.")
	flags.IntVarP(&resultLimit, "result-limit", "l", 0, "Output result limit.")
}

func run(cmd *cobra.Command, args []string) error {
	games, err := csvfeed.ReadGamesFile(args[0])
	if err != nil {
		return fmt.Errorf("read %q: %w", args[0], err)
	}

	seed := glicko2.Rating{
		Rating:     defaultRating,
		Deviation:  defaultDeviation,
		Volatility: defaultVolatility,
	}
	cfg := glicko2.Config{
		Tau:                  defaultTau,
		ConvergenceTolerance: defaultTolerance,
	}
	ratings := csvfeed.Rate(games, seed, cfg, func(g csvfeed.Game, err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "game %s vs %s left unrated: %v\n", g.PlayerA, g.PlayerB, err)
	})

	opts := report.DefaultOptions()
	opts.ProvisionalThreshold = provisionalThreshold
	opts.Reverse = sortReverse
	opts.HideProvisional = filterProvisional
	switch {
	case sortDeviation:
		opts.Sort = report.SortDeviation
	case sortVolatility:
		opts.Sort = report.SortVolatility
	}
	if cmd.Flags().Changed("maximum-deviation") {
		opts.MaxDeviation = maximumDeviation
	}
	if cmd.Flags().Changed("minimum-deviation") {
		opts.MinDeviation = minimumDeviation
	}
	if cmd.Flags().Changed("result-limit") {
		opts.Limit = resultLimit
	}

	colored := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	report.Render(cmd.OutOrStdout(), report.Build(ratings, opts), len(ratings), colored)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
