package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diabolical-ninja/Finsights/internal/calculator"
	"github.com/diabolical-ninja/Finsights/internal/notifier"
)

var lvrCmd = &cobra.Command{
	Use:   "lvr <symbol>",
	Short: "Replay a margin loan over a symbol's price history",
	Long: `LVR buys as many whole units as the investment plus the borrowed amount
allows at the first close, then values the position at every later close.

Example:
  finsights lvr VAS.AX --investment 20000 --lvr 0.5 --tail 20`,
	Args: cobra.ExactArgs(1),
	RunE: runLVR,
}

var (
	lvInvestment float64
	lvInitial    float64
	lvTail       int
)

func init() {
	rootCmd.AddCommand(lvrCmd)

	lvrCmd.Flags().Float64VarP(&lvInvestment, "investment", "i", 0, "own funds invested (default margin.initial_investment)")
	lvrCmd.Flags().Float64Var(&lvInitial, "lvr", 0, "initial loan to value ratio (default margin.initial_lvr)")
	lvrCmd.Flags().IntVar(&lvTail, "tail", 10, "number of recent periods to print")
}

func runLVR(cmd *cobra.Command, args []string) error {
	investment, initial := cfg.Margin.InitialInvestment, cfg.Margin.InitialLVR
	if cmd.Flags().Changed("investment") {
		investment = lvInvestment
	}
	if cmd.Flags().Changed("lvr") {
		initial = lvInitial
	}
	agg, err := cfg.Aggregation()
	if err != nil {
		return err
	}

	col, closeCache := newCollector()
	defer closeCache()

	points, err := col.FetchSeries(cmd.Context(), args[0], agg)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", args[0], err)
	}
	series, err := calculator.BuildLVRSeries(points, investment, initial)
	if err != nil {
		return err
	}
	return printMarkdown(cmd.OutOrStdout(), fmt.Sprintf("## %s\n\n", args[0])+notifier.FormatLVRSeries(series, lvTail))
}
