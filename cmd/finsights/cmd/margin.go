package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/diabolical-ninja/Finsights/internal/calculator"
	"github.com/diabolical-ninja/Finsights/internal/margin"
	"github.com/diabolical-ninja/Finsights/internal/notifier"
)

var marginCmd = &cobra.Command{
	Use:   "margin [symbol]...",
	Short: "Count historical margin calls per LVR",
	Long: `Margin fetches each symbol's price history, computes its rolling drawdown
and counts for every LVR in the lookup table how often the drawdown would
have triggered a margin call. Symbols default to margin.symbols.

Example:
  finsights margin VAS.AX VGS.AX --window 252 --max-lvr 0.7 --buffer 0.1 --layout long`,
	RunE: runMargin,
}

var (
	mgWindow  int
	mgMaxLVR  float64
	mgBuffer  float64
	mgStep    float64
	mgLayout  string
	mgLegacy  bool
	mgSummary bool
)

func init() {
	rootCmd.AddCommand(marginCmd)

	marginCmd.Flags().IntVarP(&mgWindow, "window", "w", 0, "rolling max window in periods (default margin.drawdown_window)")
	marginCmd.Flags().Float64Var(&mgMaxLVR, "max-lvr", 0, "lender's maximum LVR (default margin.max_lvr)")
	marginCmd.Flags().Float64Var(&mgBuffer, "buffer", 0, "buffer above the maximum LVR (default margin.buffer)")
	marginCmd.Flags().Float64Var(&mgStep, "step", 0, "LVR step of the lookup table (default margin.step)")
	marginCmd.Flags().StringVarP(&mgLayout, "layout", "l", "wide", "table layout: wide or long")
	marginCmd.Flags().BoolVar(&mgLegacy, "legacy-decline", false, "count any drawdown below 1% as a decline")
	marginCmd.Flags().BoolVar(&mgSummary, "summary", true, "print worst drawdown and max safe LVR per symbol")
}

func runMargin(cmd *cobra.Command, args []string) error {
	m := cfg.Margin
	f := cmd.Flags()
	if f.Changed("window") {
		m.DrawdownWindow = mgWindow
	}
	if f.Changed("max-lvr") {
		m.MaxLVR = mgMaxLVR
	}
	if f.Changed("buffer") {
		m.Buffer = mgBuffer
	}
	if f.Changed("step") {
		m.Step = mgStep
	}
	if f.Changed("legacy-decline") {
		m.LegacyDeclineFilter = mgLegacy
	}
	symbols := args
	if len(symbols) == 0 {
		symbols = m.Symbols
	}

	layout, err := notifier.ParseLayout(mgLayout)
	if err != nil {
		return err
	}
	agg, err := cfg.Aggregation()
	if err != nil {
		return err
	}
	table, err := calculator.BuildLVRLookup(m.MaxLVR, m.Buffer, m.Step)
	if err != nil {
		return err
	}
	filter := calculator.StrictDecline
	if m.LegacyDeclineFilter {
		filter = calculator.LegacyDecline
	}

	col, closeCache := newCollector()
	defer closeCache()

	batch := &margin.Batch{
		Fetcher:     col,
		Analyzer:    margin.Analyzer{Filter: filter},
		Aggregation: agg,
		Window:      m.DrawdownWindow,
		Concurrency: m.Concurrency,
	}
	runID := uuid.NewString()
	results, err := batch.Run(cmd.Context(), symbols, table)
	if err != nil {
		return fmt.Errorf("margin analysis %s: %w", runID, err)
	}

	md := fmt.Sprintf("## Margin calls (%s, %d period window, %s decline)\n\n", agg, m.DrawdownWindow, filter)
	md += notifier.FormatMarginTable(margin.Combine(results), symbols, layout)
	if mgSummary {
		md += "\n## Worst case\n\n" + notifier.FormatMarginSummary(results)
	}
	return printMarkdown(cmd.OutOrStdout(), md)
}
