package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diabolical-ninja/Finsights/internal/growth"
	"github.com/diabolical-ninja/Finsights/internal/model"
	"github.com/diabolical-ninja/Finsights/internal/notifier"
)

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Simulate an investment year by year net of income tax",
	Long: `Growth compounds a starting investment, taxing dividends at the marginal
rate on top of salary. With --liquidate the final year also realises all
capital gains, discounted by 50% when held more than a year.

Parameters default to the growth section of the config file.

Example:
  finsights growth --salary 90000 --start 20000 --growth 0.07 --payout 0.01 --years 10 \
    --vs-growth 0.04 --vs-payout 0.04`,
	Args: cobra.NoArgs,
	RunE: runGrowth,
}

var (
	grSalary    float64
	grStart     float64
	grGrowth    float64
	grPayout    float64
	grYears     int
	grLiquidate bool
	grFranking  float64
	grCorpRate  float64
	grTaxYear   int
	grVsGrowth  float64
	grVsPayout  float64
	grShowYears bool
)

func init() {
	rootCmd.AddCommand(growthCmd)

	growthCmd.Flags().Float64Var(&grSalary, "salary", 0, "annual salary")
	growthCmd.Flags().Float64Var(&grStart, "start", 0, "starting investment")
	growthCmd.Flags().Float64Var(&grGrowth, "growth", 0, "annual capital growth rate (0.05 = 5%)")
	growthCmd.Flags().Float64Var(&grPayout, "payout", 0, "annual dividend payout rate")
	growthCmd.Flags().IntVar(&grYears, "years", 0, "years to simulate")
	growthCmd.Flags().BoolVar(&grLiquidate, "liquidate", false, "sell everything in the final year")
	growthCmd.Flags().Float64Var(&grFranking, "franking", 0, "franking ratio of dividends (0-1)")
	growthCmd.Flags().Float64Var(&grCorpRate, "corp-rate", 0, "corporate tax rate behind franking credits")
	growthCmd.Flags().IntVar(&grTaxYear, "tax-year", 0, "financial year of the tax table (0 = latest)")
	growthCmd.Flags().Float64Var(&grVsGrowth, "vs-growth", 0, "capital growth of a second scenario to compare")
	growthCmd.Flags().Float64Var(&grVsPayout, "vs-payout", 0, "dividend payout of a second scenario to compare")
	growthCmd.Flags().BoolVar(&grShowYears, "history", true, "print the year by year table")
}

func growthParams(cmd *cobra.Command) growth.Params {
	p := cfg.Growth
	f := cmd.Flags()
	if f.Changed("salary") {
		p.Salary = grSalary
	}
	if f.Changed("start") {
		p.StartingInvestment = grStart
	}
	if f.Changed("growth") {
		p.CapitalGrowth = grGrowth
	}
	if f.Changed("payout") {
		p.DividendPayout = grPayout
	}
	if f.Changed("years") {
		p.Years = grYears
	}
	if f.Changed("liquidate") {
		p.FinalYearLiquidation = grLiquidate
	}
	if f.Changed("franking") {
		p.FrankingRatio = grFranking
	}
	if f.Changed("corp-rate") {
		p.CorporateTaxRate = grCorpRate
	}
	return p
}

func simulate(p growth.Params, year int) (model.GrowthHistory, growth.Summary, error) {
	reg, err := cfg.TaxRegistry()
	if err != nil {
		return nil, growth.Summary{}, err
	}
	table, err := reg.Get(year)
	if err != nil {
		return nil, growth.Summary{}, err
	}
	sim, err := growth.NewSimulator(p, table)
	if err != nil {
		return nil, growth.Summary{}, err
	}
	history, err := sim.Run()
	if err != nil {
		return nil, growth.Summary{}, err
	}
	sum, err := growth.Summarize(history)
	if err != nil {
		return nil, growth.Summary{}, err
	}
	return history, sum, nil
}

func runGrowth(cmd *cobra.Command, args []string) error {
	year := cfg.Tax.Year
	if cmd.Flags().Changed("tax-year") {
		year = grTaxYear
	}

	base := growthParams(cmd)
	history, sum, err := simulate(base, year)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	md := ""
	if grShowYears {
		md += "## Year by year\n\n" + notifier.FormatHistory(history) + "\n"
	}

	if cmd.Flags().Changed("vs-growth") || cmd.Flags().Changed("vs-payout") {
		alt := base
		if cmd.Flags().Changed("vs-growth") {
			alt.CapitalGrowth = grVsGrowth
		}
		if cmd.Flags().Changed("vs-payout") {
			alt.DividendPayout = grVsPayout
		}
		_, altSum, err := simulate(alt, year)
		if err != nil {
			return fmt.Errorf("simulate comparison: %w", err)
		}
		md += "## Comparison\n\n" + notifier.FormatComparison(
			[]string{scenarioName(base), scenarioName(alt)},
			[]growth.Summary{sum, altSum},
		)
	} else {
		md += "## Summary\n\n" + notifier.FormatSummary(sum)
	}
	return printMarkdown(cmd.OutOrStdout(), md)
}

func scenarioName(p growth.Params) string {
	return fmt.Sprintf("growth %.2f%% / payout %.2f%%", p.CapitalGrowth*100, p.DividendPayout*100)
}
