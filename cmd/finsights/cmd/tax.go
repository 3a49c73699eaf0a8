package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/diabolical-ninja/Finsights/internal/notifier"
	"github.com/diabolical-ninja/Finsights/internal/tax"
)

var taxCmd = &cobra.Command{
	Use:   "tax <income>...",
	Short: "Compute progressive income tax",
	Long: `Tax prints the income tax owed on each income under the bracket table of
a financial year. Configured tables are merged over the built-in ones.

Example:
  finsights tax 20000 90000 --year 2019
  finsights tax --brackets`,
	RunE: runTax,
}

var (
	taxYear     int
	taxBrackets bool
)

func init() {
	rootCmd.AddCommand(taxCmd)

	taxCmd.Flags().IntVarP(&taxYear, "year", "y", 0, "financial year of the table (0 = latest)")
	taxCmd.Flags().BoolVar(&taxBrackets, "brackets", false, "print the bracket table instead")
}

func runTax(cmd *cobra.Command, args []string) error {
	reg, err := cfg.TaxRegistry()
	if err != nil {
		return err
	}
	year := taxYear
	if !cmd.Flags().Changed("year") {
		year = cfg.Tax.Year
	}
	if year == tax.LatestYear {
		if year, _, err = reg.Latest(); err != nil {
			return err
		}
	}
	table, err := reg.Get(year)
	if err != nil {
		return err
	}

	if taxBrackets {
		md := fmt.Sprintf("## FY%d brackets\n\n| Threshold | Rate |\n|---:|---:|\n", year)
		for _, b := range table.Brackets() {
			md += fmt.Sprintf("| %s | %.1f%% |\n", notifier.Amount(b.Threshold), b.Rate*100)
		}
		return printMarkdown(cmd.OutOrStdout(), md)
	}

	if len(args) == 0 {
		return fmt.Errorf("at least one income is required")
	}
	md := fmt.Sprintf("## FY%d income tax\n\n| Income | Tax | Effective rate |\n|---:|---:|---:|\n", year)
	for _, arg := range args {
		income, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("income %q: %w", arg, err)
		}
		owed, err := tax.Tax(income, table)
		if err != nil {
			return err
		}
		rate := 0.0
		if income > 0 {
			rate = owed / income * 100
		}
		md += fmt.Sprintf("| %s | %s | %.2f%% |\n", notifier.Amount(income), notifier.Amount(owed), rate)
	}
	return printMarkdown(cmd.OutOrStdout(), md)
}
