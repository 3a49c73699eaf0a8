package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/diabolical-ninja/Finsights/internal/notifier"
	"github.com/diabolical-ninja/Finsights/internal/tax"
)

var frankingCmd = &cobra.Command{
	Use:   "franking <net dividend>",
	Short: "Gross up a franked dividend",
	Long: `Franking computes the franking credit attached to a net dividend and the
pre-tax dividend it represents.

Example:
  finsights franking 700 --ratio 1 --corp-rate 0.3`,
	Args: cobra.ExactArgs(1),
	RunE: runFranking,
}

var (
	frRatio    float64
	frCorpRate float64
)

func init() {
	rootCmd.AddCommand(frankingCmd)

	frankingCmd.Flags().Float64VarP(&frRatio, "ratio", "r", 1, "franking ratio (0-1)")
	frankingCmd.Flags().Float64Var(&frCorpRate, "corp-rate", tax.DefaultCorporateRate, "corporate tax rate")
}

func runFranking(cmd *cobra.Command, args []string) error {
	net, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("net dividend %q: %w", args[0], err)
	}
	preTax, credit, err := tax.FrankedDividend(net, frRatio, frCorpRate)
	if err != nil {
		return err
	}
	md := "| Net dividend | Franking credit | Pre-tax dividend |\n|---:|---:|---:|\n" +
		fmt.Sprintf("| %s | %s | %s |\n", notifier.Amount(net), notifier.Amount(credit), notifier.Amount(preTax))
	return printMarkdown(cmd.OutOrStdout(), md)
}
