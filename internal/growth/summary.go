package growth

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// Summary aggregates a growth history at full precision.
type Summary struct {
	TotalExcessTax float64 `json:"total_tax"`
	TotalDividends float64 `json:"total_dividends"`
	FinalCapital   float64 `json:"final_capital"`
	NetPosition    float64 `json:"net_position"`
}

// RoundedSummary is the presentation form of a Summary, rounded to cents.
type RoundedSummary struct {
	TotalExcessTax decimal.Decimal `json:"total_tax"`
	TotalDividends decimal.Decimal `json:"total_dividends"`
	FinalCapital   decimal.Decimal `json:"final_capital"`
	NetPosition    decimal.Decimal `json:"net_position"`
}

// Summarize reduces a history to its totals. It does not modify history.
func Summarize(history model.GrowthHistory) (Summary, error) {
	if len(history) == 0 {
		return Summary{}, fmt.Errorf("%w: empty growth history", model.ErrInvalidInput)
	}
	var s Summary
	for _, rec := range history {
		s.TotalExcessTax += rec.ExcessTax
		s.TotalDividends += rec.DividendIncome
	}
	s.FinalCapital = history.Last().Capital
	s.NetPosition = s.FinalCapital - s.TotalExcessTax
	return s, nil
}

// Rounded rounds every total to 2 decimal places.
func (s Summary) Rounded() RoundedSummary {
	return RoundedSummary{
		TotalExcessTax: cents(s.TotalExcessTax),
		TotalDividends: cents(s.TotalDividends),
		FinalCapital:   cents(s.FinalCapital),
		NetPosition:    cents(s.NetPosition),
	}
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
