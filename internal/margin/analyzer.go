package margin

import (
	"fmt"

	"github.com/diabolical-ninja/Finsights/internal/calculator"
	"github.com/diabolical-ninja/Finsights/internal/model"
)

// Result is the margin-call history of one price series.
type Result struct {
	Symbol        string
	Series        []model.DrawdownPoint
	Table         []model.MarginCallRow
	WorstDrawdown float64 // percent, <= 0
	MaxSafeLVR    float64 // percent
}

// Analyzer counts historical margin calls against an LVR lookup table.
type Analyzer struct {
	Filter calculator.DeclineFilter
}

// Analyze computes the drawdown of series over window periods, counts for
// every lookup row the periods whose decline exceeds that row's trigger, and
// derives the largest LVR that the worst decline would not have called.
// The table's largest LVR is taken as the call threshold.
func (a Analyzer) Analyze(series []model.PricePoint, table []model.LVRLookupRow, window int) (*Result, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: empty LVR lookup table", model.ErrInvalidInput)
	}
	dd, err := calculator.CalculateDrawdown(series, window)
	if err != nil {
		return nil, err
	}

	rows := make([]model.MarginCallRow, len(table))
	ceiling := 0.0
	for i, row := range table {
		rows[i] = model.MarginCallRow{
			LVRLookupRow: row,
			MarginCalls:  calculator.CountMarginCalls(dd, row.MCTriggerPct, a.Filter),
		}
		if row.LVR > ceiling {
			ceiling = row.LVR
		}
	}

	worst := calculator.WorstDrawdown(dd)
	return &Result{
		Series:        dd,
		Table:         rows,
		WorstDrawdown: worst,
		MaxSafeLVR:    calculator.MaxSafeLVR(worst, ceiling, 0),
	}, nil
}

// Latest returns the most recent annotated point.
func (r *Result) Latest() (model.DrawdownPoint, bool) {
	if len(r.Series) == 0 {
		return model.DrawdownPoint{}, false
	}
	return r.Series[len(r.Series)-1], true
}

// FirstSafeRow returns the lookup row with the highest LVR that never saw a margin call.
func (r *Result) FirstSafeRow() (model.MarginCallRow, bool) {
	var best model.MarginCallRow
	found := false
	for _, row := range r.Table {
		if row.MarginCalls == 0 && (!found || row.LVR > best.LVR) {
			best, found = row, true
		}
	}
	return best, found
}
