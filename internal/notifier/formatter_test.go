package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabolical-ninja/Finsights/internal/growth"
	"github.com/diabolical-ninja/Finsights/internal/margin"
	"github.com/diabolical-ninja/Finsights/internal/model"
)

func TestAmount(t *testing.T) {
	assert.Equal(t, "$1,234.50", Amount(1234.5))
	assert.Equal(t, "$0.01", Amount(0.005))
	assert.Equal(t, "$10,675.00", Amount(10675))
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("LONG")
	require.NoError(t, err)
	assert.Equal(t, Long, l)

	l, err = ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, Wide, l)
	assert.Equal(t, "wide", l.String())

	_, err = ParseLayout("diagonal")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestFormatHistory(t *testing.T) {
	history := model.GrowthHistory{
		{Year: 0, Salary: 50000, Capital: 10000},
		{Year: 1, Salary: 50000, DividendIncome: 400, ExcessTax: 130, Capital: 10816},
	}
	out := FormatHistory(history)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| 1 | $50,000.00 | $400.00 | $130.00 | $10,816.00 |", lines[3])
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(growth.Summary{TotalExcessTax: 130.004, TotalDividends: 400, FinalCapital: 10816.666, NetPosition: 10686.662})
	assert.Contains(t, out, "| $130.00 | $400.00 | $10,816.67 | $10,686.66 |")

	cmp := FormatComparison([]string{"growth", "dividend"}, []growth.Summary{{FinalCapital: 1}, {FinalCapital: 2}})
	assert.Contains(t, cmp, "| growth |")
	assert.Contains(t, cmp, "| dividend | $0.00 | $0.00 | $2.00 | $0.00 |")
}

func TestFormatLVRSeries(t *testing.T) {
	s := model.LVRSeries{
		Borrowed: 10000, Total: 20000, Shares: 200,
		Points: []model.LVRPoint{
			{Date: time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC), Price: 100, Value: 20000, LVR: 0.5},
			{Date: time.Date(2020, 3, 3, 0, 0, 0, 0, time.UTC), Price: 80, Value: 16000, LVR: 0.625},
		},
	}
	out := FormatLVRSeries(s, 1)
	assert.Contains(t, out, "Borrowed $10,000.00, total $20,000.00, 200 units")
	assert.Contains(t, out, "| 2020-03-03 | 80.00 | $16,000.00 | 62.50% |")
	assert.NotContains(t, out, "2020-03-02")

	assert.NotContains(t, FormatLVRSeries(s, 0), "| Date |")
}

func TestFormatMarginTable(t *testing.T) {
	rows := []margin.CombinedRow{
		{LVRLookupRow: model.LVRLookupRow{LVR: 0, MCTriggerPct: 100}, Counts: map[string]int{"A": 0, "B": 0}},
		{LVRLookupRow: model.LVRLookupRow{LVR: 0.7, MCTriggerPct: 12.5}, Counts: map[string]int{"A": 3, "B": 1}},
	}
	symbols := []string{"A", "B"}

	wide := strings.Split(strings.TrimSpace(FormatMarginTable(rows, symbols, Wide)), "\n")
	require.Len(t, wide, 4)
	assert.Equal(t, "| LVR | Trigger | A | B |", wide[0])
	assert.Equal(t, "|---:|---:|---:|---:|", wide[1])
	assert.Equal(t, "| 70.00% | 12.50% | 3 | 1 |", wide[3])

	long := strings.Split(strings.TrimSpace(FormatMarginTable(rows, symbols, Long)), "\n")
	require.Len(t, long, 6)
	assert.Equal(t, "| 70.00% | 12.50% | A | 3 |", long[4])
	assert.Equal(t, "| 70.00% | 12.50% | B | 1 |", long[5])
}

func TestFormatMarginSummary(t *testing.T) {
	res := &margin.Result{
		Symbol:        "VAS.AX",
		Series:        make([]model.DrawdownPoint, 5),
		WorstDrawdown: -52,
		MaxSafeLVR:    38.4,
		Table: []model.MarginCallRow{
			{LVRLookupRow: model.LVRLookupRow{LVR: 0.3}},
			{LVRLookupRow: model.LVRLookupRow{LVR: 0.4}, MarginCalls: 2},
		},
	}
	out := FormatMarginSummary([]*margin.Result{res})
	assert.Contains(t, out, "| VAS.AX | 5 | -52.00% | 38.40% | 30.00% |")
}

func TestFormatWatchReport(t *testing.T) {
	day := time.Date(2020, 3, 23, 0, 0, 0, 0, time.UTC)
	statuses := []SymbolStatus{
		{Symbol: "CALM", Date: day, Price: 10, DrawdownPct: -1, YearHigh: 11, YearLow: 9, Position: 0.5},
		{Symbol: "CRASH", Date: day, Price: 5, DrawdownPct: -40, YearHigh: 10, YearLow: 5, SMA: 8, Breached: true},
	}
	out := FormatWatchReport("run-1", 0.6, 14.29, statuses)

	assert.Contains(t, out, "LVR 60.00%, margin call at a 14.29% drop")
	assert.Less(t, strings.Index(out, "CRASH"), strings.Index(out, "CALM"), "worst drawdown first")
	assert.Contains(t, out, "🚨 <b>CRASH</b>")
	assert.Contains(t, out, "SMA 8.00 (-37.5%)")
	assert.True(t, strings.HasSuffix(out, "run run-1"))

	alert := FormatAlert(statuses[1], 0.6, 14.29)
	assert.Contains(t, alert, "Drawdown -40.00% exceeds the 14.29% trigger for an LVR of 60.00%")
}

func TestRender_PlainPassthrough(t *testing.T) {
	out, err := Render("| a |\n|---|\n| 1 |\n", "", 80)
	require.NoError(t, err)
	assert.Equal(t, "| a |\n|---|\n| 1 |\n", out)
}

func TestRender_Styled(t *testing.T) {
	rows := []margin.CombinedRow{
		{LVRLookupRow: model.LVRLookupRow{LVR: 0.7, MCTriggerPct: 12.5}, Counts: map[string]int{"VAS.AX": 3}},
	}
	md := "# Margin calls\n\n" + FormatMarginTable(rows, []string{"VAS.AX"}, Wide)

	out, err := Render(md, "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Margin calls")
	assert.Contains(t, out, "VAS.AX")
	assert.Contains(t, out, "12.50%")
	assert.NotContains(t, out, "|---:|", "markdown table syntax is rendered away")

	_, err = Render(md, "no-such-style", 80)
	assert.Error(t, err)
}
