package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/diabolical-ninja/Finsights/internal/growth"
	"github.com/diabolical-ninja/Finsights/internal/margin"
	"github.com/diabolical-ninja/Finsights/internal/model"
)

// Currency of every amount the formatters print.
const Currency = money.AUD

// Layout is the orientation of a multi-symbol margin table.
type Layout int

const (
	// Wide prints one row per LVR with a column per symbol.
	Wide Layout = iota
	// Long prints one row per (LVR, symbol) pair.
	Long
)

// ParseLayout accepts "wide" or "long".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wide":
		return Wide, nil
	case "long":
		return Long, nil
	}
	return Wide, fmt.Errorf("%w: layout %q (want wide or long)", model.ErrInvalidInput, s)
}

func (l Layout) String() string {
	if l == Long {
		return "long"
	}
	return "wide"
}

// Amount renders v as AUD rounded to cents.
func Amount(v float64) string {
	return amountOf(decimal.NewFromFloat(v))
}

func amountOf(d decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(d.Round(int32(cur.Fraction)).Mul(factor).IntPart(), Currency).Display()
}

func pct(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// FormatHistory renders a growth history as a markdown table.
func FormatHistory(history model.GrowthHistory) string {
	var b strings.Builder
	b.WriteString("| Year | Salary | Dividends | Excess tax | Capital |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	for _, r := range history {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			r.Year, Amount(r.Salary), Amount(r.DividendIncome), Amount(r.ExcessTax), Amount(r.Capital))
	}
	return b.String()
}

// FormatSummary renders the totals of a simulation.
func FormatSummary(s growth.Summary) string {
	r := s.Rounded()
	var b strings.Builder
	b.WriteString("| Total excess tax | Total dividends | Final capital | Net position |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
		amountOf(r.TotalExcessTax), amountOf(r.TotalDividends), amountOf(r.FinalCapital), amountOf(r.NetPosition))
	return b.String()
}

// FormatComparison renders the summaries of several named scenarios side by side.
func FormatComparison(names []string, summaries []growth.Summary) string {
	var b strings.Builder
	b.WriteString("| Scenario | Total excess tax | Total dividends | Final capital | Net position |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for i, s := range summaries {
		r := s.Rounded()
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", names[i],
			amountOf(r.TotalExcessTax), amountOf(r.TotalDividends), amountOf(r.FinalCapital), amountOf(r.NetPosition))
	}
	return b.String()
}

// FormatLVRSeries renders the loan terms and, when tail > 0, the last tail periods.
func FormatLVRSeries(s model.LVRSeries, tail int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Borrowed %s, total %s, %s units\n\n", Amount(s.Borrowed), Amount(s.Total),
		decimal.NewFromFloat(s.Shares).String())
	if tail <= 0 || len(s.Points) == 0 {
		return b.String()
	}
	start := len(s.Points) - tail
	if start < 0 {
		start = 0
	}
	b.WriteString("| Date | Price | Value | LVR |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, p := range s.Points[start:] {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", p.Date.Format("2006-01-02"),
			decimal.NewFromFloat(p.Price).StringFixed(2), Amount(p.Value), pct(p.LVR*100))
	}
	return b.String()
}

// FormatMarginTable renders the combined margin-call counts of several symbols.
func FormatMarginTable(rows []margin.CombinedRow, symbols []string, layout Layout) string {
	var b strings.Builder
	if layout == Long {
		b.WriteString("| LVR | Trigger | Symbol | Margin calls |\n")
		b.WriteString("|---:|---:|---|---:|\n")
		for _, row := range rows {
			for _, sym := range symbols {
				fmt.Fprintf(&b, "| %s | %s | %s | %d |\n",
					pct(row.LVR*100), pct(row.MCTriggerPct), sym, row.Counts[sym])
			}
		}
		return b.String()
	}

	b.WriteString("| LVR | Trigger |")
	for _, sym := range symbols {
		fmt.Fprintf(&b, " %s |", sym)
	}
	b.WriteString("\n|---:|---:|")
	b.WriteString(strings.Repeat("---:|", len(symbols)))
	b.WriteString("\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s |", pct(row.LVR*100), pct(row.MCTriggerPct))
		for _, sym := range symbols {
			fmt.Fprintf(&b, " %d |", row.Counts[sym])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatMarginSummary lists the worst drawdown and max safe LVR of each result.
func FormatMarginSummary(results []*margin.Result) string {
	var b strings.Builder
	b.WriteString("| Symbol | Periods | Worst drawdown | Max safe LVR | Highest call-free row |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, r := range results {
		safe := "none"
		if row, ok := r.FirstSafeRow(); ok {
			safe = pct(row.LVR * 100)
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
			r.Symbol, len(r.Series), pct(r.WorstDrawdown), pct(r.MaxSafeLVR), safe)
	}
	return b.String()
}

// SymbolStatus is the latest position of one watched symbol.
type SymbolStatus struct {
	Symbol      string
	Date        time.Time
	Price       float64
	DrawdownPct float64
	YearHigh    float64
	YearLow     float64
	Position    float64 // within the yearly range, 0.0~1.0
	SMA         float64 // zero when there is not enough history
	Breached    bool
}

// FormatWatchReport formats the scheduled watch message for Telegram.
func FormatWatchReport(runID string, currentLVR, triggerPct float64, statuses []SymbolStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Finsights margin watch</b> | %s\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "LVR %s, margin call at a %s drop\n\n", pct(currentLVR*100), pct(triggerPct))

	sorted := append([]SymbolStatus(nil), statuses...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DrawdownPct < sorted[j].DrawdownPct })
	for _, s := range sorted {
		mark := "✅"
		if s.Breached {
			mark = "🚨"
		}
		fmt.Fprintf(&b, "%s <b>%s</b> %.2f (%s)\n", mark, s.Symbol, s.Price, s.Date.Format("2006-01-02"))
		fmt.Fprintf(&b, "   drawdown %s | 1y range %.2f~%.2f (%.0f%%)\n",
			pct(s.DrawdownPct), s.YearLow, s.YearHigh, s.Position*100)
		if s.SMA > 0 {
			fmt.Fprintf(&b, "   SMA %.2f (%+.1f%%)\n", s.SMA, (s.Price-s.SMA)/s.SMA*100)
		}
	}
	fmt.Fprintf(&b, "\nrun %s", runID)
	return b.String()
}

// FormatAlert formats the message sent when a symbol breaches the trigger.
func FormatAlert(s SymbolStatus, currentLVR, triggerPct float64) string {
	return fmt.Sprintf("🚨 <b>Margin call risk</b> | %s\n\n"+
		"Drawdown %s exceeds the %s trigger for an LVR of %s\n"+
		"Price %.2f on %s",
		s.Symbol, pct(s.DrawdownPct), pct(triggerPct), pct(currentLVR*100),
		s.Price, s.Date.Format("2006-01-02"))
}
