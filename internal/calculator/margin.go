package calculator

import (
	"fmt"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// DeclineFilter decides which drawdowns count as declines when counting margin calls.
type DeclineFilter int

const (
	// StrictDecline counts only negative drawdowns.
	StrictDecline DeclineFilter = iota
	// LegacyDecline accepts any drawdown below 1%, reproducing older reports.
	LegacyDecline
)

// IsDecline reports whether drawdownPct passes the filter.
func (f DeclineFilter) IsDecline(drawdownPct float64) bool {
	if f == LegacyDecline {
		return drawdownPct < 1
	}
	return drawdownPct < 0
}

func (f DeclineFilter) String() string {
	if f == LegacyDecline {
		return "legacy"
	}
	return "strict"
}

// MarginCallDrop returns the percentage price drop that takes a loan from
// currentLVR to the call threshold maxLVR+buffer.
func MarginCallDrop(currentLVR, maxLVR, buffer float64) (float64, error) {
	ceiling := maxLVR + buffer
	if ceiling <= 0 {
		return 0, fmt.Errorf("%w: margin call threshold %g", model.ErrArithmeticDegeneracy, ceiling)
	}
	return (1 - currentLVR/ceiling) * 100, nil
}

// MaxSafeLVR returns, in percent, the LVR at which the worst drawdown would
// have just reached the call threshold maxLVR+buffer. A positive drawdown is
// read as its negative.
func MaxSafeLVR(maxDrawdown, maxLVR, buffer float64) float64 {
	if maxDrawdown > 0 {
		maxDrawdown = -maxDrawdown
	}
	return (100 + maxDrawdown) * (maxLVR + buffer)
}

// BuildLVRLookup tabulates the margin call trigger for LVRs 0, step, 2*step, ...
// The last row is exactly maxLVR+buffer.
func BuildLVRLookup(maxLVR, buffer, step float64) ([]model.LVRLookupRow, error) {
	if maxLVR <= 0 || maxLVR > 1 {
		return nil, fmt.Errorf("%w: max LVR %g outside (0,1]", model.ErrInvalidInput, maxLVR)
	}
	if buffer < 0 {
		return nil, fmt.Errorf("%w: buffer %g", model.ErrInvalidInput, buffer)
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %g", model.ErrInvalidInput, step)
	}
	ceiling := maxLVR + buffer
	if ceiling > 1+1e-9 {
		return nil, fmt.Errorf("%w: max LVR plus buffer %g above 1", model.ErrInvalidInput, ceiling)
	}

	var rows []model.LVRLookupRow
	for i := 0; ; i++ {
		lvr := float64(i) * step
		if lvr >= ceiling-step*1e-6 {
			break
		}
		trigger, err := MarginCallDrop(lvr, maxLVR, buffer)
		if err != nil {
			return nil, err
		}
		rows = append(rows, model.LVRLookupRow{LVR: lvr, MCTriggerPct: trigger})
	}
	rows = append(rows, model.LVRLookupRow{LVR: ceiling, MCTriggerPct: 0})
	return rows, nil
}

// CountMarginCalls counts periods whose decline exceeds triggerPct.
func CountMarginCalls(points []model.DrawdownPoint, triggerPct float64, filter DeclineFilter) int {
	n := 0
	for _, p := range points {
		dd := p.DrawdownPct
		if abs(dd) > triggerPct && filter.IsDecline(dd) {
			n++
		}
	}
	return n
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
