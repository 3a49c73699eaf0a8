package calculator

import (
	"fmt"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// CalculateDrawdown annotates each point with its trailing maximum over the
// last window periods (current period included) and the percentage decline
// from that maximum.
//
// Non-positive closes are treated as missing: they never enter the window
// and their drawdown is reported as 0.
func CalculateDrawdown(points []model.PricePoint, window int) ([]model.DrawdownPoint, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: drawdown window must be at least 1, got %d", model.ErrInvalidInput, window)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: empty price series", model.ErrInvalidInput)
	}

	out := make([]model.DrawdownPoint, len(points))
	// indices of positive closes, closes strictly decreasing front to back
	deque := make([]int, 0, window)
	for i, p := range points {
		for len(deque) > 0 && deque[0] <= i-window {
			deque = deque[1:]
		}
		out[i] = model.DrawdownPoint{PricePoint: p}
		if p.Close <= 0 {
			continue
		}
		for len(deque) > 0 && points[deque[len(deque)-1]].Close <= p.Close {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)

		peak := points[deque[0]].Close
		out[i].RollingMax = peak
		out[i].DrawdownPct = (p.Close/peak - 1.0) * 100
	}
	return out, nil
}

// WorstDrawdown returns the most negative drawdown in the series (0 when empty).
func WorstDrawdown(points []model.DrawdownPoint) float64 {
	worst := 0.0
	for _, p := range points {
		if p.DrawdownPct < worst {
			worst = p.DrawdownPct
		}
	}
	return worst
}
