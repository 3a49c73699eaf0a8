package calculator

import (
	"fmt"
	"math"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// PeriodsPerYear is the number of bars in roughly one year at each aggregation.
var PeriodsPerYear = map[model.Aggregation]int{
	model.Daily:   252,
	model.Weekly:  52,
	model.Monthly: 12,
}

// PeriodRange scans the most recent periods closes and returns the high and low.
// Non-positive closes are ignored.
func PeriodRange(points []model.PricePoint, periods int) (high, low float64, err error) {
	if periods <= 0 {
		return 0, 0, fmt.Errorf("%w: periods must be positive", model.ErrInvalidInput)
	}
	closes := positiveCloses(points)
	if len(closes) == 0 {
		return 0, 0, fmt.Errorf("%w: no positive closes", model.ErrInvalidInput)
	}
	start := len(closes) - periods
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range closes[start:] {
		if c > high {
			high = c
		}
		if c < low {
			low = c
		}
	}
	return high, low, nil
}

// RangePosition returns where current sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, fmt.Errorf("%w: high must be >= low", model.ErrInvalidInput)
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
