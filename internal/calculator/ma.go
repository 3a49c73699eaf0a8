package calculator

import (
	"fmt"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// SMA computes the simple moving average of the last period positive closes.
func SMA(points []model.PricePoint, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: period must be positive", model.ErrInvalidInput)
	}
	closes := positiveCloses(points)
	if len(closes) < period {
		return 0, fmt.Errorf("%w: %d closes for a %d period average", model.ErrDataUnavailable, len(closes), period)
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period), nil
}

func positiveCloses(points []model.PricePoint) []float64 {
	closes := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Close > 0 {
			closes = append(closes, p.Close)
		}
	}
	return closes
}
