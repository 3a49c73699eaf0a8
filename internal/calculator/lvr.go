package calculator

import (
	"fmt"
	"math"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// FirstValidPrice returns the first strictly positive close.
func FirstValidPrice(points []model.PricePoint) (float64, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: empty price series", model.ErrInvalidInput)
	}
	for _, p := range points {
		if p.Close > 0 {
			return p.Close, nil
		}
	}
	return 0, fmt.Errorf("%w: no positive close in price series", model.ErrInvalidInput)
}

// Borrowed returns the loan needed to reach initialLVR on top of a personal contribution.
func Borrowed(investment, initialLVR float64) (float64, error) {
	if initialLVR == 1 {
		return 0, fmt.Errorf("%w: initial LVR of 1", model.ErrArithmeticDegeneracy)
	}
	if initialLVR < 0 || initialLVR > 1 {
		return 0, fmt.Errorf("%w: initial LVR %g outside [0,1)", model.ErrInvalidInput, initialLVR)
	}
	if investment <= 0 {
		return 0, fmt.Errorf("%w: initial investment %g", model.ErrInvalidInput, investment)
	}
	return investment * initialLVR / (1 - initialLVR), nil
}

// BuildLVRSeries buys as many whole shares as the contribution plus loan
// allows at the first valid close, then values the position and its LVR at
// every positive close. Periods without a positive close are skipped.
func BuildLVRSeries(points []model.PricePoint, investment, initialLVR float64) (model.LVRSeries, error) {
	borrowed, err := Borrowed(investment, initialLVR)
	if err != nil {
		return model.LVRSeries{}, err
	}
	start, err := FirstValidPrice(points)
	if err != nil {
		return model.LVRSeries{}, err
	}

	total := investment + borrowed
	shares := math.Floor(total / start)
	if shares == 0 {
		return model.LVRSeries{}, fmt.Errorf("%w: %g buys no shares at %g", model.ErrArithmeticDegeneracy, total, start)
	}

	out := model.LVRSeries{
		Borrowed: borrowed,
		Total:    total,
		Shares:   shares,
		Points:   make([]model.LVRPoint, 0, len(points)),
	}
	for _, p := range points {
		if p.Close <= 0 {
			continue
		}
		value := p.Close * shares
		out.Points = append(out.Points, model.LVRPoint{
			Date:  p.Date,
			Price: p.Close,
			Value: value,
			LVR:   borrowed / value,
		})
	}
	return out, nil
}
