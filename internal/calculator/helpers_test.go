package calculator

import (
	"time"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

func series(closes ...float64) []model.PricePoint {
	start := time.Date(2008, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func drawdowns(pcts ...float64) []model.DrawdownPoint {
	out := make([]model.DrawdownPoint, len(pcts))
	for i, p := range pcts {
		out[i] = model.DrawdownPoint{DrawdownPct: p}
	}
	return out
}
