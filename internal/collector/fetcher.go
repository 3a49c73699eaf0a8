package collector

import (
	"context"
	"errors"
	"sort"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// ErrRateLimited is returned when a provider refuses a request for quota reasons.
var ErrRateLimited = errors.New("rate limited")

// Fetcher defines the interface for fetching historical close prices.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbol string, agg model.Aggregation) ([]model.PricePoint, error)
	Name() string
}

// normalize orders points by date and keeps the last close seen for a repeated date.
func normalize(points []model.PricePoint) []model.PricePoint {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
