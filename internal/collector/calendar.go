package collector

import (
	"time"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// ForwardFill places the series on a regular calendar of agg-sized steps
// counted from the first point, carrying the last close over missing
// periods. Monthly steps keep the first point's day of month, clamped to the
// last day of shorter months. The final source close is always kept.
func ForwardFill(points []model.PricePoint, agg model.Aggregation) []model.PricePoint {
	if len(points) < 2 {
		return points
	}
	start := points[0].Date
	at := func(k int) time.Time {
		switch agg {
		case model.Weekly:
			return start.AddDate(0, 0, 7*k)
		case model.Monthly:
			return addMonthsClamped(start, k)
		default:
			return start.AddDate(0, 0, k)
		}
	}

	out := make([]model.PricePoint, 0, len(points))
	last := points[len(points)-1].Date
	i := 0
	carry := points[0].Close
	for k := 0; ; k++ {
		d := at(k)
		if d.After(last) {
			break
		}
		// consume every source point up to d
		for i < len(points) && !points[i].Date.After(d) {
			carry = points[i].Close
			i++
		}
		out = append(out, model.PricePoint{Date: d, Close: carry})
	}
	if i < len(points) {
		out = append(out, points[len(points)-1])
	}
	return out
}

func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if n := daysIn(first); day > n {
		day = n
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
