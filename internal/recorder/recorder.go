package recorder

import (
	"context"
	"time"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// CacheKey identifies one fetched series. Entries expire with their fetch day.
type CacheKey struct {
	Provider    string
	Symbol      string
	Aggregation model.Aggregation
	Day         string // YYYY-MM-DD the series was fetched
}

// DayKey formats t as a CacheKey day.
func DayKey(t time.Time) string { return t.Format("2006-01-02") }

// PriceCache persists fetched price history so repeated runs on the same day
// do not hit the provider again.
type PriceCache interface {
	Load(ctx context.Context, key CacheKey) ([]model.PricePoint, bool, error)
	Store(ctx context.Context, key CacheKey, points []model.PricePoint) error
	// Prune drops every entry fetched before day.
	Prune(ctx context.Context, day string) (int64, error)
	Close() error
}
