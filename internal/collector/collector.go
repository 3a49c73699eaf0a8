package collector

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/diabolical-ninja/Finsights/internal/model"
	"github.com/diabolical-ninja/Finsights/internal/recorder"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Series map[string][]model.PricePoint
	Err    error
	calls  atomic.Int32
}

// CallCount reports how many times FetchSeries was called.
func (m *MockFetcher) CallCount() int { return int(m.calls.Load()) }

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, symbol string, _ model.Aggregation) ([]model.PricePoint, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if pts, ok := m.Series[symbol]; ok {
		return pts, nil
	}
	if m.Price > 0 {
		return generateMockSeries(m.Price, 300), nil
	}
	return nil, fmt.Errorf("mock: %s: %w", symbol, model.ErrDataUnavailable)
}

func generateMockSeries(basePrice float64, count int) []model.PricePoint {
	start := time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		points[i] = model.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return points
}

// Collector validates fetched series and caches them for the day.
type Collector struct {
	Fetcher Fetcher
	Cache   recorder.PriceCache
	Now     func() time.Time
}

// NewCollector creates a new Collector. A nil cache disables caching.
func NewCollector(fetcher Fetcher, cache recorder.PriceCache) *Collector {
	if cache == nil {
		cache = recorder.NewNoopCache()
	}
	return &Collector{Fetcher: fetcher, Cache: cache, Now: time.Now}
}

// FetchSeries returns today's cached series for symbol or fetches it.
// The returned series is ascending by date, free of duplicate dates and has
// at least one positive close.
func (c *Collector) FetchSeries(ctx context.Context, symbol string, agg model.Aggregation) ([]model.PricePoint, error) {
	key := recorder.CacheKey{
		Provider:    c.Fetcher.Name(),
		Symbol:      symbol,
		Aggregation: agg,
		Day:         recorder.DayKey(c.Now()),
	}

	if pts, ok, err := c.Cache.Load(ctx, key); err != nil {
		log.Printf("[WARN] price cache load %s: %v", symbol, err)
	} else if ok {
		return pts, nil
	}

	pts, err := c.Fetcher.FetchSeries(ctx, symbol, agg)
	if err != nil {
		return nil, err
	}
	pts = normalize(append([]model.PricePoint(nil), pts...))
	if err := Validate(pts); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}

	if err := c.Cache.Store(ctx, key, pts); err != nil {
		log.Printf("[WARN] price cache store %s: %v", symbol, err)
	}
	log.Printf("[INFO] fetched %d %s closes for %s from %s", len(pts), agg, symbol, c.Fetcher.Name())
	return pts, nil
}

// Validate checks that a series is ordered, unique by date and has a positive close.
func Validate(points []model.PricePoint) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: empty price series", model.ErrDataUnavailable)
	}
	positive := false
	for i, p := range points {
		if p.Close > 0 {
			positive = true
		}
		if i > 0 && !points[i-1].Date.Before(p.Date) {
			return fmt.Errorf("%w: price dates not strictly ascending at %s", model.ErrInvalidInput, p.Date.Format("2006-01-02"))
		}
	}
	if !positive {
		return fmt.Errorf("%w: no positive close", model.ErrInvalidInput)
	}
	return nil
}

// PruneStale drops cached series fetched before today.
func (c *Collector) PruneStale(ctx context.Context) (int64, error) {
	n, err := c.Cache.Prune(ctx, recorder.DayKey(c.Now()))
	if err != nil {
		return 0, fmt.Errorf("prune price cache: %w", err)
	}
	return n, nil
}
