package margin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// SeriesFetcher supplies the price history analysed by a Batch.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol string, agg model.Aggregation) ([]model.PricePoint, error)
}

// Batch fetches and analyses several symbols against the same lookup table.
type Batch struct {
	Fetcher     SeriesFetcher
	Analyzer    Analyzer
	Aggregation model.Aggregation
	Window      int
	// Concurrency bounds parallel symbols; values below 1 mean one at a time.
	Concurrency int
}

// Run analyses every symbol. Results keep the order of symbols. Any failure
// fails the whole batch and no results are returned.
func (b *Batch) Run(ctx context.Context, symbols []string, table []model.LVRLookupRow) ([]*Result, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols", model.ErrInvalidInput)
	}
	limit := b.Concurrency
	if limit < 1 {
		limit = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result, len(symbols))
	errs := make([]error, len(symbols))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			res, err := b.one(ctx, sym, table)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", sym, err)
				cancel()
				return
			}
			results[i] = res
		}(i, sym)
	}
	wg.Wait()

	// report the root cause rather than a cancellation it triggered
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil || (errors.Is(first, context.Canceled) && !errors.Is(err, context.Canceled)) {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}
	return results, nil
}

func (b *Batch) one(ctx context.Context, symbol string, table []model.LVRLookupRow) (*Result, error) {
	points, err := b.Fetcher.FetchSeries(ctx, symbol, b.Aggregation)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	res, err := b.Analyzer.Analyze(points, table, b.Window)
	if err != nil {
		return nil, err
	}
	res.Symbol = symbol
	log.Printf("[INFO] %s: %d periods, worst drawdown %.2f%%, max safe LVR %.2f%%",
		symbol, len(points), res.WorstDrawdown, res.MaxSafeLVR)
	return res, nil
}

// CombinedRow is one lookup row with margin-call counts for several symbols.
type CombinedRow struct {
	model.LVRLookupRow
	Counts map[string]int
}

// Combine merges per-symbol tables built from the same lookup table.
func Combine(results []*Result) []CombinedRow {
	if len(results) == 0 {
		return nil
	}
	rows := make([]CombinedRow, len(results[0].Table))
	for i, row := range results[0].Table {
		rows[i] = CombinedRow{LVRLookupRow: row.LVRLookupRow, Counts: make(map[string]int, len(results))}
	}
	for _, res := range results {
		for i, row := range res.Table {
			if i < len(rows) {
				rows[i].Counts[res.Symbol] = row.MarginCalls
			}
		}
	}
	return rows
}
