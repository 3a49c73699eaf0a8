package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage time series API.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
func NewAlphaVantageFetcher(apiKey, proxyURL string) *AlphaVantageFetcher {
	return &AlphaVantageFetcher{
		BaseURL: "https://www.alphavantage.co",
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

var avFunctions = map[model.Aggregation]struct{ function, key string }{
	model.Daily:   {"TIME_SERIES_DAILY", "Time Series (Daily)"},
	model.Weekly:  {"TIME_SERIES_WEEKLY", "Weekly Time Series"},
	model.Monthly: {"TIME_SERIES_MONTHLY", "Monthly Time Series"},
}

// FetchSeries downloads the close history of symbol. Zero closes are dropped
// as bad data.
func (f *AlphaVantageFetcher) FetchSeries(ctx context.Context, symbol string, agg model.Aggregation) ([]model.PricePoint, error) {
	fn, ok := avFunctions[agg]
	if !ok {
		return nil, fmt.Errorf("%w: aggregation %q", model.ErrInvalidInput, agg)
	}
	q := url.Values{}
	q.Set("function", fn.function)
	q.Set("symbol", symbol)
	q.Set("apikey", f.APIKey)
	if agg == model.Daily {
		q.Set("outputsize", "full")
	}
	endpoint := f.BaseURL + "/query?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch series: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}
	if msg, ok := stringField(raw, "Error Message"); ok {
		return nil, fmt.Errorf("alphavantage: %s: %w", msg, model.ErrDataUnavailable)
	}
	for _, k := range []string{"Note", "Information"} {
		if msg, ok := stringField(raw, k); ok {
			return nil, fmt.Errorf("alphavantage: %s: %w", msg, ErrRateLimited)
		}
	}

	var bars map[string]map[string]string
	body, ok := raw[fn.key]
	if !ok {
		return nil, fmt.Errorf("alphavantage: no %q in response for %s: %w", fn.key, symbol, model.ErrDataUnavailable)
	}
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}

	points := make([]model.PricePoint, 0, len(bars))
	for day, bar := range bars {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", day, err)
		}
		c, err := strconv.ParseFloat(bar["4. close"], 64)
		if err != nil {
			return nil, fmt.Errorf("parse close on %s: %w", day, err)
		}
		if c <= 0 {
			continue
		}
		points = append(points, model.PricePoint{Date: d, Close: c})
	}
	return normalize(points), nil
}

func stringField(raw map[string]json.RawMessage, key string) (string, bool) {
	v, ok := raw[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return string(v), true
	}
	return s, true
}
