package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

func avServer(t *testing.T, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	seen := new(http.Request)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = *r
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestAlphaVantageFetcher_Monthly(t *testing.T) {
	t.Parallel()

	srv, seen := avServer(t, `{
		"Meta Data": {"2. Symbol": "AFI.AX"},
		"Monthly Time Series": {
			"2019-02-28": {"1. open": "6.0", "4. close": "6.10"},
			"2019-01-31": {"1. open": "5.8", "4. close": "5.95"},
			"2019-03-29": {"1. open": "6.1", "4. close": "0.0000"}
		}
	}`)

	f := NewAlphaVantageFetcher("demo", "")
	f.BaseURL = srv.URL

	pts, err := f.FetchSeries(context.Background(), "AFI.AX", model.Monthly)
	require.NoError(t, err)

	q := seen.URL.Query()
	assert.Equal(t, "TIME_SERIES_MONTHLY", q.Get("function"))
	assert.Equal(t, "AFI.AX", q.Get("symbol"))
	assert.Equal(t, "demo", q.Get("apikey"))
	assert.Empty(t, q.Get("outputsize"))

	require.Len(t, pts, 2)
	assert.Equal(t, time.Date(2019, 1, 31, 0, 0, 0, 0, time.UTC), pts[0].Date)
	assert.Equal(t, 5.95, pts[0].Close)
	assert.Equal(t, 6.10, pts[1].Close)
}

func TestAlphaVantageFetcher_DailyIsFull(t *testing.T) {
	t.Parallel()

	srv, seen := avServer(t, `{"Time Series (Daily)": {"2019-01-02": {"4. close": "5.5"}}}`)
	f := NewAlphaVantageFetcher("k", "")
	f.BaseURL = srv.URL

	pts, err := f.FetchSeries(context.Background(), "VAS.AX", model.Daily)
	require.NoError(t, err)
	assert.Len(t, pts, 1)
	assert.Equal(t, "full", seen.URL.Query().Get("outputsize"))
}

func TestAlphaVantageFetcher_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"unknown symbol", `{"Error Message": "Invalid API call."}`, model.ErrDataUnavailable},
		{"quota note", `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`, ErrRateLimited},
		{"quota information", `{"Information": "rate limit reached"}`, ErrRateLimited},
		{"missing series", `{"Meta Data": {}}`, model.ErrDataUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, _ := avServer(t, tt.body)
			f := NewAlphaVantageFetcher("k", "")
			f.BaseURL = srv.URL
			_, err := f.FetchSeries(context.Background(), "X", model.Weekly)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
