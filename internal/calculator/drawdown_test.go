package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

func TestCalculateDrawdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		closes  []float64
		window  int
		wantMax []float64
		wantDD  []float64
	}{
		{
			name:    "window of one never draws down",
			closes:  []float64{100, 50, 40},
			window:  1,
			wantMax: []float64{100, 50, 40},
			wantDD:  []float64{0, 0, 0},
		},
		{
			name:    "peak rolls out of window",
			closes:  []float64{100, 50, 40},
			window:  2,
			wantMax: []float64{100, 100, 50},
			wantDD:  []float64{0, -50, -20},
		},
		{
			name:    "zero close is excluded",
			closes:  []float64{100, 120, 90, 130, 0, 65},
			window:  3,
			wantMax: []float64{100, 120, 120, 130, 0, 130},
			wantDD:  []float64{0, 0, -25, 0, 0, -50},
		},
		{
			name:    "window longer than series",
			closes:  []float64{10, 20, 5},
			window:  252,
			wantMax: []float64{10, 20, 20},
			wantDD:  []float64{0, 0, -75},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CalculateDrawdown(series(tt.closes...), tt.window)
			require.NoError(t, err)
			require.Len(t, got, len(tt.closes))
			for i := range got {
				assert.InDelta(t, tt.wantMax[i], got[i].RollingMax, 1e-9, "max at %d", i)
				assert.InDelta(t, tt.wantDD[i], got[i].DrawdownPct, 1e-9, "drawdown at %d", i)
				assert.Equal(t, tt.closes[i], got[i].Close)
			}
		})
	}
}

func TestCalculateDrawdown_NeverPositive(t *testing.T) {
	t.Parallel()

	got, err := CalculateDrawdown(series(5, 7, 6, 9, 3, 3, 11, 2, 8), 4)
	require.NoError(t, err)
	for _, p := range got {
		assert.LessOrEqual(t, p.DrawdownPct, 0.0)
		assert.GreaterOrEqual(t, p.DrawdownPct, -100.0)
	}
}

func TestCalculateDrawdown_Errors(t *testing.T) {
	t.Parallel()

	_, err := CalculateDrawdown(series(1, 2), 0)
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = CalculateDrawdown(nil, 5)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestWorstDrawdown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -42.0, WorstDrawdown(drawdowns(0, -3, -42, -1)))
	assert.Equal(t, 0.0, WorstDrawdown(nil))
}
