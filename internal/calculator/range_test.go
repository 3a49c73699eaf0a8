package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

func TestSMA(t *testing.T) {
	t.Parallel()

	got, err := SMA(series(1, 2, 3, 4, 5), 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-9)

	got, err = SMA(series(10, 0, 20), 2)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got, 1e-9, "zero closes are skipped")

	_, err = SMA(series(1, 2), 3)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)

	_, err = SMA(series(1, 2), 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestPeriodRange(t *testing.T) {
	t.Parallel()

	high, low, err := PeriodRange(series(50, 10, 30, 20, 40), 3)
	require.NoError(t, err)
	assert.Equal(t, 40.0, high)
	assert.Equal(t, 20.0, low)

	high, low, err = PeriodRange(series(50, 10), 252)
	require.NoError(t, err)
	assert.Equal(t, 50.0, high)
	assert.Equal(t, 10.0, low)

	_, _, err = PeriodRange(series(0, -1), 3)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRangePosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		current, high, lo float64
		want              float64
	}{
		{"middle", 15, 20, 10, 0.5},
		{"flat range", 10, 10, 10, 0.5},
		{"above high clamps", 25, 20, 10, 1},
		{"below low clamps", 5, 20, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RangePosition(tt.current, tt.high, tt.lo)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := RangePosition(1, 1, 2)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
