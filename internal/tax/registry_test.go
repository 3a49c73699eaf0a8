package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

func TestDefaultRegistry_Latest(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	year, tbl, err := r.Latest()
	require.NoError(t, err)
	assert.Equal(t, 2019, year)
	assert.Equal(t, FY2019.Brackets(), tbl.Brackets())

	viaGet, err := r.Get(LatestYear)
	require.NoError(t, err)
	assert.Equal(t, tbl.Brackets(), viaGet.Brackets())
}

func TestRegistry_OrderIndependentOfInsertion(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Add(2019, FY2019))
	require.NoError(t, r.Add(2009, FY2018))
	require.NoError(t, r.Add(2018, FY2018))

	assert.Equal(t, []int{2009, 2018, 2019}, r.Years())
	year, _, err := r.Latest()
	require.NoError(t, err)
	assert.Equal(t, 2019, year)
}

func TestRegistry_Replace(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	require.NoError(t, r.Add(2018, FY2019))
	got, err := r.Get(2018)
	require.NoError(t, err)
	assert.Equal(t, FY2019.Brackets(), got.Brackets())
	assert.Len(t, r.Years(), 2)
}

func TestRegistry_Missing(t *testing.T) {
	t.Parallel()

	_, err := DefaultRegistry().Get(1999)
	require.ErrorIs(t, err, model.ErrDataUnavailable)

	_, _, err = NewRegistry().Latest()
	require.ErrorIs(t, err, model.ErrDataUnavailable)

	require.ErrorIs(t, NewRegistry().Add(0, FY2018), model.ErrInvalidInput)
	require.ErrorIs(t, NewRegistry().Add(2020, Table{}), model.ErrInvalidInput)
}
