package tax

import (
	"fmt"
	"sort"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// LatestYear asks a Source for its most recent table.
const LatestYear = 0

// Source supplies bracket tables by financial year.
// Years are identified by their closing calendar year (FY2017/18 is 2018).
type Source interface {
	Get(year int) (Table, error)
}

type entry struct {
	year  int
	table Table
}

// Registry is an ordered set of bracket tables keyed by financial year.
type Registry struct {
	entries []entry // ascending by year
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Add registers (or replaces) the table for year.
func (r *Registry) Add(year int, t Table) error {
	if year <= 0 {
		return fmt.Errorf("%w: financial year %d", model.ErrInvalidInput, year)
	}
	if t.IsZero() {
		return fmt.Errorf("%w: empty table for %d", model.ErrInvalidInput, year)
	}
	i := sort.Search(len(r.entries), func(i int) bool { return r.entries[i].year >= year })
	if i < len(r.entries) && r.entries[i].year == year {
		r.entries[i].table = t
		return nil
	}
	r.entries = append(r.entries, entry{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = entry{year: year, table: t}
	return nil
}

// Years lists registered years in ascending order.
func (r *Registry) Years() []int {
	years := make([]int, len(r.entries))
	for i, e := range r.entries {
		years[i] = e.year
	}
	return years
}

// Latest returns the table of the most recent registered year.
func (r *Registry) Latest() (int, Table, error) {
	if len(r.entries) == 0 {
		return 0, Table{}, fmt.Errorf("%w: tax registry is empty", model.ErrDataUnavailable)
	}
	e := r.entries[len(r.entries)-1]
	return e.year, e.table, nil
}

// Get returns the table for year, or the latest one when year is LatestYear.
func (r *Registry) Get(year int) (Table, error) {
	if year == LatestYear {
		_, t, err := r.Latest()
		return t, err
	}
	i := sort.Search(len(r.entries), func(i int) bool { return r.entries[i].year >= year })
	if i < len(r.entries) && r.entries[i].year == year {
		return r.entries[i].table, nil
	}
	return Table{}, fmt.Errorf("%w: no tax table for FY%d", model.ErrDataUnavailable, year)
}

// Australian resident rates.
var (
	FY2018 = MustTable([]model.TaxBracket{
		{Threshold: 0, Rate: 0},
		{Threshold: 18200, Rate: 0.19},
		{Threshold: 37000, Rate: 0.325},
		{Threshold: 87000, Rate: 0.37},
		{Threshold: 180000, Rate: 0.45},
	})
	FY2019 = MustTable([]model.TaxBracket{
		{Threshold: 0, Rate: 0},
		{Threshold: 18200, Rate: 0.19},
		{Threshold: 37000, Rate: 0.325},
		{Threshold: 90000, Rate: 0.37},
		{Threshold: 180000, Rate: 0.45},
	})
)

// DefaultRegistry returns a fresh registry holding the built-in tables.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Add(2018, FY2018)
	_ = r.Add(2019, FY2019)
	return r
}
