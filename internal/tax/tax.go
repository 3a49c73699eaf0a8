package tax

import (
	"fmt"
	"math"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// Table is a validated progressive bracket table.
// Thresholds start at 0 and strictly increase; rates never decrease.
type Table struct {
	brackets []model.TaxBracket
}

// NewTable validates brackets and returns a Table holding its own copy of them.
func NewTable(brackets []model.TaxBracket) (Table, error) {
	if len(brackets) == 0 {
		return Table{}, fmt.Errorf("%w: empty bracket table", model.ErrInvalidInput)
	}
	if brackets[0].Threshold != 0 {
		return Table{}, fmt.Errorf("%w: first threshold must be 0, got %g", model.ErrInvalidInput, brackets[0].Threshold)
	}
	for i, b := range brackets {
		if b.Rate < 0 || b.Rate > 1 {
			return Table{}, fmt.Errorf("%w: bracket %d rate %g outside [0,1]", model.ErrInvalidInput, i, b.Rate)
		}
		if i == 0 {
			continue
		}
		prev := brackets[i-1]
		if b.Threshold <= prev.Threshold {
			return Table{}, fmt.Errorf("%w: threshold %g not above %g", model.ErrInvalidInput, b.Threshold, prev.Threshold)
		}
		if b.Rate < prev.Rate {
			return Table{}, fmt.Errorf("%w: rate %g at %g below previous rate %g", model.ErrInvalidInput, b.Rate, b.Threshold, prev.Rate)
		}
	}
	cp := make([]model.TaxBracket, len(brackets))
	copy(cp, brackets)
	return Table{brackets: cp}, nil
}

// MustTable is NewTable for package-level tables known to be valid.
func MustTable(brackets []model.TaxBracket) Table {
	t, err := NewTable(brackets)
	if err != nil {
		panic(err)
	}
	return t
}

// Brackets returns a copy of the table's brackets.
func (t Table) Brackets() []model.TaxBracket {
	cp := make([]model.TaxBracket, len(t.brackets))
	copy(cp, t.brackets)
	return cp
}

// IsZero reports whether t was never built through NewTable.
func (t Table) IsZero() bool { return len(t.brackets) == 0 }

// Tax returns the progressive tax owed on income.
//
// Each band runs from its threshold to the next one; the last band is
// extended to income. Income falling exactly on a threshold is taxed in the
// lower band up to that boundary.
func Tax(income float64, t Table) (float64, error) {
	if income < 0 || math.IsNaN(income) {
		return 0, fmt.Errorf("%w: income %g", model.ErrInvalidInput, income)
	}
	if t.IsZero() {
		return 0, fmt.Errorf("%w: no bracket table", model.ErrDataUnavailable)
	}

	// local upper bounds; the canonical brackets stay untouched
	uppers := make([]float64, len(t.brackets))
	for i := range t.brackets {
		if i+1 < len(t.brackets) {
			uppers[i] = t.brackets[i+1].Threshold
		} else {
			uppers[i] = income
		}
	}

	var owed float64
	for i, b := range t.brackets {
		band := math.Max(math.Min(uppers[i]-b.Threshold, income-b.Threshold), 0)
		owed += band * b.Rate
	}
	return owed, nil
}

// Marginal returns the extra tax on base+extra compared with base alone.
func Marginal(base, extra float64, t Table) (float64, error) {
	withExtra, err := Tax(base+extra, t)
	if err != nil {
		return 0, err
	}
	without, err := Tax(base, t)
	if err != nil {
		return 0, err
	}
	return withExtra - without, nil
}
