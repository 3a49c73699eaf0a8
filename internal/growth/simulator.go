package growth

import (
	"fmt"
	"math"

	"github.com/diabolical-ninja/Finsights/internal/model"
	"github.com/diabolical-ninja/Finsights/internal/tax"
)

// CGTDiscount is the share of a capital gain excluded from income once the asset is held over a year.
const CGTDiscount = 0.5

// Params configures a growth simulation. Rates are decimals (0.05 = 5%).
type Params struct {
	Salary             float64 `yaml:"salary"`
	StartingInvestment float64 `yaml:"starting_investment"`
	CapitalGrowth      float64 `yaml:"capital_growth"`
	DividendPayout     float64 `yaml:"dividend_payout"`
	Years              int     `yaml:"years"`

	// FinalYearLiquidation sells everything in the last year and books the capital gains tax.
	FinalYearLiquidation bool `yaml:"final_year_liquidation"`

	// FrankingRatio > 0 grosses dividends up by their franking credit and
	// offsets the credit against the year's tax.
	FrankingRatio    float64 `yaml:"franking_ratio"`
	CorporateTaxRate float64 `yaml:"corporate_tax_rate"`
}

// Validate checks the simulation preconditions.
func (p Params) Validate() error {
	if p.Years < 1 {
		return fmt.Errorf("%w: years must be at least 1, got %d", model.ErrInvalidInput, p.Years)
	}
	if p.Salary < 0 {
		return fmt.Errorf("%w: salary %g", model.ErrInvalidInput, p.Salary)
	}
	if p.StartingInvestment < 0 {
		return fmt.Errorf("%w: starting investment %g", model.ErrInvalidInput, p.StartingInvestment)
	}
	if p.CapitalGrowth < 0 {
		return fmt.Errorf("%w: capital growth rate %g", model.ErrInvalidInput, p.CapitalGrowth)
	}
	if p.DividendPayout < 0 || p.DividendPayout >= 1 {
		return fmt.Errorf("%w: dividend payout rate %g outside [0,1)", model.ErrInvalidInput, p.DividendPayout)
	}
	if p.FrankingRatio > 0 {
		// surfaces the franking engine's own range checks
		if _, _, err := tax.FrankedDividend(0, p.FrankingRatio, p.CorporateTaxRate); err != nil {
			return err
		}
	} else if p.FrankingRatio < 0 {
		return fmt.Errorf("%w: franking ratio %g", model.ErrInvalidInput, p.FrankingRatio)
	}
	return nil
}

// Simulator projects an investment year by year, net of the extra income tax it causes.
type Simulator struct {
	Params Params
	Table  tax.Table
}

// NewSimulator validates params and binds them to a bracket table.
func NewSimulator(p Params, t tax.Table) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if t.IsZero() {
		return nil, fmt.Errorf("%w: no bracket table", model.ErrDataUnavailable)
	}
	return &Simulator{Params: p, Table: t}, nil
}

// Run simulates years 0..N. Dividends are reinvested before growth is applied.
// The returned history has Years+1 records; record 0 is the baseline.
func (s *Simulator) Run() (model.GrowthHistory, error) {
	p := s.Params
	if err := p.Validate(); err != nil {
		return nil, err
	}

	salaryTax, err := tax.Tax(p.Salary, s.Table)
	if err != nil {
		return nil, err
	}

	history := make(model.GrowthHistory, 0, p.Years+1)
	history = append(history, model.YearRecord{
		Year:    0,
		Salary:  p.Salary,
		Capital: p.StartingInvestment,
	})

	capital := p.StartingInvestment
	for year := 1; year <= p.Years; year++ {
		dividend := capital * p.DividendPayout
		capital = capital * (1 + p.DividendPayout) * (1 + p.CapitalGrowth)

		taxableDividend, credit := dividend, 0.0
		if p.FrankingRatio > 0 {
			if taxableDividend, credit, err = tax.FrankedDividend(dividend, p.FrankingRatio, p.CorporateTaxRate); err != nil {
				return nil, err
			}
		}

		liquidate := year == p.Years && p.FinalYearLiquidation
		income := p.Salary + taxableDividend
		if liquidate {
			income += s.liquidationGains(history)
		}

		owed, err := tax.Tax(income, s.Table)
		if err != nil {
			return nil, err
		}
		extraTax := owed - salaryTax
		if liquidate {
			capital -= extraTax
		}
		excess := extraTax - credit

		history = append(history, model.YearRecord{
			Year:           year,
			Salary:         p.Salary,
			DividendIncome: dividend,
			ExcessTax:      excess,
			Capital:        capital,
		})
	}
	return history, nil
}

// liquidationGains sums the taxable gains of the starting investment and of
// every dividend reinvested in the years already recorded.
func (s *Simulator) liquidationGains(history model.GrowthHistory) float64 {
	n := s.Params.Years
	gains := s.TaxableCapitalGain(s.Params.StartingInvestment, n)
	for _, rec := range history {
		gains += s.TaxableCapitalGain(rec.DividendIncome, n-rec.Year)
	}
	return gains
}

// TaxableCapitalGain returns the taxable part of the gain on amount after
// yearsHeld years of annual compounding at the simulation growth rate.
func (s *Simulator) TaxableCapitalGain(amount float64, yearsHeld int) float64 {
	gain := CompoundInterest(amount, s.Params.CapitalGrowth, 1, float64(yearsHeld)) - amount
	if yearsHeld > 1 {
		return gain * (1 - CGTDiscount)
	}
	return gain
}

// CompoundInterest grows principal at rate, compounded perYear times a year, for years.
func CompoundInterest(principal, rate float64, perYear int, years float64) float64 {
	if perYear < 1 {
		perYear = 1
	}
	n := float64(perYear)
	return principal * math.Pow(1+rate/n, n*years)
}
