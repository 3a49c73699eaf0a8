package model

// YearRecord captures the end-of-year state of a growth simulation.
type YearRecord struct {
	Year           int     `json:"year"`
	Salary         float64 `json:"salary"`
	DividendIncome float64 `json:"dividend_income"`
	ExcessTax      float64 `json:"excess_tax"`
	Capital        float64 `json:"capital"`
}

// GrowthHistory is ordered by year ascending; index 0 is the pre-investment baseline.
type GrowthHistory []YearRecord

// Last returns the final record. It panics on an empty history.
func (h GrowthHistory) Last() YearRecord {
	return h[len(h)-1]
}
