package model

// TaxBracket is the lower income threshold of a band and its marginal rate.
type TaxBracket struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Rate      float64 `yaml:"rate" json:"rate"`
}
