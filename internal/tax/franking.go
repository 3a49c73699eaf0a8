package tax

import (
	"fmt"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// DefaultCorporateRate is the Australian company tax rate used when grossing up dividends.
const DefaultCorporateRate = 0.3

// FrankedDividend grosses up a cash dividend by its attached franking credit.
//
// frankingRatio is the franked share of the dividend (1 = fully franked).
// corporateRate is the company tax already paid; a rate of 1 has no finite gross-up.
func FrankedDividend(net, frankingRatio, corporateRate float64) (preTax, credit float64, err error) {
	if net < 0 {
		return 0, 0, fmt.Errorf("%w: dividend %g", model.ErrInvalidInput, net)
	}
	if frankingRatio < 0 || frankingRatio > 1 {
		return 0, 0, fmt.Errorf("%w: franking ratio %g outside [0,1]", model.ErrInvalidInput, frankingRatio)
	}
	if corporateRate == 1 {
		return 0, 0, fmt.Errorf("%w: corporate tax rate of 1", model.ErrArithmeticDegeneracy)
	}
	if corporateRate < 0 || corporateRate > 1 {
		return 0, 0, fmt.Errorf("%w: corporate tax rate %g outside [0,1)", model.ErrInvalidInput, corporateRate)
	}

	credit = net * corporateRate / (1 - corporateRate) * frankingRatio
	return net + credit, credit, nil
}
