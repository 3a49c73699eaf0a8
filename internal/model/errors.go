package model

import "errors"

var (
	// ErrInvalidInput covers negative rates, non-positive prices, empty series and out-of-range ratios.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataUnavailable means a bracket table or price series is missing for the requested key.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrArithmeticDegeneracy flags a division by zero, e.g. an LVR of 1 or a corporate tax rate of 1.
	ErrArithmeticDegeneracy = errors.New("arithmetic degeneracy")
)
