package model

import (
	"fmt"
	"strings"
	"time"
)

// Aggregation is the bar size of a historical price series.
type Aggregation string

const (
	Daily   Aggregation = "daily"
	Weekly  Aggregation = "weekly"
	Monthly Aggregation = "monthly"
)

// ParseAggregation accepts daily, weekly or monthly (case-insensitive).
func ParseAggregation(s string) (Aggregation, error) {
	switch a := Aggregation(strings.ToLower(strings.TrimSpace(s))); a {
	case Daily, Weekly, Monthly:
		return a, nil
	}
	return "", fmt.Errorf("%w: aggregation %q (want daily, weekly or monthly)", ErrInvalidInput, s)
}

// PricePoint is a single end-of-day close.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds an ordered close history for one symbol.
type PriceSeries struct {
	Symbol      string
	Aggregation Aggregation
	Points      []PricePoint
	FetchedAt   time.Time
}

// DrawdownPoint is a price point annotated with its trailing maximum and drawdown.
type DrawdownPoint struct {
	PricePoint
	RollingMax  float64
	DrawdownPct float64 // <= 0, percent
}

// LVRPoint is the loan position valued at one period's close.
type LVRPoint struct {
	Date  time.Time
	Price float64
	Value float64
	LVR   float64
}

// LVRSeries is the output of an LVR build: the loan terms and the per-period values.
type LVRSeries struct {
	Borrowed float64
	Total    float64
	Shares   float64
	Points   []LVRPoint
}
