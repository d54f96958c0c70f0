// Package decimals holds the fixed-point arithmetic used by every metric
// computation. All monetary and percentage math must go through here so that
// rounding behaves identically on every code path.
// ⭐ SSOT: 등락률/이동평균 계산은 이 패키지에서만
package decimals

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	// RateScale is the intermediate scale for the fluctuation-rate division.
	RateScale = 4
	// DisplayScale is the final scale for percentage values.
	DisplayScale = 2
	// MAScale is the scale for moving-average points.
	MAScale = 4
)

// ErrZeroStartPrice is returned when a rate would divide by a zero start price.
var ErrZeroStartPrice = errors.New("fluctuation rate undefined for zero start price")

var hundred = decimal.NewFromInt(100)

// FluctuationRate returns (end - start) and the percentage change of the
// closing price between a period's start and end observation:
// round(round((end-start)/start, 4) * 100, 2), rounding half up.
func FluctuationRate(start, end decimal.Decimal) (versus, rate decimal.Decimal, err error) {
	versus = end.Sub(start)
	if start.IsZero() {
		return versus, decimal.Decimal{}, ErrZeroStartPrice
	}

	// DivRound rounds half away from zero, which is HALF_UP at these scales.
	rate = versus.DivRound(start, RateScale).Mul(hundred).Round(DisplayScale)
	return versus, rate, nil
}

// Mean returns the arithmetic mean of values rounded half up at the given
// scale. The sum is exact; only the final division rounds.
func Mean(values []decimal.Decimal, scale int32) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Decimal{}
	}

	sum := decimal.Decimal{}
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(values))), scale)
}
