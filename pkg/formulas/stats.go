// Package formulas holds the small statistical helpers used by trend analysis.
package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// MeanOfPresent averages the non-nil values. Returns nil when none are present.
func MeanOfPresent(values []*float64) *float64 {
	present := Present(values)
	if len(present) == 0 {
		return nil
	}
	mean := Mean(present)
	return &mean
}

// Present drops nil and non-finite entries.
func Present(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		out = append(out, *v)
	}
	return out
}

// PercentChange returns (current-previous)/|previous|*100.
// ok is false when previous is zero.
func PercentChange(previous, current float64) (float64, bool) {
	if previous == 0 {
		return 0, false
	}
	return (current - previous) / math.Abs(previous) * 100, true
}

// SMA calculates the simple moving average series for the given period.
// The first period-1 entries are dropped, so the result has len(values)-period+1 entries.
// Returns nil when there is not enough data.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	series := talib.Sma(values, period)
	out := make([]float64, 0, len(values)-period+1)
	for _, v := range series[period-1:] {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
