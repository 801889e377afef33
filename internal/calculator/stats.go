package calculator

import (
	"errors"
	"math"
	"sort"
	"strconv"

	"BreakoutScope/internal/model"
)

// ErrNoValues is returned when statistics are requested for an empty sample.
var ErrNoValues = errors.New("no values")

// Mean returns the arithmetic mean.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// Median returns the middle value, averaging the two central values for an
// even-sized sample.
func Median(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, ErrNoValues
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, nil
}

// SampleVariance uses the N-1 denominator. A single observation has zero
// variance.
func SampleVariance(values []float64) (float64, error) {
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}
	if len(values) == 1 {
		return 0, nil
	}
	ss := 0.0
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return ss / float64(len(values)-1), nil
}

// MeanAbsDeviation is the mean of absolute deviations from the mean.
func MeanAbsDeviation(values []float64) (float64, error) {
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Abs(v - mean)
	}
	return sum / float64(len(values)), nil
}

// HitRatio returns the percentage of values strictly above threshold.
func HitRatio(values []float64, threshold float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}
	hits := 0
	for _, v := range values {
		if v > threshold {
			hits++
		}
	}
	return float64(hits) / float64(len(values)) * 100, nil
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPercent renders an already-rounded percentage, e.g. "33.33%".
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// Describe computes the full descriptive summary of a sample. Every field is
// rounded to 2 decimal places after computing from the unrounded inputs.
func Describe(values []float64, threshold float64) (*model.Summary, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	// Errors below are impossible once the sample is non-empty.
	mean, _ := Mean(values)
	median, _ := Median(values)
	variance, _ := SampleVariance(values)
	mad, _ := MeanAbsDeviation(values)
	hit, _ := HitRatio(values, threshold)

	hit = Round2(hit)
	return &model.Summary{
		Count:        len(values),
		HitRatio:     hit,
		HitRatioText: FormatPercent(hit),
		Minimum:      Round2(lo),
		Maximum:      Round2(hi),
		Mean:         Round2(mean),
		Median:       Round2(median),
		Range:        Round2(hi - lo),
		StdDev:       Round2(math.Sqrt(variance)),
		Variance:     Round2(variance),
		MeanAbsDev:   Round2(mad),
	}, nil
}
