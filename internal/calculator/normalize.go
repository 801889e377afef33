package calculator

import (
	"errors"
	"fmt"
	"math"
)

// Ratio divides numerator by denominator, rejecting values that would make
// the result undefined.
func Ratio(numerator, denominator float64) (float64, error) {
	if math.IsNaN(numerator) || math.IsInf(numerator, 0) {
		return 0, fmt.Errorf("numerator %v is not finite", numerator)
	}
	if math.IsNaN(denominator) || math.IsInf(denominator, 0) || denominator == 0 {
		return 0, fmt.Errorf("denominator %v is zero or not finite", denominator)
	}
	return numerator / denominator, nil
}

// Normalize rebases values so that the first one equals exactly 100.
func Normalize(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, errors.New("no values to normalize")
	}
	base := values[0]
	if base == 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return nil, fmt.Errorf("base value %v cannot be normalized", base)
	}
	out := make([]float64, len(values))
	out[0] = 100
	for i := 1; i < len(values); i++ {
		out[i] = values[i] / base * 100
	}
	return out, nil
}
