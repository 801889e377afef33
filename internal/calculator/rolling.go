package calculator

import "errors"

// RollingMax computes the trailing maximum over `window` values, inclusive of
// the current one, using a monotonic deque of indices (O(n) overall).
// valid[i] is false for the first window-1 positions, where no full window
// exists yet; highs[i] is 0 there.
func RollingMax(values []float64, window int) (highs []float64, valid []bool, err error) {
	if window <= 0 {
		return nil, nil, errors.New("window must be positive")
	}
	n := len(values)
	highs = make([]float64, n)
	valid = make([]bool, n)

	// deque holds indices whose values are strictly decreasing front to back.
	deque := make([]int, 0, window)
	for i, v := range values {
		// Drop smaller-or-equal tail entries: the newer index dominates them
		// for every window that still contains both.
		for len(deque) > 0 && values[deque[len(deque)-1]] <= v {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		if deque[0] <= i-window {
			deque = deque[1:]
		}
		if i >= window-1 {
			highs[i] = values[deque[0]]
			valid[i] = true
		}
	}
	return highs, valid, nil
}

// NewHighs flags positions whose value touches the trailing window maximum.
// Equality counts as a new high.
func NewHighs(values []float64, window int) ([]bool, []float64, []bool, error) {
	highs, valid, err := RollingMax(values, window)
	if err != nil {
		return nil, nil, nil, err
	}
	touched := make([]bool, len(values))
	for i, v := range values {
		touched[i] = valid[i] && v >= highs[i]
	}
	return touched, highs, valid, nil
}
