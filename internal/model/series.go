package model

import "time"

// RelativePoint is one day of the instrument/benchmark ratio series.
// RollingHigh is only meaningful when HasRollingHigh is set, i.e. once a
// full detection window of history is available.
type RelativePoint struct {
	Date           time.Time `json:"date"`
	Ratio          float64   `json:"ratio"`
	RollingHigh    float64   `json:"rolling_high"`
	HasRollingHigh bool      `json:"has_rolling_high"`
	NewHigh        bool      `json:"new_high"`
	Signal         bool      `json:"signal"`
}

// Ratios returns the ratio column of a relative series.
func Ratios(series []RelativePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Ratio
	}
	return out
}
