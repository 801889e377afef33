package model

import "time"

// Signal is a breakout date selected by the detector.
type Signal struct {
	Date  time.Time `json:"date"`
	Index int       `json:"index"` // position in the relative series
	Ratio float64   `json:"ratio"`
}

// HorizonPoint is one day of a post-signal window.
type HorizonPoint struct {
	Offset       int       `json:"offset"`        // trading days since the signal
	CalendarDays int       `json:"calendar_days"` // calendar days since the signal
	Date         time.Time `json:"date"`
	Ratio        float64   `json:"ratio"`
	Normalized   float64   `json:"normalized"`
}

// HorizonWindow is the fixed-length forward run that follows a signal,
// normalized so that its first value is 100.
type HorizonWindow struct {
	Signal Signal         `json:"signal"`
	Points []HorizonPoint `json:"points"`
}

// NormalizedAt returns the normalized value at the given trading-day offset.
func (w *HorizonWindow) NormalizedAt(offset int) (float64, bool) {
	if offset < 0 || offset >= len(w.Points) {
		return 0, false
	}
	return w.Points[offset].Normalized, true
}

// Checkpoint is a fixed horizon at which post-signal values are sampled.
type Checkpoint struct {
	Label  string `json:"label"` // e.g. "M1"
	Name   string `json:"name"`  // e.g. "1 Month"
	Months int    `json:"months"`
	Offset int    `json:"offset"` // zero-based index into a HorizonWindow
}

// Summary holds descriptive statistics, each rounded to 2 decimal places.
// Fields are declared in presentation order.
type Summary struct {
	Count        int     `json:"count"`
	HitRatio     float64 `json:"hit_ratio"` // percent of values > 100
	HitRatioText string  `json:"hit_ratio_text"`
	Minimum      float64 `json:"minimum"`
	Maximum      float64 `json:"maximum"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Range        float64 `json:"range"`
	StdDev       float64 `json:"std_dev"`
	Variance     float64 `json:"variance"`
	MeanAbsDev   float64 `json:"mean_abs_dev"`
}

// HorizonStatistics is the aggregate for one checkpoint. Summary is nil and
// Error is set when the checkpoint had no contributing windows.
type HorizonStatistics struct {
	Checkpoint Checkpoint `json:"checkpoint"`
	Values     []float64  `json:"values"`
	Summary    *Summary   `json:"summary,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// StatRow is one labelled line of the summary table.
type StatRow struct {
	Label string
	Value string
}

// StatLabels lists summary table rows in their fixed order.
var StatLabels = []string{
	"HitRatio",
	"Minimum",
	"Maximum",
	"Mean",
	"Median",
	"Range",
	"Std. Dev.",
	"Variance",
	"Mean Absolute Deviation",
}
