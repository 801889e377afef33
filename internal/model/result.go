package model

import "time"

// Params are the detection and aggregation parameters, in trading days.
type Params struct {
	MonthDays   int   `json:"month_days"`
	Window      int   `json:"window"`      // W: rolling-high lookback
	Rearm       int   `json:"rearm"`       // S: minimum spacing between signals
	Horizon     int   `json:"horizon"`     // H: forward window length
	Checkpoints []int `json:"checkpoints"` // in months
}

// ResultSet is the complete, immutable output of one recompute.
type ResultSet struct {
	Instrument   string              `json:"instrument"`
	Benchmark    string              `json:"benchmark"`
	Params       Params              `json:"params"`
	Series       []RelativePoint     `json:"series"`
	Signals      []Signal            `json:"signals"`
	Windows      []HorizonWindow     `json:"windows"`
	Statistics   []HorizonStatistics `json:"statistics"`
	ComputedAt   time.Time           `json:"computed_at"`
	DataFrom     time.Time           `json:"data_from"`
	DataTo       time.Time           `json:"data_to"`
	Insufficient bool                `json:"insufficient"` // fewer than W+H days of history
}

// SignalCount returns the number of detected signals.
func (r *ResultSet) SignalCount() int {
	return len(r.Signals)
}

// RefreshStatus describes the most recent refresh attempts, independent of
// which result set is currently visible.
type RefreshStatus struct {
	LastSuccess time.Time `json:"last_success"`
	LastFailure time.Time `json:"last_failure"`
	LastError   string    `json:"last_error"`
	Failures    int       `json:"consecutive_failures"`
}
