package recorder

import (
	"time"

	"BreakoutScope/internal/model"
)

// RunRecord holds everything worth keeping from one successful recompute.
type RunRecord struct {
	ID         int64
	Timestamp  time.Time
	Instrument string
	Benchmark  string
	Source     string
	DataFrom   time.Time
	DataTo     time.Time
	Days       int
	Duration   time.Duration
	Result     *model.ResultSet // only used when writing
	Signals    int
}

// FailureEvent records a refresh that did not produce a result.
type FailureEvent struct {
	Timestamp  time.Time
	Instrument string
	Benchmark  string
	Stage      string // "collect", "recompute", "timeout"
	Message    string
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordFailure(evt *FailureEvent) error
	RecentRuns(limit int) ([]RunRecord, error)
	Close() error
}
