package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BreakoutScope/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleResult() *model.ResultSet {
	d := func(m, day int) time.Time { return time.Date(2023, time.Month(m), day, 0, 0, 0, 0, time.UTC) }
	return &model.ResultSet{
		Instrument: "AZN.L",
		Benchmark:  "^FTSE",
		Params:     model.Params{MonthDays: 22, Window: 66, Rearm: 88, Horizon: 132},
		Series:     make([]model.RelativePoint, 300),
		Signals: []model.Signal{
			{Date: d(2, 1), Index: 70, Ratio: 1.2},
			{Date: d(6, 1), Index: 160, Ratio: 1.3},
		},
		Statistics: []model.HorizonStatistics{
			{
				Checkpoint: model.Checkpoint{Label: "M1", Name: "1 Month", Months: 1, Offset: 21},
				Values:     []float64{105, 95},
				Summary:    &model.Summary{Count: 2, HitRatio: 50, HitRatioText: "50%", Minimum: 95, Maximum: 105, Mean: 100},
			},
			{
				Checkpoint: model.Checkpoint{Label: "M6", Name: "6 Months", Months: 6, Offset: 131},
				Error:      "no values at offset 131",
			},
		},
		DataFrom: d(1, 2),
		DataTo:   d(12, 29),
	}
}

func TestSQLiteRecorder_RecordAndListRuns(t *testing.T) {
	r := openTemp(t)

	first := &RunRecord{Timestamp: time.Unix(1700000000, 0), Source: "yahoo", Result: sampleResult(), Duration: 1500 * time.Millisecond}
	require.NoError(t, r.RecordRun(first))
	assert.NotZero(t, first.ID)
	assert.Equal(t, 2, first.Signals)
	assert.Equal(t, 300, first.Days)

	second := &RunRecord{Timestamp: time.Unix(1700086400, 0), Source: "file", Result: sampleResult()}
	require.NoError(t, r.RecordRun(second))

	runs, err := r.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID, "newest first")
	assert.Equal(t, "file", runs[0].Source)
	assert.Equal(t, "AZN.L", runs[1].Instrument)
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.Equal(t, time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), runs[1].DataTo)

	var signals, stats int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM run_signals WHERE run_id = ?`, first.ID).Scan(&signals))
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM run_horizon_stats WHERE run_id = ?`, first.ID).Scan(&stats))
	assert.Equal(t, 2, signals)
	assert.Equal(t, 2, stats)

	var errText string
	require.NoError(t, r.db.QueryRow(`SELECT error FROM run_horizon_stats WHERE run_id = ? AND checkpoint = 'M6'`, first.ID).Scan(&errText))
	assert.Equal(t, "no values at offset 131", errText)

	limited, err := r.RecentRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteRecorder_RecordRunWithoutResult(t *testing.T) {
	r := openTemp(t)
	assert.Error(t, r.RecordRun(&RunRecord{}))
}

func TestSQLiteRecorder_RecordFailure(t *testing.T) {
	r := openTemp(t)
	now := time.Now()
	require.NoError(t, r.RecordFailure(&FailureEvent{
		Timestamp: now, Instrument: "AZN.L", Benchmark: "^FTSE", Stage: "collect", Message: "status 503",
	}))
	require.NoError(t, r.RecordFailure(&FailureEvent{Stage: "recompute", Message: "misaligned"}))

	n, err := r.FailureCount(now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	r, err := NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, r.RecordRun(&RunRecord{Result: sampleResult()}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()
	runs, err := r.RecentRuns(5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&RunRecord{}))
	assert.NoError(t, r.RecordFailure(&FailureEvent{}))
	runs, err := r.RecentRuns(3)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
