package notifier

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"BreakoutScope/internal/model"
)

func sampleResult() *model.ResultSet {
	sigDate := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	points := make([]model.HorizonPoint, 132)
	for i := range points {
		points[i] = model.HorizonPoint{Offset: i, Normalized: 100 + float64(i)/10}
	}
	return &model.ResultSet{
		Instrument: "AZN.L",
		Benchmark:  "^FTSE",
		Series:     make([]model.RelativePoint, 400),
		Signals:    []model.Signal{{Date: sigDate, Index: 70, Ratio: 0.0123}},
		Windows:    []model.HorizonWindow{{Signal: model.Signal{Date: sigDate, Index: 70, Ratio: 0.0123}, Points: points}},
		Statistics: []model.HorizonStatistics{
			{
				Checkpoint: model.Checkpoint{Label: "M1", Name: "1 Month", Months: 1, Offset: 21},
				Values:     []float64{102.1},
				Summary: &model.Summary{Count: 1, HitRatio: 100, HitRatioText: "100%",
					Minimum: 102.1, Maximum: 102.1, Mean: 102.1, Median: 102.1},
			},
			{
				Checkpoint: model.Checkpoint{Label: "M6", Name: "6 Months", Months: 6, Offset: 131},
				Error:      "empty statistics input: M6",
			},
		},
		ComputedAt: time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC),
		DataFrom:   time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
		DataTo:     time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
}

func TestFormatSummary(t *testing.T) {
	msg := FormatSummary(sampleResult())
	assert.Contains(t, msg, "AZN.L vs ^FTSE")
	assert.Contains(t, msg, "Signals: 1")
	assert.Contains(t, msg, "1 Month")
	assert.Contains(t, msg, "6 Months")
	assert.Contains(t, msg, "100%")
	assert.Contains(t, msg, "n/a")

	hit := strings.Index(msg, "HitRatio")
	mad := strings.Index(msg, "Mean Absolute Deviation")
	assert.True(t, hit > 0 && mad > hit, "rows keep table order")
}

func TestFormatSummary_Insufficient(t *testing.T) {
	rs := sampleResult()
	rs.Insufficient = true
	msg := FormatSummary(rs)
	assert.Contains(t, msg, "Not enough history")
	assert.NotContains(t, msg, "<pre>")
}

func TestFormatSignals(t *testing.T) {
	msg := FormatSignals(sampleResult(), 0)
	assert.Contains(t, msg, "2023-02-01")
	assert.Contains(t, msg, "M1 102.10")
	assert.Contains(t, msg, "M6 113.10")

	empty := &model.ResultSet{}
	assert.Contains(t, FormatSignals(empty, 5), "No breakouts")
}

func TestFormatStatus(t *testing.T) {
	msg := FormatStatus(nil, model.RefreshStatus{})
	assert.Contains(t, msg, "No result computed yet")
	assert.Contains(t, msg, "Last success: never")

	st := model.RefreshStatus{
		LastSuccess: time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC),
		LastFailure: time.Date(2024, 3, 2, 4, 0, 0, 0, time.UTC),
		LastError:   "status <503>",
		Failures:    2,
	}
	msg = FormatStatus(sampleResult(), st)
	assert.Contains(t, msg, "2024-03-02 04:00")
	assert.Contains(t, msg, "Consecutive failures: 2")
	assert.Contains(t, msg, "status &lt;503&gt;")
}

func TestFormatFailure(t *testing.T) {
	msg := FormatFailure("collect", errors.New("timeout"), sampleResult())
	assert.Contains(t, msg, "collect")
	assert.Contains(t, msg, "timeout")
	assert.Contains(t, msg, "Still serving the result from 2024-03-01 04:00")

	assert.NotContains(t, FormatFailure("collect", errors.New("x"), nil), "Still serving")
}
