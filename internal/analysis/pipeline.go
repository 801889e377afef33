package analysis

import (
	"fmt"
	"time"

	"BreakoutScope/internal/model"
)

// Recompute runs builder, detector, extractor and aggregator over an aligned
// price pair and returns a fresh result set. It has no side effects; any
// stage failure aborts the whole run.
func Recompute(pair *model.PricePair, p model.Params, now time.Time) (*model.ResultSet, error) {
	if pair == nil {
		return nil, fmt.Errorf("%w: no price data", ErrInputAlignment)
	}
	if err := ValidateParams(p); err != nil {
		return nil, err
	}

	series, err := BuildRelativeSeries(pair.InstrumentPrices, pair.BenchmarkPrices)
	if err != nil {
		return nil, fmt.Errorf("build relative series: %w", err)
	}

	det, err := DetectSignals(series, p)
	if err != nil {
		return nil, fmt.Errorf("detect signals: %w", err)
	}

	windows, err := ExtractAll(det.Series, det.Signals, p.Horizon)
	if err != nil {
		return nil, fmt.Errorf("extract horizons: %w", err)
	}

	cps, err := Checkpoints(p)
	if err != nil {
		return nil, err
	}
	stats, err := AggregateHorizons(windows, cps)
	if err != nil {
		return nil, fmt.Errorf("aggregate horizons: %w", err)
	}

	rs := &model.ResultSet{
		Instrument:   pair.Instrument,
		Benchmark:    pair.Benchmark,
		Params:       p,
		Series:       det.Series,
		Signals:      det.Signals,
		Windows:      windows,
		Statistics:   stats,
		ComputedAt:   now,
		Insufficient: det.Insufficient,
	}
	if len(series) > 0 {
		rs.DataFrom = series[0].Date
		rs.DataTo = series[len(series)-1].Date
	}
	return rs, nil
}
