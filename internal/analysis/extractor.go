package analysis

import (
	"fmt"

	"BreakoutScope/internal/calculator"
	"BreakoutScope/internal/model"
)

// ExtractHorizon slices exactly horizon trading days starting at the signal
// and normalizes the ratios so the window starts at 100. It never truncates:
// a short tail is reported as ErrInsufficientData.
func ExtractHorizon(series []model.RelativePoint, sig model.Signal, horizon int) (*model.HorizonWindow, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidParams, horizon)
	}
	if sig.Index < 0 || sig.Index >= len(series) || !series[sig.Index].Date.Equal(sig.Date) {
		return nil, fmt.Errorf("signal %s at position %d is not part of the series",
			sig.Date.Format("2006-01-02"), sig.Index)
	}
	end := sig.Index + horizon
	if end > len(series) {
		return nil, fmt.Errorf("%w: signal %s needs %d days, only %d remain",
			ErrInsufficientData, sig.Date.Format("2006-01-02"), horizon, len(series)-sig.Index)
	}

	run := series[sig.Index:end]
	normalized, err := calculator.Normalize(model.Ratios(run))
	if err != nil {
		return nil, fmt.Errorf("normalize window for %s: %w", sig.Date.Format("2006-01-02"), err)
	}

	start := run[0].Date
	points := make([]model.HorizonPoint, len(run))
	for i, p := range run {
		points[i] = model.HorizonPoint{
			Offset:       i,
			CalendarDays: int(p.Date.Sub(start).Hours() / 24),
			Date:         p.Date,
			Ratio:        p.Ratio,
			Normalized:   normalized[i],
		}
	}
	return &model.HorizonWindow{Signal: sig, Points: points}, nil
}

// ExtractAll extracts a window for every signal, stopping at the first failure.
func ExtractAll(series []model.RelativePoint, signals []model.Signal, horizon int) ([]model.HorizonWindow, error) {
	windows := make([]model.HorizonWindow, 0, len(signals))
	for _, sig := range signals {
		w, err := ExtractHorizon(series, sig, horizon)
		if err != nil {
			return nil, err
		}
		windows = append(windows, *w)
	}
	return windows, nil
}
