package analysis

import (
	"errors"
	"fmt"

	"BreakoutScope/internal/calculator"
	"BreakoutScope/internal/model"
)

// HitThreshold is the normalized starting level; values above it count as hits.
const HitThreshold = 100.0

// Checkpoints maps month horizons onto zero-based window offsets: the
// m-month checkpoint is the (m*MonthDays)-th day, index m*MonthDays-1.
func Checkpoints(p model.Params) ([]model.Checkpoint, error) {
	if err := ValidateParams(p); err != nil {
		return nil, err
	}
	cps := make([]model.Checkpoint, len(p.Checkpoints))
	for i, m := range p.Checkpoints {
		cps[i] = model.Checkpoint{
			Label:  fmt.Sprintf("M%d", m),
			Name:   checkpointName(m),
			Months: m,
			Offset: m*p.MonthDays - 1,
		}
	}
	return cps, nil
}

func checkpointName(months int) string {
	if months == 1 {
		return "1 Month"
	}
	return fmt.Sprintf("%d Months", months)
}

// AggregateHorizons collects the normalized value at each checkpoint from
// every window and summarizes it. A checkpoint without values carries an
// ErrEmptyStatisticsInput message instead of a summary; a window too short
// for a checkpoint is a contract breach and fails the whole aggregation.
func AggregateHorizons(windows []model.HorizonWindow, checkpoints []model.Checkpoint) ([]model.HorizonStatistics, error) {
	out := make([]model.HorizonStatistics, 0, len(checkpoints))
	for _, cp := range checkpoints {
		values := make([]float64, 0, len(windows))
		for i := range windows {
			v, ok := windows[i].NormalizedAt(cp.Offset)
			if !ok {
				return nil, fmt.Errorf("%w: window for %s has %d days, checkpoint %s needs offset %d",
					ErrInsufficientData, windows[i].Signal.Date.Format("2006-01-02"),
					len(windows[i].Points), cp.Label, cp.Offset)
			}
			values = append(values, v)
		}

		hs := model.HorizonStatistics{Checkpoint: cp, Values: values}
		summary, err := calculator.Describe(values, HitThreshold)
		switch {
		case errors.Is(err, calculator.ErrNoValues):
			hs.Error = fmt.Errorf("%w: %s", ErrEmptyStatisticsInput, cp.Label).Error()
		case err != nil:
			return nil, fmt.Errorf("describe %s: %w", cp.Label, err)
		default:
			hs.Summary = summary
		}
		out = append(out, hs)
	}
	return out, nil
}
