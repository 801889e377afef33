package analysis

import (
	"fmt"

	"BreakoutScope/internal/calculator"
	"BreakoutScope/internal/model"
)

// Detection is the detector's output: an annotated copy of the input series
// and the selected signals.
type Detection struct {
	Series       []model.RelativePoint
	Signals      []model.Signal
	Insufficient bool
}

// Err reports ErrInsufficientHistory when the series was too short to
// produce any signal. It is informational; the detection itself succeeded.
func (d *Detection) Err() error {
	if d.Insufficient {
		return ErrInsufficientHistory
	}
	return nil
}

// DetectSignals finds non-overlapping breakouts. A day is a candidate when its
// ratio equals the trailing p.Window maximum. Candidates are scanned with a
// single pointer: accepting one jumps p.Rearm days ahead, otherwise the
// pointer advances by one. Only positions at least p.Horizon days before the
// end are scanned, so every signal has a complete forward window.
func DetectSignals(series []model.RelativePoint, p model.Params) (*Detection, error) {
	if err := ValidateParams(p); err != nil {
		return nil, err
	}

	n := len(series)
	annotated := append([]model.RelativePoint(nil), series...)
	det := &Detection{Series: annotated, Signals: []model.Signal{}}

	touched, highs, valid, err := calculator.NewHighs(model.Ratios(series), p.Window)
	if err != nil {
		return nil, fmt.Errorf("rolling high: %w", err)
	}
	for i := range annotated {
		annotated[i].RollingHigh = highs[i]
		annotated[i].HasRollingHigh = valid[i]
		annotated[i].NewHigh = touched[i]
		annotated[i].Signal = false
	}

	if n < p.Window+p.Horizon {
		det.Insufficient = true
		return det, nil
	}

	for i := 0; i < n-p.Horizon; {
		if !touched[i] {
			i++
			continue
		}
		annotated[i].Signal = true
		det.Signals = append(det.Signals, model.Signal{
			Date:  annotated[i].Date,
			Index: i,
			Ratio: annotated[i].Ratio,
		})
		i += p.Rearm
	}
	return det, nil
}
