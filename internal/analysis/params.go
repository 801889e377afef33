package analysis

import (
	"fmt"

	"BreakoutScope/internal/model"
)

// Trading-day conventions.
const (
	DefaultMonthDays     = 22
	DefaultWindowMonths  = 3
	DefaultRearmMonths   = 4
	DefaultHorizonMonths = 6
)

// DefaultCheckpoints are the sampling horizons in months.
var DefaultCheckpoints = []int{1, 3, 6}

// DefaultParams returns the standard 3-month window, 4-month re-arm spacing
// and 6-month horizon.
func DefaultParams() model.Params {
	return ParamsFromMonths(DefaultMonthDays, DefaultWindowMonths, DefaultRearmMonths, DefaultHorizonMonths, DefaultCheckpoints)
}

// ParamsFromMonths converts month-denominated settings into trading days.
func ParamsFromMonths(monthDays, windowMonths, rearmMonths, horizonMonths int, checkpoints []int) model.Params {
	return model.Params{
		MonthDays:   monthDays,
		Window:      windowMonths * monthDays,
		Rearm:       rearmMonths * monthDays,
		Horizon:     horizonMonths * monthDays,
		Checkpoints: append([]int(nil), checkpoints...),
	}
}

// ValidateParams checks that every length is positive and every checkpoint
// lands inside the horizon window.
func ValidateParams(p model.Params) error {
	if p.MonthDays <= 0 {
		return fmt.Errorf("%w: month length must be positive, got %d", ErrInvalidParams, p.MonthDays)
	}
	if p.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %d", ErrInvalidParams, p.Window)
	}
	if p.Rearm <= 0 {
		return fmt.Errorf("%w: re-arm spacing must be positive, got %d", ErrInvalidParams, p.Rearm)
	}
	if p.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidParams, p.Horizon)
	}
	if len(p.Checkpoints) == 0 {
		return fmt.Errorf("%w: at least one checkpoint is required", ErrInvalidParams)
	}
	seen := make(map[int]bool, len(p.Checkpoints))
	for _, m := range p.Checkpoints {
		if m <= 0 {
			return fmt.Errorf("%w: checkpoint %d must be positive", ErrInvalidParams, m)
		}
		if m*p.MonthDays > p.Horizon {
			return fmt.Errorf("%w: checkpoint %d months exceeds horizon of %d days", ErrInvalidParams, m, p.Horizon)
		}
		if seen[m] {
			return fmt.Errorf("%w: duplicate checkpoint %d", ErrInvalidParams, m)
		}
		seen[m] = true
	}
	return nil
}
