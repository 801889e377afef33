package analysis

import "errors"

var (
	// ErrInputAlignment means the two price series do not share a common,
	// gap-free date index. Fatal to the recompute cycle.
	ErrInputAlignment = errors.New("input series are not aligned")

	// ErrInsufficientHistory means fewer than W+H days are available. The
	// detector reports it through Detection.Insufficient and returns no
	// signals instead of failing.
	ErrInsufficientHistory = errors.New("insufficient history for detection")

	// ErrInsufficientData means a horizon window would run past the end of
	// the series. The detector's tail cutoff makes this unreachable, so
	// seeing it indicates a defect.
	ErrInsufficientData = errors.New("insufficient data for horizon window")

	// ErrEmptyStatisticsInput means a checkpoint had no contributing windows.
	// It only invalidates that checkpoint.
	ErrEmptyStatisticsInput = errors.New("no values for checkpoint statistics")

	// ErrInvalidParams rejects non-positive lengths or checkpoints that fall
	// outside the horizon.
	ErrInvalidParams = errors.New("invalid analysis parameters")
)
