package analysis

import (
	"fmt"

	"BreakoutScope/internal/calculator"
	"BreakoutScope/internal/model"
)

// BuildRelativeSeries divides instrument by benchmark price date by date.
// Both inputs must already share an identical, strictly increasing date
// index; nothing is filled, interpolated or dropped here.
func BuildRelativeSeries(instrument, benchmark []model.PricePoint) ([]model.RelativePoint, error) {
	if len(instrument) != len(benchmark) {
		return nil, fmt.Errorf("%w: instrument has %d points, benchmark has %d",
			ErrInputAlignment, len(instrument), len(benchmark))
	}

	series := make([]model.RelativePoint, len(instrument))
	for i := range instrument {
		ip, bp := instrument[i], benchmark[i]
		if !ip.Date.Equal(bp.Date) {
			return nil, fmt.Errorf("%w: date mismatch at position %d (%s vs %s)",
				ErrInputAlignment, i, ip.Date.Format("2006-01-02"), bp.Date.Format("2006-01-02"))
		}
		if i > 0 && !ip.Date.After(instrument[i-1].Date) {
			return nil, fmt.Errorf("%w: dates not strictly increasing at %s",
				ErrInputAlignment, ip.Date.Format("2006-01-02"))
		}
		ratio, err := calculator.Ratio(ip.Price, bp.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: undefined ratio on %s: %v",
				ErrInputAlignment, ip.Date.Format("2006-01-02"), err)
		}
		if ratio <= 0 {
			return nil, fmt.Errorf("%w: non-positive ratio %v on %s",
				ErrInputAlignment, ratio, ip.Date.Format("2006-01-02"))
		}
		series[i] = model.RelativePoint{Date: ip.Date, Ratio: ratio}
	}
	return series, nil
}
