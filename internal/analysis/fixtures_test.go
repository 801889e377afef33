package analysis

import (
	"math/rand"
	"time"

	"BreakoutScope/internal/model"
)

var fixtureStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// tradingDates returns n weekday dates starting at fixtureStart.
func tradingDates(n int) []time.Time {
	dates := make([]time.Time, 0, n)
	d := fixtureStart
	for len(dates) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			dates = append(dates, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return dates
}

func seriesFromRatios(ratios []float64) []model.RelativePoint {
	dates := tradingDates(len(ratios))
	out := make([]model.RelativePoint, len(ratios))
	for i, r := range ratios {
		out[i] = model.RelativePoint{Date: dates[i], Ratio: r}
	}
	return out
}

// pairFromRatios builds a price pair whose ratio is exactly the given values
// by holding the benchmark at 1.
func pairFromRatios(ratios []float64) *model.PricePair {
	dates := tradingDates(len(ratios))
	pair := &model.PricePair{Instrument: "AZN.L", Benchmark: "^FTSE"}
	for i, r := range ratios {
		pair.InstrumentPrices = append(pair.InstrumentPrices, model.PricePoint{Date: dates[i], Price: r})
		pair.BenchmarkPrices = append(pair.BenchmarkPrices, model.PricePoint{Date: dates[i], Price: 1})
	}
	return pair
}

func randomWalkPair(seed int64, n int) *model.PricePair {
	rng := rand.New(rand.NewSource(seed))
	dates := tradingDates(n)
	pair := &model.PricePair{Instrument: "AZN.L", Benchmark: "^FTSE"}
	inst, bench := 100.0, 7000.0
	for i := 0; i < n; i++ {
		inst *= 1 + rng.NormFloat64()*0.015
		bench *= 1 + rng.NormFloat64()*0.01
		pair.InstrumentPrices = append(pair.InstrumentPrices, model.PricePoint{Date: dates[i], Price: inst})
		pair.BenchmarkPrices = append(pair.BenchmarkPrices, model.PricePoint{Date: dates[i], Price: bench})
	}
	return pair
}

// jumpRatios is declining for the first `before` days, then jumps to `level`
// and stays flat.
func jumpRatios(n, before int, level float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < before {
			out[i] = 100 - 0.01*float64(i)
		} else {
			out[i] = level
		}
	}
	return out
}
