package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"BreakoutScope/internal/model"
)

// MockFetcher returns fixed series per symbol for development and testing.
type MockFetcher struct {
	Data  map[string][]model.PricePoint
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, symbol string) ([]model.PricePoint, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	pts, ok := m.Data[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: unknown symbol %s", symbol)
	}
	return append([]model.PricePoint(nil), pts...), nil
}

// AlignReport counts what Align removed.
type AlignReport struct {
	Kept           int
	UnmatchedDates int // dates present in only one series
	InvalidPrices  int // missing, non-finite or non-positive closes
	NonTradingDays int // dropped by the exchange calendar
	DroppedLastBar bool
}

// Collector fetches the instrument and benchmark and cleans them into an
// aligned pair ready for analysis.
type Collector struct {
	Fetcher     Fetcher
	Instrument  string
	Benchmark   string
	Calendar    *TradingCalendar // optional
	DropLastBar bool

	log zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, instrument, benchmark string, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		Instrument: instrument,
		Benchmark:  benchmark,
		log:        log,
	}
}

// Collect fetches both series and aligns them onto their common trading days.
func (c *Collector) Collect(ctx context.Context) (*model.PricePair, error) {
	bench, err := c.Fetcher.FetchDailyCloses(ctx, c.Benchmark)
	if err != nil {
		return nil, fmt.Errorf("fetch benchmark %s: %w", c.Benchmark, err)
	}
	inst, err := c.Fetcher.FetchDailyCloses(ctx, c.Instrument)
	if err != nil {
		return nil, fmt.Errorf("fetch instrument %s: %w", c.Instrument, err)
	}

	alignedInst, alignedBench, report := Align(inst, bench, c.Calendar, c.DropLastBar)
	c.log.Info().
		Str("source", c.Fetcher.Name()).
		Str("instrument", c.Instrument).
		Str("benchmark", c.Benchmark).
		Int("kept", report.Kept).
		Int("unmatched", report.UnmatchedDates).
		Int("invalid", report.InvalidPrices).
		Int("non_trading", report.NonTradingDays).
		Bool("dropped_last", report.DroppedLastBar).
		Msg("price data collected")

	if report.Kept == 0 {
		return nil, fmt.Errorf("no overlapping data for %s and %s", c.Instrument, c.Benchmark)
	}
	return &model.PricePair{
		Instrument:       c.Instrument,
		Benchmark:        c.Benchmark,
		InstrumentPrices: alignedInst,
		BenchmarkPrices:  alignedBench,
		FetchedAt:        time.Now(),
	}, nil
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

// index keys valid closes by date; a later duplicate overrides an earlier one.
func index(points []model.PricePoint) (map[time.Time]float64, int) {
	m := make(map[time.Time]float64, len(points))
	invalid := 0
	for _, p := range points {
		if !validPrice(p.Price) {
			invalid++
			continue
		}
		m[model.DateKey(p.Date)] = p.Price
	}
	return m, invalid
}

// Align inner-joins two price histories on calendar date, drops rows where
// either close is missing or unusable, optionally drops dates the exchange
// calendar marks as closed, and optionally drops the final row as a
// still-forming session. The result is ascending with identical dates.
func Align(instrument, benchmark []model.PricePoint, cal *TradingCalendar, dropLast bool) ([]model.PricePoint, []model.PricePoint, AlignReport) {
	var report AlignReport
	im, badI := index(instrument)
	bm, badB := index(benchmark)
	report.InvalidPrices = badI + badB

	dates := make([]time.Time, 0, len(im))
	for d := range im {
		if _, ok := bm[d]; !ok {
			report.UnmatchedDates++
			continue
		}
		if cal != nil && !cal.IsTradingDay(d) {
			report.NonTradingDays++
			continue
		}
		dates = append(dates, d)
	}
	for d := range bm {
		if _, ok := im[d]; !ok {
			report.UnmatchedDates++
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if dropLast && len(dates) > 0 {
		dates = dates[:len(dates)-1]
		report.DroppedLastBar = true
	}

	inst := make([]model.PricePoint, len(dates))
	bench := make([]model.PricePoint, len(dates))
	for i, d := range dates {
		inst[i] = model.PricePoint{Date: d, Price: im[d]}
		bench[i] = model.PricePoint{Date: d, Price: bm[d]}
	}
	report.Kept = len(dates)
	return inst, bench, report
}
