package model

import "time"

// PricePoint is a single daily close for one instrument.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PricePair holds the instrument and benchmark closes on a shared calendar.
type PricePair struct {
	Instrument       string
	Benchmark        string
	InstrumentPrices []PricePoint
	BenchmarkPrices  []PricePoint
	FetchedAt        time.Time
}

// Len returns the number of aligned trading days.
func (p *PricePair) Len() int {
	return len(p.InstrumentPrices)
}

// DateKey truncates t to its calendar date in t's own location, expressed as UTC midnight.
func DateKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
