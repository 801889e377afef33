package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BreakoutScope/internal/model"
)

func TestBuildRelativeSeries_ExactRatios(t *testing.T) {
	pair := randomWalkPair(7, 250)
	series, err := BuildRelativeSeries(pair.InstrumentPrices, pair.BenchmarkPrices)
	require.NoError(t, err)
	require.Len(t, series, 250)
	for i, p := range series {
		assert.Equal(t, pair.InstrumentPrices[i].Date, p.Date)
		assert.Equal(t, pair.InstrumentPrices[i].Price/pair.BenchmarkPrices[i].Price, p.Ratio)
	}
}

func TestBuildRelativeSeries_AlignmentErrors(t *testing.T) {
	dates := tradingDates(3)
	good := []model.PricePoint{{Date: dates[0], Price: 10}, {Date: dates[1], Price: 11}, {Date: dates[2], Price: 12}}

	tests := []struct {
		name      string
		benchmark []model.PricePoint
	}{
		{"length mismatch", good[:2]},
		{"date mismatch", []model.PricePoint{{Date: dates[0], Price: 1}, {Date: dates[2], Price: 1}, {Date: dates[2], Price: 1}}},
		{"zero benchmark", []model.PricePoint{{Date: dates[0], Price: 1}, {Date: dates[1], Price: 0}, {Date: dates[2], Price: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRelativeSeries(good, tt.benchmark)
			assert.ErrorIs(t, err, ErrInputAlignment)
		})
	}
}

func TestBuildRelativeSeries_RejectsUnorderedDates(t *testing.T) {
	dates := tradingDates(2)
	pts := []model.PricePoint{{Date: dates[1], Price: 1}, {Date: dates[0], Price: 1}}
	_, err := BuildRelativeSeries(pts, pts)
	assert.ErrorIs(t, err, ErrInputAlignment)
}

func TestBuildRelativeSeries_Empty(t *testing.T) {
	series, err := BuildRelativeSeries(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, series)
}
