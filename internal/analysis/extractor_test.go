package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BreakoutScope/internal/model"
)

func TestExtractHorizon_FlatWindowNormalizesTo100(t *testing.T) {
	series := seriesFromRatios(jumpRatios(300, 100, 150))
	sig := model.Signal{Date: series[100].Date, Index: 100, Ratio: 150}

	w, err := ExtractHorizon(series, sig, 132)
	require.NoError(t, err)
	require.Len(t, w.Points, 132)
	for i, p := range w.Points {
		assert.Equal(t, 100.0, p.Normalized, "offset %d", i)
		assert.Equal(t, i, p.Offset)
		assert.Equal(t, 150.0, p.Ratio)
	}
	assert.Equal(t, sig, w.Signal)
}

func TestExtractHorizon_StartsAtExactly100(t *testing.T) {
	pair := randomWalkPair(3, 400)
	series, err := BuildRelativeSeries(pair.InstrumentPrices, pair.BenchmarkPrices)
	require.NoError(t, err)

	for _, idx := range []int{0, 17, 200, 400 - 132} {
		w, err := ExtractHorizon(series, model.Signal{Date: series[idx].Date, Index: idx}, 132)
		require.NoError(t, err)
		assert.Equal(t, 100.0, w.Points[0].Normalized)
		assert.Equal(t, 0, w.Points[0].CalendarDays)
		assert.InDelta(t, series[idx+10].Ratio/series[idx].Ratio*100, w.Points[10].Normalized, 1e-9)
	}
}

func TestExtractHorizon_CalendarDays(t *testing.T) {
	series := seriesFromRatios(jumpRatios(20, 0, 1))
	// fixtureStart is a Wednesday: offsets 0..3 are Wed, Thu, Fri, Mon.
	w, err := ExtractHorizon(series, model.Signal{Date: series[0].Date, Index: 0}, 4)
	require.NoError(t, err)
	var days []int
	for _, p := range w.Points {
		days = append(days, p.CalendarDays)
	}
	assert.Equal(t, []int{0, 1, 2, 5}, days)
}

func TestExtractHorizon_InsufficientData(t *testing.T) {
	series := seriesFromRatios(jumpRatios(200, 50, 120))
	idx := 200 - 131
	_, err := ExtractHorizon(series, model.Signal{Date: series[idx].Date, Index: idx}, 132)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestExtractHorizon_UnknownSignal(t *testing.T) {
	series := seriesFromRatios(jumpRatios(200, 50, 120))
	_, err := ExtractHorizon(series, model.Signal{Date: series[3].Date, Index: 4}, 10)
	assert.Error(t, err)
	_, err = ExtractHorizon(series, model.Signal{Index: -1}, 10)
	assert.Error(t, err)
}
