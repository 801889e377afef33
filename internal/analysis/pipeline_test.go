package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 3, 4, 0, 0, 0, time.UTC)

func TestRecompute_SingleBreakoutScenario(t *testing.T) {
	rs, err := Recompute(pairFromRatios(jumpRatios(300, 100, 150)), DefaultParams(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 1, rs.SignalCount())
	require.Len(t, rs.Windows, 1)
	for _, p := range rs.Windows[0].Points {
		assert.Equal(t, 100.0, p.Normalized)
	}
	require.Len(t, rs.Statistics, 3)
	for _, hs := range rs.Statistics {
		require.NotNil(t, hs.Summary)
		assert.Equal(t, []float64{100}, hs.Values)
		assert.Equal(t, "0%", hs.Summary.HitRatioText)
	}
	assert.Equal(t, "AZN.L", rs.Instrument)
	assert.Equal(t, rs.Series[0].Date, rs.DataFrom)
	assert.Equal(t, rs.Series[299].Date, rs.DataTo)
	assert.Equal(t, fixedNow, rs.ComputedAt)
}

func TestRecompute_Idempotent(t *testing.T) {
	pair := randomWalkPair(11, 2000)
	first, err := Recompute(pair, DefaultParams(), fixedNow)
	require.NoError(t, err)
	second, err := Recompute(pair, DefaultParams(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.Signals)
}

func TestRecompute_HitRatioBounds(t *testing.T) {
	for seed := int64(100); seed < 110; seed++ {
		rs, err := Recompute(randomWalkPair(seed, 1800), DefaultParams(), fixedNow)
		require.NoError(t, err)
		for _, hs := range rs.Statistics {
			if hs.Summary == nil {
				continue
			}
			assert.GreaterOrEqual(t, hs.Summary.HitRatio, 0.0)
			assert.LessOrEqual(t, hs.Summary.HitRatio, 100.0)
			assert.Equal(t, rs.SignalCount(), hs.Summary.Count)
		}
		for _, w := range rs.Windows {
			assert.Equal(t, 100.0, w.Points[0].Normalized)
			assert.Len(t, w.Points, rs.Params.Horizon)
		}
	}
}

func TestRecompute_ShortHistoryIsNotAnError(t *testing.T) {
	rs, err := Recompute(pairFromRatios(jumpRatios(150, 20, 130)), DefaultParams(), fixedNow)
	require.NoError(t, err)
	assert.True(t, rs.Insufficient)
	assert.Zero(t, rs.SignalCount())
	for _, hs := range rs.Statistics {
		assert.Nil(t, hs.Summary)
		assert.NotEmpty(t, hs.Error)
	}
}

func TestRecompute_MisalignedInputFails(t *testing.T) {
	pair := randomWalkPair(5, 300)
	pair.BenchmarkPrices = pair.BenchmarkPrices[1:]
	_, err := Recompute(pair, DefaultParams(), fixedNow)
	assert.ErrorIs(t, err, ErrInputAlignment)

	_, err = Recompute(nil, DefaultParams(), fixedNow)
	assert.ErrorIs(t, err, ErrInputAlignment)
}
