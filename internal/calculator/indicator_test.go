package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StarTrade/internal/model"
)

func seriesFromCloses(symbol string, closes []float64) *model.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return &model.PriceSeries{Symbol: symbol, Interval: "1d", Points: points}
}

func TestBuild_DefaultSpecs(t *testing.T) {
	inds, err := Build(DefaultSpecs)
	require.NoError(t, err)

	names := make([]string, len(inds))
	for i, ind := range inds {
		names[i] = ind.Name()
	}
	assert.Equal(t, []string{
		"sma_5", "sma_20", "sma_50", "ema_12", "ema_26", "rsi_14", "macd_12_26_9", "bb_20_2",
	}, names)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build([]Spec{{Kind: "vwap"}})
	assert.Error(t, err)

	_, err = Build([]Spec{{Kind: KindSMA, Period: 10}, {Kind: KindSMA, Period: 10}})
	assert.Error(t, err)

	_, err = Build([]Spec{{Kind: KindSMA, Period: -3}})
	assert.Error(t, err)

	_, err = Build([]Spec{{Kind: KindMACD, Fast: 26, Slow: 12, Signal: 9}})
	assert.Error(t, err)

	_, err = Build([]Spec{{Kind: KindBollinger, Period: 20, Multiplier: -1}})
	assert.Error(t, err)
}

func TestBuild_ZeroFieldsTakeDefaults(t *testing.T) {
	inds, err := Build([]Spec{{Kind: KindRSI}, {Kind: KindMACD}, {Kind: KindBollinger}})
	require.NoError(t, err)
	assert.Equal(t, "rsi_14", inds[0].Name())
	assert.Equal(t, 14, inds[0].Period())
	assert.Equal(t, "macd_12_26_9", inds[1].Name())
	assert.Equal(t, "bb_20_2", inds[2].Name())
}

func TestComputeAll_AlignedWithSeries(t *testing.T) {
	series := seriesFromCloses("AAPL", wave(60))
	inds, err := Build(DefaultSpecs)
	require.NoError(t, err)

	computed := ComputeAll(series, inds)
	// 6 single lines + 3 macd + 3 bollinger
	require.Len(t, computed, 12)
	for _, s := range computed {
		require.Lenf(t, s.Points, series.Len(), "series %s", s.Name)
		for i, p := range s.Points {
			assert.Equal(t, series.Points[i].Time, p.Time)
		}
	}
}

func TestComputeAll_ShortHistoryDoesNotBlockOthers(t *testing.T) {
	series := seriesFromCloses("AAPL", ramp(1, 25))
	inds, err := Build(DefaultSpecs)
	require.NoError(t, err)

	snap := Snapshot(series, ComputeAll(series, inds))
	_, ok := snap.Get("sma_50")
	assert.False(t, ok)
	_, ok = snap.Get("macd_12_26_9")
	assert.False(t, ok)

	v, ok := snap.Get("sma_20")
	require.True(t, ok)
	assert.Equal(t, 15.5, v)
	v, ok = snap.Get("rsi_14")
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestSnapshot_PriceAndRange(t *testing.T) {
	series := seriesFromCloses("MSFT", []float64{10, 12, 11, 15})
	snap := Snapshot(series, nil)

	assert.Equal(t, "MSFT", snap.Symbol)
	assert.Equal(t, 15.0, snap.Price)
	assert.Equal(t, 11.0, snap.PrevClose)
	assert.True(t, snap.HasPrev)
	assert.Equal(t, 16.0, snap.High52w)
	assert.Equal(t, 9.0, snap.Low52w)
	assert.InDelta(t, 6.0/7.0, snap.Position52w, 1e-12)

	change, pct, ok := snap.Change()
	require.True(t, ok)
	assert.Equal(t, 4.0, change)
	assert.InDelta(t, 36.3636, pct, 1e-3)
}

func TestCalculatePosition(t *testing.T) {
	pos, err := CalculatePosition(5, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	_, err = CalculatePosition(5, 1, 10)
	assert.Error(t, err)

	pos, _ = CalculatePosition(20, 10, 0)
	assert.Equal(t, 1.0, pos)
}
