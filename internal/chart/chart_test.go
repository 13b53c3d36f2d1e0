package chart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StarTrade/internal/calculator"
	"StarTrade/internal/model"
)

func testSeries(n int) *model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &model.PriceSeries{Symbol: "AAPL", Interval: "1d"}
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		s.Points = append(s.Points, model.PricePoint{
			Time: start.AddDate(0, 0, i), Open: c - 1, High: c + 2, Low: c - 2, Close: c, Volume: 1000,
		})
	}
	return s
}

func TestBuild(t *testing.T) {
	series := testSeries(40)
	inds, err := calculator.Build(calculator.DefaultSpecs)
	require.NoError(t, err)
	computed := calculator.ComputeAll(series, inds)

	c := Build(series, computed, nil)
	require.Len(t, c.Candles, 40)
	assert.Equal(t, series.Points[0].Time.UnixMilli(), c.Candles[0].X)
	assert.Equal(t, [4]float64{99, 102, 98, 100}, c.Candles[0].Y)
	assert.Equal(t, 1000.0, c.Volume[39].Y)
	assert.Len(t, c.Lines, len(computed))

	for _, l := range c.Lines {
		assert.Len(t, l.Data, 40, l.Name)
	}
}

func TestBuild_PanesAndTypes(t *testing.T) {
	series := testSeries(5)
	computed := []model.IndicatorSeries{
		{Name: "sma_20"}, {Name: "rsi_14"}, {Name: "macd_12_26_9"}, {Name: "macd_12_26_9_hist"}, {Name: "bb_20_2_upper"},
	}
	c := Build(series, computed, nil)
	require.Len(t, c.Lines, 5)
	assert.Equal(t, PanePrice, c.Lines[0].Pane)
	assert.Equal(t, PaneOscillator, c.Lines[1].Pane)
	assert.Equal(t, PaneMACD, c.Lines[2].Pane)
	assert.Equal(t, "bar", c.Lines[3].Type)
	assert.Equal(t, PanePrice, c.Lines[4].Pane)
}

func TestBuild_Include(t *testing.T) {
	series := testSeries(5)
	computed := []model.IndicatorSeries{{Name: "sma_20"}, {Name: "rsi_14"}, {Name: "bb_20_2_upper"}}
	c := Build(series, computed, []string{"SMA", " bb "})
	require.Len(t, c.Lines, 2)
	assert.Equal(t, "sma_20", c.Lines[0].Name)
	assert.Equal(t, "bb_20_2_upper", c.Lines[1].Name)
}

func TestBuild_UndefinedIsNull(t *testing.T) {
	series := testSeries(3)
	computed := []model.IndicatorSeries{{Name: "sma_2", Period: 2, Points: []model.IndicatorPoint{
		{Time: series.Points[0].Time, Value: model.Undefined},
		{Time: series.Points[1].Time, Value: model.Defined(100.5)},
	}}}
	c := Build(series, computed, nil)

	data, err := json.Marshal(c.Lines[0].Data)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"x":1704067200000,"y":null},{"x":1704153600000,"y":100.5}]`, string(data))
}
