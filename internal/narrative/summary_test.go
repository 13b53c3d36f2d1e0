package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StarTrade/internal/calculator"
	"StarTrade/internal/model"
)

func fullSnapshot() *model.IndicatorSnapshot {
	return &model.IndicatorSnapshot{
		Symbol:    "AAPL",
		Price:     180,
		PrevClose: 175,
		HasPrev:   true,
		Values: map[string]float64{
			calculator.KeySMA20:   170,
			calculator.KeySMA50:   160,
			calculator.KeyRSI:     75.5,
			calculator.KeyMACD:    1.25,
			calculator.KeyBBUpper: 185,
			calculator.KeyBBLower: 155,
		},
	}
}

func TestSummarize_Bullish(t *testing.T) {
	got := Summarize(fullSnapshot())
	want := "AAPL is currently trading at $180.00, up $5.00 (+2.86%) today. " +
		"The stock is trading above both its 20-day SMA ($170.00) and 50-day SMA ($160.00), indicating a bullish trend. " +
		"With an RSI of 75.50, the stock appears overbought and may face selling pressure. " +
		"The stock is trading within the Bollinger Bands ($155.00 - $185.00). " +
		"The MACD is positive at 1.25, showing bullish momentum."
	assert.Equal(t, want, got)
}

func TestSummarize_Bearish(t *testing.T) {
	snap := &model.IndicatorSnapshot{
		Symbol:    "TSLA",
		Price:     90,
		PrevClose: 100,
		HasPrev:   true,
		Values: map[string]float64{
			calculator.KeySMA20:   110,
			calculator.KeySMA50:   120,
			calculator.KeyRSI:     22,
			calculator.KeyMACD:    -3.5,
			calculator.KeyBBUpper: 130,
			calculator.KeyBBLower: 95,
		},
	}
	got := Summarize(snap)
	assert.Contains(t, got, "down $10.00 (-10.00%) today.")
	assert.Contains(t, got, "suggesting a bearish trend.")
	assert.Contains(t, got, "appears oversold")
	assert.Contains(t, got, "below the lower Bollinger Band ($95.00)")
	assert.Contains(t, got, "The MACD is negative at -3.50, showing bearish momentum.")
}

func TestSummarize_Deterministic(t *testing.T) {
	assert.Equal(t, Summarize(fullSnapshot()), Summarize(fullSnapshot()))
}

func TestSummarize_WarmUp(t *testing.T) {
	snap := &model.IndicatorSnapshot{Symbol: "NEW", Price: 12.5, Values: map[string]float64{}}
	got := Summarize(snap)
	assert.Equal(t, "NEW is currently trading at $12.50. "+
		"There is not enough history yet to compare the price with its 20-day and 50-day SMAs. "+
		"The RSI is not available yet. "+
		"The Bollinger Bands are not available yet. "+
		"The MACD is not available yet.", got)
}

func TestClassifiers(t *testing.T) {
	assert.Equal(t, Mixed, ClassifyTrend(100, 90, 110))
	assert.Equal(t, Mixed, ClassifyTrend(100, 100, 90))
	assert.Equal(t, Neutral, ClassifyMomentum(70))
	assert.Equal(t, Neutral, ClassifyMomentum(30))
	assert.Equal(t, Overbought, ClassifyMomentum(70.01))
	assert.Equal(t, AboveUpper, ClassifyBand(101, 100, 90))
	assert.Equal(t, Within, ClassifyBand(100, 100, 90))
	assert.Equal(t, Flat, ClassifyMACD(0))

	o := Classify(fullSnapshot())
	assert.Equal(t, Outlook{Trend: Bullish, Momentum: Overbought, Band: Within, MACD: Bullish}, o)
}
