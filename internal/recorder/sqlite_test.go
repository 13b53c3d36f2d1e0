package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StarTrade/internal/calculator"
	"StarTrade/internal/model"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func sampleAnalysis(symbol string, price float64) *model.Analysis {
	return &model.Analysis{
		Symbol: symbol,
		Snapshot: model.IndicatorSnapshot{
			Symbol: symbol,
			Price:  price,
			Values: map[string]float64{
				calculator.KeySMA20: price - 1,
				calculator.KeyRSI:   55,
			},
			High52w: price + 10,
			Low52w:  price - 10,
		},
		Summary: symbol + " summary",
		Signal: &model.TechnicalSignal{
			Score:          65,
			Recommendation: model.Recommendation{Action: model.ActionBuy, Confidence: "MEDIUM", Score: 65},
		},
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := newTestRecorder(t)
	base := time.Unix(1700000000, 0)
	calls := 0
	r.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Hour)
	}

	require.NoError(t, r.RecordAnalysis(sampleAnalysis("aapl", 100)))
	require.NoError(t, r.RecordAnalysis(sampleAnalysis("AAPL", 110)))
	require.NoError(t, r.RecordAnalysis(sampleAnalysis("MSFT", 300)))

	hist, err := r.History("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)

	latest := hist[0]
	assert.Equal(t, "AAPL", latest.Symbol)
	assert.Equal(t, 110.0, latest.Price)
	require.NotNil(t, latest.SMA20)
	assert.Equal(t, 109.0, *latest.SMA20)
	require.NotNil(t, latest.RSI)
	assert.Equal(t, 55.0, *latest.RSI)
	assert.Nil(t, latest.SMA50)
	assert.Nil(t, latest.MACD)
	assert.Equal(t, 65.0, latest.Score)
	assert.Equal(t, "BUY", latest.Action)
	assert.Equal(t, "AAPL summary", latest.Summary)
	assert.True(t, latest.Timestamp.After(hist[1].Timestamp))
}

func TestSQLiteRecorder_HistoryLimit(t *testing.T) {
	r := newTestRecorder(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.RecordAnalysis(sampleAnalysis("SPY", float64(400+i))))
	}
	hist, err := r.History("spy", 3)
	require.NoError(t, err)
	assert.Len(t, hist, 3)
	assert.Equal(t, 404.0, hist[0].Price)

	none, err := r.History("QQQ", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRecorder_NilSignal(t *testing.T) {
	r := newTestRecorder(t)
	a := sampleAnalysis("X", 1)
	a.Signal = nil
	require.NoError(t, r.RecordAnalysis(a))

	hist, err := r.History("X", 1)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "", hist[0].Action)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordAnalysis(sampleAnalysis("X", 1)))
	hist, err := r.History("X", 5)
	assert.NoError(t, err)
	assert.Empty(t, hist)
	assert.NoError(t, r.Close())
}
