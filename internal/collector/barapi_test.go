package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StarTrade/internal/model"
)

func TestBarAPIFetcher_Daily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		assert.Equal(t, "MSFT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"timestamp":1700086400,"open":2,"high":3,"low":1,"close":2.5,"volume":10},
			{"timestamp":1700000000,"open":1,"high":2,"low":0.5,"close":1.5,"volume":5},
			{"timestamp":1700172800,"open":null,"high":3,"low":1,"close":2.5,"volume":10}
		]`))
	}))
	defer srv.Close()

	f := NewBarAPIFetcher(srv.URL, "secret", "")
	series, err := f.FetchSeries(context.Background(), "msft", Query{})
	require.NoError(t, err)
	assert.Equal(t, "MSFT", series.Symbol)
	assert.Equal(t, []float64{1.5, 2.5}, series.Closes())
}

func TestBarAPIFetcher_WeeklyFallsBackToDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/bars/weekly" {
			http.NotFound(w, r)
			return
		}
		// Mon 2024-01-01 .. Wed 2024-01-10
		_, _ = w.Write([]byte(`[
			{"timestamp":1704067200,"open":10,"high":12,"low":9,"close":11,"volume":1},
			{"timestamp":1704153600,"open":11,"high":15,"low":10,"close":14,"volume":2},
			{"timestamp":1704672000,"open":14,"high":16,"low":13,"close":15,"volume":3},
			{"timestamp":1704844800,"open":15,"high":17,"low":8,"close":9,"volume":4}
		]`))
	}))
	defer srv.Close()

	f := NewBarAPIFetcher(srv.URL, "", "")
	series, err := f.FetchSeries(context.Background(), "SPY", Query{Interval: "1wk"})
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())

	first := series.Points[0]
	assert.Equal(t, 10.0, first.Open)
	assert.Equal(t, 15.0, first.High)
	assert.Equal(t, 14.0, first.Close)
	assert.Equal(t, 3.0, first.Volume)

	second := series.Points[1]
	assert.Equal(t, 8.0, second.Low)
	assert.Equal(t, 9.0, second.Close)
}

func TestBarAPIFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewBarAPIFetcher(srv.URL, "", "").FetchSeries(context.Background(), "SPY", Query{})
	assert.ErrorIs(t, err, model.ErrNetworkFailure)
}

func TestAggregateDailyToWeekly_Empty(t *testing.T) {
	assert.Nil(t, aggregateDailyToWeekly(nil))
	one := []model.PricePoint{{Time: time.Unix(1704067200, 0), Close: 1}}
	assert.Len(t, aggregateDailyToWeekly(one), 1)
}
