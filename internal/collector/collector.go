package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"StarTrade/internal/calculator"
	"StarTrade/internal/metrics"
	"StarTrade/internal/model"
	"StarTrade/internal/narrative"
	"StarTrade/internal/strategy"
	"StarTrade/pkg/logger"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Series *model.PriceSeries
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, symbol string, q Query) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	q = q.WithDefaults()
	// Generated bars take the same normalization path as provider data.
	series, err := Normalize(ToChartResponse(&model.PriceSeries{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Interval: q.Interval,
		Points:   generateMockBars(m.Price, RangeDays(q.Range)),
	}))
	if err != nil {
		return nil, fmt.Errorf("mock %s: %w", symbol, err)
	}
	series.FetchedAt = time.Now()
	return series, nil
}

func generateMockBars(basePrice float64, count int) []model.PricePoint {
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -count)
	bars := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PricePoint{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher    Fetcher
	Indicators []calculator.Indicator
	Query      Query
	log        *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, indicators []calculator.Indicator, q Query) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		Indicators: indicators,
		Query:      q.WithDefaults(),
		log:        logger.Named("collector"),
	}
}

// Fetch downloads and normalizes the price series for symbol. Empty q fields
// fall back to the collector's query.
func (c *Collector) Fetch(ctx context.Context, symbol string, q Query) (*model.PriceSeries, error) {
	if q.Range == "" {
		q.Range = c.Query.Range
	}
	if q.Interval == "" {
		q.Interval = c.Query.Interval
	}
	series, err := c.Fetcher.FetchSeries(ctx, symbol, q)
	metrics.ProviderFetches.WithLabelValues(c.Fetcher.Name(), outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	return series, nil
}

// Analyze fetches symbol with the default query and derives indicators, summary and score.
func (c *Collector) Analyze(ctx context.Context, symbol string) (*model.Analysis, error) {
	start := time.Now()
	defer func() { metrics.AnalysisLatency.Observe(time.Since(start).Seconds()) }()

	series, err := c.Fetch(ctx, symbol, Query{})
	if err != nil {
		c.log.Warn("analysis fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, err
	}
	a := c.AnalyzeSeries(series)
	c.log.Debug("analysis complete",
		zap.String("symbol", symbol),
		zap.Int("bars", series.Len()),
		zap.Float64("score", a.Signal.Score))
	return a, nil
}

// AnalyzeSeries runs every configured indicator over an already-normalized series.
func (c *Collector) AnalyzeSeries(series *model.PriceSeries) *model.Analysis {
	computed := calculator.ComputeAll(series, c.Indicators)
	snap := calculator.Snapshot(series, computed)
	return &model.Analysis{
		Symbol:     series.Symbol,
		Series:     series,
		Indicators: computed,
		Snapshot:   snap,
		Summary:    narrative.Summarize(&snap),
		Signal:     strategy.Evaluate(&snap),
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, model.ErrDataUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, model.ErrNetworkFailure):
		return metrics.OutcomeNetwork
	default:
		return metrics.OutcomeError
	}
}
