package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StarTrade/internal/model"
)

// BarAPIFetcher implements Fetcher against a REST endpoint that returns a JSON bar list.
type BarAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewBarAPIFetcher creates a new fetcher with optional proxy support.
func NewBarAPIFetcher(baseURL, apiKey, proxyURL string) *BarAPIFetcher {
	return &BarAPIFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *BarAPIFetcher) Name() string { return "barapi" }

// apiBar is the expected JSON shape from the bar API. Gaps are null.
type apiBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

// FetchSeries fetches daily or weekly bars. Weekly requests fall back to aggregating
// daily bars when the API has no weekly endpoint.
func (f *BarAPIFetcher) FetchSeries(ctx context.Context, symbol string, q Query) (*model.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	q = q.WithDefaults()
	days := RangeDays(q.Range)

	var (
		series *model.PriceSeries
		err    error
	)
	if q.Interval == "1wk" {
		series, err = f.fetchBars(ctx, f.endpoint("weekly", symbol, days/7+1))
		if err != nil {
			daily, dailyErr := f.fetchBars(ctx, f.endpoint("daily", symbol, days))
			if dailyErr != nil {
				return nil, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr)
			}
			daily.Points = aggregateDailyToWeekly(daily.Points)
			series = daily
		}
	} else {
		series, err = f.fetchBars(ctx, f.endpoint("daily", symbol, days))
		if err != nil {
			return nil, err
		}
	}
	series.Symbol = symbol
	series.Interval = q.Interval
	series.FetchedAt = time.Now()
	return series, nil
}

func (f *BarAPIFetcher) endpoint(kind, symbol string, limit int) string {
	return fmt.Sprintf("%s/api/v1/bars/%s?symbol=%s&limit=%d", f.BaseURL, kind, url.QueryEscape(symbol), limit)
}

func (f *BarAPIFetcher) fetchBars(ctx context.Context, endpoint string) (*model.PriceSeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w: %w", model.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: %w: status %d, body: %s", model.ErrNetworkFailure, resp.StatusCode, string(body))
	}
	var bars []apiBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return nil, fmt.Errorf("decode bars: %w: %v", model.ErrDataUnavailable, err)
	}
	return Normalize(barsToChart(bars))
}

// barsToChart reshapes row-oriented bars into provider columns so both sources share Normalize.
func barsToChart(bars []apiBar) *ChartResponse {
	res := ChartResult{Timestamp: make([]int64, len(bars))}
	q := Quote{
		Open:   make([]*float64, len(bars)),
		High:   make([]*float64, len(bars)),
		Low:    make([]*float64, len(bars)),
		Close:  make([]*float64, len(bars)),
		Volume: make([]*float64, len(bars)),
	}
	for i, b := range bars {
		res.Timestamp[i] = b.Timestamp
		q.Open[i], q.High[i], q.Low[i], q.Close[i], q.Volume[i] = b.Open, b.High, b.Low, b.Close, b.Volume
	}
	res.Indicators.Quote = []Quote{q}
	var chart ChartResponse
	chart.Chart.Result = []ChartResult{res}
	return &chart
}

// aggregateDailyToWeekly converts daily bars into ISO-week bars.
func aggregateDailyToWeekly(daily []model.PricePoint) []model.PricePoint {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.PricePoint
	week := daily[0]
	wy, ww := week.Time.ISOWeek()

	for _, d := range daily[1:] {
		y, w := d.Time.ISOWeek()
		if y != wy || w != ww {
			weekly = append(weekly, week)
			week = d
			wy, ww = y, w
			continue
		}
		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
	}
	return append(weekly, week)
}
