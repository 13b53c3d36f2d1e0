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

// DefaultYahooBaseURL is the public chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	Now       func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		Now: time.Now,
	}
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// FetchSeries downloads the chart for symbol over q.Range at q.Interval and normalizes it.
func (f *YahooFetcher) FetchSeries(ctx context.Context, symbol string, q Query) (*model.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	q = q.WithDefaults()
	period2 := f.Now().Unix()
	period1 := period2 - int64(RangeDays(q.Range))*24*60*60

	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), period1, period2, url.QueryEscape(q.Interval))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w: %w", symbol, model.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w: %w", model.ErrNetworkFailure, err)
	}

	var chart ChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("yahoo %s: %w: status %d", symbol, model.ErrNetworkFailure, resp.StatusCode)
		}
		return nil, fmt.Errorf("yahoo decode: %w: %v", model.ErrDataUnavailable, err)
	}
	// Unknown tickers come back as 404 with a chart.error document; Normalize reports those.
	if resp.StatusCode != http.StatusOK && chart.Chart.Error == nil {
		return nil, fmt.Errorf("yahoo %s: %w: status %d", symbol, model.ErrNetworkFailure, resp.StatusCode)
	}

	series, err := Normalize(&chart)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	series.Symbol = symbol
	series.Interval = q.Interval
	series.FetchedAt = f.Now()
	return series, nil
}
