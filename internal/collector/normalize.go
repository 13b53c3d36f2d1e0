package collector

import (
	"fmt"
	"math"
	"sort"
	"time"

	"StarTrade/internal/model"
)

// ChartResponse is the Yahoo Finance v8 chart document.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

// ChartError is the provider's embedded error object.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartResult carries a timestamp array and parallel quote arrays.
type ChartResult struct {
	Meta struct {
		Symbol          string `json:"symbol"`
		DataGranularity string `json:"dataGranularity"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []Quote `json:"quote"`
	} `json:"indicators"`
}

// Quote holds parallel OHLCV columns; nil entries are provider gaps.
type Quote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// epoch values at or above this are already milliseconds
const millisThreshold = 1e12

// Normalize converts a chart document into a PriceSeries.
//
// Only indices where open, high, low and close are all present and finite survive;
// nothing is interpolated. Timestamps may be epoch seconds or milliseconds. The result
// is sorted and holds one bar per timestamp (the later duplicate wins).
func Normalize(resp *ChartResponse) (*model.PriceSeries, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", model.ErrDataUnavailable)
	}
	if e := resp.Chart.Error; e != nil {
		desc := e.Description
		if desc == "" {
			desc = e.Code
		}
		return nil, fmt.Errorf("%w: provider error: %s", model.ErrDataUnavailable, desc)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: no result", model.ErrDataUnavailable)
	}
	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no quote data", model.ErrDataUnavailable)
	}
	quote := result.Indicators.Quote[0]

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, ok1 := finiteAt(quote.Open, i)
		h, ok2 := finiteAt(quote.High, i)
		l, ok3 := finiteAt(quote.Low, i)
		c, ok4 := finiteAt(quote.Close, i)
		if !(ok1 && ok2 && ok3 && ok4) {
			continue
		}
		vol, ok := finiteAt(quote.Volume, i)
		if !ok || vol < 0 {
			vol = 0
		}
		points = append(points, model.PricePoint{
			Time:   epochToTime(ts),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol,
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no valid bars", model.ErrDataUnavailable)
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	deduped := points[:0]
	for _, p := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(p.Time) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	return &model.PriceSeries{
		Symbol:   result.Meta.Symbol,
		Interval: result.Meta.DataGranularity,
		Points:   deduped,
	}, nil
}

// ToChartResponse lays a PriceSeries back out as provider columns. Normalize reads the
// result back to an equal series.
func ToChartResponse(series *model.PriceSeries) *ChartResponse {
	n := series.Len()
	res := ChartResult{Timestamp: make([]int64, n)}
	res.Meta.Symbol = series.Symbol
	res.Meta.DataGranularity = series.Interval
	q := Quote{
		Open:   make([]*float64, n),
		High:   make([]*float64, n),
		Low:    make([]*float64, n),
		Close:  make([]*float64, n),
		Volume: make([]*float64, n),
	}
	for i, p := range series.Points {
		p := p
		res.Timestamp[i] = timeToEpoch(p.Time)
		q.Open[i] = &p.Open
		q.High[i] = &p.High
		q.Low[i] = &p.Low
		q.Close[i] = &p.Close
		q.Volume[i] = &p.Volume
	}
	res.Indicators.Quote = []Quote{q}

	var resp ChartResponse
	resp.Chart.Result = []ChartResult{res}
	return &resp
}

func finiteAt(col []*float64, i int) (float64, bool) {
	if i >= len(col) || col[i] == nil {
		return 0, false
	}
	v := *col[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// timeToEpoch is the inverse of epochToTime. Sub-second times only come from
// millisecond payloads, which always sit above millisThreshold.
func timeToEpoch(t time.Time) int64 {
	if t.Nanosecond() == 0 {
		return t.Unix()
	}
	return t.UnixMilli()
}

func epochToTime(ts int64) time.Time {
	if ts >= millisThreshold {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}
