package collector

import (
	"context"

	"StarTrade/internal/model"
)

// Fetcher defines the interface for fetching price history.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbol string, q Query) (*model.PriceSeries, error)
	Name() string
}

// Query selects the history window and bar size.
type Query struct {
	Range    string `yaml:"range" json:"range"`
	Interval string `yaml:"interval" json:"interval"`
}

// DefaultQuery is used for any empty Query field.
var DefaultQuery = Query{Range: "6mo", Interval: "1d"}

// WithDefaults fills empty fields from DefaultQuery.
func (q Query) WithDefaults() Query {
	if q.Range == "" {
		q.Range = DefaultQuery.Range
	}
	if q.Interval == "" {
		q.Interval = DefaultQuery.Interval
	}
	return q
}

var rangeDays = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 30,
	"3mo": 90,
	"6mo": 180,
	"1y":  365,
	"2y":  730,
	"5y":  1825,
	"max": 3650,
}

// RangeDays converts a range label to calendar days. Unknown labels mean 180.
func RangeDays(r string) int {
	if d, ok := rangeDays[r]; ok {
		return d
	}
	return 180
}
