package model

import "time"

// PricePoint represents a single OHLCV bar.
type PricePoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an ordered, de-duplicated run of bars for one symbol.
// It is produced by the normalizer and must not be mutated afterwards.
type PriceSeries struct {
	Symbol    string       `json:"symbol"`
	Interval  string       `json:"interval"`
	Points    []PricePoint `json:"points"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Closes extracts the close prices in order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Times extracts the bar timestamps in order.
func (s *PriceSeries) Times() []time.Time {
	times := make([]time.Time, s.Len())
	for i, p := range s.Points {
		times[i] = p.Time
	}
	return times
}

// Last returns the most recent bar.
func (s *PriceSeries) Last() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Previous returns the bar before the most recent one.
func (s *PriceSeries) Previous() (PricePoint, bool) {
	if s.Len() < 2 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-2], true
}
