package model

import (
	"encoding/json"
	"time"
)

// Value is one indicator reading. Valid is false inside the warm-up window.
type Value struct {
	Float float64
	Valid bool
}

// Defined wraps f as a valid reading.
func Defined(f float64) Value { return Value{Float: f, Valid: true} }

// Undefined is the zero reading used during warm-up.
var Undefined = Value{}

// MarshalJSON encodes undefined readings as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON decodes null as an undefined reading.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Undefined
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Defined(f)
	return nil
}

// IndicatorPoint pairs a reading with the bar it belongs to.
type IndicatorPoint struct {
	Time  time.Time `json:"time"`
	Value Value     `json:"value"`
}

// IndicatorSeries is aligned index-for-index with its source PriceSeries.
type IndicatorSeries struct {
	Name   string           `json:"name"`
	Period int              `json:"period"`
	Points []IndicatorPoint `json:"points"`
}

// LastDefined returns the most recent valid reading.
func (s IndicatorSeries) LastDefined() (float64, bool) {
	for i := len(s.Points) - 1; i >= 0; i-- {
		if s.Points[i].Value.Valid {
			return s.Points[i].Value.Float, true
		}
	}
	return 0, false
}

// BollingerBands shares one period and one multiplier across its three lines.
type BollingerBands struct {
	Period     int
	Multiplier float64
	Middle     []Value
	Upper      []Value
	Lower      []Value
}

// MACDResult holds the three aligned MACD lines.
type MACDResult struct {
	MACD      []Value
	Signal    []Value
	Histogram []Value
}

// IndicatorSnapshot holds the latest defined value of every computed series.
type IndicatorSnapshot struct {
	Symbol      string             `json:"symbol"`
	AsOf        time.Time          `json:"as_of"`
	Price       float64            `json:"price"`
	PrevClose   float64            `json:"prev_close"`
	HasPrev     bool               `json:"has_prev"`
	Volume      float64            `json:"volume"`
	Values      map[string]float64 `json:"values"`
	High52w     float64            `json:"high_52w"`
	Low52w      float64            `json:"low_52w"`
	Position52w float64            `json:"position_52w"` // 0.0 ~ 1.0
}

// Get looks up a named reading.
func (s *IndicatorSnapshot) Get(name string) (float64, bool) {
	if s == nil || s.Values == nil {
		return 0, false
	}
	v, ok := s.Values[name]
	return v, ok
}

// Change returns the day-over-day change and its percentage.
func (s *IndicatorSnapshot) Change() (change, pct float64, ok bool) {
	if !s.HasPrev || s.PrevClose == 0 {
		return 0, 0, false
	}
	change = s.Price - s.PrevClose
	return change, change / s.PrevClose * 100, true
}

// Analysis is everything derived from one fetched PriceSeries.
type Analysis struct {
	Symbol     string            `json:"symbol"`
	Series     *PriceSeries      `json:"-"`
	Indicators []IndicatorSeries `json:"-"`
	Snapshot   IndicatorSnapshot `json:"snapshot"`
	Summary    string            `json:"summary"`
	Signal     *TechnicalSignal  `json:"signal"`
}
