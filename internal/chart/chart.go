// Package chart lays price and indicator series out in the shape the dashboard's
// ApexCharts components consume.
package chart

import (
	"strings"

	"StarTrade/internal/model"
)

// Pane names which chart an overlay is drawn on.
type Pane string

const (
	PanePrice      Pane = "price"
	PaneOscillator Pane = "oscillator"
	PaneMACD       Pane = "macd"
)

// Candle is one OHLC bar; X is epoch milliseconds.
type Candle struct {
	X int64      `json:"x"`
	Y [4]float64 `json:"y"`
}

// Point is one line sample; undefined readings marshal as null so the chart leaves a gap.
type Point struct {
	X int64       `json:"x"`
	Y model.Value `json:"y"`
}

// Bar is one volume sample.
type Bar struct {
	X int64   `json:"x"`
	Y float64 `json:"y"`
}

// Line is a named indicator series.
type Line struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Pane Pane    `json:"pane"`
	Data []Point `json:"data"`
}

// Chart is the full presentation payload for one symbol.
type Chart struct {
	Symbol   string   `json:"symbol"`
	Interval string   `json:"interval"`
	Candles  []Candle `json:"candles"`
	Volume   []Bar    `json:"volume"`
	Lines    []Line   `json:"lines"`
}

// Build converts a normalized series and its computed indicators. When include is
// non-empty only indicators whose name starts with one of its entries are kept.
func Build(series *model.PriceSeries, computed []model.IndicatorSeries, include []string) *Chart {
	c := &Chart{
		Symbol:   series.Symbol,
		Interval: series.Interval,
		Candles:  make([]Candle, series.Len()),
		Volume:   make([]Bar, series.Len()),
		Lines:    []Line{},
	}
	for i, p := range series.Points {
		x := p.Time.UnixMilli()
		c.Candles[i] = Candle{X: x, Y: [4]float64{p.Open, p.High, p.Low, p.Close}}
		c.Volume[i] = Bar{X: x, Y: p.Volume}
	}

	for _, s := range computed {
		if !selected(s.Name, include) {
			continue
		}
		line := Line{Name: s.Name, Type: "line", Pane: paneFor(s.Name), Data: make([]Point, len(s.Points))}
		if strings.HasSuffix(s.Name, "_hist") {
			line.Type = "bar"
		}
		for i, p := range s.Points {
			line.Data[i] = Point{X: p.Time.UnixMilli(), Y: p.Value}
		}
		c.Lines = append(c.Lines, line)
	}
	return c
}

func paneFor(name string) Pane {
	switch {
	case strings.HasPrefix(name, "rsi_"):
		return PaneOscillator
	case strings.HasPrefix(name, "macd_"):
		return PaneMACD
	default:
		return PanePrice
	}
}

func selected(name string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	for _, prefix := range include {
		prefix = strings.ToLower(strings.TrimSpace(prefix))
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
