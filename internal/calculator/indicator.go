package calculator

import (
	"fmt"
	"strconv"
	"time"

	"StarTrade/internal/model"
)

// Indicator computes one or more aligned series from a PriceSeries.
// Single-line indicators return exactly one series.
type Indicator interface {
	Name() string
	Period() int
	Compute(series *model.PriceSeries) []model.IndicatorSeries
}

// Spec declares an indicator in configuration.
type Spec struct {
	Kind       string  `yaml:"kind" json:"kind"`
	Period     int     `yaml:"period" json:"period,omitempty"`
	Fast       int     `yaml:"fast" json:"fast,omitempty"`
	Slow       int     `yaml:"slow" json:"slow,omitempty"`
	Signal     int     `yaml:"signal" json:"signal,omitempty"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier,omitempty"`
}

const (
	KindSMA       = "sma"
	KindEMA       = "ema"
	KindRSI       = "rsi"
	KindMACD      = "macd"
	KindBollinger = "bollinger"
)

// DefaultSpecs is the set the dashboard shows and the summarizer reads.
var DefaultSpecs = []Spec{
	{Kind: KindSMA, Period: 5},
	{Kind: KindSMA, Period: 20},
	{Kind: KindSMA, Period: 50},
	{Kind: KindEMA, Period: 12},
	{Kind: KindEMA, Period: 26},
	{Kind: KindRSI, Period: 14},
	{Kind: KindMACD, Fast: 12, Slow: 26, Signal: 9},
	{Kind: KindBollinger, Period: 20, Multiplier: 2},
}

// Build turns a declarative list into indicators. Zero fields take the conventional defaults.
func Build(specs []Spec) ([]Indicator, error) {
	out := make([]Indicator, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		ind, err := s.build()
		if err != nil {
			return nil, err
		}
		if seen[ind.Name()] {
			return nil, fmt.Errorf("indicator %q declared twice", ind.Name())
		}
		seen[ind.Name()] = true
		out = append(out, ind)
	}
	return out, nil
}

func (s Spec) build() (Indicator, error) {
	switch s.Kind {
	case KindSMA:
		return NewSMA(orDefault(s.Period, 20))
	case KindEMA:
		return NewEMA(orDefault(s.Period, 12))
	case KindRSI:
		return NewRSI(orDefault(s.Period, 14))
	case KindMACD:
		return NewMACD(orDefault(s.Fast, 12), orDefault(s.Slow, 26), orDefault(s.Signal, 9))
	case KindBollinger:
		k := s.Multiplier
		if k == 0 {
			k = 2
		}
		return NewBollinger(orDefault(s.Period, 20), k)
	default:
		return nil, fmt.Errorf("unknown indicator kind %q", s.Kind)
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// SMAName, EMAName, RSIName, MACDName and BollingerName build the series keys.
func SMAName(period int) string { return fmt.Sprintf("sma_%d", period) }
func EMAName(period int) string { return fmt.Sprintf("ema_%d", period) }
func RSIName(period int) string { return fmt.Sprintf("rsi_%d", period) }
func MACDName(fast, slow, signal int) string {
	return fmt.Sprintf("macd_%d_%d_%d", fast, slow, signal)
}
func BollingerName(period int, k float64) string {
	return fmt.Sprintf("bb_%d_%s", period, strconv.FormatFloat(k, 'g', -1, 64))
}

// Suffixes for multi-line indicators.
const (
	SuffixSignal    = "_signal"
	SuffixHistogram = "_hist"
	SuffixUpper     = "_upper"
	SuffixMiddle    = "_middle"
	SuffixLower     = "_lower"
)

type lineIndicator struct {
	name   string
	period int
	fn     func(closes []float64, period int) []model.Value
}

func newLine(kind string, period int, name string, fn func([]float64, int) []model.Value) (*lineIndicator, error) {
	if period < 1 {
		return nil, fmt.Errorf("%s period must be at least 1, got %d", kind, period)
	}
	return &lineIndicator{name: name, period: period, fn: fn}, nil
}

// NewSMA creates a simple moving average indicator.
func NewSMA(period int) (Indicator, error) {
	return newLine("SMA", period, SMAName(period), SMA)
}

// NewEMA creates an exponential moving average indicator.
func NewEMA(period int) (Indicator, error) {
	return newLine("EMA", period, EMAName(period), EMA)
}

// NewRSI creates a relative strength index indicator.
func NewRSI(period int) (Indicator, error) {
	return newLine("RSI", period, RSIName(period), RSI)
}

func (l *lineIndicator) Name() string { return l.name }
func (l *lineIndicator) Period() int  { return l.period }

func (l *lineIndicator) Compute(series *model.PriceSeries) []model.IndicatorSeries {
	times := series.Times()
	return []model.IndicatorSeries{align(l.name, l.period, times, l.fn(series.Closes(), l.period))}
}

type macdIndicator struct {
	fast, slow, signal int
}

// NewMACD creates a MACD indicator producing the macd, signal and histogram lines.
func NewMACD(fast, slow, signal int) (Indicator, error) {
	if fast < 1 || slow < 1 || signal < 1 {
		return nil, fmt.Errorf("MACD periods must be at least 1, got %d/%d/%d", fast, slow, signal)
	}
	if fast >= slow {
		return nil, fmt.Errorf("MACD fast period %d must be shorter than slow period %d", fast, slow)
	}
	return &macdIndicator{fast: fast, slow: slow, signal: signal}, nil
}

func (m *macdIndicator) Name() string { return MACDName(m.fast, m.slow, m.signal) }
func (m *macdIndicator) Period() int  { return m.slow + m.signal - 1 }

func (m *macdIndicator) Compute(series *model.PriceSeries) []model.IndicatorSeries {
	times := series.Times()
	res := MACD(series.Closes(), m.fast, m.slow, m.signal)
	name := m.Name()
	return []model.IndicatorSeries{
		align(name, m.slow, times, res.MACD),
		align(name+SuffixSignal, m.Period(), times, res.Signal),
		align(name+SuffixHistogram, m.Period(), times, res.Histogram),
	}
}

type bollingerIndicator struct {
	period int
	k      float64
}

// NewBollinger creates a Bollinger Bands indicator.
func NewBollinger(period int, k float64) (Indicator, error) {
	if period < 1 {
		return nil, fmt.Errorf("bollinger period must be at least 1, got %d", period)
	}
	if k < 0 {
		return nil, fmt.Errorf("bollinger multiplier must not be negative, got %g", k)
	}
	return &bollingerIndicator{period: period, k: k}, nil
}

func (b *bollingerIndicator) Name() string { return BollingerName(b.period, b.k) }
func (b *bollingerIndicator) Period() int  { return b.period }

func (b *bollingerIndicator) Compute(series *model.PriceSeries) []model.IndicatorSeries {
	times := series.Times()
	bb := Bollinger(series.Closes(), b.period, b.k)
	name := b.Name()
	return []model.IndicatorSeries{
		align(name+SuffixUpper, b.period, times, bb.Upper),
		align(name+SuffixMiddle, b.period, times, bb.Middle),
		align(name+SuffixLower, b.period, times, bb.Lower),
	}
}

func align(name string, period int, times []time.Time, values []model.Value) model.IndicatorSeries {
	points := make([]model.IndicatorPoint, len(values))
	for i, v := range values {
		points[i] = model.IndicatorPoint{Time: times[i], Value: v}
	}
	return model.IndicatorSeries{Name: name, Period: period, Points: points}
}

// ComputeAll runs every indicator over series. One indicator's short history never
// affects another: each simply reports undefined readings.
func ComputeAll(series *model.PriceSeries, indicators []Indicator) []model.IndicatorSeries {
	var out []model.IndicatorSeries
	for _, ind := range indicators {
		out = append(out, ind.Compute(series)...)
	}
	return out
}

// Readings consumed by the summarizer and the strategy engine.
var (
	KeySMA20   = SMAName(20)
	KeySMA50   = SMAName(50)
	KeyEMA12   = EMAName(12)
	KeyRSI     = RSIName(14)
	KeyMACD    = MACDName(12, 26, 9)
	KeySignal  = MACDName(12, 26, 9) + SuffixSignal
	KeyBBUpper = BollingerName(20, 2) + SuffixUpper
	KeyBBLower = BollingerName(20, 2) + SuffixLower
)
