package calculator

import "StarTrade/internal/model"

// SMA computes the trailing simple moving average at every index.
// Indices before period-1 are undefined.
func SMA(closes []float64, period int) []model.Value {
	out := make([]model.Value, len(closes))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(closes); i++ {
		out[i] = model.Defined(mean(closes[i-period+1 : i+1]))
	}
	return out
}

// EMA computes the exponential moving average seeded with the SMA of the first period closes.
// Indices before period-1 are undefined.
func EMA(closes []float64, period int) []model.Value {
	out := make([]model.Value, len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}
	k := 2.0 / float64(period+1)
	prev := mean(closes[:period])
	out[period-1] = model.Defined(prev)
	for i := period; i < len(closes); i++ {
		prev = closes[i]*k + prev*(1-k)
		out[i] = model.Defined(prev)
	}
	return out
}

func mean(window []float64) float64 {
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}
