package calculator

import "StarTrade/internal/model"

// RSI computes the relative strength index over the most recent period changes
// ending at each index. Indices before period are undefined.
func RSI(closes []float64, period int) []model.Value {
	out := make([]model.Value, len(closes))
	if period <= 0 {
		return out
	}
	for i := period; i < len(closes); i++ {
		var gains, losses float64
		for j := i - period + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}
		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)
		if avgLoss == 0 {
			out[i] = model.Defined(100)
			continue
		}
		rs := avgGain / avgLoss
		out[i] = model.Defined(100 - 100/(1+rs))
	}
	return out
}
