package calculator

import "StarTrade/internal/model"

// MACD computes EMA(fast) - EMA(slow), its signal line and the histogram.
//
// The signal EMA runs over the defined MACD values only and is mapped back onto the
// source indices, so the signal line stays undefined wherever MACD is undefined.
func MACD(closes []float64, fast, slow, signal int) model.MACDResult {
	n := len(closes)
	res := model.MACDResult{
		MACD:      make([]model.Value, n),
		Signal:    make([]model.Value, n),
		Histogram: make([]model.Value, n),
	}

	fastLine := EMA(closes, fast)
	slowLine := EMA(closes, slow)

	var positions []int
	var compact []float64
	for i := 0; i < n; i++ {
		if fastLine[i].Valid && slowLine[i].Valid {
			v := fastLine[i].Float - slowLine[i].Float
			res.MACD[i] = model.Defined(v)
			positions = append(positions, i)
			compact = append(compact, v)
		}
	}

	signalLine := EMA(compact, signal)
	for j, pos := range positions {
		res.Signal[pos] = signalLine[j]
	}

	for i := 0; i < n; i++ {
		if res.MACD[i].Valid && res.Signal[i].Valid {
			res.Histogram[i] = model.Defined(res.MACD[i].Float - res.Signal[i].Float)
		}
	}
	return res
}
