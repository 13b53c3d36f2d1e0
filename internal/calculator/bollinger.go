package calculator

import (
	"math"

	"StarTrade/internal/model"
)

// Bollinger computes SMA(period) ± k population standard deviations.
func Bollinger(closes []float64, period int, k float64) model.BollingerBands {
	n := len(closes)
	bb := model.BollingerBands{
		Period:     period,
		Multiplier: k,
		Middle:     SMA(closes, period),
		Upper:      make([]model.Value, n),
		Lower:      make([]model.Value, n),
	}
	for i, mid := range bb.Middle {
		if !mid.Valid {
			continue
		}
		variance := 0.0
		for _, c := range closes[i-period+1 : i+1] {
			d := c - mid.Float
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		bb.Upper[i] = model.Defined(mid.Float + k*sd)
		bb.Lower[i] = model.Defined(mid.Float - k*sd)
	}
	return bb
}
