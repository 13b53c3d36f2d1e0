package calculator

import "StarTrade/internal/model"

// Snapshot collects the last defined value of every computed series together with
// the latest price, the prior close and the 52-week range.
func Snapshot(series *model.PriceSeries, computed []model.IndicatorSeries) model.IndicatorSnapshot {
	snap := model.IndicatorSnapshot{
		Symbol: series.Symbol,
		Values: make(map[string]float64, len(computed)),
	}
	if last, ok := series.Last(); ok {
		snap.AsOf = last.Time
		snap.Price = last.Close
		snap.Volume = last.Volume
	}
	if prev, ok := series.Previous(); ok {
		snap.PrevClose = prev.Close
		snap.HasPrev = true
	}
	for _, s := range computed {
		if v, ok := s.LastDefined(); ok {
			snap.Values[s.Name] = v
		}
	}
	if high, low, err := CalculateRange(series.Points, TradingDaysPerYear); err == nil {
		snap.High52w = high
		snap.Low52w = low
		if pos, err := CalculatePosition(snap.Price, high, low); err == nil {
			snap.Position52w = pos
		}
	}
	return snap
}
