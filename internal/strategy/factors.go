package strategy

import (
	"fmt"

	"StarTrade/internal/calculator"
	"StarTrade/internal/model"
)

// scoreRSI rewards oversold and balanced readings and penalizes overbought ones.
// Range: -15 ~ +15
func scoreRSI(snap *model.IndicatorSnapshot) model.FactorScore {
	rsi, ok := snap.Get(calculator.KeyRSI)
	if !ok {
		return model.FactorScore{Name: "RSI", Commentary: "RSI unavailable"}
	}

	var points float64
	var commentary string
	switch {
	case rsi < 30:
		points, commentary = 15, "oversold"
	case rsi > 70:
		points, commentary = -15, "overbought"
	case rsi >= 40 && rsi <= 60:
		points, commentary = 5, "balanced"
	default:
		commentary = "drifting"
	}

	return model.FactorScore{
		Name:       "RSI",
		Points:     points,
		Commentary: fmt.Sprintf("%s (RSI=%.0f)", commentary, rsi),
	}
}

// scoreTrend scores moving-average alignment.
// Strong uptrend: price > SMA20 > SMA50
// Strong downtrend: price < SMA20 < SMA50
func scoreTrend(snap *model.IndicatorSnapshot) model.FactorScore {
	sma20, ok20 := snap.Get(calculator.KeySMA20)
	sma50, ok50 := snap.Get(calculator.KeySMA50)
	if !ok20 || !ok50 {
		return model.FactorScore{Name: "Trend", Commentary: "moving averages unavailable"}
	}
	price := snap.Price

	var points float64
	var commentary string
	switch {
	case price > sma20 && sma20 > sma50:
		points, commentary = 20, "strong uptrend"
	case price > sma20:
		points, commentary = 10, "mild uptrend"
	case price < sma20 && sma20 < sma50:
		points, commentary = -20, "strong downtrend"
	case price < sma20:
		points, commentary = -10, "mild downtrend"
	default:
		commentary = "sideways"
	}

	return model.FactorScore{Name: "Trend", Points: points, Commentary: commentary}
}

// scoreMACD scores the MACD line against its signal line.
func scoreMACD(snap *model.IndicatorSnapshot) model.FactorScore {
	macd, ok1 := snap.Get(calculator.KeyMACD)
	signal, ok2 := snap.Get(calculator.KeySignal)
	if !ok1 || !ok2 {
		return model.FactorScore{Name: "MACD", Commentary: "MACD unavailable"}
	}
	if macd > signal {
		return model.FactorScore{Name: "MACD", Points: 10, Commentary: fmt.Sprintf("bullish (%.2f > %.2f)", macd, signal)}
	}
	return model.FactorScore{Name: "MACD", Points: -10, Commentary: fmt.Sprintf("bearish (%.2f <= %.2f)", macd, signal)}
}
