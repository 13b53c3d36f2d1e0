// Package narrative turns an indicator snapshot into a fixed-template description.
package narrative

import (
	"fmt"
	"math"
	"strings"

	"StarTrade/internal/calculator"
	"StarTrade/internal/model"
)

// Classification labels.
const (
	Bullish = "bullish"
	Bearish = "bearish"
	Mixed   = "mixed"

	Overbought = "overbought"
	Oversold   = "oversold"
	Neutral    = "neutral"

	AboveUpper = "above_upper"
	BelowLower = "below_lower"
	Within     = "within"

	Flat = "flat"

	// Unknown marks a classification whose readings are still in warm-up.
	Unknown = "unknown"
)

// Outlook is the structured form of the summary.
type Outlook struct {
	Trend    string `json:"trend"`
	Momentum string `json:"momentum"`
	Band     string `json:"band"`
	MACD     string `json:"macd"`
}

// ClassifyTrend compares price with the 20- and 50-period SMAs.
func ClassifyTrend(price, sma20, sma50 float64) string {
	switch {
	case price > sma20 && price > sma50:
		return Bullish
	case price < sma20 && price < sma50:
		return Bearish
	default:
		return Mixed
	}
}

// ClassifyMomentum maps RSI onto overbought (>70), oversold (<30) or neutral.
func ClassifyMomentum(rsi float64) string {
	switch {
	case rsi > 70:
		return Overbought
	case rsi < 30:
		return Oversold
	default:
		return Neutral
	}
}

// ClassifyBand places price relative to the Bollinger envelope.
func ClassifyBand(price, upper, lower float64) string {
	switch {
	case price > upper:
		return AboveUpper
	case price < lower:
		return BelowLower
	default:
		return Within
	}
}

// ClassifyMACD reads momentum from the sign of the MACD line.
func ClassifyMACD(macd float64) string {
	switch {
	case macd > 0:
		return Bullish
	case macd < 0:
		return Bearish
	default:
		return Flat
	}
}

// Classify derives the Outlook from snap.
func Classify(snap *model.IndicatorSnapshot) Outlook {
	o := Outlook{Trend: Unknown, Momentum: Unknown, Band: Unknown, MACD: Unknown}
	if sma20, ok := snap.Get(calculator.KeySMA20); ok {
		if sma50, ok := snap.Get(calculator.KeySMA50); ok {
			o.Trend = ClassifyTrend(snap.Price, sma20, sma50)
		}
	}
	if rsi, ok := snap.Get(calculator.KeyRSI); ok {
		o.Momentum = ClassifyMomentum(rsi)
	}
	if upper, ok := snap.Get(calculator.KeyBBUpper); ok {
		if lower, ok := snap.Get(calculator.KeyBBLower); ok {
			o.Band = ClassifyBand(snap.Price, upper, lower)
		}
	}
	if macd, ok := snap.Get(calculator.KeyMACD); ok {
		o.MACD = ClassifyMACD(macd)
	}
	return o
}

// Summarize fills the description template. Identical snapshots give identical text.
func Summarize(snap *model.IndicatorSnapshot) string {
	var b strings.Builder
	o := Classify(snap)

	fmt.Fprintf(&b, "%s is currently trading at $%.2f", snap.Symbol, snap.Price)
	if change, pct, ok := snap.Change(); ok {
		switch {
		case change > 0:
			fmt.Fprintf(&b, ", up $%.2f (%+.2f%%) today. ", change, pct)
		case change < 0:
			fmt.Fprintf(&b, ", down $%.2f (%+.2f%%) today. ", math.Abs(change), pct)
		default:
			b.WriteString(", unchanged (0.00%) today. ")
		}
	} else {
		b.WriteString(". ")
	}

	sma20, _ := snap.Get(calculator.KeySMA20)
	sma50, _ := snap.Get(calculator.KeySMA50)
	switch o.Trend {
	case Bullish:
		fmt.Fprintf(&b, "The stock is trading above both its 20-day SMA ($%.2f) and 50-day SMA ($%.2f), indicating a bullish trend. ", sma20, sma50)
	case Bearish:
		fmt.Fprintf(&b, "The stock is trading below both its 20-day SMA ($%.2f) and 50-day SMA ($%.2f), suggesting a bearish trend. ", sma20, sma50)
	case Mixed:
		fmt.Fprintf(&b, "The stock is showing mixed signals with the 20-day SMA at $%.2f and 50-day SMA at $%.2f. ", sma20, sma50)
	default:
		b.WriteString("There is not enough history yet to compare the price with its 20-day and 50-day SMAs. ")
	}

	rsi, _ := snap.Get(calculator.KeyRSI)
	switch o.Momentum {
	case Overbought:
		fmt.Fprintf(&b, "With an RSI of %.2f, the stock appears overbought and may face selling pressure. ", rsi)
	case Oversold:
		fmt.Fprintf(&b, "With an RSI of %.2f, the stock appears oversold and could see a potential bounce. ", rsi)
	case Neutral:
		fmt.Fprintf(&b, "The RSI at %.2f indicates neutral momentum. ", rsi)
	default:
		b.WriteString("The RSI is not available yet. ")
	}

	upper, _ := snap.Get(calculator.KeyBBUpper)
	lower, _ := snap.Get(calculator.KeyBBLower)
	switch o.Band {
	case AboveUpper:
		fmt.Fprintf(&b, "The price is above the upper Bollinger Band ($%.2f), suggesting the stock may be overextended. ", upper)
	case BelowLower:
		fmt.Fprintf(&b, "The price is below the lower Bollinger Band ($%.2f), indicating potential oversold conditions. ", lower)
	case Within:
		fmt.Fprintf(&b, "The stock is trading within the Bollinger Bands ($%.2f - $%.2f). ", lower, upper)
	default:
		b.WriteString("The Bollinger Bands are not available yet. ")
	}

	macd, _ := snap.Get(calculator.KeyMACD)
	switch o.MACD {
	case Bullish:
		fmt.Fprintf(&b, "The MACD is positive at %.2f, showing bullish momentum.", macd)
	case Bearish:
		fmt.Fprintf(&b, "The MACD is negative at %.2f, showing bearish momentum.", macd)
	case Flat:
		b.WriteString("The MACD is flat at 0.00, showing no clear momentum.")
	default:
		b.WriteString("The MACD is not available yet.")
	}

	return b.String()
}
