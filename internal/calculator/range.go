package calculator

import (
	"errors"
	"math"

	"StarTrade/internal/model"
)

// TradingDaysPerYear is the lookback used for the 52-week range.
const TradingDaysPerYear = 252

// CalculateRange scans the most recent lookback bars and returns the high and low.
func CalculateRange(points []model.PricePoint, lookback int) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	n := len(points)
	start := n - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if points[i].High > high {
			high = points[i].High
		}
		if points[i].Low < low {
			low = points[i].Low
		}
	}
	return high, low, nil
}

// CalculatePosition returns where current sits within [low, high] (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
