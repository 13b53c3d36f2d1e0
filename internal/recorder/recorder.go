package recorder

import (
	"time"

	"StarTrade/internal/model"
)

// Record is one persisted analysis snapshot. Readings that were undefined are nil.
type Record struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	SMA20     *float64  `json:"sma20"`
	SMA50     *float64  `json:"sma50"`
	EMA12     *float64  `json:"ema12"`
	RSI       *float64  `json:"rsi"`
	MACD      *float64  `json:"macd"`
	Signal    *float64  `json:"signal"`
	BBUpper   *float64  `json:"bb_upper"`
	BBLower   *float64  `json:"bb_lower"`
	Score     float64   `json:"score"`
	Action    string    `json:"action"`
	Summary   string    `json:"summary"`
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordAnalysis(a *model.Analysis) error
	History(symbol string, limit int) ([]Record, error)
	Close() error
}
