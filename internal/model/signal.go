package model

// Action is the recommendation verb.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
	ActionSell Action = "SELL"
)

// FactorScore represents a single factor's contribution to the technical score.
type FactorScore struct {
	Name       string  `json:"name"`
	Points     float64 `json:"points"`
	Commentary string  `json:"commentary"`
}

// Recommendation maps a score range to an action.
type Recommendation struct {
	Action     Action  `json:"action"`
	Confidence string  `json:"confidence"`
	Score      float64 `json:"score"`
}

// TechnicalSignal is the output of the strategy engine.
type TechnicalSignal struct {
	Factors        []FactorScore  `json:"factors"`
	Score          float64        `json:"score"` // 0 ~ 100
	Recommendation Recommendation `json:"recommendation"`
}
