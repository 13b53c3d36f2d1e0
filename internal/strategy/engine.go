package strategy

import "StarTrade/internal/model"

// BaseScore is the neutral starting point before factors apply.
const BaseScore = 50.0

// Tiers maps a minimum score to a recommendation, highest first.
var Tiers = []struct {
	MinScore       float64
	Recommendation model.Recommendation
}{
	{70, model.Recommendation{Action: model.ActionBuy, Confidence: "HIGH"}},
	{60, model.Recommendation{Action: model.ActionBuy, Confidence: "MEDIUM"}},
	{50, model.Recommendation{Action: model.ActionHold, Confidence: "MEDIUM"}},
	{40, model.Recommendation{Action: model.ActionHold, Confidence: "LOW"}},
	{30, model.Recommendation{Action: model.ActionSell, Confidence: "LOW"}},
}

// DefaultRecommendation applies to scores below every tier.
var DefaultRecommendation = model.Recommendation{Action: model.ActionSell, Confidence: "MEDIUM"}

func mapRecommendation(score float64) model.Recommendation {
	for _, t := range Tiers {
		if score >= t.MinScore {
			r := t.Recommendation
			r.Score = score
			return r
		}
	}
	r := DefaultRecommendation
	r.Score = score
	return r
}

// Evaluate computes the composite technical score (0~100) from a snapshot.
// Readings still in warm-up contribute nothing.
func Evaluate(snap *model.IndicatorSnapshot) *model.TechnicalSignal {
	factors := []model.FactorScore{
		scoreRSI(snap),
		scoreTrend(snap),
		scoreMACD(snap),
	}

	score := BaseScore
	for _, f := range factors {
		score += f.Points
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &model.TechnicalSignal{
		Factors:        factors,
		Score:          score,
		Recommendation: mapRecommendation(score),
	}
}
