package strategy

import (
	"testing"

	"StarTrade/internal/calculator"
	"StarTrade/internal/model"
)

func snapshot(price float64, values map[string]float64) *model.IndicatorSnapshot {
	return &model.IndicatorSnapshot{Symbol: "SPY", Price: price, Values: values}
}

func TestEvaluate_StrongUptrend(t *testing.T) {
	snap := snapshot(520, map[string]float64{
		calculator.KeySMA20:  510,
		calculator.KeySMA50:  495,
		calculator.KeyRSI:    55,
		calculator.KeyMACD:   2.1,
		calculator.KeySignal: 1.4,
	})
	sig := Evaluate(snap)
	if sig == nil {
		t.Fatal("expected non-nil signal")
	}
	if len(sig.Factors) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(sig.Factors))
	}
	// 50 + 5 + 20 + 10
	if sig.Score != 85 {
		t.Errorf("expected score 85, got %.1f", sig.Score)
	}
	if sig.Recommendation.Action != model.ActionBuy || sig.Recommendation.Confidence != "HIGH" {
		t.Errorf("expected BUY/HIGH, got %s/%s", sig.Recommendation.Action, sig.Recommendation.Confidence)
	}
}

func TestEvaluate_StrongDowntrend(t *testing.T) {
	snap := snapshot(80, map[string]float64{
		calculator.KeySMA20:  90,
		calculator.KeySMA50:  100,
		calculator.KeyRSI:    75,
		calculator.KeyMACD:   -2,
		calculator.KeySignal: -1,
	})
	sig := Evaluate(snap)
	// 50 - 15 - 20 - 10
	if sig.Score != 5 {
		t.Errorf("expected score 5, got %.1f", sig.Score)
	}
	if sig.Recommendation.Action != model.ActionSell || sig.Recommendation.Confidence != "MEDIUM" {
		t.Errorf("expected SELL/MEDIUM, got %s/%s", sig.Recommendation.Action, sig.Recommendation.Confidence)
	}
}

func TestEvaluate_WarmUpIsNeutral(t *testing.T) {
	sig := Evaluate(snapshot(10, map[string]float64{}))
	if sig.Score != BaseScore {
		t.Errorf("expected neutral score, got %.1f", sig.Score)
	}
	for _, f := range sig.Factors {
		if f.Points != 0 {
			t.Errorf("factor %s should contribute nothing, got %.1f", f.Name, f.Points)
		}
	}
}

func TestEvaluate_OversoldMildDowntrend(t *testing.T) {
	snap := snapshot(95, map[string]float64{
		calculator.KeySMA20:  100,
		calculator.KeySMA50:  90,
		calculator.KeyRSI:    25,
		calculator.KeyMACD:   1,
		calculator.KeySignal: 0.5,
	})
	sig := Evaluate(snap)
	// 50 + 15 - 10 + 10
	if sig.Score != 65 {
		t.Errorf("expected score 65, got %.1f", sig.Score)
	}
}

func TestMapRecommendation_AllBoundaries(t *testing.T) {
	tests := []struct {
		score      float64
		action     model.Action
		confidence string
	}{
		{100, model.ActionBuy, "HIGH"},
		{70, model.ActionBuy, "HIGH"},
		{69.9, model.ActionBuy, "MEDIUM"},
		{60, model.ActionBuy, "MEDIUM"},
		{55, model.ActionHold, "MEDIUM"},
		{50, model.ActionHold, "MEDIUM"},
		{45, model.ActionHold, "LOW"},
		{40, model.ActionHold, "LOW"},
		{35, model.ActionSell, "LOW"},
		{30, model.ActionSell, "LOW"},
		{29.9, model.ActionSell, "MEDIUM"},
		{0, model.ActionSell, "MEDIUM"},
	}
	for _, tt := range tests {
		r := mapRecommendation(tt.score)
		if r.Action != tt.action || r.Confidence != tt.confidence {
			t.Errorf("score %.1f: expected %s/%s, got %s/%s", tt.score, tt.action, tt.confidence, r.Action, r.Confidence)
		}
		if r.Score != tt.score {
			t.Errorf("score %.1f: recommendation carries %.1f", tt.score, r.Score)
		}
	}
}
