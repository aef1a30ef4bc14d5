package risk

import (
	"reflect"
	"testing"
)

func TestOutbreakPredictor_Predict(t *testing.T) {
	predictor := NewOutbreakPredictor()

	predictions := predictor.Predict(OutbreakInput{
		CurrentTests:  map[string]int64{"dengue": 100, "malaria": 60, "typhoid": 50, "influenza": 0, "covid": 10},
		BaselineTests: map[string]int64{"dengue": 40, "malaria": 40, "typhoid": 45},
		PositiveTests: map[string]int64{"dengue": 20, "malaria": 7, "typhoid": 5},
	})

	if len(predictions) != 4 {
		t.Fatalf("Expected 4 predictions (influenza skipped), got %d", len(predictions))
	}

	testCases := []struct {
		disease        string
		riskLevel      string
		trigger        bool
		predicted      int64
		positiveRate   float64
		growthPct      float64
		recommendation string
	}{
		{"dengue", OutbreakHigh, true, 160, 20, 150, "OUTBREAK DETECTED! Alert hospitals & pharmacies immediately"},
		{"malaria", OutbreakElevated, false, 80, 11.7, 50, "Outbreak risk detected. Prepare response measures"},
		{"typhoid", OutbreakLow, false, 55, 10, 11.1, "Increasing trend observed. Monitor closely"},
		{"covid", OutbreakLow, false, 19, 0, 900, "Continue monitoring"},
	}

	for i, tc := range testCases {
		t.Run(tc.disease, func(t *testing.T) {
			p := predictions[i]
			if p.Disease != tc.disease {
				t.Fatalf("Expected disease %s at position %d, got %s", tc.disease, i, p.Disease)
			}
			if p.RiskLevel != tc.riskLevel {
				t.Errorf("Expected risk level %s, got %s", tc.riskLevel, p.RiskLevel)
			}
			if p.TriggerOutbreak != tc.trigger {
				t.Errorf("Expected trigger %v, got %v", tc.trigger, p.TriggerOutbreak)
			}
			if p.PredictedCases24h != tc.predicted {
				t.Errorf("Expected %d predicted cases, got %d", tc.predicted, p.PredictedCases24h)
			}
			if p.PositiveRate != tc.positiveRate {
				t.Errorf("Expected positive rate %v, got %v", tc.positiveRate, p.PositiveRate)
			}
			if p.GrowthPercentage != tc.growthPct {
				t.Errorf("Expected growth percentage %v, got %v", tc.growthPct, p.GrowthPercentage)
			}
			if p.Recommendation != tc.recommendation {
				t.Errorf("Expected recommendation %q, got %q", tc.recommendation, p.Recommendation)
			}
		})
	}
}

func TestOutbreakPredictor_ZeroGuards(t *testing.T) {
	predictor := NewOutbreakPredictor()

	predictions := predictor.Predict(OutbreakInput{
		CurrentTests:  map[string]int64{"dengue": 20, "malaria": 5},
		BaselineTests: map[string]int64{"dengue": 100, "malaria": 0},
		PositiveTests: map[string]int64{"dengue": 40},
	})

	if len(predictions) != 2 {
		t.Fatalf("Expected 2 predictions, got %d", len(predictions))
	}

	declining := predictions[0]
	if declining.PredictedCases24h != 0 {
		t.Errorf("Expected projection to floor at 0, got %d", declining.PredictedCases24h)
	}
	if declining.Score != 100 {
		t.Errorf("Expected score capped at 100 when positives exceed tests, got %v", declining.Score)
	}

	zeroBaseline := predictions[1]
	if zeroBaseline.GrowthPercentage != 0 {
		t.Errorf("Expected growth percentage 0 for zero baseline, got %v", zeroBaseline.GrowthPercentage)
	}
}

func TestOutbreakPredictor_EmptyInput(t *testing.T) {
	predictions := NewOutbreakPredictor().Predict(OutbreakInput{})
	if len(predictions) != 0 {
		t.Errorf("Expected no predictions, got %d", len(predictions))
	}
}

func TestActiveOutbreaks(t *testing.T) {
	predictions := []OutbreakPrediction{
		{Disease: "malaria", TriggerOutbreak: true},
		{Disease: "typhoid"},
		{Disease: "dengue", TriggerOutbreak: true},
	}

	if got := ActiveOutbreaks(predictions); !reflect.DeepEqual(got, []string{"dengue", "malaria"}) {
		t.Errorf("Expected [dengue malaria], got %v", got)
	}
}
