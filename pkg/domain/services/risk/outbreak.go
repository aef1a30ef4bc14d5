package risk

import "sort"

// Outbreak risk levels
const (
	OutbreakHigh     = "HIGH"
	OutbreakElevated = "ELEVATED"
	OutbreakLow      = "LOW"
)

// TrackedDiseases are the diseases the lab predictor evaluates, in report order
var TrackedDiseases = []string{"dengue", "malaria", "typhoid", "influenza", "covid"}

// OutbreakInput carries per-disease test counts from a lab
type OutbreakInput struct {
	CurrentTests  map[string]int64 `json:"current_tests"`
	BaselineTests map[string]int64 `json:"baseline_tests"`
	PositiveTests map[string]int64 `json:"positive_tests"`
}

// OutbreakPrediction is the 24h projection for one disease
type OutbreakPrediction struct {
	Disease           string  `json:"disease"`
	RiskLevel         string  `json:"risk_level"`
	Score             float64 `json:"score"`
	GrowthRate        float64 `json:"growth_rate"`
	PredictedCases24h int64   `json:"predicted_cases_24h"`
	CurrentTests      int64   `json:"current_tests"`
	BaselineTests     int64   `json:"baseline_tests"`
	PositiveRate      float64 `json:"positive_rate"`
	GrowthPercentage  float64 `json:"growth_percentage"`
	Recommendation    string  `json:"recommendation"`
	TriggerOutbreak   bool    `json:"trigger_outbreak"`
}

// OutbreakPredictor projects test volumes one day ahead with a linear trend
type OutbreakPredictor struct {
	diseases []string
}

// NewOutbreakPredictor creates a predictor over the tracked diseases
func NewOutbreakPredictor() *OutbreakPredictor {
	return &OutbreakPredictor{diseases: TrackedDiseases}
}

// Predict evaluates every tracked disease with a non-zero current test count.
// A missing baseline defaults to 1.
func (p *OutbreakPredictor) Predict(in OutbreakInput) []OutbreakPrediction {
	predictions := make([]OutbreakPrediction, 0, len(p.diseases))

	for _, disease := range p.diseases {
		current := in.CurrentTests[disease]
		if current <= 0 {
			continue
		}
		baseline, ok := in.BaselineTests[disease]
		if !ok {
			baseline = 1
		}
		positive := in.PositiveTests[disease]

		growth := float64(current - baseline)
		future := current + (current - baseline)
		if future < 0 {
			future = 0
		}

		growthPct := ratio(float64(current-baseline), float64(baseline))
		positiveRate := ratio(float64(positive), float64(current))

		prediction := OutbreakPrediction{
			Disease:           disease,
			RiskLevel:         OutbreakLow,
			Score:             round(clamp(positiveRate, 0, 100), 1),
			GrowthRate:        round(growth, 2),
			PredictedCases24h: future,
			CurrentTests:      current,
			BaselineTests:     baseline,
			PositiveRate:      round(positiveRate, 1),
			GrowthPercentage:  round(growthPct, 1),
			Recommendation:    "Continue monitoring",
		}

		switch {
		case float64(future) >= 2*float64(baseline) && positiveRate > 15:
			prediction.RiskLevel = OutbreakHigh
			prediction.TriggerOutbreak = true
			prediction.Recommendation = "OUTBREAK DETECTED! Alert hospitals & pharmacies immediately"
		case float64(future) >= 1.5*float64(baseline) && positiveRate > 10:
			prediction.RiskLevel = OutbreakElevated
			prediction.Recommendation = "Outbreak risk detected. Prepare response measures"
		case growth > 0 && positiveRate > 8:
			prediction.Recommendation = "Increasing trend observed. Monitor closely"
		}

		predictions = append(predictions, prediction)
	}

	return predictions
}

// ActiveOutbreaks returns the sorted diseases whose prediction triggered an outbreak
func ActiveOutbreaks(predictions []OutbreakPrediction) []string {
	var diseases []string
	for _, p := range predictions {
		if p.TriggerOutbreak {
			diseases = append(diseases, p.Disease)
		}
	}
	sort.Strings(diseases)
	return diseases
}
