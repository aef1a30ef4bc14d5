package risk

import (
	"context"
	"strings"
)

// Crisis severities
const (
	SeverityCritical = "CRITICAL"
	SeverityElevated = "ELEVATED"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
)

const (
	mediumAdvisory = "Moderate risk detected. Prepare response measures."
	lowAdvisory    = "City health status is stable. Continue monitoring."
)

var (
	diseaseLadder  = []step{{200, 100}, {150, 80}, {100, 60}, {50, 40}, {20, 20}}
	capacityLadder = []step{{90, 100}, {80, 80}, {70, 60}, {60, 40}, {50, 20}}
	crisisTiers    = []tier{{70, SeverityCritical}, {50, SeverityElevated}, {30, SeverityMedium}}

	zoneRiskValues = map[string]float64{
		"LOW":      10,
		"MEDIUM":   40,
		"ELEVATED": 70,
		"HIGH":     90,
		"CRITICAL": 100,
	}

	staticAdvisories = map[string]string{
		SeverityCritical: "CRITICAL CITY HEALTH CRISIS: Immediate action required! Activate emergency response protocols. Deploy additional medical resources. Coordinate with all healthcare facilities for capacity expansion. Consider requesting state/national assistance.",
		SeverityElevated: "ELEVATED RISK: Citywide health strain detected. Hospitals should prepare for increased patient load. Ensure adequate medicine stocks. Monitor disease trends closely. Activate coordination between facilities.",
		SeverityMedium:   "MODERATE RISK: Some health indicators show concerning trends. Increase surveillance and monitoring. Ensure resource availability. Prepare contingency plans.",
		SeverityLow:      "STABLE: City health status is within normal parameters. Continue routine monitoring and preparedness activities.",
	}

	crisisRecommendations = map[string][]string{
		SeverityCritical: {
			"Activate emergency response coordination center",
			"Deploy mobile medical units to affected zones",
			"Request additional medical supplies from state stockpile",
			"Issue public health advisory",
			"Prepare temporary medical facilities",
		},
		SeverityElevated: {
			"Increase hospital bed capacity",
			"Accelerate medicine procurement",
			"Enhance inter-facility communication",
			"Prepare isolation wards",
			"Alert public health officials",
		},
		SeverityMedium: {
			"Monitor trends closely",
			"Ensure adequate staff availability",
			"Review emergency protocols",
			"Stock essential medicines",
		},
		SeverityLow: {
			"Continue routine monitoring",
			"Maintain standard preparedness",
		},
	}
)

// NoAdvisory is returned for severities without advisory text
const NoAdvisory = "No advisory available"

// StaticAdvisory returns the built-in advisory text for a severity
func StaticAdvisory(severity string) string {
	if text, ok := staticAdvisories[strings.ToUpper(severity)]; ok {
		return text
	}
	return NoAdvisory
}

// AdvisoryRequest describes the situation an advisory is written for
type AdvisoryRequest struct {
	Severity     string           `json:"severity"`
	CPSScore     float64          `json:"cps_score"`
	DiseaseStats map[string]int64 `json:"disease_stats"`
}

// Advisor produces advisory text for an alerting crisis assessment
type Advisor interface {
	Advise(ctx context.Context, req AdvisoryRequest) (string, error)
}

// CrisisInput aggregates citywide indicators
type CrisisInput struct {
	DiseaseStats               map[string]int64  `json:"disease_stats"`
	HospitalUtilizationPercent float64           `json:"hospital_utilization_percent"`
	MedicineStock              map[string]int64  `json:"medicine_stock"`
	ZoneRisks                  map[string]string `json:"zone_risks"`
}

// CrisisBreakdown exposes the component scores of the CPS
type CrisisBreakdown struct {
	DiseaseScore  float64 `json:"disease_score"`
	CapacityScore float64 `json:"capacity_score"`
	MedicineScore float64 `json:"medicine_score"`
	ZoneScore     float64 `json:"zone_score"`
}

// CrisisAssessment is the citywide Crisis Prediction Score result
type CrisisAssessment struct {
	Severity        string          `json:"severity"`
	CPSScore        float64         `json:"cps_score"`
	TriggerAlert    bool            `json:"trigger_alert"`
	Advisory        string          `json:"advisory"`
	AdvisorySource  string          `json:"advisory_source"`
	Breakdown       CrisisBreakdown `json:"breakdown"`
	Recommendations []string        `json:"recommendations"`
}

// Advisory sources
const (
	AdvisorySourceGenerated = "generated"
	AdvisorySourceStatic    = "static"
)

// CrisisPredictor computes the Crisis Prediction Score
type CrisisPredictor struct {
	advisor Advisor
}

// NewCrisisPredictor creates a predictor. A nil advisor uses the static advisory table.
func NewCrisisPredictor(advisor Advisor) *CrisisPredictor {
	return &CrisisPredictor{advisor: advisor}
}

// Score computes CPS = 0.4*disease + 0.3*capacity + 0.2*medicine + 0.1*zone without advisory text
func (p *CrisisPredictor) Score(in CrisisInput) (float64, CrisisBreakdown) {
	cps, b := crisisScore(in)
	return round(cps, 2), b
}

func crisisScore(in CrisisInput) (float64, CrisisBreakdown) {
	disease := diseaseScore(in.DiseaseStats)
	capacity := capacityScore(in.HospitalUtilizationPercent)
	medicine := medicineScore(in.MedicineStock)
	zone := zoneScore(in.ZoneRisks)

	cps := disease*0.4 + capacity*0.3 + medicine*0.2 + zone*0.1
	return cps, CrisisBreakdown{
		DiseaseScore:  round(disease, 1),
		CapacityScore: round(capacity, 1),
		MedicineScore: round(medicine, 1),
		ZoneScore:     round(zone, 1),
	}
}

// Predict scores the city and, for CRITICAL and ELEVATED severities, asks the
// advisor for text. Advisor failures fall back to the static advisory.
func (p *CrisisPredictor) Predict(ctx context.Context, in CrisisInput) CrisisAssessment {
	raw, breakdown := crisisScore(in)
	cps := round(raw, 2)
	severity := classify(raw, crisisTiers, SeverityLow)

	assessment := CrisisAssessment{
		Severity:        severity,
		CPSScore:        cps,
		Breakdown:       breakdown,
		AdvisorySource:  AdvisorySourceStatic,
		Recommendations: append([]string(nil), crisisRecommendations[severity]...),
	}

	switch severity {
	case SeverityCritical, SeverityElevated:
		assessment.TriggerAlert = true
		assessment.Advisory = StaticAdvisory(severity)
		if p.advisor != nil {
			text, err := p.advisor.Advise(ctx, AdvisoryRequest{Severity: severity, CPSScore: cps, DiseaseStats: in.DiseaseStats})
			if err == nil && strings.TrimSpace(text) != "" {
				assessment.Advisory = text
				assessment.AdvisorySource = AdvisorySourceGenerated
			}
		}
	case SeverityMedium:
		assessment.Advisory = mediumAdvisory
	default:
		assessment.Advisory = lowAdvisory
	}

	return assessment
}

func diseaseScore(stats map[string]int64) float64 {
	if len(stats) == 0 {
		return 0
	}
	var total int64
	for _, cases := range stats {
		total += cases
	}
	if v, ok := climb(float64(total), diseaseLadder); ok {
		return v
	}
	return 10
}

func capacityScore(utilization float64) float64 {
	if v, ok := climb(utilization, capacityLadder); ok {
		return v
	}
	return 10
}

func medicineScore(stock map[string]int64) float64 {
	if len(stock) == 0 {
		return 0
	}
	var low, critical int
	for _, qty := range stock {
		if qty < 100 {
			low++
		}
		if qty < 50 {
			critical++
		}
	}
	total := float64(len(stock))
	score := ratio(float64(low), total)*0.6 + ratio(float64(critical), total)*0.4
	return clamp(score, 0, 100)
}

func zoneScore(zones map[string]string) float64 {
	if len(zones) == 0 {
		return 0
	}
	var sum float64
	for _, level := range zones {
		sum += zoneRiskValues[strings.ToUpper(strings.TrimSpace(level))]
	}
	return sum / float64(len(zones))
}
