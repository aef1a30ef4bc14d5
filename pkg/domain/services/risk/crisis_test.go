package risk

import (
	"context"
	"errors"
	"testing"
)

type stubAdvisor struct {
	text  string
	err   error
	calls []AdvisoryRequest
}

func (s *stubAdvisor) Advise(_ context.Context, req AdvisoryRequest) (string, error) {
	s.calls = append(s.calls, req)
	return s.text, s.err
}

func TestCrisisPredictor_Severities(t *testing.T) {
	testCases := []struct {
		name      string
		input     CrisisInput
		cps       float64
		severity  string
		alert     bool
		breakdown CrisisBreakdown
	}{
		{
			name: "critical",
			input: CrisisInput{
				DiseaseStats:               map[string]int64{"dengue": 150, "covid": 100},
				HospitalUtilizationPercent: 95,
				MedicineStock:              map[string]int64{"oxygen": 10, "gloves": 20},
				ZoneRisks:                  map[string]string{"north": "CRITICAL"},
			},
			cps:       100,
			severity:  SeverityCritical,
			alert:     true,
			breakdown: CrisisBreakdown{DiseaseScore: 100, CapacityScore: 100, MedicineScore: 100, ZoneScore: 100},
		},
		{
			name: "elevated",
			input: CrisisInput{
				DiseaseStats:               map[string]int64{"malaria": 120},
				HospitalUtilizationPercent: 75,
				MedicineStock:              map[string]int64{"oxygen": 80, "gloves": 500},
				ZoneRisks:                  map[string]string{"north": "HIGH", "south": "elevated"},
			},
			cps:       56,
			severity:  SeverityElevated,
			alert:     true,
			breakdown: CrisisBreakdown{DiseaseScore: 60, CapacityScore: 60, MedicineScore: 30, ZoneScore: 80},
		},
		{
			name: "medium",
			input: CrisisInput{
				DiseaseStats:               map[string]int64{"typhoid": 60},
				HospitalUtilizationPercent: 65,
				ZoneRisks:                  map[string]string{"east": "MEDIUM"},
			},
			cps:       32,
			severity:  SeverityMedium,
			breakdown: CrisisBreakdown{DiseaseScore: 40, CapacityScore: 40, ZoneScore: 40},
		},
		{
			name:      "low with empty indicators",
			input:     CrisisInput{},
			cps:       3,
			severity:  SeverityLow,
			breakdown: CrisisBreakdown{CapacityScore: 10},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			advisor := &stubAdvisor{text: "generated advisory"}
			got := NewCrisisPredictor(advisor).Predict(context.Background(), tc.input)

			if got.CPSScore != tc.cps {
				t.Errorf("Expected CPS %v, got %v", tc.cps, got.CPSScore)
			}
			if got.Severity != tc.severity {
				t.Errorf("Expected severity %s, got %s", tc.severity, got.Severity)
			}
			if got.TriggerAlert != tc.alert {
				t.Errorf("Expected alert %v, got %v", tc.alert, got.TriggerAlert)
			}
			if got.Breakdown != tc.breakdown {
				t.Errorf("Expected breakdown %+v, got %+v", tc.breakdown, got.Breakdown)
			}
			if tc.alert {
				if len(advisor.calls) != 1 {
					t.Fatalf("Expected one advisory call, got %d", len(advisor.calls))
				}
				if got.Advisory != "generated advisory" || got.AdvisorySource != AdvisorySourceGenerated {
					t.Errorf("Expected generated advisory, got %q (%s)", got.Advisory, got.AdvisorySource)
				}
			} else if len(advisor.calls) != 0 {
				t.Errorf("Expected no advisory call for %s, got %d", tc.severity, len(advisor.calls))
			}
		})
	}
}

func TestCrisisPredictor_AdvisorFallback(t *testing.T) {
	input := CrisisInput{
		DiseaseStats:               map[string]int64{"dengue": 500},
		HospitalUtilizationPercent: 99,
		MedicineStock:              map[string]int64{"oxygen": 0},
		ZoneRisks:                  map[string]string{"north": "HIGH"},
	}

	testCases := []struct {
		name    string
		advisor Advisor
	}{
		{"nil advisor", nil},
		{"failing advisor", &stubAdvisor{err: errors.New("upstream unavailable")}},
		{"blank advisory", &stubAdvisor{text: "  "}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewCrisisPredictor(tc.advisor).Predict(context.Background(), input)
			if got.Advisory != StaticAdvisory(SeverityCritical) {
				t.Errorf("Expected static critical advisory, got %q", got.Advisory)
			}
			if got.AdvisorySource != AdvisorySourceStatic {
				t.Errorf("Expected static source, got %s", got.AdvisorySource)
			}
		})
	}
}

func TestStaticAdvisory(t *testing.T) {
	if StaticAdvisory("elevated") != staticAdvisories[SeverityElevated] {
		t.Errorf("Expected case-insensitive lookup")
	}
	if StaticAdvisory("UNHEARD") != NoAdvisory {
		t.Errorf("Expected %q for unknown severity", NoAdvisory)
	}
}
