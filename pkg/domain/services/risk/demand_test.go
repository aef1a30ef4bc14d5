package risk

import (
	"reflect"
	"testing"

	"github.com/healsync/dispatch/pkg/domain/entities"
)

func TestDemandClassifier_Classify(t *testing.T) {
	report := NewDemandClassifier().Classify(DemandInput{
		Stocks:         map[string]int64{"paracetamol": 100, "oxygen": 500, "gloves": 0, "bandages": 1000},
		Consumption:    map[string]int64{"paracetamol": 90, "oxygen": 50, "gloves": 5},
		OutbreakAlerts: []string{"COVID"},
	})

	if report.TotalMedicines != 4 {
		t.Fatalf("Expected 4 medicines, got %d", report.TotalMedicines)
	}

	testCases := []struct {
		medicine   string
		level      string
		rate       float64
		days       float64
		needsOrder bool
		affected   bool
	}{
		{"bandages", DemandLow, 0, NoConsumptionDays, false, false},
		{"gloves", DemandSurge, 1, 0, true, false},
		{"oxygen", DemandLow, 0.2, 10, false, true},
		{"paracetamol", DemandSurge, 1, 1.1, true, true},
	}

	for i, tc := range testCases {
		t.Run(tc.medicine, func(t *testing.T) {
			c := report.Classifications[i]
			if c.Medicine != tc.medicine {
				t.Fatalf("Expected %s at position %d, got %s", tc.medicine, i, c.Medicine)
			}
			if c.DemandLevel != tc.level {
				t.Errorf("Expected level %s, got %s", tc.level, c.DemandLevel)
			}
			if c.ConsumptionRate != tc.rate {
				t.Errorf("Expected rate %v, got %v", tc.rate, c.ConsumptionRate)
			}
			if c.DaysRemaining != tc.days {
				t.Errorf("Expected %v days remaining, got %v", tc.days, c.DaysRemaining)
			}
			if c.NeedsOrder != tc.needsOrder {
				t.Errorf("Expected needs order %v, got %v", tc.needsOrder, c.NeedsOrder)
			}
			if c.OutbreakAffected != tc.affected {
				t.Errorf("Expected outbreak affected %v, got %v", tc.affected, c.OutbreakAffected)
			}
		})
	}

	if len(report.PreemptiveOrders) != 2 {
		t.Fatalf("Expected 2 pre-emptive orders, got %d", len(report.PreemptiveOrders))
	}
	gloves, paracetamol := report.PreemptiveOrders[0], report.PreemptiveOrders[1]
	if gloves.OrderQuantity != 100 {
		t.Errorf("Expected minimum order of 100 gloves, got %d", gloves.OrderQuantity)
	}
	if paracetamol.OrderQuantity != 1260 {
		t.Errorf("Expected 14 days of outbreak supply (1260), got %d", paracetamol.OrderQuantity)
	}
	if paracetamol.Urgency != entities.UrgencyUrgent {
		t.Errorf("Expected URGENT pre-emptive order, got %s", paracetamol.Urgency)
	}

	if report.InventoryHealth.Score != 65 || report.InventoryHealth.Status != HealthGood {
		t.Errorf("Expected GOOD health with score 65, got %+v", report.InventoryHealth)
	}
	if report.Strain != 35 {
		t.Errorf("Expected pharmacy strain 35, got %v", report.Strain)
	}
	if !reflect.DeepEqual(report.CriticalMedicines, []string{"gloves", "paracetamol"}) {
		t.Errorf("Expected gloves and paracetamol as critical, got %v", report.CriticalMedicines)
	}
	if report.MedicinesNeedingOrder != 2 {
		t.Errorf("Expected 2 medicines needing order, got %d", report.MedicinesNeedingOrder)
	}

	expectedRecs := []string{
		"SURGE DEMAND: Immediate orders placed for 2 medicines: gloves, paracetamol",
		"CRITICAL: 2 medicines have <3 days stock remaining",
		"2 pre-emptive orders generated for supplier",
		"2 medicines affected by outbreak alerts",
	}
	if !reflect.DeepEqual(report.Recommendations, expectedRecs) {
		t.Errorf("Expected recommendations %v, got %v", expectedRecs, report.Recommendations)
	}
}

func TestDemandClassifier_Tiers(t *testing.T) {
	testCases := []struct {
		consumption int64
		level       string
		reorder     int64
	}{
		{80, DemandSurge, 200},
		{60, DemandHigh, 150},
		{40, DemandMedium, 100},
		{39, DemandLow, 50},
	}

	for _, tc := range testCases {
		report := NewDemandClassifier().Classify(DemandInput{
			Stocks:      map[string]int64{"antibiotics": 100},
			Consumption: map[string]int64{"antibiotics": tc.consumption},
		})
		c := report.Classifications[0]
		if c.DemandLevel != tc.level {
			t.Errorf("Expected %s for consumption %d, got %s", tc.level, tc.consumption, c.DemandLevel)
		}
		if c.ReorderPoint != tc.reorder {
			t.Errorf("Expected reorder point %d, got %d", tc.reorder, c.ReorderPoint)
		}
	}
}

func TestDemandClassifier_Empty(t *testing.T) {
	report := NewDemandClassifier().Classify(DemandInput{})

	if report.InventoryHealth.Status != HealthUnknown {
		t.Errorf("Expected UNKNOWN health, got %s", report.InventoryHealth.Status)
	}
	if report.Strain != entities.DefaultRequesterStrain {
		t.Errorf("Expected default strain, got %v", report.Strain)
	}
	if len(report.Recommendations) != 1 || report.Recommendations[0] != "Inventory levels are healthy. Continue monitoring." {
		t.Errorf("Expected healthy recommendation, got %v", report.Recommendations)
	}
}

func TestPharmacyStrain(t *testing.T) {
	testCases := []struct {
		health   InventoryHealth
		expected float64
	}{
		{InventoryHealth{Status: HealthExcellent, Score: 100}, 0},
		{InventoryHealth{Status: HealthCritical, Score: 0}, 100},
		{InventoryHealth{Status: HealthFair, Score: 42.5}, 57.5},
		{InventoryHealth{Status: HealthUnknown}, 50},
	}
	for _, tc := range testCases {
		if got := PharmacyStrain(tc.health); got != tc.expected {
			t.Errorf("Expected strain %v for %+v, got %v", tc.expected, tc.health, got)
		}
	}
}
