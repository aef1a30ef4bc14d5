package testing

import (
	"time"

	"github.com/healsync/dispatch/pkg/domain/entities"
	"github.com/healsync/dispatch/pkg/infrastructure/repositories/memory"
)

// ScenarioStart is the timestamp of the first order in the built-in scenarios
var ScenarioStart = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

// order builds a fully specified order placed minutes after ScenarioStart
func order(id, requester, medicine string, qty entities.Quantity, urgency entities.Urgency, strain float64, minutes int) entities.OrderInput {
	in := entities.NewOrderInput(id, requester, medicine, qty, urgency, strain)
	ts := ScenarioStart.Add(time.Duration(minutes) * time.Minute)
	in.Timestamp = &ts
	return in
}

// BuildDengueSurgeOrders builds the citywide dengue surge scenario: two
// strained hospitals, two pharmacies and a clinic competing for a depot
// holding less paracetamol and IV fluid than requested.
func BuildDengueSurgeOrders() []entities.OrderInput {
	return []entities.OrderInput{
		order("ORD-001", "HOSP-CITY-GENERAL", "oxygen", 50, entities.UrgencyUrgent, 85, 0),
		order("ORD-002", "HOSP-NORTH", "dengue_medicine", 100, entities.UrgencyHigh, 70, 5),
		order("ORD-003", "PHARM-MARKET", "paracetamol", 300, entities.UrgencyUrgent, 70, 10),
		order("ORD-004", "HOSP-NORTH", "iv_fluids", 120, entities.UrgencyHigh, 70, 12),
		order("ORD-005", "PHARM-RIVERSIDE", "paracetamol", 200, entities.UrgencyMedium, 35, 20),
		order("ORD-006", "CLINIC-EAST", "gloves", 500, entities.UrgencyLow, 20, 30),
		{OrderID: "ORD-007", RequesterID: "HOSP-SOUTH", Medicine: strPtr("syringes")},
	}
}

// BuildDengueSurgeInventory returns the depot stock of the dengue surge scenario
func BuildDengueSurgeInventory() entities.Inventory {
	return entities.Inventory{
		"oxygen":          80,
		"dengue_medicine": 200,
		"paracetamol":     400,
		"iv_fluids":       60,
		"gloves":          1000,
		"syringes":        40,
	}
}

// BuildDengueSurgeDepot seeds a depot with the scenario stock and the given fleet
func BuildDengueSurgeDepot(fleet int) *memory.DepotRepository {
	depot, err := memory.NewDepotRepository(BuildDengueSurgeInventory(), fleet)
	if err != nil {
		panic(err)
	}
	return depot
}

func strPtr(s string) *string {
	return &s
}
