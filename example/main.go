package main

import (
	"context"
	"fmt"

	"github.com/healsync/dispatch/pkg/application/services"
	"github.com/healsync/dispatch/pkg/domain/services/risk"
	"github.com/healsync/dispatch/pkg/infrastructure/events"
	fixtures "github.com/healsync/dispatch/pkg/infrastructure/testing"
)

// Walks one dengue surge through the city: a lab flags the outbreak, a
// pharmacy restocks pre-emptively from the depot, a strained hospital raises
// a resource request and the remaining orders are dispatched.
func main() {
	ctx := context.Background()

	store := events.NewInMemoryEventStore(nil)
	service := services.NewDispatchService(services.Dependencies{
		Depot:     fixtures.BuildDengueSurgeDepot(4),
		Publisher: events.NewStorePublisher(store),
	})

	predictions := service.PredictOutbreak(ctx, "LAB-CENTRAL", risk.OutbreakInput{
		CurrentTests:  map[string]int64{"dengue": 24, "malaria": 5},
		BaselineTests: map[string]int64{"dengue": 8, "malaria": 3},
		PositiveTests: map[string]int64{"dengue": 6, "malaria": 1},
	})
	alerts := risk.ActiveOutbreaks(predictions)
	fmt.Println("Lab predictions:")
	for _, p := range predictions {
		fmt.Printf("  %-10s %-9s predicted %d tests in 24h\n", p.Disease, p.RiskLevel, p.PredictedCases24h)
	}
	fmt.Println()

	restock, err := service.RestockPharmacy(ctx, "PHARM-MARKET", risk.DemandInput{
		Stocks:         map[string]int64{"paracetamol": 120, "dengue_medicine": 60, "gloves": 800},
		Consumption:    map[string]int64{"paracetamol": 45, "dengue_medicine": 20, "gloves": 30},
		OutbreakAlerts: alerts,
	})
	if err != nil {
		fmt.Printf("Pharmacy restock failed: %v\n", err)
		return
	}
	fmt.Printf("Pharmacy PHARM-MARKET: health %s, strain %.1f, %d pre-emptive orders\n",
		restock.Demand.InventoryHealth.Status, restock.Demand.Strain, len(restock.Orders))
	if restock.Allocation != nil {
		for _, o := range restock.Allocation.Outcomes() {
			fmt.Printf("  %-28s %-9s %d of %d\n", o.OrderID, o.Status, o.AllocatedQuantity, o.RequestedQuantity)
		}
	}
	fmt.Println()

	strain := service.CalculateHospitalStrain(ctx, "HOSP-NORTH", risk.HospitalReading{
		TotalBeds: 200, AvailableBeds: 12, ICUTotal: 30, ICUAvailable: 2, ERWaitMinutes: 150, IncomingPatients: 25,
	})
	fmt.Printf("Hospital HOSP-NORTH: HSI %.2f (%s)\n", strain.HSIScore, strain.StrainLevel)
	if strain.ResourceRequest != nil {
		fmt.Printf("  Resource request: %s within %s\n", strain.ResourceRequest.Urgency, strain.ResourceRequest.DeliveryTimeframe)
	}
	fmt.Println()

	result, err := service.AllocateFromDepot(ctx, fixtures.BuildDengueSurgeOrders())
	if err != nil {
		fmt.Printf("Allocation failed: %v\n", err)
		return
	}
	fmt.Printf("Depot dispatch: %d dispatched, %d pending, %d vehicles used\n",
		result.Metrics.FulfilledCount, result.Metrics.PendingCount, result.Metrics.VehiclesUsed)
	for _, o := range result.Outcomes() {
		fmt.Printf("  %-8s %-16s %-9s score %6.2f %s\n", o.OrderID, o.Medicine, o.Status, o.PriorityScore, o.Reason)
	}
	fmt.Println()

	all, _ := store.ReadAllEvents(0)
	fmt.Printf("Events recorded: %d\n", len(all))
	for _, e := range all {
		fmt.Printf("  v%d %-22s %s\n", e.Version(), e.Type(), e.StreamID())
	}
}
