package allocation

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/healsync/dispatch/pkg/domain/entities"
	"github.com/healsync/dispatch/pkg/domain/services"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngineWithClock(services.NewPriorityScorer(entities.DefaultWeightTables()), func() time.Time { return fixedNow })
}

func TestEngine_BothOrdersFulfilled(t *testing.T) {
	engine := newTestEngine()
	orders := []entities.OrderInput{
		entities.NewOrderInput("B", "H2", "dengue_medicine", 100, entities.UrgencyHigh, 70),
		entities.NewOrderInput("A", "H1", "oxygen", 50, entities.UrgencyUrgent, 85),
	}
	inventory := entities.Inventory{"oxygen": 80, "dengue_medicine": 200}

	result := engine.Allocate(orders, inventory, 4)

	if result.RankedOrders[0].OrderID != "A" || result.RankedOrders[0].PriorityScore != 94 {
		t.Errorf("Expected A ranked first with score 94, got %s with %v", result.RankedOrders[0].OrderID, result.RankedOrders[0].PriorityScore)
	}
	if result.RankedOrders[1].OrderID != "B" || result.RankedOrders[1].PriorityScore != 76 {
		t.Errorf("Expected B ranked second with score 76, got %s with %v", result.RankedOrders[1].OrderID, result.RankedOrders[1].PriorityScore)
	}
	if len(result.FulfilledOrders) != 2 || len(result.PendingOrders) != 0 {
		t.Fatalf("Expected 2 fulfilled and 0 pending, got %d and %d", len(result.FulfilledOrders), len(result.PendingOrders))
	}
	for _, o := range result.FulfilledOrders {
		if o.Status != entities.Fulfilled {
			t.Errorf("Expected %s FULFILLED, got %s", o.OrderID, o.Status)
		}
	}
	if result.FinalInventory["oxygen"] != 30 {
		t.Errorf("Expected 30 oxygen left, got %d", result.FinalInventory["oxygen"])
	}
	if result.FinalInventory["dengue_medicine"] != 100 {
		t.Errorf("Expected 100 dengue_medicine left, got %d", result.FinalInventory["dengue_medicine"])
	}
	if result.Metrics.VehiclesUsed != 2 || result.Metrics.VehiclesAvailable != 2 {
		t.Errorf("Expected 2 vehicles used and 2 available, got %+v", result.Metrics)
	}
	if result.Metrics.FulfillmentRatePercent != 100 {
		t.Errorf("Expected 100%% fulfillment, got %v", result.Metrics.FulfillmentRatePercent)
	}
	if result.FulfilledOrders[0].EstimatedDelivery != entities.DeliveryUrgent {
		t.Errorf("Expected urgent delivery estimate, got %s", result.FulfilledOrders[0].EstimatedDelivery)
	}
	if result.FulfilledOrders[1].EstimatedDelivery != entities.DeliveryStandard {
		t.Errorf("Expected standard delivery estimate, got %s", result.FulfilledOrders[1].EstimatedDelivery)
	}
	if inventory["oxygen"] != 80 {
		t.Errorf("Expected caller inventory untouched, got %d oxygen", inventory["oxygen"])
	}
}

func TestEngine_PartialFulfillment(t *testing.T) {
	engine := newTestEngine()
	orders := []entities.OrderInput{entities.NewOrderInput("P1", "H1", "antibiotics", 60, entities.UrgencyHigh, 60)}

	result := engine.Allocate(orders, entities.Inventory{"antibiotics": 20}, 1)

	if len(result.FulfilledOrders) != 1 {
		t.Fatalf("Expected partial order in fulfilled list, got %d", len(result.FulfilledOrders))
	}
	o := result.FulfilledOrders[0]
	if o.Status != entities.Partial {
		t.Errorf("Expected PARTIAL, got %s", o.Status)
	}
	if o.AllocatedQuantity != 20 || o.Shortage != 40 || o.RequestedQuantity != 60 {
		t.Errorf("Expected allocated 20, shortage 40, requested 60, got %d, %d, %d", o.AllocatedQuantity, o.Shortage, o.RequestedQuantity)
	}
	if result.FinalInventory["antibiotics"] != 0 {
		t.Errorf("Expected antibiotics exhausted, got %d", result.FinalInventory["antibiotics"])
	}
	if result.Metrics.VehiclesUsed != 1 || result.Metrics.VehiclesAvailable != 0 {
		t.Errorf("Expected one vehicle consumed, got %+v", result.Metrics)
	}
	if result.Metrics.UnitsDispatched != 20 || result.DispatchedUnits["antibiotics"] != 20 {
		t.Errorf("Expected 20 units dispatched, got %d (%v)", result.Metrics.UnitsDispatched, result.DispatchedUnits)
	}
}

func TestEngine_ShortStockWithoutVehicle(t *testing.T) {
	engine := newTestEngine()
	orders := []entities.OrderInput{entities.NewOrderInput("G1", "C1", "gloves", 30, entities.UrgencyNormal, 50)}

	result := engine.Allocate(orders, entities.Inventory{"gloves": 10}, 0)

	if len(result.PendingOrders) != 1 {
		t.Fatalf("Expected 1 pending order, got %d", len(result.PendingOrders))
	}
	o := result.PendingOrders[0]
	if o.Reason != entities.ReasonInsufficientStock {
		t.Errorf("Expected reason %q, got %q", entities.ReasonInsufficientStock, o.Reason)
	}
	if o.Shortage != 20 || o.AvailableStock != 10 {
		t.Errorf("Expected shortage 20 against 10 available, got %d against %d", o.Shortage, o.AvailableStock)
	}
	if o.EstimatedDelivery != "" {
		t.Errorf("Expected no delivery estimate, got %q", o.EstimatedDelivery)
	}

	found := false
	for _, rec := range result.Recommendations {
		if rec == "1 orders pending due to low stock - restock needed" {
			found = true
		}
		if strings.Contains(rec, "waiting for delivery vehicles") {
			t.Errorf("Expected no vehicle recommendation, got %q", rec)
		}
	}
	if !found {
		t.Errorf("Expected low stock recommendation, got %v", result.Recommendations)
	}
}

func TestEngine_NoVehicles(t *testing.T) {
	engine := newTestEngine()
	orders := []entities.OrderInput{entities.NewOrderInput("V1", "H1", "oxygen", 10, entities.UrgencyUrgent, 90)}
	inventory := entities.Inventory{"oxygen": 100}

	result := engine.Allocate(orders, inventory, 0)

	if len(result.PendingOrders) != 1 {
		t.Fatalf("Expected 1 pending order, got %d", len(result.PendingOrders))
	}
	o := result.PendingOrders[0]
	if o.Status != entities.Pending || o.Reason != entities.ReasonNoVehicles {
		t.Errorf("Expected PENDING for lack of vehicles, got %s (%s)", o.Status, o.Reason)
	}
	if o.EstimatedDelivery != entities.DeliveryNextCycle {
		t.Errorf("Expected next delivery cycle, got %s", o.EstimatedDelivery)
	}
	if !reflect.DeepEqual(result.FinalInventory, inventory) {
		t.Errorf("Expected inventory unchanged, got %v", result.FinalInventory)
	}
	if result.Metrics.FulfillmentRatePercent != 0 {
		t.Errorf("Expected 0%% fulfillment, got %v", result.Metrics.FulfillmentRatePercent)
	}
}

func TestEngine_Classification(t *testing.T) {
	testCases := []struct {
		name      string
		qty       entities.Quantity
		stock     entities.Quantity
		vehicles  int
		status    entities.FulfillmentStatus
		reason    string
		allocated entities.Quantity
		remaining entities.Quantity
	}{
		{"enough stock and vehicle", 10, 10, 1, entities.Fulfilled, "", 10, 0},
		{"enough stock, no vehicle", 10, 50, 0, entities.Pending, entities.ReasonNoVehicles, 0, 50},
		{"some stock and vehicle", 30, 10, 1, entities.Partial, "", 10, 0},
		{"some stock, no vehicle", 30, 10, 0, entities.Pending, entities.ReasonInsufficientStock, 0, 10},
		{"no stock", 30, 0, 3, entities.Pending, entities.ReasonInsufficientStock, 0, 0},
		{"zero quantity against zero stock", 0, 0, 1, entities.Fulfilled, "", 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orders := []entities.OrderInput{entities.NewOrderInput("X", "R", "gloves", tc.qty, entities.UrgencyNormal, 50)}
			result := newTestEngine().Allocate(orders, entities.Inventory{"gloves": tc.stock}, tc.vehicles)

			outcomes := result.Outcomes()
			if len(outcomes) != 1 {
				t.Fatalf("Expected one outcome, got %d", len(outcomes))
			}
			o := outcomes[0]
			if o.Status != tc.status {
				t.Errorf("Expected %s, got %s", tc.status, o.Status)
			}
			if o.Reason != tc.reason {
				t.Errorf("Expected reason %q, got %q", tc.reason, o.Reason)
			}
			if o.AllocatedQuantity != tc.allocated {
				t.Errorf("Expected allocated %d, got %d", tc.allocated, o.AllocatedQuantity)
			}
			if result.FinalInventory["gloves"] != tc.remaining {
				t.Errorf("Expected %d gloves left, got %d", tc.remaining, result.FinalInventory["gloves"])
			}
		})
	}
}

func TestEngine_StableTieBreak(t *testing.T) {
	var orders []entities.OrderInput
	for i := 0; i < 6; i++ {
		orders = append(orders, entities.NewOrderInput(fmt.Sprintf("T%d", i), "R", "paracetamol", 1, entities.UrgencyMedium, 40))
	}
	orders = append(orders, entities.NewOrderInput("TOP", "R", "oxygen", 1, entities.UrgencyUrgent, 100))

	ranked := NewEngine(nil).Rank(orders)

	if ranked[0].OrderID != "TOP" {
		t.Fatalf("Expected TOP first, got %s", ranked[0].OrderID)
	}
	for i := 1; i < len(ranked); i++ {
		expected := fmt.Sprintf("T%d", i-1)
		if ranked[i].OrderID != expected {
			t.Errorf("Expected %s at position %d, got %s", expected, i, ranked[i].OrderID)
		}
	}
}

func TestEngine_DefaultsAndTimestamps(t *testing.T) {
	result := newTestEngine().Allocate([]entities.OrderInput{{OrderID: "D1"}}, entities.Inventory{}, 4)

	o := result.RankedOrders[0]
	if o.Medicine != entities.DefaultMedicine || o.Urgency != entities.UrgencyNormal || o.RequesterStrain != 50 {
		t.Errorf("Expected defaults to be applied, got %+v", o)
	}
	if !o.Timestamp.Equal(fixedNow) {
		t.Errorf("Expected timestamp from the engine clock, got %v", o.Timestamp)
	}
	if o.PriorityScore != 42.5 {
		t.Errorf("Expected default score 42.5, got %v", o.PriorityScore)
	}
}

func TestEngine_EmptyBatch(t *testing.T) {
	result := newTestEngine().Allocate(nil, entities.Inventory{"oxygen": 10}, 2)

	if result.Metrics.TotalOrders != 0 || result.Metrics.FulfillmentRatePercent != 0 {
		t.Errorf("Expected empty metrics, got %+v", result.Metrics)
	}
	if result.FulfilledOrders == nil || result.PendingOrders == nil {
		t.Errorf("Expected empty, non-nil outcome lists")
	}
	if result.Metrics.VehiclesAvailable != 2 {
		t.Errorf("Expected all vehicles available, got %d", result.Metrics.VehiclesAvailable)
	}
}

func TestEngine_FulfillmentRateRounding(t *testing.T) {
	orders := []entities.OrderInput{
		entities.NewOrderInput("R1", "H", "oxygen", 10, entities.UrgencyUrgent, 90),
		entities.NewOrderInput("R2", "H", "oxygen", 10, entities.UrgencyHigh, 80),
		entities.NewOrderInput("R3", "H", "oxygen", 10, entities.UrgencyLow, 10),
	}

	result := newTestEngine().Allocate(orders, entities.Inventory{"oxygen": 100}, 2)

	if result.Metrics.FulfillmentRatePercent != 66.7 {
		t.Errorf("Expected 66.7%% fulfillment, got %v", result.Metrics.FulfillmentRatePercent)
	}
	if result.PendingOrders[0].OrderID != "R3" {
		t.Errorf("Expected lowest priority order to wait, got %s", result.PendingOrders[0].OrderID)
	}
}

// Properties checked over a spread of generated batches
func TestEngine_Invariants(t *testing.T) {
	medicines := []string{"oxygen", "gloves", "paracetamol", "iv_fluids", "mystery"}
	urgencies := []entities.Urgency{"URGENT", "HIGH", "MEDIUM", "NORMAL", "LOW", "bogus"}

	for seed := 0; seed < 40; seed++ {
		var orders []entities.OrderInput
		for i := 0; i < 3+seed%9; i++ {
			k := seed*31 + i*17
			orders = append(orders, entities.NewOrderInput(
				fmt.Sprintf("S%d-%d", seed, i),
				"R",
				medicines[k%len(medicines)],
				entities.Quantity(k%70),
				urgencies[k%len(urgencies)],
				float64(k%130)-15,
			))
		}
		inventory := entities.Inventory{"oxygen": entities.Quantity(seed * 7 % 90), "gloves": 40, "paracetamol": entities.Quantity(seed % 25), "iv_fluids": 0}
		capacity := seed % 6

		engine := newTestEngine()
		first := engine.Allocate(orders, inventory, capacity)
		second := engine.Allocate(orders, inventory, capacity)

		if !reflect.DeepEqual(first, second) {
			t.Fatalf("seed %d: allocation is not deterministic", seed)
		}

		if first.Metrics.FulfilledCount+first.Metrics.PendingCount != len(orders) {
			t.Errorf("seed %d: counts do not add up to %d: %+v", seed, len(orders), first.Metrics)
		}
		seen := make(map[string]int)
		for _, o := range first.Outcomes() {
			seen[o.OrderID]++
		}
		for _, in := range orders {
			if seen[in.OrderID] != 1 {
				t.Errorf("seed %d: order %s appears %d times", seed, in.OrderID, seen[in.OrderID])
			}
		}

		if first.Metrics.VehiclesAvailable > capacity || first.Metrics.VehiclesUsed+first.Metrics.VehiclesAvailable != capacity {
			t.Errorf("seed %d: vehicle accounting broken: %+v with capacity %d", seed, first.Metrics, capacity)
		}

		allocated := first.DispatchedUnits
		for name, initial := range inventory {
			final := first.FinalInventory[name]
			if final > initial || final < 0 {
				t.Errorf("seed %d: %s went from %d to %d", seed, name, initial, final)
			}
			if allocated[name] != initial-final {
				t.Errorf("seed %d: %s allocated %d but stock fell by %d", seed, name, allocated[name], initial-final)
			}
		}

		for i := 1; i < len(first.RankedOrders); i++ {
			if first.RankedOrders[i-1].PriorityScore < first.RankedOrders[i].PriorityScore {
				t.Errorf("seed %d: ranking not descending at %d", seed, i)
			}
		}
	}
}
