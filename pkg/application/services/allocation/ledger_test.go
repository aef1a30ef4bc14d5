package allocation

import (
	"reflect"
	"testing"

	"github.com/healsync/dispatch/pkg/domain/entities"
)

func TestLedger_Dispatch(t *testing.T) {
	source := entities.Inventory{"oxygen": 50, "gloves": 5}
	ledger := NewLedger(source, 2)

	if err := ledger.Dispatch("oxygen", 20); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ledger.Available("oxygen") != 30 {
		t.Errorf("Expected 30 oxygen remaining, got %d", ledger.Available("oxygen"))
	}
	if ledger.Allocations()["oxygen"] != 20 {
		t.Errorf("Expected 20 oxygen allocated, got %d", ledger.Allocations()["oxygen"])
	}
	if ledger.VehiclesAvailable() != 1 || ledger.VehiclesUsed() != 1 {
		t.Errorf("Expected 1 vehicle left and 1 used, got %d and %d", ledger.VehiclesAvailable(), ledger.VehiclesUsed())
	}
	if source["oxygen"] != 50 {
		t.Errorf("Expected source inventory untouched, got %d", source["oxygen"])
	}
}

func TestLedger_DispatchErrors(t *testing.T) {
	testCases := []struct {
		name     string
		vehicles int
		medicine string
		qty      entities.Quantity
	}{
		{"no vehicles", 0, "oxygen", 1},
		{"more than stock", 1, "oxygen", 11},
		{"negative quantity", 1, "oxygen", -1},
		{"unknown medicine", 1, "unknown", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := NewLedger(entities.Inventory{"oxygen": 10}, tc.vehicles)
			if err := ledger.Dispatch(tc.medicine, tc.qty); err == nil {
				t.Errorf("Expected error for %s", tc.name)
			}
			if ledger.Available("oxygen") != 10 {
				t.Errorf("Expected stock untouched after failed dispatch, got %d", ledger.Available("oxygen"))
			}
		})
	}
}

func TestLedger_NegativeCapacity(t *testing.T) {
	ledger := NewLedger(entities.Inventory{}, -3)
	if ledger.HasVehicle() || ledger.VehiclesAvailable() != 0 {
		t.Errorf("Expected negative capacity to be treated as zero, got %d", ledger.VehiclesAvailable())
	}
}

func TestLedger_Totals(t *testing.T) {
	ledger := NewLedger(entities.Inventory{"oxygen": 10, "gloves": 10}, 3)
	for _, d := range []struct {
		medicine string
		qty      entities.Quantity
	}{{"oxygen", 4}, {"gloves", 6}, {"gloves", 0}} {
		if err := ledger.Dispatch(d.medicine, d.qty); err != nil {
			t.Fatalf("Unexpected error dispatching %s: %v", d.medicine, err)
		}
	}

	if ledger.TotalAllocated() != 10 {
		t.Errorf("Expected 10 units allocated, got %d", ledger.TotalAllocated())
	}
	expected := map[string]entities.Quantity{"oxygen": 4, "gloves": 6}
	if !reflect.DeepEqual(ledger.Allocations(), expected) {
		t.Errorf("Expected allocations %v, got %v", expected, ledger.Allocations())
	}
	if ledger.Inventory()["gloves"] != 4 {
		t.Errorf("Expected 4 gloves remaining, got %d", ledger.Inventory()["gloves"])
	}

	ledger.Allocations()["oxygen"] = 99
	if ledger.TotalAllocated() != 10 {
		t.Errorf("Expected allocations copy to be independent")
	}
}
