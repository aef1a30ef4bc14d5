package allocation

import (
	"reflect"
	"testing"

	"github.com/healsync/dispatch/pkg/application/dto"
	"github.com/healsync/dispatch/pkg/domain/entities"
)

func TestInventoryReport(t *testing.T) {
	testCases := []struct {
		name     string
		inv      entities.Inventory
		status   string
		critical []string
	}{
		{"empty", entities.Inventory{}, dto.StockEmpty, []string{}},
		{"healthy", entities.Inventory{"a": 500, "b": 400, "c": 300}, dto.StockHealthy, []string{}},
		{"critical", entities.Inventory{"a": 10, "b": 500, "c": 600}, dto.StockCritical, []string{"a"}},
		{"low", entities.Inventory{"a": 60, "b": 70, "c": 500}, dto.StockLow, []string{}},
		{"moderate", entities.Inventory{"a": 60, "b": 500, "c": 500}, dto.StockModerate, []string{}},
		{
			"critical items capped at five",
			entities.Inventory{"f": 1, "e": 1, "d": 1, "c": 1, "b": 1, "a": 1},
			dto.StockCritical,
			[]string{"a", "b", "c", "d", "e"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := InventoryReport(tc.inv)
			if got.Status != tc.status {
				t.Errorf("Expected status %s, got %s", tc.status, got.Status)
			}
			if !reflect.DeepEqual(got.CriticalItems, tc.critical) {
				t.Errorf("Expected critical items %v, got %v", tc.critical, got.CriticalItems)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	orders := []entities.OrderInput{
		entities.NewOrderInput("U1", "H", "oxygen", 10, entities.UrgencyUrgent, 90),
		entities.NewOrderInput("N1", "H", "oxygen", 10, entities.UrgencyNormal, 20),
		entities.NewOrderInput("S1", "H", "gloves", 10, entities.UrgencyLow, 10),
	}

	result := newTestEngine().Allocate(orders, entities.Inventory{"oxygen": 20, "gloves": 0, "masks": 500}, 1)

	expected := []string{
		"1 URGENT orders fulfilled immediately",
		"Total 1 orders dispatched",
		"2 orders pending - requires attention",
		"1 orders waiting for delivery vehicles",
		"1 orders pending due to low stock - restock needed",
		"RESTOCK ALERT: 2 items critically low: gloves, oxygen",
	}
	if !reflect.DeepEqual(result.Recommendations, expected) {
		t.Errorf("Expected %v, got %v", expected, result.Recommendations)
	}
}

func TestRecommendations_AllNormal(t *testing.T) {
	result := &dto.AllocationResult{FinalInventory: entities.Inventory{"oxygen": 500}}
	got := Recommendations(result)
	if len(got) != 1 || got[0] != "All operations normal. Inventory levels healthy." {
		t.Errorf("Expected all-normal recommendation, got %v", got)
	}
}
