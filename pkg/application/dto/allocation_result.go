package dto

import "github.com/healsync/dispatch/pkg/domain/entities"

// Stock level labels for the post-allocation inventory report
const (
	StockEmpty    = "EMPTY"
	StockCritical = "CRITICAL"
	StockLow      = "LOW"
	StockModerate = "MODERATE"
	StockHealthy  = "HEALTHY"
)

// AllocationResult contains the complete output of an allocation pass
type AllocationResult struct {
	RunID           string                       `json:"run_id,omitempty"`
	RankedOrders    []entities.SupplyOrder       `json:"ranked_orders"`
	FulfilledOrders []entities.AllocatedOrder    `json:"fulfilled_orders"`
	PendingOrders   []entities.AllocatedOrder    `json:"pending_orders"`
	Metrics         AllocationMetrics            `json:"metrics"`
	FinalInventory  entities.Inventory           `json:"final_inventory"`
	DispatchedUnits map[string]entities.Quantity `json:"dispatched_units"`
	InventoryStatus InventoryStatus              `json:"inventory_status"`
	Recommendations []string                     `json:"recommendations"`
}

// AllocationMetrics summarises an allocation pass
type AllocationMetrics struct {
	TotalOrders            int               `json:"total_orders"`
	FulfilledCount         int               `json:"fulfilled_count"`
	PendingCount           int               `json:"pending_count"`
	FulfillmentRatePercent float64           `json:"fulfillment_rate_percent"`
	VehiclesUsed           int               `json:"vehicles_used"`
	VehiclesAvailable      int               `json:"vehicles_available"`
	UnitsDispatched        entities.Quantity `json:"units_dispatched"`
}

// InventoryStatus describes stock health after an allocation pass
type InventoryStatus struct {
	Status             string   `json:"status"`
	TotalItems         int      `json:"total_items"`
	LowStockCount      int      `json:"low_stock_count"`
	CriticalStockCount int      `json:"critical_stock_count"`
	CriticalItems      []string `json:"critical_items"`
}

// Outcomes returns every allocated order, fulfilled first, in processing order within each list
func (r *AllocationResult) Outcomes() []entities.AllocatedOrder {
	out := make([]entities.AllocatedOrder, 0, len(r.FulfilledOrders)+len(r.PendingOrders))
	out = append(out, r.FulfilledOrders...)
	return append(out, r.PendingOrders...)
}
