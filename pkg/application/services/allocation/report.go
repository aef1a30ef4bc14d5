package allocation

import (
	"fmt"
	"strings"

	"github.com/healsync/dispatch/pkg/application/dto"
	"github.com/healsync/dispatch/pkg/domain/entities"
)

const (
	// LowStockThreshold marks an item as running low
	LowStockThreshold entities.Quantity = 100
	// CriticalStockThreshold marks an item as critically low
	CriticalStockThreshold entities.Quantity = 50

	maxReportedCritical = 5
	maxRestockAlerts    = 3
)

// InventoryReport grades the stock left after a pass
func InventoryReport(inv entities.Inventory) dto.InventoryStatus {
	if len(inv) == 0 {
		return dto.InventoryStatus{Status: dto.StockEmpty, CriticalItems: []string{}}
	}

	total := len(inv)
	low := inv.Below(LowStockThreshold)
	critical := inv.Below(CriticalStockThreshold)

	status := dto.StockHealthy
	switch {
	case float64(len(critical)) > float64(total)*0.3:
		status = dto.StockCritical
	case float64(len(low)) > float64(total)*0.5:
		status = dto.StockLow
	case float64(len(low)) > float64(total)*0.3:
		status = dto.StockModerate
	}

	items := critical
	if len(items) > maxReportedCritical {
		items = items[:maxReportedCritical]
	}
	if items == nil {
		items = []string{}
	}

	return dto.InventoryStatus{
		Status:             status,
		TotalItems:         total,
		LowStockCount:      len(low),
		CriticalStockCount: len(critical),
		CriticalItems:      items,
	}
}

// Recommendations summarises the outcome of a pass as operator guidance
func Recommendations(r *dto.AllocationResult) []string {
	var recs []string

	if len(r.FulfilledOrders) > 0 {
		urgent := 0
		for _, o := range r.FulfilledOrders {
			if o.Urgency.Normalize() == entities.UrgencyUrgent {
				urgent++
			}
		}
		if urgent > 0 {
			recs = append(recs, fmt.Sprintf("%d URGENT orders fulfilled immediately", urgent))
		}
		recs = append(recs, fmt.Sprintf("Total %d orders dispatched", len(r.FulfilledOrders)))
	}

	if len(r.PendingOrders) > 0 {
		recs = append(recs, fmt.Sprintf("%d orders pending - requires attention", len(r.PendingOrders)))

		var noVehicle, noStock int
		for _, o := range r.PendingOrders {
			switch o.Reason {
			case entities.ReasonNoVehicles:
				noVehicle++
			case entities.ReasonInsufficientStock:
				noStock++
			}
		}
		if noVehicle > 0 {
			recs = append(recs, fmt.Sprintf("%d orders waiting for delivery vehicles", noVehicle))
		}
		if noStock > 0 {
			recs = append(recs, fmt.Sprintf("%d orders pending due to low stock - restock needed", noStock))
		}
	}

	if critical := r.FinalInventory.Below(CriticalStockThreshold); len(critical) > 0 {
		shown := critical
		if len(shown) > maxRestockAlerts {
			shown = shown[:maxRestockAlerts]
		}
		recs = append(recs, fmt.Sprintf("RESTOCK ALERT: %d items critically low: %s", len(critical), strings.Join(shown, ", ")))
	}

	if len(recs) == 0 {
		recs = append(recs, "All operations normal. Inventory levels healthy.")
	}
	return recs
}
