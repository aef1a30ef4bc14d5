package dto

import (
	"github.com/healsync/dispatch/pkg/domain/entities"
	"github.com/healsync/dispatch/pkg/domain/services/risk"
)

// PharmacyRestockResult pairs a pharmacy demand report with the dispatch of
// its pre-emptive orders. Allocation is nil when no order was raised.
type PharmacyRestockResult struct {
	PharmacyID string                `json:"pharmacy_id"`
	Demand     risk.DemandReport     `json:"demand"`
	Orders     []entities.OrderInput `json:"orders"`
	Allocation *AllocationResult     `json:"allocation,omitempty"`
}
