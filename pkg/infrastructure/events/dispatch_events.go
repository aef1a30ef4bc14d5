package events

import (
	"github.com/healsync/dispatch/pkg/application/dto"
	"github.com/healsync/dispatch/pkg/domain/entities"
)

const (
	OrderFulfilledEvent = "order.fulfilled"
	OrderPartialEvent   = "order.partial"
	OrderPendingEvent   = "order.pending"

	AllocationCompletedEvent = "allocation.completed"

	DepotRestockedEvent = "depot.restocked"

	OutbreakDetectedEvent  = "outbreak.detected"
	ResourceRequestedEvent = "resource.requested"
	AdvisoryIssuedEvent    = "advisory.issued"
)

// OrderOutcome is published once per order of an allocation run
type OrderOutcome struct {
	RunID string                  `json:"run_id"`
	Order entities.AllocatedOrder `json:"order"`
}

type AllocationCompleted struct {
	RunID           string                `json:"run_id"`
	Metrics         dto.AllocationMetrics `json:"metrics"`
	InventoryStatus dto.InventoryStatus   `json:"inventory_status"`
}

type DepotRestocked struct {
	Medicine string            `json:"medicine"`
	Added    entities.Quantity `json:"added"`
	OnHand   entities.Quantity `json:"on_hand"`
}

type OutbreakDetected struct {
	Disease           string  `json:"disease"`
	RiskLevel         string  `json:"risk_level"`
	Score             float64 `json:"score"`
	PredictedCases24h int64   `json:"predicted_cases_24h"`
}

type ResourceRequested struct {
	HospitalID  string           `json:"hospital_id,omitempty"`
	HSIScore    float64          `json:"hsi_score"`
	StrainLevel string           `json:"strain_level"`
	Urgency     entities.Urgency `json:"urgency"`
}

type AdvisoryIssued struct {
	Severity string  `json:"severity"`
	CPSScore float64 `json:"cps_score"`
	Source   string  `json:"source"`
	Advisory string  `json:"advisory"`
}

// OrderEventType maps an allocation outcome to its event type
func OrderEventType(status entities.FulfillmentStatus) string {
	switch status {
	case entities.Fulfilled:
		return OrderFulfilledEvent
	case entities.Partial:
		return OrderPartialEvent
	default:
		return OrderPendingEvent
	}
}

// AllocationEvents builds the events for a run: one per order in processing
// order, then the completion summary. All share the run ID as stream.
func AllocationEvents(result *dto.AllocationResult) []Event {
	outcomes := result.Outcomes()
	byID := make(map[int]entities.AllocatedOrder, len(outcomes))
	for _, o := range outcomes {
		byID[o.Sequence] = o
	}

	out := make([]Event, 0, len(outcomes)+1)
	for _, ranked := range result.RankedOrders {
		o, ok := byID[ranked.Sequence]
		if !ok {
			continue
		}
		out = append(out, NewEvent(OrderEventType(o.Status), result.RunID, OrderOutcome{RunID: result.RunID, Order: o}))
	}

	out = append(out, NewEvent(AllocationCompletedEvent, result.RunID, AllocationCompleted{
		RunID:           result.RunID,
		Metrics:         result.Metrics,
		InventoryStatus: result.InventoryStatus,
	}))
	return out
}
