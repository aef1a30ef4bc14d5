// Package allocation ranks supply orders and fulfils them greedily against a
// shared inventory and a fleet of delivery vehicles.
package allocation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/healsync/dispatch/pkg/application/dto"
	"github.com/healsync/dispatch/pkg/domain/entities"
	"github.com/healsync/dispatch/pkg/domain/services"
)

// Engine performs priority-ordered greedy allocation
type Engine struct {
	scorer *services.PriorityScorer
	now    func() time.Time
}

// NewEngine creates an engine using the given scorer and the wall clock
func NewEngine(scorer *services.PriorityScorer) *Engine {
	return NewEngineWithClock(scorer, time.Now)
}

// NewEngineWithClock creates an engine with an injected clock
func NewEngineWithClock(scorer *services.PriorityScorer, now func() time.Time) *Engine {
	if scorer == nil {
		scorer = services.NewPriorityScorer(entities.DefaultWeightTables())
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{scorer: scorer, now: now}
}

// Rank applies defaults, scores every order and sorts by descending priority.
// Orders with equal scores keep their submission order.
func (e *Engine) Rank(orders []entities.OrderInput) []entities.SupplyOrder {
	now := e.now()
	ranked := make([]entities.SupplyOrder, len(orders))
	for i, in := range orders {
		ranked[i] = e.scorer.ScoreOrder(in.Normalize(i, now))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})
	return ranked
}

// Allocate ranks the orders and walks them once, fulfilling each against the
// remaining stock and vehicles. The caller's inventory is never modified.
func (e *Engine) Allocate(orders []entities.OrderInput, inventory entities.Inventory, capacity int) *dto.AllocationResult {
	ranked := e.Rank(orders)
	ledger := NewLedger(inventory, capacity)
	dispatchedAt := e.now()

	result := &dto.AllocationResult{
		RankedOrders:    ranked,
		FulfilledOrders: []entities.AllocatedOrder{},
		PendingOrders:   []entities.AllocatedOrder{},
	}

	for _, order := range ranked {
		outcome := classify(order, ledger, dispatchedAt)
		if outcome.Dispatched() {
			result.FulfilledOrders = append(result.FulfilledOrders, outcome)
		} else {
			result.PendingOrders = append(result.PendingOrders, outcome)
		}
	}

	result.FinalInventory = ledger.Inventory()
	result.DispatchedUnits = ledger.Allocations()
	result.Metrics = dto.AllocationMetrics{
		TotalOrders:            len(ranked),
		FulfilledCount:         len(result.FulfilledOrders),
		PendingCount:           len(result.PendingOrders),
		FulfillmentRatePercent: fulfillmentRate(len(result.FulfilledOrders), len(ranked)),
		VehiclesUsed:           ledger.VehiclesUsed(),
		VehiclesAvailable:      ledger.VehiclesAvailable(),
		UnitsDispatched:        ledger.TotalAllocated(),
	}
	result.InventoryStatus = InventoryReport(result.FinalInventory)
	result.Recommendations = Recommendations(result)
	return result
}

// classify decides one order's outcome and updates the ledger for dispatched orders
func classify(order entities.SupplyOrder, ledger *Ledger, now time.Time) entities.AllocatedOrder {
	available := ledger.Available(order.Medicine)
	out := entities.AllocatedOrder{
		SupplyOrder:       order,
		RequestedQuantity: order.Quantity,
		AvailableStock:    available,
	}

	switch {
	case available >= order.Quantity && ledger.HasVehicle():
		mustDispatch(ledger, order.Medicine, order.Quantity)
		out.Status = entities.Fulfilled
		out.AllocatedQuantity = order.Quantity
		out.EstimatedDelivery = deliveryEstimate(order.Urgency)
		out.FulfilledAt = &now

	case available > 0 && available < order.Quantity && ledger.HasVehicle():
		mustDispatch(ledger, order.Medicine, available)
		out.Status = entities.Partial
		out.AllocatedQuantity = available
		out.Shortage = order.Quantity - available
		out.EstimatedDelivery = deliveryEstimate(order.Urgency)
		out.FulfilledAt = &now

	case available >= order.Quantity:
		// stock covers the order but the fleet is exhausted
		out.Status = entities.Pending
		out.Reason = entities.ReasonNoVehicles
		out.EstimatedDelivery = entities.DeliveryNextCycle

	default:
		out.Status = entities.Pending
		out.Reason = entities.ReasonInsufficientStock
		out.Shortage = order.Quantity - available
	}

	return out
}

// mustDispatch records a dispatch that classify has already checked against
// the ledger; an error here means the ledger and the checks disagree
func mustDispatch(ledger *Ledger, medicine string, qty entities.Quantity) {
	if err := ledger.Dispatch(medicine, qty); err != nil {
		panic(fmt.Sprintf("allocation ledger out of step: %v", err))
	}
}

func deliveryEstimate(u entities.Urgency) string {
	if u.Normalize() == entities.UrgencyUrgent {
		return entities.DeliveryUrgent
	}
	return entities.DeliveryStandard
}

// fulfillmentRate returns dispatched/total as a percentage rounded to one decimal, 0 for an empty batch
func fulfillmentRate(dispatched, total int) float64 {
	if total == 0 {
		return 0
	}
	rate, _ := decimal.NewFromInt(int64(dispatched)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		Float64()
	return rate
}
