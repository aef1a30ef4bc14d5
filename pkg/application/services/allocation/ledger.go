package allocation

import (
	"fmt"

	"github.com/healsync/dispatch/pkg/domain/entities"
)

// Ledger tracks the stock and vehicles remaining during one allocation pass.
// It owns a private copy of the inventory and is not safe for concurrent use.
type Ledger struct {
	stock     entities.Inventory
	allocated map[string]entities.Quantity
	vehicles  int
	used      int
}

// NewLedger creates a ledger over a copy of the inventory. Negative capacity is treated as zero.
func NewLedger(inventory entities.Inventory, capacity int) *Ledger {
	if capacity < 0 {
		capacity = 0
	}
	return &Ledger{
		stock:     inventory.Clone(),
		allocated: make(map[string]entities.Quantity),
		vehicles:  capacity,
	}
}

// Available returns the stock remaining for a medicine
func (l *Ledger) Available(medicine string) entities.Quantity {
	return l.stock.Available(medicine)
}

// HasVehicle reports whether a vehicle remains
func (l *Ledger) HasVehicle() bool {
	return l.vehicles > 0
}

// Dispatch removes qty units of a medicine and one vehicle
func (l *Ledger) Dispatch(medicine string, qty entities.Quantity) error {
	if l.vehicles <= 0 {
		return fmt.Errorf("no vehicle available to dispatch %s", medicine)
	}
	if qty < 0 || qty > l.stock[medicine] {
		return fmt.Errorf("cannot dispatch %d %s with %d in stock", qty, medicine, l.stock[medicine])
	}
	if _, ok := l.stock[medicine]; ok {
		l.stock[medicine] -= qty
	}
	if qty > 0 {
		l.allocated[medicine] += qty
	}
	l.vehicles--
	l.used++
	return nil
}

// VehiclesAvailable returns the vehicles not yet dispatched
func (l *Ledger) VehiclesAvailable() int {
	return l.vehicles
}

// VehiclesUsed returns the vehicles dispatched so far
func (l *Ledger) VehiclesUsed() int {
	return l.used
}

// Allocations returns a copy of the units dispatched per medicine
func (l *Ledger) Allocations() map[string]entities.Quantity {
	out := make(map[string]entities.Quantity, len(l.allocated))
	for name, qty := range l.allocated {
		out[name] = qty
	}
	return out
}

// TotalAllocated returns the units dispatched across all medicines
func (l *Ledger) TotalAllocated() entities.Quantity {
	var total entities.Quantity
	for _, qty := range l.allocated {
		total += qty
	}
	return total
}

// Inventory returns a copy of the remaining stock
func (l *Ledger) Inventory() entities.Inventory {
	return l.stock.Clone()
}
