package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Inventory maps medicine name to units on hand. Keys match order medicine names exactly.
type Inventory map[string]Quantity

// NewInventory creates a validated Inventory from the given stock levels
func NewInventory(stock map[string]Quantity) (Inventory, error) {
	inv := make(Inventory, len(stock))
	for name, qty := range stock {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("medicine name cannot be empty")
		}
		if qty < 0 {
			return nil, fmt.Errorf("quantity for %s cannot be negative, got %d", name, qty)
		}
		inv[name] = qty
	}
	return inv, nil
}

// Clone returns an independent copy
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for name, qty := range inv {
		out[name] = qty
	}
	return out
}

// Available returns the units on hand for a medicine, zero when absent
func (inv Inventory) Available(medicine string) Quantity {
	return inv[medicine]
}

// TotalUnits sums every stock level
func (inv Inventory) TotalUnits() Quantity {
	var total Quantity
	for _, qty := range inv {
		total += qty
	}
	return total
}

// Medicines returns the stocked medicine names in sorted order
func (inv Inventory) Medicines() []string {
	names := make([]string, 0, len(inv))
	for name := range inv {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Below returns the sorted names whose stock is strictly below the threshold
func (inv Inventory) Below(threshold Quantity) []string {
	var names []string
	for _, name := range inv.Medicines() {
		if inv[name] < threshold {
			names = append(names, name)
		}
	}
	return names
}
