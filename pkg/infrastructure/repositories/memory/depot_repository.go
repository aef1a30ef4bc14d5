package memory

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/healsync/dispatch/pkg/domain/entities"
	"github.com/healsync/dispatch/pkg/domain/repositories"
)

// DepotRepository provides in-memory depot storage
type DepotRepository struct {
	mu    sync.Mutex
	stock entities.Inventory
	fleet int
}

// Verify interface compliance
var _ repositories.DepotRepository = (*DepotRepository)(nil)

// NewDepotRepository creates a new in-memory depot seeded with stock and fleet
func NewDepotRepository(stock entities.Inventory, fleet int) (*DepotRepository, error) {
	r := &DepotRepository{stock: entities.Inventory{}}
	if err := r.SetStock(stock); err != nil {
		return nil, err
	}
	if err := r.SetFleet(fleet); err != nil {
		return nil, err
	}
	return r, nil
}

// Snapshot returns a copy of the current stock and fleet
func (r *DepotRepository) Snapshot() (repositories.DepotState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return repositories.DepotState{Inventory: r.stock.Clone(), Fleet: r.fleet}, nil
}

// SetStock replaces the stock wholesale
func (r *DepotRepository) SetStock(stock entities.Inventory) error {
	validated, err := entities.NewInventory(stock)
	if err != nil {
		return fmt.Errorf("%w: %v", repositories.ErrInvalidDepotUpdate, err)
	}
	r.mu.Lock()
	r.stock = validated
	r.mu.Unlock()
	return nil
}

// Restock adds units of one medicine and returns the new level
func (r *DepotRepository) Restock(medicine string, quantity entities.Quantity) (entities.Quantity, error) {
	if strings.TrimSpace(medicine) == "" {
		return 0, fmt.Errorf("%w: medicine name cannot be empty", repositories.ErrInvalidDepotUpdate)
	}
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: restock quantity for %s must be positive, got %d", repositories.ErrInvalidDepotUpdate, medicine, quantity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if quantity > entities.Quantity(math.MaxInt64)-r.stock[medicine] {
		return 0, fmt.Errorf("%w: restocking %d %s would overflow the %d on hand", repositories.ErrInvalidDepotUpdate, quantity, medicine, r.stock[medicine])
	}
	r.stock[medicine] += quantity
	return r.stock[medicine], nil
}

// SetFleet sets the number of vehicles per delivery cycle
func (r *DepotRepository) SetFleet(vehicles int) error {
	if vehicles < 0 {
		return fmt.Errorf("%w: fleet size cannot be negative, got %d", repositories.ErrInvalidDepotUpdate, vehicles)
	}
	r.mu.Lock()
	r.fleet = vehicles
	r.mu.Unlock()
	return nil
}

// Commit runs fn while holding the depot lock
func (r *DepotRepository) Commit(fn repositories.PassFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	remaining, err := fn(r.stock.Clone(), r.fleet)
	if err != nil {
		return fmt.Errorf("allocation pass failed: %w", err)
	}
	validated, err := entities.NewInventory(remaining)
	if err != nil {
		return fmt.Errorf("allocation pass left invalid stock: %w", err)
	}
	r.stock = validated
	return nil
}
