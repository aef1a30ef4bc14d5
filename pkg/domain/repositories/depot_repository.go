package repositories

import (
	"errors"

	"github.com/healsync/dispatch/pkg/domain/entities"
)

// ErrInvalidDepotUpdate is returned when a stock, restock or fleet change is rejected
var ErrInvalidDepotUpdate = errors.New("invalid depot update")

// DepotState is a point-in-time copy of the depot
type DepotState struct {
	Inventory entities.Inventory `json:"inventory"`
	Fleet     int                `json:"fleet"`
}

// PassFunc runs one allocation pass against the depot's stock and fleet and
// returns the stock left afterwards
type PassFunc func(stock entities.Inventory, fleet int) (entities.Inventory, error)

// DepotRepository provides access to the shared medicine stock and delivery fleet.
// The fleet is the number of vehicles available per delivery cycle.
type DepotRepository interface {
	Snapshot() (DepotState, error)
	SetStock(stock entities.Inventory) error
	Restock(medicine string, quantity entities.Quantity) (entities.Quantity, error)
	SetFleet(vehicles int) error
	// Commit serialises passes: fn sees a private copy of the stock and its
	// result replaces the stored stock only when fn succeeds
	Commit(fn PassFunc) error
}
