package entities

import (
	"fmt"
	"math"
	"time"
)

// FulfillmentStatus represents the outcome of an order in an allocation pass
type FulfillmentStatus int

const (
	Fulfilled FulfillmentStatus = iota
	Partial
	Pending
)

// String method for FulfillmentStatus enum
func (s FulfillmentStatus) String() string {
	switch s {
	case Fulfilled:
		return "FULFILLED"
	case Partial:
		return "PARTIAL"
	case Pending:
		return "PENDING"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the status as its label
func (s FulfillmentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status label
func (s *FulfillmentStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "FULFILLED":
		*s = Fulfilled
	case "PARTIAL":
		*s = Partial
	case "PENDING":
		*s = Pending
	default:
		return fmt.Errorf("unknown fulfillment status %q", string(text))
	}
	return nil
}

// Defaults applied to orders that omit optional fields
const (
	DefaultUrgency         = UrgencyNormal
	DefaultRequesterStrain = 50.0
)

// Pending reasons and delivery estimates
const (
	ReasonNoVehicles        = "No delivery vehicles available"
	ReasonInsufficientStock = "Insufficient inventory"
	DeliveryUrgent          = "4-8 hours"
	DeliveryStandard        = "24 hours"
	DeliveryNextCycle       = "Next delivery cycle"
)

// OrderInput is a supply order as submitted by a requester.
// Optional fields are pointers so that a missing value can be told apart from zero.
type OrderInput struct {
	OrderID         string     `json:"order_id"`
	RequesterID     string     `json:"requester_id"`
	Medicine        *string    `json:"medicine,omitempty"`
	Quantity        *Quantity  `json:"quantity,omitempty"`
	Urgency         *string    `json:"urgency,omitempty"`
	RequesterStrain *float64   `json:"requester_strain,omitempty"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
}

// SupplyOrder is an order with defaults applied and its priority score attached
type SupplyOrder struct {
	OrderID         string    `json:"order_id"`
	RequesterID     string    `json:"requester_id"`
	Medicine        string    `json:"medicine"`
	Quantity        Quantity  `json:"quantity"`
	Urgency         Urgency   `json:"urgency"`
	RequesterStrain float64   `json:"requester_strain"`
	Timestamp       time.Time `json:"timestamp"`
	PriorityScore   float64   `json:"priority_score"`
	Sequence        int       `json:"-"`
}

// Normalize applies defaults to missing fields. The timestamp is set to now when absent.
// Negative quantities are treated as zero and a NaN strain as missing.
func (in OrderInput) Normalize(sequence int, now time.Time) SupplyOrder {
	order := SupplyOrder{
		OrderID:         in.OrderID,
		RequesterID:     in.RequesterID,
		Medicine:        DefaultMedicine,
		Urgency:         DefaultUrgency,
		RequesterStrain: DefaultRequesterStrain,
		Timestamp:       now,
		Sequence:        sequence,
	}
	if in.Medicine != nil {
		order.Medicine = *in.Medicine
	}
	if in.Quantity != nil && *in.Quantity > 0 {
		order.Quantity = *in.Quantity
	}
	if in.Urgency != nil {
		order.Urgency = Urgency(*in.Urgency)
	}
	if in.RequesterStrain != nil && !math.IsNaN(*in.RequesterStrain) {
		order.RequesterStrain = *in.RequesterStrain
	}
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		order.Timestamp = *in.Timestamp
	}
	return order
}

// NewOrderInput builds an input with every field present
func NewOrderInput(orderID, requesterID, medicine string, quantity Quantity, urgency Urgency, strain float64) OrderInput {
	u := string(urgency)
	return OrderInput{
		OrderID:         orderID,
		RequesterID:     requesterID,
		Medicine:        &medicine,
		Quantity:        &quantity,
		Urgency:         &u,
		RequesterStrain: &strain,
	}
}

// AllocatedOrder is the outcome record for one order of an allocation pass
type AllocatedOrder struct {
	SupplyOrder
	Status            FulfillmentStatus `json:"status"`
	RequestedQuantity Quantity          `json:"requested_quantity"`
	AllocatedQuantity Quantity          `json:"allocated_quantity"`
	Shortage          Quantity          `json:"shortage,omitempty"`
	AvailableStock    Quantity          `json:"available_stock"`
	Reason            string            `json:"reason,omitempty"`
	EstimatedDelivery string            `json:"estimated_delivery,omitempty"`
	FulfilledAt       *time.Time        `json:"fulfilled_at,omitempty"`
}

// Dispatched reports whether the order consumed a vehicle
func (a AllocatedOrder) Dispatched() bool {
	return a.Status == Fulfilled || a.Status == Partial
}
