package entities

import "strings"

// Quantity represents a whole number of medicine units
type Quantity int64

// DefaultMedicine is the medicine name used when an order omits one
const DefaultMedicine = "default"

// Urgency is the urgency label attached to a supply order.
// Labels outside the known set are kept as supplied and weighted with the fallback value.
type Urgency string

const (
	UrgencyUrgent Urgency = "URGENT"
	UrgencyHigh   Urgency = "HIGH"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyNormal Urgency = "NORMAL"
	UrgencyLow    Urgency = "LOW"
)

// KnownUrgencies lists the recognised urgency labels from most to least urgent
var KnownUrgencies = []Urgency{UrgencyUrgent, UrgencyHigh, UrgencyMedium, UrgencyNormal, UrgencyLow}

// Normalize returns the upper-cased, trimmed form used for table lookups
func (u Urgency) Normalize() Urgency {
	return Urgency(strings.ToUpper(strings.TrimSpace(string(u))))
}

// NormalizeMedicine returns the lower-cased, trimmed medicine name used for criticality lookups
func NormalizeMedicine(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
