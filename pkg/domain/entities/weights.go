package entities

import (
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultCriticality is the weight of a medicine absent from the criticality table
	DefaultCriticality = 50.0
	// FallbackUrgencyWeight is the weight of an unrecognised urgency label
	FallbackUrgencyWeight = 25.0
)

// WeightTables holds the criticality and urgency weights used by the priority scorer.
// It is built once and never mutated; lookups are case-insensitive.
type WeightTables struct {
	criticality        map[string]float64
	urgency            map[Urgency]float64
	defaultCriticality float64
}

// DefaultWeightTables returns the standard HealSync weights
func DefaultWeightTables() WeightTables {
	tables, err := NewWeightTables(
		map[string]float64{
			"oxygen":           100,
			"iv_fluids":        95,
			"antibiotics":      90,
			"covid_medicine":   90,
			"dengue_medicine":  85,
			"malaria_medicine": 85,
			"typhoid_medicine": 85,
			"antimalarial":     75,
			"antivirals":       75,
			"flu_medicine":     70,
			"paracetamol":      60,
			"syringes":         50,
			"bandages":         40,
			"surgical_masks":   40,
			"gloves":           35,
			DefaultMedicine:    DefaultCriticality,
		},
		map[string]float64{
			string(UrgencyUrgent): 100,
			string(UrgencyHigh):   75,
			string(UrgencyMedium): 50,
			string(UrgencyNormal): 25,
			string(UrgencyLow):    10,
		},
	)
	if err != nil {
		panic(fmt.Sprintf("default weight tables are invalid: %v", err))
	}
	return tables
}

// NewWeightTables creates validated tables. Every weight must lie in [0, 100].
// A "default" criticality entry overrides the built-in default for unknown medicines.
func NewWeightTables(criticality map[string]float64, urgency map[string]float64) (WeightTables, error) {
	tables := WeightTables{
		criticality:        make(map[string]float64, len(criticality)),
		urgency:            make(map[Urgency]float64, len(urgency)),
		defaultCriticality: DefaultCriticality,
	}

	for name, weight := range criticality {
		key := NormalizeMedicine(name)
		if key == "" {
			return WeightTables{}, fmt.Errorf("criticality table contains an empty medicine name")
		}
		if err := validateWeight(weight); err != nil {
			return WeightTables{}, fmt.Errorf("criticality for %s: %w", name, err)
		}
		if key == DefaultMedicine {
			tables.defaultCriticality = weight
		}
		tables.criticality[key] = weight
	}

	for label, weight := range urgency {
		key := Urgency(label).Normalize()
		if key == "" {
			return WeightTables{}, fmt.Errorf("urgency table contains an empty label")
		}
		if err := validateWeight(weight); err != nil {
			return WeightTables{}, fmt.Errorf("urgency weight for %s: %w", label, err)
		}
		tables.urgency[key] = weight
	}

	return tables, nil
}

func validateWeight(w float64) error {
	if math.IsNaN(w) || w < 0 || w > 100 {
		return fmt.Errorf("weight must be between 0 and 100, got %v", w)
	}
	return nil
}

// Criticality returns the weight for a medicine, or the default for unknown names
func (w WeightTables) Criticality(medicine string) float64 {
	if weight, ok := w.criticality[NormalizeMedicine(medicine)]; ok {
		return weight
	}
	return w.defaultCriticality
}

// UrgencyWeight returns the weight for an urgency label, or the fallback for unknown labels
func (w WeightTables) UrgencyWeight(label Urgency) float64 {
	if weight, ok := w.urgency[label.Normalize()]; ok {
		return weight
	}
	return FallbackUrgencyWeight
}

// Medicines lists the medicines with an explicit criticality weight
func (w WeightTables) Medicines() []string {
	names := make([]string, 0, len(w.criticality))
	for name := range w.criticality {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsZero reports whether the tables were never initialised
func (w WeightTables) IsZero() bool {
	return w.criticality == nil && w.urgency == nil
}
