// Package risk holds the domain scorers that turn raw facility readings into
// bounded 0-100 risk scores and tier labels.
package risk

import (
	"math"

	"github.com/shopspring/decimal"
)

// step maps a lower bound to the value returned when the input reaches it.
// Ladders are ordered from the highest bound down and the first match wins.
type step struct {
	min   float64
	value float64
}

func climb(v float64, ladder []step) (float64, bool) {
	for _, s := range ladder {
		if v >= s.min {
			return s.value, true
		}
	}
	return 0, false
}

// tier maps a lower bound to a label
type tier struct {
	min   float64
	label string
}

func classify(v float64, tiers []tier, floor string) string {
	for _, t := range tiers {
		if v >= t.min {
			return t.label
		}
	}
	return floor
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// ratio returns num/den*100, or 0 when den is not positive
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
