package risk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/healsync/dispatch/pkg/domain/entities"
)

// Demand levels
const (
	DemandSurge  = "SURGE"
	DemandHigh   = "HIGH"
	DemandMedium = "MEDIUM"
	DemandLow    = "LOW"
)

// Inventory health statuses
const (
	HealthExcellent = "EXCELLENT"
	HealthGood      = "GOOD"
	HealthFair      = "FAIR"
	HealthPoor      = "POOR"
	HealthCritical  = "CRITICAL"
	HealthUnknown   = "UNKNOWN"
)

// NoConsumptionDays is reported as days remaining when nothing is being consumed
const NoConsumptionDays = 999.0

const (
	outbreakMultiplier = 2.0
	minPreemptiveOrder = 100
	outbreakSupplyDays = 14
	standardSupplyDays = 10
	lowStockDays       = 7
	criticalStockDays  = 3
)

var (
	demandTiers  = []tier{{0.80, DemandSurge}, {0.60, DemandHigh}, {0.40, DemandMedium}}
	healthTiers  = []tier{{80, HealthExcellent}, {60, HealthGood}, {40, HealthFair}, {20, HealthPoor}}
	reorderPoint = map[string]int64{DemandSurge: 200, DemandHigh: 150, DemandMedium: 100, DemandLow: 50}

	// outbreakMedicines lists the medicines whose demand rises during an outbreak of each disease
	outbreakMedicines = map[string][]string{
		"dengue":    {"dengue_medicine", "paracetamol", "iv_fluids"},
		"malaria":   {"malaria_medicine", "antimalarial", "iv_fluids"},
		"covid":     {"covid_medicine", "oxygen", "antibiotics", "paracetamol"},
		"typhoid":   {"typhoid_medicine", "antibiotics", "iv_fluids"},
		"influenza": {"flu_medicine", "antivirals", "paracetamol"},
	}
)

// DemandInput carries a pharmacy's stock and daily consumption per medicine
type DemandInput struct {
	Stocks         map[string]int64 `json:"medicine_stocks"`
	Consumption    map[string]int64 `json:"consumption_rates"`
	OutbreakAlerts []string         `json:"outbreak_alerts"`
}

// MedicineDemand is the classification of one medicine
type MedicineDemand struct {
	Medicine         string  `json:"medicine"`
	CurrentStock     int64   `json:"current_stock"`
	DailyConsumption int64   `json:"daily_consumption"`
	ConsumptionRate  float64 `json:"consumption_rate"`
	DemandLevel      string  `json:"demand_level"`
	DaysRemaining    float64 `json:"days_remaining"`
	ReorderPoint     int64   `json:"reorder_point"`
	NeedsOrder       bool    `json:"needs_order"`
	OutbreakAffected bool    `json:"outbreak_affected"`
}

// PreemptiveOrder is a supply order raised ahead of a stockout
type PreemptiveOrder struct {
	Medicine              string           `json:"medicine"`
	OrderQuantity         int64            `json:"order_quantity"`
	Urgency               entities.Urgency `json:"urgency"`
	Reason                string           `json:"reason"`
	CurrentStock          int64            `json:"current_stock"`
	DailyConsumption      int64            `json:"daily_consumption"`
	OutbreakRelated       bool             `json:"outbreak_related"`
	EstimatedStockoutDays float64          `json:"estimated_stockout_days"`
}

// InventoryHealth rolls the classifications up into a single score
type InventoryHealth struct {
	Status          string  `json:"status"`
	Score           float64 `json:"score"`
	SurgeItems      int     `json:"surge_items"`
	HighDemandItems int     `json:"high_demand_items"`
	LowStockItems   int     `json:"low_stock_items"`
}

// DemandReport is the full pharmacy demand assessment
type DemandReport struct {
	Classifications       []MedicineDemand  `json:"classifications"`
	PreemptiveOrders      []PreemptiveOrder `json:"preemptive_orders"`
	InventoryHealth       InventoryHealth   `json:"inventory_health"`
	CriticalMedicines     []string          `json:"critical_medicines"`
	TotalMedicines        int               `json:"total_medicines"`
	MedicinesNeedingOrder int               `json:"medicines_needing_order"`
	Recommendations       []string          `json:"recommendations"`
	Strain                float64           `json:"pharmacy_strain"`
}

// DemandClassifier classifies medicine demand from stock and consumption
type DemandClassifier struct{}

// NewDemandClassifier creates a new DemandClassifier
func NewDemandClassifier() *DemandClassifier {
	return &DemandClassifier{}
}

// Classify evaluates every stocked medicine in name order
func (c *DemandClassifier) Classify(in DemandInput) DemandReport {
	names := make([]string, 0, len(in.Stocks))
	for name := range in.Stocks {
		names = append(names, name)
	}
	sort.Strings(names)

	report := DemandReport{
		Classifications:   make([]MedicineDemand, 0, len(names)),
		PreemptiveOrders:  []PreemptiveOrder{},
		CriticalMedicines: []string{},
	}

	for _, name := range names {
		stock := in.Stocks[name]
		consumption := in.Consumption[name]
		affected := outbreakAffected(name, in.OutbreakAlerts)

		rate := 1.0
		if stock > 0 {
			rate = float64(consumption) / float64(stock)
		}
		if affected {
			rate *= outbreakMultiplier
		}
		rate = clamp(rate, 0, 1)

		level := classify(rate, demandTiers, DemandLow)
		days := daysRemaining(stock, consumption)

		demand := MedicineDemand{
			Medicine:         name,
			CurrentStock:     stock,
			DailyConsumption: consumption,
			ConsumptionRate:  round(rate, 3),
			DemandLevel:      level,
			DaysRemaining:    round(days, 1),
			ReorderPoint:     reorderPoint[level],
			NeedsOrder:       stock < reorderPoint[level],
			OutbreakAffected: affected,
		}
		report.Classifications = append(report.Classifications, demand)

		if level == DemandSurge || level == DemandHigh {
			report.CriticalMedicines = append(report.CriticalMedicines, name)
		}
		if demand.NeedsOrder {
			report.MedicinesNeedingOrder++
		}
		if level == DemandSurge {
			report.PreemptiveOrders = append(report.PreemptiveOrders, preemptiveOrder(demand))
		}
	}

	report.TotalMedicines = len(report.Classifications)
	report.InventoryHealth = inventoryHealth(report.Classifications)
	report.Strain = PharmacyStrain(report.InventoryHealth)
	report.Recommendations = demandRecommendations(report)
	return report
}

// PharmacyStrain converts an inventory health score into a requester strain.
// A pharmacy with nothing classified reports the default strain.
func PharmacyStrain(h InventoryHealth) float64 {
	if h.Status == HealthUnknown {
		return entities.DefaultRequesterStrain
	}
	return round(clamp(100-h.Score, 0, 100), 1)
}

func outbreakAffected(medicine string, alerts []string) bool {
	for _, disease := range alerts {
		for _, m := range outbreakMedicines[strings.ToLower(strings.TrimSpace(disease))] {
			if m == medicine {
				return true
			}
		}
	}
	return false
}

func daysRemaining(stock, consumption int64) float64 {
	if consumption <= 0 {
		return NoConsumptionDays
	}
	return float64(stock) / float64(consumption)
}

func preemptiveOrder(d MedicineDemand) PreemptiveOrder {
	supplyDays := int64(standardSupplyDays)
	if d.OutbreakAffected {
		supplyDays = outbreakSupplyDays
	}
	qty := d.DailyConsumption * supplyDays
	if qty < minPreemptiveOrder {
		qty = minPreemptiveOrder
	}
	return PreemptiveOrder{
		Medicine:              d.Medicine,
		OrderQuantity:         qty,
		Urgency:               entities.UrgencyUrgent,
		Reason:                fmt.Sprintf("Pre-emptive order: %s demand detected", d.DemandLevel),
		CurrentStock:          d.CurrentStock,
		DailyConsumption:      d.DailyConsumption,
		OutbreakRelated:       d.OutbreakAffected,
		EstimatedStockoutDays: round(daysRemaining(d.CurrentStock, d.DailyConsumption), 1),
	}
}

func inventoryHealth(classifications []MedicineDemand) InventoryHealth {
	if len(classifications) == 0 {
		return InventoryHealth{Status: HealthUnknown}
	}

	var surge, high, low int
	for _, c := range classifications {
		switch c.DemandLevel {
		case DemandSurge:
			surge++
		case DemandHigh:
			high++
		}
		if c.DaysRemaining < lowStockDays {
			low++
		}
	}

	total := float64(len(classifications))
	score := 100 - float64(surge)/total*50 - float64(high)/total*30 - float64(low)/total*20

	return InventoryHealth{
		Status:          classify(score, healthTiers, HealthCritical),
		Score:           round(score, 1),
		SurgeItems:      surge,
		HighDemandItems: high,
		LowStockItems:   low,
	}
}

func demandRecommendations(r DemandReport) []string {
	var recs []string

	var surge, critical, affected []string
	for _, c := range r.Classifications {
		if c.DemandLevel == DemandSurge {
			surge = append(surge, c.Medicine)
		}
		if c.DaysRemaining < criticalStockDays {
			critical = append(critical, c.Medicine)
		}
		if c.OutbreakAffected {
			affected = append(affected, c.Medicine)
		}
	}

	if len(surge) > 0 {
		shown := surge
		if len(shown) > 3 {
			shown = shown[:3]
		}
		recs = append(recs, fmt.Sprintf("SURGE DEMAND: Immediate orders placed for %d medicines: %s", len(surge), strings.Join(shown, ", ")))
	}
	if len(critical) > 0 {
		recs = append(recs, fmt.Sprintf("CRITICAL: %d medicines have <3 days stock remaining", len(critical)))
	}
	if len(r.PreemptiveOrders) > 0 {
		recs = append(recs, fmt.Sprintf("%d pre-emptive orders generated for supplier", len(r.PreemptiveOrders)))
	}
	if len(affected) > 0 {
		recs = append(recs, fmt.Sprintf("%d medicines affected by outbreak alerts", len(affected)))
	}
	if len(recs) == 0 {
		recs = append(recs, "Inventory levels are healthy. Continue monitoring.")
	}
	return recs
}
