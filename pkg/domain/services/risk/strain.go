package risk

import (
	"fmt"

	"github.com/healsync/dispatch/pkg/domain/entities"
)

// Strain levels shared by the hospital index
const (
	StrainCritical = "CRITICAL"
	StrainHigh     = "HIGH"
	StrainElevated = "ELEVATED"
	StrainMedium   = "MEDIUM"
	StrainLow      = "LOW"
)

var (
	utilizationLadder = []step{{95, 100}, {90, 90}, {85, 80}, {75, 65}, {65, 50}, {50, 35}}
	erWaitLadder      = []step{{180, 100}, {120, 85}, {90, 70}, {60, 55}, {45, 40}, {30, 25}}
	strainTiers       = []tier{{80, StrainCritical}, {65, StrainHigh}, {50, StrainElevated}, {35, StrainMedium}}

	strainRecommendations = map[string][]string{
		StrainCritical: {
			"EMERGENCY: Activate surge capacity protocols",
			"Contact other hospitals for patient transfers",
			"Deploy additional staff immediately",
			"Convert non-critical wards to patient beds",
			"Request emergency medical supplies",
			"Defer non-urgent procedures",
		},
		StrainHigh: {
			"HIGH STRAIN: Prepare surge capacity",
			"Ensure adequate staffing for next 24-48 hours",
			"Stock essential medicines and supplies",
			"Review discharge plans to free beds",
			"Alert management and staff",
		},
		StrainElevated: {
			"ELEVATED: Monitor capacity closely",
			"Reserve isolation beds if outbreak suspected",
			"Ensure supply chain continuity",
			"Prepare contingency staffing plans",
			"Review bed allocation efficiency",
		},
		StrainMedium: {
			"Monitor admission trends",
			"Ensure adequate supplies",
			"Maintain standard protocols",
		},
		StrainLow: {
			"Capacity is adequate",
			"Continue normal operations",
		},
	}
)

// ResourceRequestThreshold is the HSI at which a hospital requests supplies
const ResourceRequestThreshold = 50.0

const dischargeRate = 0.15

// HospitalReading is a point-in-time capacity reading from a hospital
type HospitalReading struct {
	TotalBeds        int64 `json:"total_beds"`
	AvailableBeds    int64 `json:"available_beds"`
	ICUTotal         int64 `json:"icu_total"`
	ICUAvailable     int64 `json:"icu_available"`
	ERWaitMinutes    int64 `json:"er_wait_time"`
	IncomingPatients int64 `json:"incoming_patients"`
}

// StrainBreakdown exposes the component scores of the index
type StrainBreakdown struct {
	BedUtilization float64 `json:"bed_utilization"`
	BedScore       float64 `json:"bed_score"`
	ICUUtilization float64 `json:"icu_utilization"`
	ICUScore       float64 `json:"icu_score"`
	ERWaitMinutes  int64   `json:"er_wait_time"`
	ERScore        float64 `json:"er_score"`
}

// CapacityStatus summarises current and projected bed availability
type CapacityStatus struct {
	AvailableBeds         int64 `json:"available_beds"`
	TotalBeds             int64 `json:"total_beds"`
	ICUAvailable          int64 `json:"icu_available"`
	ICUTotal              int64 `json:"icu_total"`
	PredictedAvailable24h int64 `json:"predicted_available_24h"`
}

// RequestedItem is one line of a hospital resource request.
// StockCheck marks items whose quantity is decided by the supplier.
type RequestedItem struct {
	Item       string `json:"item"`
	Quantity   int64  `json:"quantity"`
	StockCheck bool   `json:"stock_check,omitempty"`
}

// ResourceRequest is raised when a hospital's strain reaches the request threshold
type ResourceRequest struct {
	Urgency           entities.Urgency `json:"urgency"`
	RequestedItems    []RequestedItem  `json:"requested_items"`
	Reason            string           `json:"reason"`
	DeliveryTimeframe string           `json:"delivery_timeframe"`
}

// HospitalStrain is the Hospital Strain Index assessment
type HospitalStrain struct {
	HSIScore               float64          `json:"hsi_score"`
	StrainLevel            string           `json:"strain_level"`
	TriggerResourceRequest bool             `json:"trigger_resource_request"`
	Breakdown              StrainBreakdown  `json:"breakdown"`
	CapacityStatus         CapacityStatus   `json:"capacity_status"`
	Recommendations        []string         `json:"recommendations"`
	ResourceRequest        *ResourceRequest `json:"resource_request,omitempty"`
}

// StrainCalculator computes the Hospital Strain Index
type StrainCalculator struct{}

// NewStrainCalculator creates a new StrainCalculator
func NewStrainCalculator() *StrainCalculator {
	return &StrainCalculator{}
}

// Calculate returns HSI = 0.4*bed + 0.3*ICU + 0.3*ER, rounded to two decimals
func (c *StrainCalculator) Calculate(r HospitalReading) HospitalStrain {
	bedUtil := clamp(ratio(float64(r.TotalBeds-r.AvailableBeds), float64(r.TotalBeds)), 0, 100)
	icuUtil := clamp(ratio(float64(r.ICUTotal-r.ICUAvailable), float64(r.ICUTotal)), 0, 100)
	wait := r.ERWaitMinutes
	if wait < 0 {
		wait = 0
	}

	bedScore := scoreUtilization(bedUtil)
	icuScore := scoreUtilization(icuUtil)
	erScore := scoreWait(float64(wait))

	raw := bedScore*0.4 + icuScore*0.3 + erScore*0.3
	level := classify(raw, strainTiers, StrainLow)

	result := HospitalStrain{
		HSIScore:               round(raw, 2),
		StrainLevel:            level,
		TriggerResourceRequest: raw >= ResourceRequestThreshold,
		Breakdown: StrainBreakdown{
			BedUtilization: round(bedUtil, 1),
			BedScore:       round(bedScore, 1),
			ICUUtilization: round(icuUtil, 1),
			ICUScore:       round(icuScore, 1),
			ERWaitMinutes:  r.ERWaitMinutes,
			ERScore:        round(erScore, 1),
		},
		CapacityStatus: CapacityStatus{
			AvailableBeds:         r.AvailableBeds,
			TotalBeds:             r.TotalBeds,
			ICUAvailable:          r.ICUAvailable,
			ICUTotal:              r.ICUTotal,
			PredictedAvailable24h: predictAvailable(r.AvailableBeds, r.IncomingPatients),
		},
		Recommendations: append([]string(nil), strainRecommendations[level]...),
	}
	if result.TriggerResourceRequest {
		result.ResourceRequest = resourceRequest(level)
	}
	return result
}

func scoreUtilization(u float64) float64 {
	if v, ok := climb(u, utilizationLadder); ok {
		return v
	}
	return u * 0.6
}

func scoreWait(minutes float64) float64 {
	if v, ok := climb(minutes, erWaitLadder); ok {
		return v
	}
	return minutes * 0.5
}

// predictAvailable projects beds free in 24h assuming 15% of free beds turn over
func predictAvailable(available, incoming int64) int64 {
	if available < 0 {
		available = 0
	}
	discharges := int64(float64(available) * dischargeRate)
	predicted := available - incoming + discharges
	if predicted < 0 {
		return 0
	}
	return predicted
}

// RequestUrgency maps a strain level to the urgency of the resulting supply request
func RequestUrgency(level string) entities.Urgency {
	switch level {
	case StrainCritical:
		return entities.UrgencyUrgent
	case StrainHigh:
		return entities.UrgencyHigh
	case StrainElevated:
		return entities.UrgencyMedium
	default:
		return entities.UrgencyNormal
	}
}

func resourceRequest(level string) *ResourceRequest {
	beds, icu := int64(10), int64(3)
	timeframe := entities.DeliveryStandard
	if level == StrainCritical {
		beds, icu = 20, 5
		timeframe = entities.DeliveryUrgent
	}
	return &ResourceRequest{
		Urgency: RequestUrgency(level),
		RequestedItems: []RequestedItem{
			{Item: "general_beds", Quantity: beds},
			{Item: "icu_equipment", Quantity: icu},
			{Item: "emergency_medicines", StockCheck: true},
		},
		Reason:            fmt.Sprintf("Hospital strain level: %s", level),
		DeliveryTimeframe: timeframe,
	}
}
