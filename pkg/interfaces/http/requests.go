package http

import (
	"time"

	"github.com/healsync/dispatch/pkg/domain/entities"
	"github.com/healsync/dispatch/pkg/domain/services/risk"
)

// OrderRequest is a supply order on the wire. Every field except the IDs is
// optional and defaulted by the engine.
type OrderRequest struct {
	OrderID         string             `json:"order_id"`
	RequesterID     string             `json:"requester_id"`
	Medicine        *string            `json:"medicine"`
	Quantity        *entities.Quantity `json:"quantity"`
	Urgency         *string            `json:"urgency"`
	RequesterStrain *float64           `json:"requester_strain"`
	Timestamp       *time.Time         `json:"timestamp"`
}

func (r OrderRequest) toInput() entities.OrderInput {
	return entities.OrderInput{
		OrderID:         r.OrderID,
		RequesterID:     r.RequesterID,
		Medicine:        r.Medicine,
		Quantity:        r.Quantity,
		Urgency:         r.Urgency,
		RequesterStrain: r.RequesterStrain,
		Timestamp:       r.Timestamp,
	}
}

func toInputs(orders []OrderRequest) []entities.OrderInput {
	inputs := make([]entities.OrderInput, 0, len(orders))
	for _, o := range orders {
		inputs = append(inputs, o.toInput())
	}
	return inputs
}

// AllocateRequest is the body of POST /allocations
type AllocateRequest struct {
	Orders           []OrderRequest               `json:"orders" binding:"required"`
	Inventory        map[string]entities.Quantity `json:"inventory" binding:"required"`
	DeliveryCapacity *int                         `json:"delivery_capacity" binding:"omitempty,gte=0"`
}

// DepotAllocateRequest is the body of POST /depot/allocations
type DepotAllocateRequest struct {
	Orders []OrderRequest `json:"orders" binding:"required"`
}

// SetStockRequest is the body of PUT /depot/stock
type SetStockRequest struct {
	Stock map[string]entities.Quantity `json:"stock" binding:"required"`
}

// SetFleetRequest is the body of PUT /depot/fleet
type SetFleetRequest struct {
	Vehicles *int `json:"vehicles" binding:"required,gte=0"`
}

// RestockRequest is the body of POST /depot/restock
type RestockRequest struct {
	Medicine string            `json:"medicine" binding:"required,medicine"`
	Quantity entities.Quantity `json:"quantity" binding:"required,gt=0"`
}

// OutbreakRequest is the body of POST /scores/outbreak
type OutbreakRequest struct {
	LabID         string           `json:"lab_id"`
	CurrentTests  map[string]int64 `json:"current_tests" binding:"required"`
	BaselineTests map[string]int64 `json:"baseline_tests" binding:"required"`
	PositiveTests map[string]int64 `json:"positive_tests"`
}

// HospitalStrainRequest is the body of POST /scores/hospital-strain
type HospitalStrainRequest struct {
	HospitalID       string `json:"hospital_id"`
	TotalBeds        *int64 `json:"total_beds" binding:"required,gte=0"`
	AvailableBeds    *int64 `json:"available_beds" binding:"required,gte=0"`
	ICUTotal         *int64 `json:"icu_total" binding:"required,gte=0"`
	ICUAvailable     *int64 `json:"icu_available" binding:"required,gte=0"`
	ERWaitMinutes    *int64 `json:"er_wait_time" binding:"required"`
	IncomingPatients int64  `json:"incoming_patients" binding:"gte=0"`
}

func (r HospitalStrainRequest) reading() risk.HospitalReading {
	return risk.HospitalReading{
		TotalBeds:        *r.TotalBeds,
		AvailableBeds:    *r.AvailableBeds,
		ICUTotal:         *r.ICUTotal,
		ICUAvailable:     *r.ICUAvailable,
		ERWaitMinutes:    *r.ERWaitMinutes,
		IncomingPatients: r.IncomingPatients,
	}
}

// PharmacyDemandRequest is the body of POST /scores/pharmacy-demand and,
// with a pharmacy ID, of POST /pharmacy/restock
type PharmacyDemandRequest struct {
	PharmacyID       string           `json:"pharmacy_id"`
	MedicineStocks   map[string]int64 `json:"medicine_stocks" binding:"required"`
	ConsumptionRates map[string]int64 `json:"consumption_rates" binding:"required"`
	OutbreakAlerts   []string         `json:"outbreak_alerts"`
}

func (r PharmacyDemandRequest) input() risk.DemandInput {
	return risk.DemandInput{
		Stocks:         r.MedicineStocks,
		Consumption:    r.ConsumptionRates,
		OutbreakAlerts: r.OutbreakAlerts,
	}
}

// HospitalCapacity carries the citywide hospital utilization
type HospitalCapacity struct {
	UtilizationPercent float64 `json:"utilization_percent"`
}

// CrisisRequest is the body of POST /scores/city-crisis
type CrisisRequest struct {
	DiseaseStats     map[string]int64  `json:"disease_stats"`
	HospitalCapacity HospitalCapacity  `json:"hospital_capacity"`
	MedicineStock    map[string]int64  `json:"medicine_stock"`
	ZoneRisks        map[string]string `json:"zone_risks"`
}

func (r CrisisRequest) input() risk.CrisisInput {
	return risk.CrisisInput{
		DiseaseStats:               r.DiseaseStats,
		HospitalUtilizationPercent: r.HospitalCapacity.UtilizationPercent,
		MedicineStock:              r.MedicineStock,
		ZoneRisks:                  r.ZoneRisks,
	}
}
