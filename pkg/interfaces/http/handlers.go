package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healsync/dispatch/pkg/application/apperrors"
	"github.com/healsync/dispatch/pkg/application/services"
	"github.com/healsync/dispatch/pkg/domain/entities"
	"github.com/healsync/dispatch/pkg/domain/services/risk"
	"github.com/healsync/dispatch/pkg/infrastructure/logging"
)

// Handlers contains the HTTP handlers of the dispatch API
type Handlers struct {
	service *services.DispatchService
	logger  *logging.Logger
}

// NewHandlers creates new HTTP handlers
func NewHandlers(service *services.DispatchService, logger *logging.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// Allocate handles POST /api/v1/allocations
func (h *Handlers) Allocate() gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := NewErrorResponder(c, h.logger)

		var req AllocateRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := h.service.Allocate(c.Request.Context(), services.AllocateCommand{
			Orders:           toInputs(req.Orders),
			Inventory:        req.Inventory,
			DeliveryCapacity: req.DeliveryCapacity,
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// AllocateFromDepot handles POST /api/v1/depot/allocations
func (h *Handlers) AllocateFromDepot() gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := NewErrorResponder(c, h.logger)

		var req DepotAllocateRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := h.service.AllocateFromDepot(c.Request.Context(), toInputs(req.Orders))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// GetDepot handles GET /api/v1/depot
func (h *Handlers) GetDepot() gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := h.service.DepotState(c.Request.Context())
		if err != nil {
			NewErrorResponder(c, h.logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, depotResponse(state.Inventory, state.Fleet))
	}
}

// SetDepotStock handles PUT /api/v1/depot/stock
func (h *Handlers) SetDepotStock() gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := NewErrorResponder(c, h.logger)

		var req SetStockRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		if err := h.service.SetDepotStock(c.Request.Context(), req.Stock); err != nil {
			responder.RespondWithError(err)
			return
		}

		h.GetDepot()(c)
	}
}

// SetDepotFleet handles PUT /api/v1/depot/fleet
func (h *Handlers) SetDepotFleet() gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := NewErrorResponder(c, h.logger)

		var req SetFleetRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		if err := h.service.SetFleet(c.Request.Context(), *req.Vehicles); err != nil {
			responder.RespondWithError(err)
			return
		}

		h.GetDepot()(c)
	}
}

// RestockDepot handles POST /api/v1/depot/restock
func (h *Handlers) RestockDepot() gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := NewErrorResponder(c, h.logger)

		var req RestockRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		level, err := h.service.RestockDepot(c.Request.Context(), req.Medicine, req.Quantity)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"medicine": req.Medicine, "on_hand": level})
	}
}

// PredictOutbreak handles POST /api/v1/scores/outbreak
func (h *Handlers) PredictOutbreak() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OutbreakRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			NewErrorResponder(c, h.logger).RespondWithAppError(appErr)
			return
		}

		predictions := h.service.PredictOutbreak(c.Request.Context(), req.LabID, risk.OutbreakInput{
			CurrentTests:  req.CurrentTests,
			BaselineTests: req.BaselineTests,
			PositiveTests: req.PositiveTests,
		})
		c.JSON(http.StatusOK, predictions)
	}
}

// CalculateHospitalStrain handles POST /api/v1/scores/hospital-strain
func (h *Handlers) CalculateHospitalStrain() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req HospitalStrainRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			NewErrorResponder(c, h.logger).RespondWithAppError(appErr)
			return
		}

		c.JSON(http.StatusOK, h.service.CalculateHospitalStrain(c.Request.Context(), req.HospitalID, req.reading()))
	}
}

// ClassifyPharmacyDemand handles POST /api/v1/scores/pharmacy-demand
func (h *Handlers) ClassifyPharmacyDemand() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PharmacyDemandRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			NewErrorResponder(c, h.logger).RespondWithAppError(appErr)
			return
		}

		c.JSON(http.StatusOK, h.service.ClassifyPharmacyDemand(c.Request.Context(), req.input()))
	}
}

// PredictCrisis handles POST /api/v1/scores/city-crisis
func (h *Handlers) PredictCrisis() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CrisisRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			NewErrorResponder(c, h.logger).RespondWithAppError(appErr)
			return
		}

		c.JSON(http.StatusOK, h.service.PredictCrisis(c.Request.Context(), req.input()))
	}
}

// ScorePriority handles POST /api/v1/priority
func (h *Handlers) ScorePriority() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			NewErrorResponder(c, h.logger).RespondWithAppError(appErr)
			return
		}

		c.JSON(http.StatusOK, h.service.ScorePriority(c.Request.Context(), req.toInput()))
	}
}

// RestockPharmacy handles POST /api/v1/pharmacy/restock
func (h *Handlers) RestockPharmacy() gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := NewErrorResponder(c, h.logger)

		var req PharmacyDemandRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		if req.PharmacyID == "" {
			responder.RespondWithAppError(apperrors.ErrValidationWithFields("validation failed",
				map[string]string{"pharmacy_id": "pharmacy_id is required"}))
			return
		}

		result, err := h.service.RestockPharmacy(c.Request.Context(), req.PharmacyID, req.input())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func depotResponse(stock entities.Inventory, fleet int) gin.H {
	return gin.H{
		"inventory":   stock,
		"fleet":       fleet,
		"total_units": stock.TotalUnits(),
	}
}
