// Package http exposes the dispatch service over a gin JSON API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healsync/dispatch/pkg/application/services"
	"github.com/healsync/dispatch/pkg/infrastructure/logging"
	"github.com/healsync/dispatch/pkg/infrastructure/metrics"
)

// ServiceInfo is reported by GET /
type ServiceInfo struct {
	Name    string
	Version string
}

// RouterOptions wires the router. Metrics may be nil.
type RouterOptions struct {
	Service *services.DispatchService
	Logger  *logging.Logger
	Metrics *metrics.Metrics
	Info    ServiceInfo
}

// NewRouter builds the gin engine with middleware and every API route
func NewRouter(opts RouterOptions) *gin.Engine {
	InitValidator()

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(Recovery(logger))
	router.Use(RequestID())
	router.Use(Tracing())
	router.Use(Logger(logger, "/health", "/metrics"))
	router.Use(Metrics(opts.Metrics))

	router.NoRoute(NoRoute(logger))
	router.NoMethod(NoMethod(logger))

	router.GET("/", serviceInfo(opts.Info, opts.Service.DefaultCapacity()))
	router.GET("/health", healthCheck(opts.Info.Name))
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	h := NewHandlers(opts.Service, logger.WithComponent("http"))
	RegisterRoutes(router, h)
	return router
}

// RegisterRoutes registers the /api/v1 routes
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	api := router.Group("/api/v1")
	{
		api.POST("/allocations", h.Allocate())
		api.POST("/priority", h.ScorePriority())
	}

	depot := api.Group("/depot")
	{
		depot.GET("", h.GetDepot())
		depot.PUT("/stock", h.SetDepotStock())
		depot.PUT("/fleet", h.SetDepotFleet())
		depot.POST("/restock", h.RestockDepot())
		depot.POST("/allocations", h.AllocateFromDepot())
	}

	scores := api.Group("/scores")
	{
		scores.POST("/outbreak", h.PredictOutbreak())
		scores.POST("/hospital-strain", h.CalculateHospitalStrain())
		scores.POST("/pharmacy-demand", h.ClassifyPharmacyDemand())
		scores.POST("/city-crisis", h.PredictCrisis())
	}

	api.POST("/pharmacy/restock", h.RestockPharmacy())
}

func serviceInfo(info ServiceInfo, defaultCapacity int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":                   info.Name,
			"status":                    "operational",
			"version":                   info.Version,
			"default_delivery_capacity": defaultCapacity,
			"scorers":                   []string{"outbreak", "hospital_strain", "pharmacy_demand", "city_crisis", "priority"},
		})
	}
}

func healthCheck(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": service})
	}
}
