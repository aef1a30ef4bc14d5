package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healsync/dispatch/pkg/application/apperrors"
	"github.com/healsync/dispatch/pkg/application/dto"
	"github.com/healsync/dispatch/pkg/application/services/allocation"
	"github.com/healsync/dispatch/pkg/domain/entities"
	"github.com/healsync/dispatch/pkg/domain/repositories"
	"github.com/healsync/dispatch/pkg/domain/services"
	"github.com/healsync/dispatch/pkg/domain/services/risk"
	"github.com/healsync/dispatch/pkg/infrastructure/events"
	"github.com/healsync/dispatch/pkg/infrastructure/logging"
	"github.com/healsync/dispatch/pkg/infrastructure/metrics"
	"github.com/healsync/dispatch/pkg/infrastructure/tracing"
)

// Allocation sources used for metrics labels
const (
	SourceRequest = "request"
	SourceDepot   = "depot"
)

// DefaultDeliveryCapacity is used when a request omits the vehicle count
const DefaultDeliveryCapacity = 4

// Dependencies wires a DispatchService. Only Tables is consulted when zero;
// every other field may be left nil.
type Dependencies struct {
	Tables                  entities.WeightTables
	Advisor                 risk.Advisor
	Depot                   repositories.DepotRepository
	Publisher               events.Publisher
	Metrics                 *metrics.Metrics
	Logger                  *logging.Logger
	DefaultDeliveryCapacity int
	Clock                   func() time.Time
}

// AllocateCommand is one self-contained allocation request.
// A nil DeliveryCapacity selects the service default.
type AllocateCommand struct {
	Orders           []entities.OrderInput
	Inventory        map[string]entities.Quantity
	DeliveryCapacity *int
}

// DispatchService is the request/response boundary over the scorers and the allocation engine
type DispatchService struct {
	scorer   *services.PriorityScorer
	engine   *allocation.Engine
	outbreak *risk.OutbreakPredictor
	strain   *risk.StrainCalculator
	demand   *risk.DemandClassifier
	crisis   *risk.CrisisPredictor

	depot     repositories.DepotRepository
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *logging.Logger

	defaultCapacity int
	newRunID        func() string
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(deps Dependencies) *DispatchService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	capacity := deps.DefaultDeliveryCapacity
	if capacity <= 0 {
		capacity = DefaultDeliveryCapacity
	}

	scorer := services.NewPriorityScorer(deps.Tables)
	return &DispatchService{
		scorer:          scorer,
		engine:          allocation.NewEngineWithClock(scorer, clock),
		outbreak:        risk.NewOutbreakPredictor(),
		strain:          risk.NewStrainCalculator(),
		demand:          risk.NewDemandClassifier(),
		crisis:          risk.NewCrisisPredictor(deps.Advisor),
		depot:           deps.Depot,
		publisher:       deps.Publisher,
		metrics:         deps.Metrics,
		logger:          logger.WithComponent("dispatch-service"),
		defaultCapacity: capacity,
		newRunID:        uuid.NewString,
	}
}

// HasDepot reports whether a shared depot is configured
func (s *DispatchService) HasDepot() bool {
	return s.depot != nil
}

// DefaultCapacity returns the vehicle count used when a request omits one
func (s *DispatchService) DefaultCapacity() int {
	return s.defaultCapacity
}

// Allocate runs one allocation pass over the inventory supplied with the request
func (s *DispatchService) Allocate(ctx context.Context, cmd AllocateCommand) (*dto.AllocationResult, error) {
	inventory, err := entities.NewInventory(cmd.Inventory)
	if err != nil {
		return nil, apperrors.Invalid("inventory: %v", err)
	}
	capacity := s.defaultCapacity
	if cmd.DeliveryCapacity != nil {
		capacity = *cmd.DeliveryCapacity
	}
	if capacity < 0 {
		return nil, apperrors.Invalid("delivery_capacity cannot be negative, got %d", capacity)
	}

	result := s.runPass(ctx, SourceRequest, cmd.Orders, inventory, capacity)
	s.afterPass(ctx, result)
	return result, nil
}

// AllocateFromDepot runs one allocation pass against the shared depot and
// commits the remaining stock. Passes are serialised by the depot.
func (s *DispatchService) AllocateFromDepot(ctx context.Context, orders []entities.OrderInput) (*dto.AllocationResult, error) {
	if s.depot == nil {
		return nil, apperrors.ErrServiceUnavailable("depot")
	}

	var result *dto.AllocationResult
	err := s.depot.Commit(func(stock entities.Inventory, fleet int) (entities.Inventory, error) {
		result = s.runPass(ctx, SourceDepot, orders, stock, fleet)
		return result.FinalInventory, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit depot allocation: %w", err)
	}

	s.afterPass(ctx, result)
	return result, nil
}

func (s *DispatchService) runPass(ctx context.Context, source string, orders []entities.OrderInput, inventory entities.Inventory, capacity int) *dto.AllocationResult {
	runID := s.newRunID()
	ctx = logging.ContextWithRunID(ctx, runID)
	_, span := tracing.StartTimedSpan(ctx, "dispatch.allocate", tracing.AllocationAttributes(runID, len(orders), capacity)...)

	result := s.engine.Allocate(orders, inventory, capacity)
	result.RunID = runID

	duration := span.End()

	var partial int
	for _, o := range result.FulfilledOrders {
		if o.Status == entities.Partial {
			partial++
		}
	}
	s.metrics.RecordAllocation(source,
		result.Metrics.FulfilledCount-partial, partial, result.Metrics.PendingCount,
		result.Metrics.VehiclesUsed, duration)
	for medicine, units := range result.DispatchedUnits {
		s.metrics.RecordUnitsDispatched(medicine, int64(units))
	}
	s.logger.AllocationPass(ctx, result.Metrics.TotalOrders, result.Metrics.FulfilledCount,
		result.Metrics.PendingCount, result.Metrics.VehiclesUsed, duration)
	return result
}

// afterPass publishes the run's events outside any depot lock
func (s *DispatchService) afterPass(ctx context.Context, result *dto.AllocationResult) {
	s.publish(logging.ContextWithRunID(ctx, result.RunID), events.AllocationEvents(result)...)
}

// ScorePriority scores a single order after applying the order defaults
func (s *DispatchService) ScorePriority(_ context.Context, in entities.OrderInput) services.PriorityBreakdown {
	order := in.Normalize(0, time.Time{})
	return s.scorer.Breakdown(order.RequesterStrain, order.Medicine, order.Urgency)
}

// PredictOutbreak projects lab test volumes and announces every HIGH risk disease
func (s *DispatchService) PredictOutbreak(ctx context.Context, labID string, in risk.OutbreakInput) []risk.OutbreakPrediction {
	predictions := s.outbreak.Predict(in)

	var detected []events.Event
	for _, p := range predictions {
		s.metrics.RecordScore("outbreak", p.RiskLevel)
		if p.TriggerOutbreak {
			detected = append(detected, events.NewEvent(events.OutbreakDetectedEvent, labID, events.OutbreakDetected{
				Disease:           p.Disease,
				RiskLevel:         p.RiskLevel,
				Score:             p.Score,
				PredictedCases24h: p.PredictedCases24h,
			}))
		}
	}
	if len(detected) > 0 {
		s.logger.Event(ctx, events.OutbreakDetectedEvent, map[string]any{
			"labId":    labID,
			"diseases": risk.ActiveOutbreaks(predictions),
		})
	}
	s.publish(ctx, detected...)
	return predictions
}

// CalculateHospitalStrain computes the HSI and raises a resource request event when triggered
func (s *DispatchService) CalculateHospitalStrain(ctx context.Context, hospitalID string, reading risk.HospitalReading) risk.HospitalStrain {
	_, span := tracing.StartTimedSpan(ctx, "dispatch.hospital_strain")
	result := s.strain.Calculate(reading)
	span.SetAttributes(tracing.ScoreAttributes("hospital_strain", result.StrainLevel, result.HSIScore)...)
	span.End()

	s.metrics.RecordScore("hospital_strain", result.StrainLevel)
	if result.ResourceRequest != nil {
		s.publish(ctx, events.NewEvent(events.ResourceRequestedEvent, hospitalID, events.ResourceRequested{
			HospitalID:  hospitalID,
			HSIScore:    result.HSIScore,
			StrainLevel: result.StrainLevel,
			Urgency:     result.ResourceRequest.Urgency,
		}))
	}
	return result
}

// ClassifyPharmacyDemand classifies medicine demand for one pharmacy
func (s *DispatchService) ClassifyPharmacyDemand(_ context.Context, in risk.DemandInput) risk.DemandReport {
	report := s.demand.Classify(in)
	s.metrics.RecordScore("pharmacy_demand", report.InventoryHealth.Status)
	return report
}

// RestockPharmacy classifies demand and dispatches the resulting pre-emptive
// orders from the depot, carrying the pharmacy strain as requester strain
func (s *DispatchService) RestockPharmacy(ctx context.Context, pharmacyID string, in risk.DemandInput) (*dto.PharmacyRestockResult, error) {
	report := s.ClassifyPharmacyDemand(ctx, in)
	out := &dto.PharmacyRestockResult{
		PharmacyID: pharmacyID,
		Demand:     report,
		Orders:     PreemptiveOrderInputs(pharmacyID, report),
	}
	if len(out.Orders) == 0 {
		return out, nil
	}

	result, err := s.AllocateFromDepot(ctx, out.Orders)
	if err != nil {
		return nil, err
	}
	out.Allocation = result
	return out, nil
}

// PreemptiveOrderInputs turns a demand report's pre-emptive orders into supply orders
func PreemptiveOrderInputs(pharmacyID string, report risk.DemandReport) []entities.OrderInput {
	orders := make([]entities.OrderInput, 0, len(report.PreemptiveOrders))
	for _, p := range report.PreemptiveOrders {
		orders = append(orders, entities.NewOrderInput(
			fmt.Sprintf("%s-PRE-%s", pharmacyID, p.Medicine),
			pharmacyID,
			p.Medicine,
			entities.Quantity(p.OrderQuantity),
			p.Urgency,
			report.Strain,
		))
	}
	return orders
}

// PredictCrisis computes the city crisis score and publishes the advisory of alerting assessments
func (s *DispatchService) PredictCrisis(ctx context.Context, in risk.CrisisInput) risk.CrisisAssessment {
	ctx, span := tracing.StartTimedSpan(ctx, "dispatch.city_crisis")
	assessment := s.crisis.Predict(ctx, in)
	span.SetAttributes(tracing.ScoreAttributes("city_crisis", assessment.Severity, assessment.CPSScore)...)
	span.End()

	s.metrics.RecordScore("city_crisis", assessment.Severity)
	if assessment.TriggerAlert {
		s.publish(ctx, events.NewEvent(events.AdvisoryIssuedEvent, "city", events.AdvisoryIssued{
			Severity: assessment.Severity,
			CPSScore: assessment.CPSScore,
			Source:   assessment.AdvisorySource,
			Advisory: assessment.Advisory,
		}))
	}
	return assessment
}

// DepotState returns the shared depot's stock and fleet
func (s *DispatchService) DepotState(_ context.Context) (repositories.DepotState, error) {
	if s.depot == nil {
		return repositories.DepotState{}, apperrors.ErrServiceUnavailable("depot")
	}
	return s.depot.Snapshot()
}

// SetDepotStock replaces the depot stock
func (s *DispatchService) SetDepotStock(_ context.Context, stock map[string]entities.Quantity) error {
	if s.depot == nil {
		return apperrors.ErrServiceUnavailable("depot")
	}
	return depotError(s.depot.SetStock(stock))
}

// RestockDepot adds units of one medicine to the depot
func (s *DispatchService) RestockDepot(ctx context.Context, medicine string, quantity entities.Quantity) (entities.Quantity, error) {
	if s.depot == nil {
		return 0, apperrors.ErrServiceUnavailable("depot")
	}
	level, err := s.depot.Restock(medicine, quantity)
	if err != nil {
		return 0, depotError(err)
	}
	s.publish(ctx, events.NewEvent(events.DepotRestockedEvent, "depot", events.DepotRestocked{
		Medicine: medicine,
		Added:    quantity,
		OnHand:   level,
	}))
	return level, nil
}

// SetFleet sets the depot's vehicles per delivery cycle
func (s *DispatchService) SetFleet(_ context.Context, vehicles int) error {
	if s.depot == nil {
		return apperrors.ErrServiceUnavailable("depot")
	}
	return depotError(s.depot.SetFleet(vehicles))
}

// depotError marks rejected depot updates as invalid input
func depotError(err error) error {
	if errors.Is(err, repositories.ErrInvalidDepotUpdate) {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	return err
}

// publish delivers events best-effort; failures are logged and counted only
func (s *DispatchService) publish(ctx context.Context, evts ...events.Event) {
	if s.publisher == nil {
		return
	}
	for _, e := range evts {
		err := s.publisher.Publish(ctx, e)
		s.metrics.RecordEventPublished(e.Type(), err == nil)
		if err != nil {
			s.logger.WithContext(ctx).Warn("Dispatch event not delivered", "eventType", e.Type(), "error", err.Error())
		}
	}
}
