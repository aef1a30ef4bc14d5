package services

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/healsync/dispatch/pkg/domain/entities"
)

var (
	strainWeight      = decimal.RequireFromString("0.4")
	criticalityWeight = decimal.RequireFromString("0.3")
	urgencyWeight     = decimal.RequireFromString("0.3")
)

// PriorityBreakdown shows the inputs that produced a priority score
type PriorityBreakdown struct {
	Medicine        string  `json:"medicine"`
	Urgency         string  `json:"urgency"`
	RequesterStrain float64 `json:"requester_strain"`
	Criticality     float64 `json:"criticality"`
	UrgencyWeight   float64 `json:"urgency_weight"`
	Score           float64 `json:"priority_score"`
}

// PriorityScorer computes the composite priority of a supply order
type PriorityScorer struct {
	tables entities.WeightTables
}

// NewPriorityScorer creates a scorer over the given weight tables.
// Zero-value tables are replaced with the defaults.
func NewPriorityScorer(tables entities.WeightTables) *PriorityScorer {
	if tables.IsZero() {
		tables = entities.DefaultWeightTables()
	}
	return &PriorityScorer{tables: tables}
}

// Tables returns the weight tables used by the scorer
func (s *PriorityScorer) Tables() entities.WeightTables {
	return s.tables
}

// Score returns 0.4*strain + 0.3*criticality + 0.3*urgency rounded to two decimals.
// Strain is clamped to [0, 100] first so the score always lies in [0, 100].
func (s *PriorityScorer) Score(strain float64, medicine string, urgency entities.Urgency) float64 {
	return s.Breakdown(strain, medicine, urgency).Score
}

// Breakdown scores an order and returns the individual components
func (s *PriorityScorer) Breakdown(strain float64, medicine string, urgency entities.Urgency) PriorityBreakdown {
	strain = ClampScore(strain)
	criticality := s.tables.Criticality(medicine)
	urgencyW := s.tables.UrgencyWeight(urgency)

	total := decimal.NewFromFloat(strain).Mul(strainWeight).
		Add(decimal.NewFromFloat(criticality).Mul(criticalityWeight)).
		Add(decimal.NewFromFloat(urgencyW).Mul(urgencyWeight)).
		Round(2)
	score, _ := total.Float64()

	return PriorityBreakdown{
		Medicine:        medicine,
		Urgency:         string(urgency),
		RequesterStrain: strain,
		Criticality:     criticality,
		UrgencyWeight:   urgencyW,
		Score:           score,
	}
}

// ScoreOrder attaches the priority score to an order
func (s *PriorityScorer) ScoreOrder(order entities.SupplyOrder) entities.SupplyOrder {
	order.PriorityScore = s.Score(order.RequesterStrain, order.Medicine, order.Urgency)
	return order
}

// ClampScore limits v to [0, 100]. NaN is treated as the default requester strain.
func ClampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return entities.DefaultRequesterStrain
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
