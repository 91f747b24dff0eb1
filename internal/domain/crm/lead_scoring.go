package crm

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ScoreWeights are the relative weights of each scoring factor. They sum to 100.
type ScoreWeights struct {
	Source      int
	Temperature int
	Budget      int
	Engagement  int
	Recency     int
}

// DefaultScoreWeights is the weighting used unless configured otherwise
var DefaultScoreWeights = ScoreWeights{
	Source:      20,
	Temperature: 30,
	Budget:      20,
	Engagement:  20,
	Recency:     10,
}

var sourceFactor = map[LeadSource]float64{
	LeadSourceReferral: 1.0,
	LeadSourceWalkIn:   0.8,
	LeadSourceEvent:    0.7,
	LeadSourceWebsite:  0.6,
	LeadSourceSocial:   0.5,
	LeadSourceColdCall: 0.3,
	LeadSourceOther:    0.2,
}

var temperatureFactor = map[LeadTemperature]float64{
	LeadTemperatureHot:  1.0,
	LeadTemperatureWarm: 0.6,
	LeadTemperatureCold: 0.2,
}

// budget tiers in currency units; the factor applies at or above the threshold
var budgetTiers = []struct {
	min    decimal.Decimal
	factor float64
}{
	{decimal.NewFromInt(500000), 1.0},
	{decimal.NewFromInt(100000), 0.8},
	{decimal.NewFromInt(50000), 0.6},
	{decimal.NewFromInt(10000), 0.4},
	{decimal.NewFromInt(1), 0.2},
}

// ScoreBreakdown shows how each factor contributed
type ScoreBreakdown struct {
	Source      float64 `json:"source"`
	Temperature float64 `json:"temperature"`
	Budget      float64 `json:"budget"`
	Engagement  float64 `json:"engagement"`
	Recency     float64 `json:"recency"`
	Total       int     `json:"total"`
}

// LeadScoringService computes a 0-100 score as a weighted sum of lookup-table factors
type LeadScoringService struct {
	weights ScoreWeights
	now     func() time.Time
}

// NewLeadScoringService creates a scoring service
func NewLeadScoringService(weights ScoreWeights) *LeadScoringService {
	return &LeadScoringService{weights: weights, now: time.Now}
}

// WithClock overrides the clock used for recency
func (s *LeadScoringService) WithClock(now func() time.Time) *LeadScoringService {
	s.now = now
	return s
}

// Score computes the breakdown for a lead without modifying it
func (s *LeadScoringService) Score(l *Lead) ScoreBreakdown {
	b := ScoreBreakdown{
		Source:      float64(s.weights.Source) * sourceFactor[l.Source],
		Temperature: float64(s.weights.Temperature) * temperatureFactor[l.Temperature],
		Budget:      float64(s.weights.Budget) * budgetFactor(l.Budget),
		Engagement:  float64(s.weights.Engagement) * engagementFactor(l.ActivityCount),
		Recency:     float64(s.weights.Recency) * s.recencyFactor(l.LastActivityAt),
	}
	total := b.Source + b.Temperature + b.Budget + b.Engagement + b.Recency
	b.Total = int(math.Round(math.Max(0, math.Min(100, total))))
	return b
}

// ScoreLead computes and stores the score on the lead
func (s *LeadScoringService) ScoreLead(l *Lead) ScoreBreakdown {
	b := s.Score(l)
	l.ApplyScore(b.Total, s.now())
	return b
}

func budgetFactor(budget decimal.Decimal) float64 {
	for _, tier := range budgetTiers {
		if budget.GreaterThanOrEqual(tier.min) {
			return tier.factor
		}
	}
	return 0
}

// engagement saturates at ten touchpoints
func engagementFactor(activities int) float64 {
	if activities <= 0 {
		return 0
	}
	return math.Min(1, float64(activities)/10)
}

func (s *LeadScoringService) recencyFactor(last *time.Time) float64 {
	if last == nil {
		return 0
	}
	days := s.now().Sub(*last).Hours() / 24
	switch {
	case days <= 7:
		return 1.0
	case days <= 30:
		return 0.6
	case days <= 90:
		return 0.3
	default:
		return 0
	}
}
