package laps

import (
	"fmt"

	"github.com/jengzang/ride-stats/internal/analysis"
	"github.com/jengzang/ride-stats/internal/models"
)

// ByDistance folds the stream into laps of at least Kilometers each
type ByDistance struct {
	Kilometers int
}

// NewByDistance creates a distance aggregator
func NewByDistance(km int) (analysis.LapAggregator, error) {
	if km <= 0 {
		return nil, fmt.Errorf("distance lap of %d km: %w", km, analysis.ErrInvalidThreshold)
	}
	return &ByDistance{Kilometers: km}, nil
}

// GetName returns the lap mode
func (a *ByDistance) GetName() string {
	return models.LapModeDistance
}

// Aggregate implements analysis.LapAggregator.
// The seeding point contributes its coordinates and its elapsed time but not
// its own distance or elevation delta, and its position doubles as the lap end.
func (a *ByDistance) Aggregate(points []models.EnrichedPoint) []models.LapSummary {
	threshold := float64(a.Kilometers) * 1000

	return rule{
		seed: func(p models.EnrichedPoint) accumulator {
			acc := openAt(p)
			acc.duration = p.DeltaTime
			acc.setEnd(p)
			return acc
		},
		crossed: func(acc *accumulator) bool {
			return acc.distance >= threshold
		},
	}.fold(points)
}

func init() {
	analysis.RegisterAggregator(models.LapModeDistance, NewByDistance)
}
