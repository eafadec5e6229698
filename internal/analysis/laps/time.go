package laps

import (
	"fmt"
	"time"

	"github.com/jengzang/ride-stats/internal/analysis"
	"github.com/jengzang/ride-stats/internal/models"
)

// ByTime folds the stream into laps of at least Minutes each
type ByTime struct {
	Minutes int
}

// NewByTime creates a time aggregator
func NewByTime(minutes int) (analysis.LapAggregator, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("time lap of %d min: %w", minutes, analysis.ErrInvalidThreshold)
	}
	return &ByTime{Minutes: minutes}, nil
}

// GetName returns the lap mode
func (a *ByTime) GetName() string {
	return models.LapModeTime
}

// Aggregate implements analysis.LapAggregator.
// The seeding point contributes its distance and elapsed time but not its
// elevation delta. The lap end stays unset until a second point is folded.
func (a *ByTime) Aggregate(points []models.EnrichedPoint) []models.LapSummary {
	threshold := time.Duration(a.Minutes) * time.Minute

	return rule{
		seed: func(p models.EnrichedPoint) accumulator {
			acc := openAt(p)
			acc.distance = p.DeltaDistance
			acc.duration = p.DeltaTime
			return acc
		},
		crossed: func(acc *accumulator) bool {
			return acc.duration >= threshold
		},
	}.fold(points)
}

func init() {
	analysis.RegisterAggregator(models.LapModeTime, NewByTime)
}
