package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jengzang/ride-stats/internal/models"
)

// ErrInvalidThreshold is returned for a lap threshold that is not positive
var ErrInvalidThreshold = errors.New("lap threshold must be positive")

// LapAggregator is the interface that all lap reducers must implement
type LapAggregator interface {
	// Aggregate folds the enriched stream into consecutive laps.
	// The laps cover every point exactly once, in order.
	Aggregate(points []models.EnrichedPoint) []models.LapSummary

	// GetName returns the lap mode of the aggregator
	GetName() string
}

// AggregatorFactory is a function that creates an aggregator for a threshold
// expressed in the aggregator's own unit (kilometers, minutes)
type AggregatorFactory func(threshold int) (LapAggregator, error)

// AggregatorRegistry maps lap modes to aggregator factories
var AggregatorRegistry = make(map[string]AggregatorFactory)

// RegisterAggregator registers an aggregator factory for a lap mode
func RegisterAggregator(mode string, factory AggregatorFactory) {
	AggregatorRegistry[mode] = factory
}

// GetAggregator creates an aggregator for a lap mode
func GetAggregator(mode string, threshold int) (LapAggregator, error) {
	factory, ok := AggregatorRegistry[mode]
	if !ok {
		return nil, fmt.Errorf("unknown lap mode %q (registered: %v)", mode, RegisteredModes())
	}
	return factory(threshold)
}

// RegisteredModes lists the lap modes that have a registered aggregator
func RegisteredModes() []string {
	modes := make([]string, 0, len(AggregatorRegistry))
	for mode := range AggregatorRegistry {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

// NewLapAggregator selects the aggregator for the configured thresholds.
// Distance takes precedence over time; a zero value disables that mode.
// It returns nil when neither mode is enabled.
func NewLapAggregator(distanceKm, timeMin int) (LapAggregator, error) {
	switch {
	case distanceKm != 0:
		return GetAggregator(models.LapModeDistance, distanceKm)
	case timeMin != 0:
		return GetAggregator(models.LapModeTime, timeMin)
	default:
		return nil, nil
	}
}
