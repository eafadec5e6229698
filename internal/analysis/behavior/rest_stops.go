package behavior

import (
	"github.com/jengzang/ride-stats/internal/models"
)

// DefaultRestMaxSpeed is the speed (km/h) at or below which a point counts as resting
const DefaultRestMaxSpeed = 2.0

// RestPoints returns the points whose speed is at or below maxSpeed, in stream order
func RestPoints(points []models.EnrichedPoint, maxSpeed float64) []models.EnrichedPoint {
	var rest []models.EnrichedPoint
	for _, p := range points {
		if p.DeltaSpeed <= maxSpeed {
			rest = append(rest, p)
		}
	}
	return rest
}

// DetectRestStops groups the resting points into stops: each maximal run of
// consecutive stream positions becomes one stop, anchored at its first point.
// A stop's duration is the sum of the elapsed times of its points.
func DetectRestStops(points []models.EnrichedPoint, maxSpeed float64) []models.RestStop {
	var (
		stops  []models.RestStop
		inStop bool
		stop   models.RestStop
		last   int
	)

	for _, p := range RestPoints(points, maxSpeed) {
		if inStop && p.Index == last+1 {
			stop.EndTime = p.Time
			stop.Duration += p.DeltaTime
			stop.PointCount++
		} else {
			if inStop {
				stops = append(stops, stop)
			}
			inStop = true
			stop = models.RestStop{
				Index:      len(stops) + 1,
				StartTime:  p.Time,
				EndTime:    p.Time,
				Latitude:   p.Latitude,
				Longitude:  p.Longitude,
				Duration:   p.DeltaTime,
				PointCount: 1,
			}
		}
		last = p.Index
	}

	if inStop {
		stops = append(stops, stop)
	}

	return stops
}
