package laps

import (
	"time"

	"github.com/jengzang/ride-stats/internal/analysis/foundation"
	"github.com/jengzang/ride-stats/internal/models"
)

// accumulator is the running total of the single open lap. It is owned by
// one fold and turned into an immutable LapSummary by seal.
type accumulator struct {
	startTime      time.Time
	startLatitude  float64
	startLongitude float64

	hasEnd       bool
	endLatitude  float64
	endLongitude float64

	distance  float64
	duration  time.Duration
	elevation float64

	firstPoint int
	lastPoint  int
	points     int
}

// openAt starts a lap on p. Running totals are left for the variant's
// seeding rule to fill in.
func openAt(p models.EnrichedPoint) accumulator {
	return accumulator{
		startTime:      p.Time,
		startLatitude:  p.Latitude,
		startLongitude: p.Longitude,
		firstPoint:     p.Index,
		lastPoint:      p.Index,
		points:         1,
	}
}

// fold adds the deltas of p to the lap and moves its end to p
func (a *accumulator) fold(p models.EnrichedPoint) {
	a.distance += p.DeltaDistance
	a.duration += p.DeltaTime
	a.elevation += p.DeltaElevation
	a.setEnd(p)
	a.lastPoint = p.Index
	a.points++
}

func (a *accumulator) setEnd(p models.EnrichedPoint) {
	a.hasEnd = true
	a.endLatitude = p.Latitude
	a.endLongitude = p.Longitude
}

// seal computes the average speed and detaches the lap summary
func (a *accumulator) seal(index int) models.LapSummary {
	lap := models.LapSummary{
		Index:          index,
		StartTime:      a.startTime,
		StartLatitude:  a.startLatitude,
		StartLongitude: a.startLongitude,
		Distance:       a.distance,
		Duration:       a.duration,
		Elevation:      a.elevation,
		AvgSpeed:       foundation.Speed(a.distance, a.duration),
		FirstPoint:     a.firstPoint,
		LastPoint:      a.lastPoint,
		PointCount:     a.points,
	}
	if a.hasEnd {
		lat, lon := a.endLatitude, a.endLongitude
		lap.EndLatitude = &lat
		lap.EndLongitude = &lon
	}
	return lap
}

// rule describes one threshold-bucketed fold variant
type rule struct {
	seed    func(p models.EnrichedPoint) accumulator
	crossed func(a *accumulator) bool
}

// fold runs the threshold-bucketed fold shared by all variants: seed a lap on
// the first point after a seal, fold every following point into it, seal when
// the threshold is crossed, and seal whatever is still open at the end.
func (r rule) fold(points []models.EnrichedPoint) []models.LapSummary {
	var (
		laps []models.LapSummary
		open *accumulator
	)

	for _, p := range points {
		if open == nil {
			acc := r.seed(p)
			open = &acc
		} else {
			open.fold(p)
		}

		if r.crossed(open) {
			laps = append(laps, open.seal(len(laps)+1))
			open = nil
		}
	}

	if open != nil {
		laps = append(laps, open.seal(len(laps)+1))
	}

	return laps
}
