package stats

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/jengzang/ride-stats/internal/analysis/foundation"
	"github.com/jengzang/ride-stats/internal/models"
)

// CollectRoute derives the whole-ride metrics from the enriched stream.
// An empty stream yields zero totals.
func CollectRoute(track models.Track, points []models.EnrichedPoint) models.RideStats {
	distances := make([]float64, len(points))
	speeds := make([]float64, len(points))
	for i, p := range points {
		distances[i] = p.DeltaDistance
		speeds[i] = p.DeltaSpeed
	}

	total := floats.Sum(distances)
	duration := TotalDuration(points)

	rs := models.RideStats{
		Name:     track.Name,
		Km:       Round(total/1000, 2),
		Duration: duration,
		AvgSpeed: Round(foundation.Speed(total, duration), 1),
	}
	if len(speeds) > 0 {
		rs.MaxSpeed = Round(floats.Max(speeds), 1)
	}
	if !track.StartTime.IsZero() {
		rs.Date = track.StartTime.Format("2006-01-02")
	}
	return rs
}

// CollectRest records the total elapsed time of the resting points
func CollectRest(rs *models.RideStats, restPoints []models.EnrichedPoint) {
	d := TotalDuration(restPoints)
	rs.RestDuration = &d
}

// CollectLaps records the best lap average speed. Without laps nothing is recorded.
func CollectLaps(rs *models.RideStats, laps []models.LapSummary) {
	if len(laps) == 0 {
		return
	}

	speeds := make([]float64, len(laps))
	for i, l := range laps {
		speeds[i] = l.AvgSpeed
	}
	best := Round(floats.Max(speeds), 1)
	rs.LapBest = &best
}

// TotalDuration sums the elapsed time of the points
func TotalDuration(points []models.EnrichedPoint) time.Duration {
	var d time.Duration
	for _, p := range points {
		d += p.DeltaTime
	}
	return d
}

// Round rounds v to the given number of decimals, half away from zero
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0 // no negative zero
	}
	return r
}
