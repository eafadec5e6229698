package foundation

import (
	"time"

	"github.com/jengzang/ride-stats/internal/models"
	"github.com/jengzang/ride-stats/internal/spatial"
)

// msToKmh converts meters per second to kilometers per hour
const msToKmh = 3.6

// Distance returns the great-circle distance in meters from prev to cur,
// or 0 when there is no predecessor.
func Distance(cur models.RawPoint, prev *models.RawPoint) float64 {
	if prev == nil {
		return 0
	}
	return spatial.HaversineDistance(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
}

// ElapsedTime returns cur.Time - prev.Time, or 0 when there is no predecessor.
// The result is negative for out-of-order input; Derive rejects that case.
func ElapsedTime(cur models.RawPoint, prev *models.RawPoint) time.Duration {
	if prev == nil {
		return 0
	}
	return cur.Time.Sub(prev.Time)
}

// ElevationDelta returns the signed elevation change from prev to cur,
// or 0 when there is no predecessor.
func ElevationDelta(cur models.RawPoint, prev *models.RawPoint) float64 {
	if prev == nil {
		return 0
	}
	return cur.Elevation - prev.Elevation
}

// Speed returns the average speed in km/h for covering meters in elapsed.
// A zero-length duration yields 0.
func Speed(meters float64, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds == 0 {
		return 0
	}
	return meters / seconds * msToKmh
}
