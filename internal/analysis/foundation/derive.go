package foundation

import (
	"errors"
	"fmt"

	"github.com/jengzang/ride-stats/internal/models"
)

// ErrTimeReversed is returned when a point is timestamped before its predecessor
var ErrTimeReversed = errors.New("timestamp earlier than previous point")

// Derive attaches point-to-point deltas to every point of the stream in a
// single forward pass. Only the immediate predecessor is consulted, and
// track or segment boundaries do not reset it.
func Derive(points []models.RawPoint) ([]models.EnrichedPoint, error) {
	enriched := make([]models.EnrichedPoint, 0, len(points))

	var prev *models.RawPoint
	for i, p := range points {
		elapsed := ElapsedTime(p, prev)
		if elapsed < 0 {
			return nil, fmt.Errorf("point %d (%s): %w", i, p.Time.Format("2006-01-02T15:04:05Z07:00"), ErrTimeReversed)
		}

		distance := Distance(p, prev)
		enriched = append(enriched, models.EnrichedPoint{
			RawPoint:       p,
			Index:          i,
			DeltaDistance:  distance,
			DeltaTime:      elapsed,
			DeltaElevation: ElevationDelta(p, prev),
			DeltaSpeed:     Speed(distance, elapsed),
		})

		prev = &points[i]
	}

	return enriched, nil
}
