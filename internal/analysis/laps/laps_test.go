package laps

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/ride-stats/internal/analysis"
	"github.com/jengzang/ride-stats/internal/analysis/foundation"
	"github.com/jengzang/ride-stats/internal/models"
)

var start = time.Date(2024, 7, 14, 9, 0, 0, 0, time.UTC)

// equatorTrack lays n points along the equator, step degrees of longitude
// and interval apart, climbing one meter per point.
func equatorTrack(t *testing.T, n int, step float64, interval time.Duration) []models.EnrichedPoint {
	t.Helper()

	raw := make([]models.RawPoint, n)
	for i := range raw {
		raw[i] = models.RawPoint{
			Latitude:  0,
			Longitude: float64(i) * step,
			Elevation: 200 + float64(i),
			Time:      start.Add(time.Duration(i) * interval),
		}
	}

	points, err := foundation.Derive(raw)
	require.NoError(t, err)
	return points
}

// assertPartition checks that the laps cover every point exactly once, in order.
func assertPartition(t *testing.T, points []models.EnrichedPoint, laps []models.LapSummary) {
	t.Helper()

	next := 0
	for i, lap := range laps {
		assert.Equal(t, i+1, lap.Index)
		assert.Equal(t, next, lap.FirstPoint, "lap %d starts where the previous one ended", lap.Index)
		assert.Equal(t, lap.LastPoint-lap.FirstPoint+1, lap.PointCount)
		assert.Equal(t, points[lap.FirstPoint].Time, lap.StartTime)
		next = lap.LastPoint + 1
	}
	assert.Equal(t, len(points), next, "laps must reach the last point")
}

func TestByDistanceTwoAndAHalfKilometers(t *testing.T) {
	t.Parallel()

	// 26 points 0.0009 deg apart: 25 steps of ~100.08 m, ~2.5 km in total
	points := equatorTrack(t, 26, 0.0009, 20*time.Second)

	agg, err := NewByDistance(1)
	require.NoError(t, err)
	laps := agg.Aggregate(points)

	require.Len(t, laps, 3)
	assertPartition(t, points, laps)

	for _, lap := range laps[:2] {
		assert.GreaterOrEqual(t, lap.Distance, 1000.0)
	}
	assert.Less(t, laps[2].Distance, 1000.0)

	assert.Equal(t, []int{11, 11, 4}, []int{laps[0].PointCount, laps[1].PointCount, laps[2].PointCount})
}

func TestByDistanceSeedingRule(t *testing.T) {
	t.Parallel()

	points := equatorTrack(t, 26, 0.0009, 20*time.Second)
	laps := (&ByDistance{Kilometers: 1}).Aggregate(points)
	require.Len(t, laps, 3)

	second := laps[1]
	seed := points[second.FirstPoint]

	// the seeding point's own distance and elevation deltas are not counted,
	// its elapsed time is
	var wantDistance, wantElevation float64
	wantDuration := seed.DeltaTime
	for _, p := range points[second.FirstPoint+1 : second.LastPoint+1] {
		wantDistance += p.DeltaDistance
		wantElevation += p.DeltaElevation
		wantDuration += p.DeltaTime
	}
	assert.InDelta(t, wantDistance, second.Distance, 1e-9)
	assert.InDelta(t, wantElevation, second.Elevation, 1e-9)
	assert.Equal(t, wantDuration, second.Duration)
	assert.InDelta(t, foundation.Speed(second.Distance, second.Duration), second.AvgSpeed, 1e-12)

	last := points[second.LastPoint]
	require.NotNil(t, second.EndLatitude)
	require.NotNil(t, second.EndLongitude)
	assert.Equal(t, last.Latitude, *second.EndLatitude)
	assert.Equal(t, last.Longitude, *second.EndLongitude)
}

func TestByTimeLaps(t *testing.T) {
	t.Parallel()

	// eight points 30 s apart, one minute laps
	points := equatorTrack(t, 8, 0.0005, 30*time.Second)

	agg, err := NewByTime(1)
	require.NoError(t, err)
	laps := agg.Aggregate(points)

	require.Len(t, laps, 4)
	assertPartition(t, points, laps)

	for _, lap := range laps[:3] {
		assert.GreaterOrEqual(t, lap.Duration, time.Minute)
	}

	// first lap: seeded on point 0 (no elapsed time), then points 1 and 2
	assert.Equal(t, 3, laps[0].PointCount)
	// later laps are seeded with 30 s and need one more point to cross
	assert.Equal(t, 2, laps[1].PointCount)
	assert.Equal(t, 2, laps[2].PointCount)

	// trailing partial lap holds only point 7: its end is never set
	trailing := laps[3]
	assert.Equal(t, 1, trailing.PointCount)
	assert.Equal(t, 30*time.Second, trailing.Duration)
	assert.Nil(t, trailing.EndLatitude)
	assert.Nil(t, trailing.EndLongitude)
	assert.InDelta(t, points[7].DeltaDistance, trailing.Distance, 1e-9)
	assert.Zero(t, trailing.Elevation)

	lat, lon := trailing.MarkerPosition()
	assert.Equal(t, points[7].Latitude, lat)
	assert.Equal(t, points[7].Longitude, lon)
}

func TestAggregateEdgeCases(t *testing.T) {
	t.Parallel()

	aggregators := []analysis.LapAggregator{&ByDistance{Kilometers: 1}, &ByTime{Minutes: 5}}

	for _, agg := range aggregators {
		t.Run(agg.GetName(), func(t *testing.T) {
			assert.Empty(t, agg.Aggregate(nil))

			single := equatorTrack(t, 1, 0, 0)
			laps := agg.Aggregate(single)
			require.Len(t, laps, 1)
			assert.Zero(t, laps[0].Distance)
			assert.Zero(t, laps[0].Duration)
			assert.Zero(t, laps[0].AvgSpeed)
			assert.Equal(t, 1, laps[0].PointCount)
		})
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	t.Parallel()

	points := equatorTrack(t, 40, 0.0007, 15*time.Second)
	for _, agg := range []analysis.LapAggregator{&ByDistance{Kilometers: 1}, &ByTime{Minutes: 2}} {
		assert.Equal(t, agg.Aggregate(points), agg.Aggregate(points), agg.GetName())
	}
}

func TestInvalidThresholds(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1} {
		_, err := NewByDistance(n)
		assert.True(t, errors.Is(err, analysis.ErrInvalidThreshold))

		_, err = NewByTime(n)
		assert.True(t, errors.Is(err, analysis.ErrInvalidThreshold))
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{models.LapModeDistance, models.LapModeTime}, analysis.RegisteredModes())

	agg, err := analysis.NewLapAggregator(2, 10)
	require.NoError(t, err)
	assert.Equal(t, models.LapModeDistance, agg.GetName(), "distance takes precedence")
	assert.Equal(t, 2, agg.(*ByDistance).Kilometers)

	agg, err = analysis.NewLapAggregator(0, 10)
	require.NoError(t, err)
	assert.Equal(t, models.LapModeTime, agg.GetName())

	agg, err = analysis.NewLapAggregator(0, 0)
	require.NoError(t, err)
	assert.Nil(t, agg)

	_, err = analysis.NewLapAggregator(-3, 0)
	assert.True(t, errors.Is(err, analysis.ErrInvalidThreshold))

	_, err = analysis.GetAggregator("elevation", 100)
	assert.Error(t, err)
}
