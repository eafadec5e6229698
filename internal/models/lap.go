package models

import "time"

// LapSummary is one sealed aggregation bucket: a fold over a contiguous
// range of enriched points.
type LapSummary struct {
	Index int `json:"index"` // 1-based

	StartTime      time.Time `json:"startTime"`
	StartLatitude  float64   `json:"startLatitude"`
	StartLongitude float64   `json:"startLongitude"`

	// End coordinates are nil when the lap never folded a second point
	// and the aggregation variant does not seed them.
	EndLatitude  *float64 `json:"endLatitude,omitempty"`
	EndLongitude *float64 `json:"endLongitude,omitempty"`

	Distance  float64       `json:"distance"`  // meters
	Duration  time.Duration `json:"duration"`  // elapsed, folded from the points
	Elevation float64       `json:"elevation"` // meters, signed
	AvgSpeed  float64       `json:"avgSpeed"`  // km/h

	// Inclusive stream indices of the folded points
	FirstPoint int `json:"firstPoint"`
	LastPoint  int `json:"lastPoint"`
	PointCount int `json:"pointCount"`
}

// MarkerPosition returns where a lap marker belongs on the map: the lap end,
// or the lap start when no end was recorded.
func (l LapSummary) MarkerPosition() (lat, lon float64) {
	if l.EndLatitude != nil && l.EndLongitude != nil {
		return *l.EndLatitude, *l.EndLongitude
	}
	return l.StartLatitude, l.StartLongitude
}

// LapMode constants
const (
	LapModeNone     = ""
	LapModeDistance = "distance"
	LapModeTime     = "time"
)
