package models

import "time"

// RestStop is a contiguous run of points whose speed stays at or below the
// rest threshold
type RestStop struct {
	Index      int           `json:"index"` // 1-based
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Latitude   float64       `json:"latitude"`
	Longitude  float64       `json:"longitude"`
	Duration   time.Duration `json:"duration"`
	PointCount int           `json:"pointCount"`
}
