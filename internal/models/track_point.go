package models

import "time"

// RawPoint is one recorded GPS fix as read from the GPX file
type RawPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Elevation float64   `json:"elevation"` // meters, 0 when the fix carries no elevation
	Time      time.Time `json:"time"`
}

// EnrichedPoint is a RawPoint with the deltas to its immediate predecessor.
// The first point of a stream has all deltas zero.
type EnrichedPoint struct {
	RawPoint

	Index          int           `json:"index"`          // position in the flattened stream
	DeltaDistance  float64       `json:"deltaDistance"`  // meters
	DeltaTime      time.Duration `json:"deltaTime"`      // never negative
	DeltaElevation float64       `json:"deltaElevation"` // meters, signed
	DeltaSpeed     float64       `json:"deltaSpeed"`     // km/h
}

// Track is the flattened content of a GPX file: every segment of every
// track concatenated in file order.
type Track struct {
	Name         string     `json:"name"`
	StartTime    time.Time  `json:"startTime"`
	Points       []RawPoint `json:"-"`
	TrackCount   int        `json:"trackCount"`
	SegmentCount int        `json:"segmentCount"`
}
