package models

// RideReport is everything computed for one ride before any output is written
type RideReport struct {
	Track      Track           `json:"track"`
	Points     []EnrichedPoint `json:"-"`
	LapMode    string          `json:"lapMode,omitempty"`
	Laps       []LapSummary    `json:"-"`
	RestPoints []EnrichedPoint `json:"-"`
	RestStops  []RestStop      `json:"-"`
	Stats      RideStats       `json:"stats"`
}

// Aggregated reports whether the ride was folded into laps
func (r *RideReport) Aggregated() bool {
	return r.LapMode != LapModeNone
}
