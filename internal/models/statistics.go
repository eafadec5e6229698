package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// RideStats holds the summary metrics of one ride. Optional metrics are nil
// when the matching report was not requested.
type RideStats struct {
	Date     string        `json:"date"` // YYYY-MM-DD of the first fix
	Name     string        `json:"name"`
	Km       float64       `json:"km"`
	Duration time.Duration `json:"duration"`
	AvgSpeed float64       `json:"avgSpeed"` // km/h
	MaxSpeed float64       `json:"maxSpeed"` // km/h

	RestDuration *time.Duration `json:"restDuration,omitempty"`
	LapBest      *float64       `json:"lapBest,omitempty"`
}

// StatEntry is one label/value pair of the printed stats mapping
type StatEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StatEntries marshals to a JSON object whose keys keep the entry order
type StatEntries []StatEntry

// MarshalJSON implements json.Marshaler
func (e StatEntries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(entry.Label)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Stat labels, in print order
const (
	StatDate         = "Date"
	StatName         = "Name"
	StatKm           = "Km"
	StatTourDuration = "Tour Duration"
	StatTourAvg      = "Tour Avg"
	StatMax          = "Max"
	StatRestDuration = "Rest Duration"
	StatLapBest      = "Lap Best"
)
