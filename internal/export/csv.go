package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/jengzang/ride-stats/internal/models"
)

type pointRow struct {
	Index          int       `csv:"index"`
	Latitude       float64   `csv:"latitude"`
	Longitude      float64   `csv:"longitude"`
	Elevation      float64   `csv:"elevation"`
	Time           time.Time `csv:"time"`
	DeltaDistance  float64   `csv:"d_distance"`
	DeltaTime      float64   `csv:"d_time"` // seconds
	DeltaElevation float64   `csv:"d_elevation"`
	DeltaSpeed     float64   `csv:"d_speed"`
}

type lapRow struct {
	Lap          int       `csv:"lap"`
	Time         time.Time `csv:"time"`
	Latitude     float64   `csv:"latitude"`
	Longitude    float64   `csv:"longitude"`
	LatitudeEnd  *float64  `csv:"latitude_end"`
	LongitudeEnd *float64  `csv:"longitude_end"`
	Distance     float64   `csv:"d_distance"`
	Duration     float64   `csv:"d_time"` // seconds
	Elevation    float64   `csv:"d_elevation"`
	Speed        float64   `csv:"d_speed"`
	Points       int       `csv:"points"`
}

// PointsCSV writes one row per enriched point
func PointsCSV(w io.Writer, points []models.EnrichedPoint) error {
	rows := make([]pointRow, len(points))
	for i, p := range points {
		rows[i] = pointRow{
			Index:          p.Index,
			Latitude:       p.Latitude,
			Longitude:      p.Longitude,
			Elevation:      p.Elevation,
			Time:           p.Time,
			DeltaDistance:  p.DeltaDistance,
			DeltaTime:      p.DeltaTime.Seconds(),
			DeltaElevation: p.DeltaElevation,
			DeltaSpeed:     p.DeltaSpeed,
		}
	}
	return encode(w, rows)
}

// LapsCSV writes one row per sealed lap
func LapsCSV(w io.Writer, laps []models.LapSummary) error {
	rows := make([]lapRow, len(laps))
	for i, l := range laps {
		rows[i] = lapRow{
			Lap:          l.Index,
			Time:         l.StartTime,
			Latitude:     l.StartLatitude,
			Longitude:    l.StartLongitude,
			LatitudeEnd:  l.EndLatitude,
			LongitudeEnd: l.EndLongitude,
			Distance:     l.Distance,
			Duration:     l.Duration.Seconds(),
			Elevation:    l.Elevation,
			Speed:        l.AvgSpeed,
			Points:       l.PointCount,
		}
	}
	return encode(w, rows)
}

// ReportCSV exports the laps of an aggregated ride, otherwise its points
func ReportCSV(w io.Writer, report *models.RideReport) error {
	if report.Aggregated() {
		return LapsCSV(w, report.Laps)
	}
	return PointsCSV(w, report.Points)
}

func encode[T any](w io.Writer, rows []T) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	// an empty slice still gets a header row
	var zero T
	if err := enc.EncodeHeader(zero); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
