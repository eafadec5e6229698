package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/ride-stats/internal/database"
	"github.com/jengzang/ride-stats/internal/models"
)

// RideRepository persists analysed rides into the export database
type RideRepository struct {
	db *database.DB
}

// NewRideRepository creates a new ride repository
func NewRideRepository(db *database.DB) *RideRepository {
	return &RideRepository{db: db}
}

// Save writes the ride with all its points, laps and rest stops in one
// transaction and returns the new ride id.
func (r *RideRepository) Save(report *models.RideReport) (int64, error) {
	var rideID int64
	err := r.db.Transaction(func(tx *sql.Tx) error {
		var err error
		rideID, err = insertRide(tx, report)
		if err != nil {
			return err
		}
		if err := insertPoints(tx, rideID, report.Points); err != nil {
			return err
		}
		if err := insertLaps(tx, rideID, report.Laps); err != nil {
			return err
		}
		return insertRestStops(tx, rideID, report.RestStops)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save ride: %w", err)
	}
	return rideID, nil
}

func insertRide(tx *sql.Tx, report *models.RideReport) (int64, error) {
	s := report.Stats
	var rest, lapBest sql.NullFloat64
	if s.RestDuration != nil {
		rest = sql.NullFloat64{Float64: s.RestDuration.Seconds(), Valid: true}
	}
	if s.LapBest != nil {
		lapBest = sql.NullFloat64{Float64: *s.LapBest, Valid: true}
	}

	res, err := tx.Exec(`INSERT INTO rides
		(name, ride_date, start_time, lap_mode, km, duration_s, avg_speed, max_speed, rest_duration_s, lap_best)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Date, timeText(report.Track.StartTime), report.LapMode,
		s.Km, s.Duration.Seconds(), s.AvgSpeed, s.MaxSpeed, rest, lapBest)
	if err != nil {
		return 0, fmt.Errorf("failed to insert ride: %w", err)
	}
	return res.LastInsertId()
}

func insertPoints(tx *sql.Tx, rideID int64, points []models.EnrichedPoint) error {
	stmt, err := tx.Prepare(`INSERT INTO ride_points
		(ride_id, idx, latitude, longitude, elevation, time, d_distance, d_time_s, d_elevation, d_speed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		_, err := stmt.Exec(rideID, p.Index, p.Latitude, p.Longitude, p.Elevation, timeText(p.Time),
			p.DeltaDistance, p.DeltaTime.Seconds(), p.DeltaElevation, p.DeltaSpeed)
		if err != nil {
			return fmt.Errorf("failed to insert point %d: %w", p.Index, err)
		}
	}
	return nil
}

func insertLaps(tx *sql.Tx, rideID int64, laps []models.LapSummary) error {
	stmt, err := tx.Prepare(`INSERT INTO ride_laps
		(ride_id, lap, start_time, start_latitude, start_longitude, end_latitude, end_longitude,
		 distance, duration_s, elevation, avg_speed, first_point, last_point)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare lap insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range laps {
		_, err := stmt.Exec(rideID, l.Index, timeText(l.StartTime), l.StartLatitude, l.StartLongitude,
			nullFloat(l.EndLatitude), nullFloat(l.EndLongitude),
			l.Distance, l.Duration.Seconds(), l.Elevation, l.AvgSpeed, l.FirstPoint, l.LastPoint)
		if err != nil {
			return fmt.Errorf("failed to insert lap %d: %w", l.Index, err)
		}
	}
	return nil
}

func insertRestStops(tx *sql.Tx, rideID int64, stops []models.RestStop) error {
	for _, s := range stops {
		_, err := tx.Exec(`INSERT INTO ride_rest_stops
			(ride_id, stop, start_time, end_time, latitude, longitude, duration_s, point_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rideID, s.Index, timeText(s.StartTime), timeText(s.EndTime),
			s.Latitude, s.Longitude, s.Duration.Seconds(), s.PointCount)
		if err != nil {
			return fmt.Errorf("failed to insert rest stop %d: %w", s.Index, err)
		}
	}
	return nil
}

// CountPoints returns the number of stored points of a ride
func (r *RideRepository) CountPoints(rideID int64) (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM ride_points WHERE ride_id = ?", rideID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return n, nil
}

func timeText(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
