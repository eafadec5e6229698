package service

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jengzang/ride-stats/internal/analysis"
	"github.com/jengzang/ride-stats/internal/analysis/behavior"
	"github.com/jengzang/ride-stats/internal/analysis/foundation"
	"github.com/jengzang/ride-stats/internal/config"
	"github.com/jengzang/ride-stats/internal/database"
	"github.com/jengzang/ride-stats/internal/export"
	"github.com/jengzang/ride-stats/internal/gpxfile"
	"github.com/jengzang/ride-stats/internal/models"
	"github.com/jengzang/ride-stats/internal/render"
	"github.com/jengzang/ride-stats/internal/repository"
	"github.com/jengzang/ride-stats/internal/stats"
)

// Output suffixes appended to the base name
const (
	SuffixCSV     = ".csv"
	SuffixMap     = ".html"
	SuffixScatter = ".png"
	SuffixProfile = "_profile.html"
	SuffixDB      = ".db"
)

// Output is one rendered file, not yet written
type Output struct {
	Path string
	Data []byte
}

// RideService runs the analysis pipeline for one ride
type RideService struct {
	cfg config.Config
}

// NewRideService creates a new ride service
func NewRideService(cfg config.Config) *RideService {
	return &RideService{cfg: cfg}
}

// Analyze loads the configured GPX file and analyses it
func (s *RideService) Analyze() (*models.RideReport, error) {
	track, err := gpxfile.Load(s.cfg.InputPath)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeTrack(track)
}

// AnalyzeTrack derives the point stream of an already loaded track and
// computes stats, rest stops and laps according to the configuration.
func (s *RideService) AnalyzeTrack(track models.Track) (*models.RideReport, error) {
	points, err := foundation.Derive(track.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to derive point stream: %w", err)
	}

	report := &models.RideReport{
		Track:  track,
		Points: points,
		Stats:  stats.CollectRoute(track, points),
	}

	if s.cfg.ShowRest {
		report.RestPoints = behavior.RestPoints(points, s.cfg.RestMaxSpeed)
		report.RestStops = behavior.DetectRestStops(points, s.cfg.RestMaxSpeed)
		stats.CollectRest(&report.Stats, report.RestPoints)
	}

	if s.cfg.Aggregated() {
		agg, err := analysis.NewLapAggregator(s.cfg.AggregateDistanceKm, s.cfg.AggregateTimeMin)
		if err != nil {
			return nil, fmt.Errorf("failed to create lap aggregator: %w", err)
		}
		log.Printf("[Service] Aggregating by %s", agg.GetName())
		report.LapMode = agg.GetName()
		report.Laps = agg.Aggregate(points)
		stats.CollectLaps(&report.Stats, report.Laps)
	}

	log.Printf("[Service] Analysed %d points, %d laps, %d rest stops",
		len(report.Points), len(report.Laps), len(report.RestStops))
	return report, nil
}

// Render produces every configured output in memory. Nothing is written.
func (s *RideService) Render(report *models.RideReport) ([]Output, error) {
	var csvBuf bytes.Buffer
	if err := export.ReportCSV(&csvBuf, report); err != nil {
		return nil, fmt.Errorf("failed to export csv: %w", err)
	}

	mapHTML, err := render.RenderMap(report, s.cfg.Map)
	if err != nil {
		return nil, err
	}

	outputs := []Output{
		{Path: s.cfg.OutputPath(SuffixCSV), Data: csvBuf.Bytes()},
		{Path: s.cfg.OutputPath(SuffixMap), Data: mapHTML},
	}

	if s.cfg.Plot {
		png, err := render.RenderScatter(filepath.Base(s.cfg.BaseName), report.Points)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Path: s.cfg.OutputPath(SuffixScatter), Data: png})
	}

	if s.cfg.Profile {
		profile, err := render.RenderProfile(report)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Path: s.cfg.OutputPath(SuffixProfile), Data: profile})
	}

	if s.cfg.DB {
		db, err := ExportDB(report)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Path: s.cfg.OutputPath(SuffixDB), Data: db})
	}

	return outputs, nil
}

// Run analyses the ride, renders every output and writes them
func (s *RideService) Run() (*models.RideReport, error) {
	report, err := s.Analyze()
	if err != nil {
		return nil, err
	}
	outputs, err := s.Render(report)
	if err != nil {
		return nil, err
	}
	if err := WriteOutputs(outputs); err != nil {
		return nil, err
	}
	return report, nil
}

// ExportDB saves the report into a fresh SQLite database and returns the file content
func ExportDB(report *models.RideReport) ([]byte, error) {
	dir, err := os.MkdirTemp("", "ridestats-db-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "ride.db")
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}

	repo := repository.NewRideRepository(db)
	rideID, err := repo.Save(report)
	if err != nil {
		db.Close()
		return nil, err
	}
	stored, err := repo.CountPoints(rideID)
	if err != nil || stored != len(report.Points) {
		db.Close()
		return nil, fmt.Errorf("failed to export ride: stored %d of %d points: %v", stored, len(report.Points), err)
	}
	// fold the WAL back into the main file before reading it
	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to checkpoint database: %w", err)
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("failed to close database: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database: %w", err)
	}
	return data, nil
}

// WriteOutputs stages every output next to its destination and renames them
// into place only once all of them were written. On failure neither staged
// files nor already moved outputs are left behind.
func WriteOutputs(outputs []Output) error {
	for _, out := range outputs {
		if info, err := os.Stat(out.Path); err == nil && info.IsDir() {
			return fmt.Errorf("failed to write %s: destination is a directory", out.Path)
		}
	}

	staged := make([]string, 0, len(outputs))
	cleanup := func(moved int) {
		for i, tmp := range staged {
			if i < moved {
				os.Remove(outputs[i].Path)
			} else {
				os.Remove(tmp)
			}
		}
	}

	for _, out := range outputs {
		tmp, err := stage(out)
		if err != nil {
			cleanup(0)
			return err
		}
		staged = append(staged, tmp)
	}

	for i, out := range outputs {
		if err := os.Rename(staged[i], out.Path); err != nil {
			cleanup(i)
			return fmt.Errorf("failed to move %s into place: %w", out.Path, err)
		}
	}
	for _, out := range outputs {
		log.Printf("[Service] Wrote %s (%d bytes)", out.Path, len(out.Data))
	}
	return nil
}

func stage(out Output) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(out.Path), "."+filepath.Base(out.Path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", out.Path, err)
	}
	if _, err := f.Write(out.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write %s: %w", out.Path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close %s: %w", out.Path, err)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to chmod %s: %w", out.Path, err)
	}
	return f.Name(), nil
}
