package gpxfile

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/jengzang/ride-stats/internal/models"
)

// Load reads and parses the GPX file at path
func Load(path string) (models.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Track{}, fmt.Errorf("failed to open gpx file: %w", err)
	}
	defer f.Close()

	track, err := Parse(f)
	if err != nil {
		return models.Track{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	log.Printf("[GPX] Loaded %s: %d points in %d tracks / %d segments",
		path, len(track.Points), track.TrackCount, track.SegmentCount)
	return track, nil
}

// Parse decodes a GPX document and flattens every segment of every track,
// in document order, into a single point stream.
func Parse(r io.Reader) (models.Track, error) {
	g, err := gpx.Parse(r)
	if err != nil {
		return models.Track{}, err
	}
	return Flatten(g), nil
}

// Flatten converts an already parsed document
func Flatten(g *gpx.GPX) models.Track {
	track := models.Track{
		Name:       g.Name,
		StartTime:  g.TimeBounds().StartTime,
		TrackCount: len(g.Tracks),
	}

	for _, t := range g.Tracks {
		track.SegmentCount += len(t.Segments)
		for _, seg := range t.Segments {
			for _, p := range seg.Points {
				var ele float64
				if p.Elevation.NotNull() {
					ele = p.Elevation.Value()
				}
				track.Points = append(track.Points, models.RawPoint{
					Latitude:  p.Latitude,
					Longitude: p.Longitude,
					Elevation: ele,
					Time:      p.Timestamp,
				})
			}
		}
	}
	return track
}
