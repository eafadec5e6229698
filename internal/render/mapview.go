package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jengzang/ride-stats/internal/config"
	"github.com/jengzang/ride-stats/internal/models"
	"github.com/jengzang/ride-stats/internal/spatial"
	"github.com/jengzang/ride-stats/internal/stats"
)

var (
	//go:embed "map.html.tmpl"
	mapHTML     string
	mapTemplate = template.Must(template.New("map").Parse(mapHTML))
)

type marker struct {
	Lat     float64
	Lon     float64
	Tooltip string
}

type mapView struct {
	Title  string
	Center spatial.Point
	Zoom   int
	Width  int
	Height int
	Weight int
	Radius int
	Path   [][2]float64
	Laps   []marker
	Rests  []marker
}

// RenderMap renders the ride as a standalone Leaflet page: the route polyline
// centered on the mean coordinate, a circle marker at the end of every lap and
// a marker at every rest stop.
func RenderMap(report *models.RideReport, mc config.MapConfig) ([]byte, error) {
	view := mapView{
		Title:  report.Track.Name,
		Zoom:   mc.ZoomStart,
		Width:  mc.Width,
		Height: mc.Height,
		Weight: mc.PolylineWidth,
		Radius: mc.MarkerRadius,
		Path:   make([][2]float64, len(report.Points)),
	}

	pts := make([]spatial.Point, len(report.Points))
	for i, p := range report.Points {
		view.Path[i] = [2]float64{p.Latitude, p.Longitude}
		pts[i] = spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
	}
	view.Center = spatial.Centroid(pts)

	for _, l := range report.Laps {
		lat, lon := l.MarkerPosition()
		view.Laps = append(view.Laps, marker{Lat: lat, Lon: lon, Tooltip: LapTooltip(l)})
	}
	for _, r := range report.RestStops {
		view.Rests = append(view.Rests, marker{Lat: r.Latitude, Lon: r.Longitude, Tooltip: RestTooltip(r)})
	}

	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render map: %w", err)
	}
	return buf.Bytes(), nil
}

// LapTooltip is the hover text of a lap marker
func LapTooltip(l models.LapSummary) string {
	lines := []string{
		fmt.Sprintf("Lap %d", l.Index),
		"Distance: " + stats.FormatNumber(stats.Round(l.Distance/1000, 2)),
		"Elevation: " + stats.FormatNumber(stats.Round(l.Elevation, 0)),
		"Lap time: " + stats.FormatDuration(l.Duration),
		"Speed: " + stats.FormatNumber(stats.Round(l.AvgSpeed, 1)),
	}
	return strings.Join(lines, "<br />")
}

// RestTooltip is the hover text of a rest marker
func RestTooltip(r models.RestStop) string {
	return fmt.Sprintf("Rest %d<br />Rest time: %s", r.Index, stats.FormatDuration(r.Duration))
}
