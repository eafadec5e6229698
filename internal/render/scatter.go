package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jengzang/ride-stats/internal/models"
	"github.com/jengzang/ride-stats/internal/spatial"
)

const (
	scatterWidth  = 14 * vg.Inch
	scatterHeight = 8 * vg.Inch
	minAxisPad    = 0.001 // degrees
)

// RenderScatter plots every fix as longitude/latitude and encodes the figure as PNG
func RenderScatter(title string, points []models.EnrichedPoint) ([]byte, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(20)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	xys := make(plotter.XYs, len(points))
	pts := make([]spatial.Point, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.Longitude, Y: pt.Latitude}
		pts[i] = spatial.Point{Lat: pt.Latitude, Lon: pt.Longitude}
	}

	if len(xys) > 0 {
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build scatter: %w", err)
		}
		s.GlyphStyle.Color = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
	}

	minLat, minLon, maxLat, maxLon := spatial.BoundingBox(pts)
	latPad := math.Max((maxLat-minLat)*0.05, minAxisPad)
	lonPad := math.Max((maxLon-minLon)*0.05, minAxisPad)
	p.X.Min, p.X.Max = minLon-lonPad, maxLon+lonPad
	p.Y.Min, p.Y.Max = minLat-latPad, maxLat+latPad

	wt, err := p.WriterTo(scatterWidth, scatterHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
