package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jengzang/ride-stats/internal/models"
	"github.com/jengzang/ride-stats/internal/stats"
)

// RenderProfile renders speed and elevation over distance and, for an
// aggregated ride, the average speed of each lap.
func RenderProfile(report *models.RideReport) ([]byte, error) {
	xs := make([]string, len(report.Points))
	speeds := make([]opts.LineData, len(report.Points))
	elevations := make([]opts.LineData, len(report.Points))

	var meters float64
	for i, p := range report.Points {
		meters += p.DeltaDistance
		xs[i] = strconv.FormatFloat(stats.Round(meters/1000, 2), 'f', 2, 64)
		speeds[i] = opts.LineData{Value: stats.Round(p.DeltaSpeed, 1)}
		elevations[i] = opts.LineData{Value: p.Elevation}
	}

	speed := charts.NewLine()
	speed.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: report.Track.Name, Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Speed", Subtitle: report.Stats.Date}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "km"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "km/h"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	speed.SetXAxis(xs).AddSeries("speed", speeds,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	elevation := charts.NewLine()
	elevation.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: "Elevation"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "km"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m"}),
	)
	elevation.SetXAxis(xs).AddSeries("elevation", elevations,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	page := components.NewPage()
	page.PageTitle = report.Track.Name
	page.AddCharts(speed, elevation)

	if report.Aggregated() && len(report.Laps) > 0 {
		page.AddCharts(lapChart(report.Laps))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render profile: %w", err)
	}
	return buf.Bytes(), nil
}

func lapChart(laps []models.LapSummary) *charts.Bar {
	xs := make([]string, len(laps))
	ys := make([]opts.BarData, len(laps))
	for i, l := range laps {
		xs[i] = "Lap " + strconv.Itoa(l.Index)
		ys[i] = opts.BarData{Value: stats.Round(l.AvgSpeed, 1)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: "Laps", Subtitle: "average speed, km/h"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xs).AddSeries("lap speed", ys,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}
