package stats

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jengzang/ride-stats/internal/models"
)

// FormatDuration renders d as H:MM:SS, dropping fractional seconds.
// Hours are not wrapped at 24.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, total/3600, total/60%60, total%60)
}

// FormatNumber renders an already rounded value without trailing zeros
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Entries returns the stats mapping in print order. Rest Duration and Lap Best
// only appear when they were collected.
func Entries(rs models.RideStats) []models.StatEntry {
	entries := []models.StatEntry{
		{Label: models.StatDate, Value: rs.Date},
		{Label: models.StatName, Value: rs.Name},
		{Label: models.StatKm, Value: FormatNumber(rs.Km)},
		{Label: models.StatTourDuration, Value: FormatDuration(rs.Duration)},
		{Label: models.StatTourAvg, Value: FormatNumber(rs.AvgSpeed)},
		{Label: models.StatMax, Value: FormatNumber(rs.MaxSpeed)},
	}
	if rs.RestDuration != nil {
		entries = append(entries, models.StatEntry{Label: models.StatRestDuration, Value: FormatDuration(*rs.RestDuration)})
	}
	if rs.LapBest != nil {
		entries = append(entries, models.StatEntry{Label: models.StatLapBest, Value: FormatNumber(*rs.LapBest)})
	}
	return entries
}
