// Package stats computes point-in-time counters over the current alert
// set. Everything is recomputed per call; there is no cached state.
package stats

import (
	"fmt"
	"math"
	"time"

	"vigia/internal/models"
)

// Summary holds the dashboard counters.
type Summary struct {
	OpenAlerts      int    `json:"openAlerts"`
	InProgress      int    `json:"inProgress"`
	ResolvedToday   int    `json:"resolvedToday"`
	AvgResponseTime string `json:"avgResponseTime"`
}

// Compute aggregates the counters at the given instant. The resolved-today
// window is [local midnight, now) using now's location.
func Compute(alerts []models.Alert, now time.Time) Summary {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var summary Summary
	var totalMinutes float64
	var resolvedCount int

	for _, a := range alerts {
		switch a.Status {
		case models.StatusOpen:
			summary.OpenAlerts++
		case models.StatusInProgress:
			summary.InProgress++
		case models.StatusResolved:
			if a.ResolvedAt == nil {
				continue
			}
			resolvedCount++
			totalMinutes += a.ResolvedAt.Sub(a.CreatedAt).Minutes()

			resolvedAt := a.ResolvedAt.In(now.Location())
			if !resolvedAt.Before(startOfToday) && resolvedAt.Before(now) {
				summary.ResolvedToday++
			}
		}
	}

	summary.AvgResponseTime = formatAvg(totalMinutes, resolvedCount)
	return summary
}

// formatAvg renders the mean resolution time: "{m}min" under an hour,
// "{h}h {m}min" otherwise, "N/A" with no resolved alerts.
func formatAvg(totalMinutes float64, count int) string {
	if count == 0 {
		return "N/A"
	}

	avg := int(math.Round(totalMinutes / float64(count)))
	if avg < 60 {
		return fmt.Sprintf("%dmin", avg)
	}
	return fmt.Sprintf("%dh %dmin", avg/60, avg%60)
}
