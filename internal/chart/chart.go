// Package chart buckets alerts into a trailing 7-day, per-day,
// per-severity histogram for the dashboard chart.
package chart

import (
	"time"

	"vigia/internal/models"
)

// Point is one calendar day of the series.
type Point struct {
	Day      string `json:"day"`
	Critical int    `json:"critical"`
	High     int    `json:"high"`
	Medium   int    `json:"medium"`
	Total    int    `json:"total"`
}

// Weekday abbreviations per supported locale. The chart consumer renders
// them as axis labels, first letter capitalized.
var weekdayLabels = map[string][7]string{
	"pt-BR": {"Dom.", "Seg.", "Ter.", "Qua.", "Qui.", "Sex.", "Sáb."},
	"en":    {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
}

// Build produces the 7-point series from 6 days ago through today, oldest
// first. An alert is attributed to the local calendar day its created_at
// falls within. Low severity is tracked by the data model but is not a
// counted category here.
func Build(alerts []models.Alert, now time.Time, locale string) []Point {
	labels, ok := weekdayLabels[locale]
	if !ok {
		labels = weekdayLabels["en"]
	}

	points := make([]Point, 0, 7)
	for daysAgo := 6; daysAgo >= 0; daysAgo-- {
		day := now.AddDate(0, 0, -daysAgo)
		startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
		endOfDay := startOfDay.AddDate(0, 0, 1)

		p := Point{Day: labels[startOfDay.Weekday()]}

		for _, a := range alerts {
			createdAt := a.CreatedAt.In(now.Location())
			if createdAt.Before(startOfDay) || !createdAt.Before(endOfDay) {
				continue
			}
			switch a.Severity {
			case models.SeverityCritical:
				p.Critical++
			case models.SeverityHigh:
				p.High++
			case models.SeverityMedium:
				p.Medium++
			}
		}

		p.Total = p.Critical + p.High + p.Medium
		points = append(points, p)
	}

	return points
}
