package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// AdoptionSeries is the cumulative growth chart data for a category group:
// one point per calendar day on which at least one theme was added, plus a
// trailing point for today when the last sample is older.
type AdoptionSeries struct {
	Dates  []string `json:"x"`
	Counts []int    `json:"y"`
}

// BuildAdoptionSeries derives the cumulative series from the records'
// youtube_theme_added timestamps (epoch seconds).
func BuildAdoptionSeries(timestamps []int64, now time.Time) AdoptionSeries {
	if len(timestamps) == 0 {
		return AdoptionSeries{}
	}

	sorted := make([]int64, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var series AdoptionSeries
	total := 0
	for i := 0; i < len(sorted); {
		day := time.Unix(sorted[i], 0).UTC().Format("2006-01-02")
		j := i
		for j < len(sorted) && time.Unix(sorted[j], 0).UTC().Format("2006-01-02") == day {
			j++
		}
		total += j - i
		series.Dates = append(series.Dates, day)
		series.Counts = append(series.Counts, total)
		i = j
	}

	today := now.UTC().Format("2006-01-02")
	if series.Dates[len(series.Dates)-1] != today {
		series.Dates = append(series.Dates, today)
		series.Counts = append(series.Counts, total)
	}
	return series
}

// WriteAdoptionSeries persists the chart data for a category group as
// {title}_plot.json, e.g. games_plot.json.
func WriteAdoptionSeries(groupDir, title string, series AdoptionSeries) error {
	payload := struct {
		Data  []AdoptionSeries `json:"data"`
		Title string           `json:"title"`
	}{
		Data:  []AdoptionSeries{series},
		Title: title,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode adoption series: %w", err)
	}
	name := strings.ReplaceAll(strings.ToLower(title), " ", "_") + "_plot.json"
	if err := os.WriteFile(filepath.Join(groupDir, name), data, 0o644); err != nil {
		return fmt.Errorf("write adoption series: %w", err)
	}
	return nil
}
