package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"retail-insights/internal/models"
	"retail-insights/internal/services"
)

// Output file names within the export directory.
const (
	FileDailyMetrics  = "daily_metrics.csv"
	FileWeeklyMetrics = "weekly_metrics.csv"
	FileCategoryMix   = "daily_category_mix.csv"
	FileScoredDaily   = "daily_scored.csv"
	FileSpikeDays     = "spike_days.csv"
	FileSpikeCards    = "spike_cards.json"
	FileQuality       = "quality_summary.json"
)

const dateFormat = "2006-01-02"

// WriteTables writes every output table of a run into dir, regenerating the
// files wholesale. topN bounds the spike_days.csv projection only; the
// scored table always carries all dates.
func WriteTables(dir string, ins *services.Insights, topN int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	daily := [][]string{{"date", "revenue", "txns", "units", "aov", "dow", "month", "week"}}
	for _, d := range ins.Daily {
		daily = append(daily, []string{
			d.Date.Format(dateFormat), ftoa(d.Revenue), strconv.Itoa(d.Txns),
			ftoa(d.Units), ftoa(d.AOV), d.Dow, d.Month, d.Week,
		})
	}
	if err := writeCSV(filepath.Join(dir, FileDailyMetrics), daily); err != nil {
		return err
	}

	weekly := [][]string{{"week", "revenue", "txns", "units", "aov", "n_days"}}
	for _, w := range ins.Weekly {
		weekly = append(weekly, []string{
			w.Week, ftoa(w.Revenue), strconv.Itoa(w.Txns),
			ftoa(w.Units), ftoa(w.AOV), strconv.Itoa(w.Days),
		})
	}
	if err := writeCSV(filepath.Join(dir, FileWeeklyMetrics), weekly); err != nil {
		return err
	}

	mix := [][]string{{"date", "product_category", "category_revenue", "day_revenue", "category_share"}}
	for _, m := range ins.Mix {
		mix = append(mix, []string{
			m.Date.Format(dateFormat), m.Category,
			ftoa(m.CategoryRevenue), ftoa(m.DayRevenue), ftoa(m.CategoryShare),
		})
	}
	if err := writeCSV(filepath.Join(dir, FileCategoryMix), mix); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, FileScoredDaily), scoredRows(ins.Scored)); err != nil {
		return err
	}

	spikes := ins.Ranked
	if topN >= 0 && topN < len(spikes) {
		spikes = spikes[:topN]
	}
	if err := writeCSV(filepath.Join(dir, FileSpikeDays), scoredRows(spikes)); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(dir, FileSpikeCards), ins.Cards); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, FileQuality), ins.Quality)
}

func scoredRows(scored []models.ScoredDay) [][]string {
	rows := [][]string{{
		"date", "dow", "month", "week",
		"revenue", "expected_revenue", "residual",
		"txns", "units", "aov",
		"robust_z_revenue", "robust_z_residual",
	}}
	for _, s := range scored {
		rows = append(rows, []string{
			s.Date.Format(dateFormat), s.Dow, s.Month, s.Week,
			ftoa(s.Revenue), ftoa(s.ExpectedRevenue), ftoa(s.Residual),
			strconv.Itoa(s.Txns), ftoa(s.Units), ftoa(s.AOV),
			ftoa(s.RobustZRevenue), ftoa(s.RobustZResidual),
		})
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
