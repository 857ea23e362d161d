package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"retail-insights/internal/models"
	"retail-insights/internal/services"
)

// WriteWorkbook exports the output tables as one Excel workbook with a sheet
// per table.
func WriteWorkbook(path string, ins *services.Insights, topN int) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Daily", dailySheet(ins)); err != nil {
		return err
	}
	if err := writeSheet(f, "Weekly", weeklySheet(ins)); err != nil {
		return err
	}
	if err := writeSheet(f, "CategoryMix", mixSheet(ins)); err != nil {
		return err
	}
	if err := writeSheet(f, "Scored", scoredSheet(ins.Scored)); err != nil {
		return err
	}

	spikes := ins.Ranked
	if topN >= 0 && topN < len(spikes) {
		spikes = spikes[:topN]
	}
	if err := writeSheet(f, "SpikeDays", scoredSheet(spikes)); err != nil {
		return err
	}
	if err := writeSheet(f, "DowSummary", dowSheet(ins)); err != nil {
		return err
	}
	if err := writeSheet(f, "MonthSummary", monthSheet(ins)); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on Daily.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %s: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("set row %d on %s: %w", i+1, name, err)
		}
	}
	return nil
}

func dailySheet(ins *services.Insights) [][]any {
	rows := [][]any{{"date", "revenue", "txns", "units", "aov", "dow", "month", "week"}}
	for _, d := range ins.Daily {
		rows = append(rows, []any{d.Date.Format(dateFormat), d.Revenue, d.Txns, d.Units, d.AOV, d.Dow, d.Month, d.Week})
	}
	return rows
}

func weeklySheet(ins *services.Insights) [][]any {
	rows := [][]any{{"week", "revenue", "txns", "units", "aov", "n_days"}}
	for _, w := range ins.Weekly {
		rows = append(rows, []any{w.Week, w.Revenue, w.Txns, w.Units, w.AOV, w.Days})
	}
	return rows
}

func mixSheet(ins *services.Insights) [][]any {
	rows := [][]any{{"date", "product_category", "category_revenue", "day_revenue", "category_share"}}
	for _, m := range ins.Mix {
		rows = append(rows, []any{m.Date.Format(dateFormat), m.Category, m.CategoryRevenue, m.DayRevenue, m.CategoryShare})
	}
	return rows
}

func scoredSheet(scored []models.ScoredDay) [][]any {
	rows := [][]any{{
		"date", "dow", "month", "week",
		"revenue", "expected_revenue", "residual",
		"txns", "units", "aov",
		"robust_z_revenue", "robust_z_residual",
	}}
	for _, s := range scored {
		rows = append(rows, []any{
			s.Date.Format(dateFormat), s.Dow, s.Month, s.Week,
			s.Revenue, s.ExpectedRevenue, s.Residual,
			s.Txns, s.Units, s.AOV,
			s.RobustZRevenue, s.RobustZResidual,
		})
	}
	return rows
}

func dowSheet(ins *services.Insights) [][]any {
	rows := [][]any{{"dow", "avg_daily_revenue", "median_daily_revenue", "avg_txns_per_day", "avg_units_per_day", "avg_aov", "n_days"}}
	for _, d := range ins.Dow {
		rows = append(rows, []any{d.Dow, d.AvgDailyRevenue, d.MedianDailyRevenue, d.AvgTxnsPerDay, d.AvgUnitsPerDay, d.AvgAOV, d.Days})
	}
	return rows
}

func monthSheet(ins *services.Insights) [][]any {
	rows := [][]any{{"month", "revenue", "txns", "units", "aov", "n_days"}}
	for _, m := range ins.Months {
		rows = append(rows, []any{m.Month, m.Revenue, m.Txns, m.Units, m.AvgAOV, m.Days})
	}
	return rows
}
