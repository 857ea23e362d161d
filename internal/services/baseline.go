package services

import "retail-insights/internal/models"

// DefaultMinCellDays is the minimum observation count a seasonal context
// needs before its mean is trusted as a baseline.
const DefaultMinCellDays = 2

type monthDowKey struct {
	month string
	dow   string
}

// ExpectedRevenue computes the seasonal baseline for every date in the daily
// table, aligned by index. Each date resolves through a fallback hierarchy:
//
//  1. mean of its (month, day-of-week) cell, if the cell has >= minCellDays,
//  2. else mean of its month pooled across days-of-week,
//  3. else mean of its day-of-week pooled across months,
//  4. else the overall mean.
//
// The cell wins ties at exactly minCellDays. The three lookup tables are
// built once and joined per date, keeping the pass linear in the number of
// distinct dates. Every date receives a defined value.
func ExpectedRevenue(daily []models.DailyMetric, minCellDays int) []float64 {
	if minCellDays < 1 {
		minCellDays = DefaultMinCellDays
	}

	var overall meanCount
	cell := make(map[monthDowKey]*meanCount)
	month := make(map[string]*meanCount)
	dow := make(map[string]*meanCount)

	for _, d := range daily {
		overall.add(d.Revenue)
		ensure(cell, monthDowKey{d.Month, d.Dow}).add(d.Revenue)
		ensure(month, d.Month).add(d.Revenue)
		ensure(dow, d.Dow).add(d.Revenue)
	}

	expected := make([]float64, len(daily))
	for i, d := range daily {
		switch {
		case cell[monthDowKey{d.Month, d.Dow}].count >= minCellDays:
			expected[i] = cell[monthDowKey{d.Month, d.Dow}].mean()
		case month[d.Month].count >= minCellDays:
			expected[i] = month[d.Month].mean()
		case dow[d.Dow].count >= minCellDays:
			expected[i] = dow[d.Dow].mean()
		default:
			expected[i] = overall.mean()
		}
	}
	return expected
}
