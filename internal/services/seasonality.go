package services

import (
	"sort"

	"retail-insights/internal/models"
)

// DowSummary aggregates the daily table per day-of-week, ordered by the
// canonical week sequence rather than alphabetically. Only observed days of
// the week appear.
func DowSummary(daily []models.DailyMetric) []models.DowSummary {
	revenues := make(map[string][]float64)
	txns := make(map[string]*meanCount)
	units := make(map[string]*meanCount)
	aov := make(map[string]*meanCount)

	for _, d := range daily {
		revenues[d.Dow] = append(revenues[d.Dow], d.Revenue)
		ensure(txns, d.Dow).add(float64(d.Txns))
		ensure(units, d.Dow).add(d.Units)
		ensure(aov, d.Dow).add(d.AOV)
	}

	out := make([]models.DowSummary, 0, len(revenues))
	for _, dow := range DowOrder {
		revs, ok := revenues[dow]
		if !ok {
			continue
		}
		out = append(out, models.DowSummary{
			Dow:                dow,
			AvgDailyRevenue:    mean(revs),
			MedianDailyRevenue: median(revs),
			AvgTxnsPerDay:      txns[dow].mean(),
			AvgUnitsPerDay:     units[dow].mean(),
			AvgAOV:             aov[dow].mean(),
			Days:               len(revs),
		})
	}
	return out
}

// MonthSummary aggregates the daily table per year-month, ordered
// chronologically. Revenue, txns and units are sums over the month's days;
// AOV is the mean of the daily AOVs.
func MonthSummary(daily []models.DailyMetric) []models.MonthSummary {
	type monthAcc struct {
		revenue float64
		txns    int
		units   float64
		aov     meanCount
		days    int
	}

	byMonth := make(map[string]*monthAcc)
	for _, d := range daily {
		acc := byMonth[d.Month]
		if acc == nil {
			acc = &monthAcc{}
			byMonth[d.Month] = acc
		}
		acc.revenue += d.Revenue
		acc.txns += d.Txns
		acc.units += d.Units
		acc.aov.add(d.AOV)
		acc.days++
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	// "YYYY-MM" labels sort chronologically as strings.
	sort.Strings(months)

	out := make([]models.MonthSummary, 0, len(months))
	for _, m := range months {
		acc := byMonth[m]
		out = append(out, models.MonthSummary{
			Month:   m,
			Revenue: acc.revenue,
			Txns:    acc.txns,
			Units:   acc.units,
			AvgAOV:  acc.aov.mean(),
			Days:    acc.days,
		})
	}
	return out
}

// MonthDowGrid builds the (month x day-of-week) grid of mean revenue and
// observation count. A cell with no observed days has a nil mean and a zero
// count, distinguishable from an observed mean of zero.
func MonthDowGrid(daily []models.DailyMetric) models.MonthDowGrid {
	type cellKey struct {
		month string
		dow   string
	}

	cells := make(map[cellKey]*meanCount)
	monthSet := make(map[string]struct{})
	for _, d := range daily {
		monthSet[d.Month] = struct{}{}
		ensure(cells, cellKey{d.Month, d.Dow}).add(d.Revenue)
	}

	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	grid := models.MonthDowGrid{
		Months: months,
		Dows:   append([]string(nil), DowOrder...),
		Cells:  make([][]models.MonthDowCell, len(months)),
	}

	for i, m := range months {
		row := make([]models.MonthDowCell, len(DowOrder))
		for j, dow := range DowOrder {
			if mc, ok := cells[cellKey{m, dow}]; ok {
				v := mc.mean()
				row[j] = models.MonthDowCell{Mean: &v, Days: mc.count}
			}
		}
		grid.Cells[i] = row
	}
	return grid
}

func ensure[K comparable](m map[K]*meanCount, k K) *meanCount {
	mc := m[k]
	if mc == nil {
		mc = &meanCount{}
		m[k] = mc
	}
	return mc
}
