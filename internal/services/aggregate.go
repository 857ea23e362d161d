package services

import (
	"sort"
	"time"

	"retail-insights/internal/models"
)

type dailyAcc struct {
	revenue float64
	units   float64
	rows    int
	txns    map[string]struct{}
}

// DailyMetrics collapses row-level transactions into one record per calendar
// date. Txns counts distinct transaction ids: a transaction contributing
// multiple line rows is counted once. AOV is mean total amount per row.
func DailyMetrics(rows []models.Transaction) []models.DailyMetric {
	byDate := make(map[time.Time]*dailyAcc)

	for _, r := range rows {
		day := dateOnly(r.Date)
		acc := byDate[day]
		if acc == nil {
			acc = &dailyAcc{txns: make(map[string]struct{})}
			byDate[day] = acc
		}
		acc.revenue += r.TotalAmount
		acc.units += r.Quantity
		acc.rows++
		acc.txns[r.TransactionID] = struct{}{}
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	daily := make([]models.DailyMetric, 0, len(dates))
	for _, d := range dates {
		acc := byDate[d]
		daily = append(daily, models.DailyMetric{
			Date:    d,
			Revenue: acc.revenue,
			Txns:    len(acc.txns),
			Units:   acc.units,
			AOV:     acc.revenue / float64(acc.rows),
			Dow:     dowLabel(d),
			Month:   monthLabel(d),
			Week:    weekLabel(d),
		})
	}
	return daily
}

type weeklyAcc struct {
	revenue float64
	units   float64
	rows    int
	txns    map[string]struct{}
	days    map[time.Time]struct{}
}

// WeeklyMetrics groups transactions by the week label (week ending Sunday).
func WeeklyMetrics(rows []models.Transaction) []models.WeeklyMetric {
	byWeek := make(map[string]*weeklyAcc)

	for _, r := range rows {
		day := dateOnly(r.Date)
		week := weekLabel(day)
		acc := byWeek[week]
		if acc == nil {
			acc = &weeklyAcc{
				txns: make(map[string]struct{}),
				days: make(map[time.Time]struct{}),
			}
			byWeek[week] = acc
		}
		acc.revenue += r.TotalAmount
		acc.units += r.Quantity
		acc.rows++
		acc.txns[r.TransactionID] = struct{}{}
		acc.days[day] = struct{}{}
	}

	weeks := make([]string, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)

	weekly := make([]models.WeeklyMetric, 0, len(weeks))
	for _, w := range weeks {
		acc := byWeek[w]
		weekly = append(weekly, models.WeeklyMetric{
			Week:    w,
			Revenue: acc.revenue,
			Txns:    len(acc.txns),
			Units:   acc.units,
			AOV:     acc.revenue / float64(acc.rows),
			Days:    len(acc.days),
		})
	}
	return weekly
}

// DailyCategoryMix produces one record per (date, category) pair present in
// the input, with the category's share of that day's revenue. No smoothing
// and no zero-revenue placeholder rows: absent categories are simply absent.
func DailyCategoryMix(rows []models.Transaction) []models.CategoryMix {
	type key struct {
		date     time.Time
		category string
	}

	catRevenue := make(map[key]float64)
	dayRevenue := make(map[time.Time]float64)

	for _, r := range rows {
		day := dateOnly(r.Date)
		k := key{date: day, category: r.Category}
		catRevenue[k] += r.TotalAmount
		dayRevenue[day] += r.TotalAmount
	}

	keys := make([]key, 0, len(catRevenue))
	for k := range catRevenue {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].date.Equal(keys[j].date) {
			return keys[i].date.Before(keys[j].date)
		}
		return keys[i].category < keys[j].category
	})

	mix := make([]models.CategoryMix, 0, len(keys))
	for _, k := range keys {
		rev := catRevenue[k]
		total := dayRevenue[k.date]
		mix = append(mix, models.CategoryMix{
			Date:            k.date,
			Category:        k.category,
			CategoryRevenue: rev,
			DayRevenue:      total,
			CategoryShare:   rev / total,
		})
	}
	return mix
}
