package services

import "time"

// DowOrder is the canonical week sequence used for every day-of-week
// ordering in the pipeline. Initialized once, treated as immutable.
var DowOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// dateOnly discards the time-of-day component, keeping the calendar day in UTC.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func monthLabel(d time.Time) string {
	return d.Format("2006-01")
}

// weekLabel labels the week containing d as "start/end" where the week ends
// on Sunday. Dates in the same Monday..Sunday span share a label.
func weekLabel(d time.Time) string {
	day := dateOnly(d)
	daysToSunday := (7 - int(day.Weekday())) % 7
	end := day.AddDate(0, 0, daysToSunday)
	start := end.AddDate(0, 0, -6)
	return start.Format("2006-01-02") + "/" + end.Format("2006-01-02")
}

func dowLabel(d time.Time) string {
	return d.Weekday().String()
}
