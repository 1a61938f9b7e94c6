package seasondomain

import "time"

// Interval is the cadence of a successive season schedule.
type Interval string

const (
	IntervalWeekly     Interval = "WEEKLY"
	IntervalBiWeekly   Interval = "BI_WEEKLY"
	IntervalMonthly    Interval = "MONTHLY"
	IntervalQuarterly  Interval = "QUARTERLY"
	IntervalHalfYearly Interval = "HALF_YEARLY"
	IntervalYearly     Interval = "YEARLY"
)

// Valid reports whether i is a known interval.
func (i Interval) Valid() bool {
	switch i {
	case IntervalWeekly, IntervalBiWeekly, IntervalMonthly,
		IntervalQuarterly, IntervalHalfYearly, IntervalYearly:
		return true
	}
	return false
}

// TruncateToUTCDay normalizes t to midnight UTC. All season date arithmetic
// happens on UTC day boundaries to avoid timezone drift in comparisons.
func TruncateToUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameUTCDay reports whether a and b fall on the same UTC calendar day.
func SameUTCDay(a, b time.Time) bool {
	return TruncateToUTCDay(a).Equal(TruncateToUTCDay(b))
}

// AddDays adds whole days to t on the UTC day boundary.
func AddDays(t time.Time, days int) time.Time {
	return TruncateToUTCDay(t).AddDate(0, 0, days)
}

// AddInterval advances t by one interval on the UTC day boundary.
func AddInterval(t time.Time, i Interval) time.Time {
	day := TruncateToUTCDay(t)
	switch i {
	case IntervalWeekly:
		return day.AddDate(0, 0, 7)
	case IntervalBiWeekly:
		return day.AddDate(0, 0, 14)
	case IntervalMonthly:
		return day.AddDate(0, 1, 0)
	case IntervalQuarterly:
		return day.AddDate(0, 3, 0)
	case IntervalHalfYearly:
		return day.AddDate(0, 6, 0)
	case IntervalYearly:
		return day.AddDate(1, 0, 0)
	}
	return day
}
